package fantasy

import (
	"errors"
	"testing"

	"github.com/riskibarqy/iihf-fantasy/internal/domain/lineup"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/player"
)

func testRoster() map[int64]player.Player {
	out := make(map[int64]player.Player)
	add := func(id int64, pos player.Position) {
		out[id] = player.Player{ID: id, Name: "P", Position: pos, TeamAbbr: "CAN", ChampionshipYear: 2025}
	}
	for id := int64(1); id <= 4; id++ {
		add(id, player.PositionForward)
	}
	for id := int64(11); id <= 13; id++ {
		add(id, player.PositionDefender)
	}
	for id := int64(21); id <= 22; id++ {
		add(id, player.PositionGoalkeeper)
	}
	return out
}

func TestValidateSelections(t *testing.T) {
	t.Parallel()

	roster := testRoster()
	tests := []struct {
		name       string
		selections []lineup.Selection
		reason     error
		check      func(t *testing.T, lerr *LineupError)
	}{
		{
			name: "full valid lineup",
			selections: []lineup.Selection{
				{PlayerID: 1, IsCaptain: true}, {PlayerID: 2}, {PlayerID: 3},
				{PlayerID: 11}, {PlayerID: 12}, {PlayerID: 21},
			},
		},
		{
			name:       "partial lineup is accepted",
			selections: []lineup.Selection{{PlayerID: 21, IsCaptain: true}},
		},
		{
			name:   "empty",
			reason: ErrEmptyLineup,
		},
		{
			name:       "no captain",
			selections: []lineup.Selection{{PlayerID: 1}, {PlayerID: 2}},
			reason:     ErrCaptainCount,
			check: func(t *testing.T, lerr *LineupError) {
				if lerr.Count != 0 {
					t.Fatalf("unexpected captain count: got=%d want=0", lerr.Count)
				}
			},
		},
		{
			name:       "two captains",
			selections: []lineup.Selection{{PlayerID: 1, IsCaptain: true}, {PlayerID: 2, IsCaptain: true}},
			reason:     ErrCaptainCount,
			check: func(t *testing.T, lerr *LineupError) {
				if lerr.Count != 2 {
					t.Fatalf("unexpected captain count: got=%d want=2", lerr.Count)
				}
			},
		},
		{
			name:       "duplicate player",
			selections: []lineup.Selection{{PlayerID: 1, IsCaptain: true}, {PlayerID: 1}},
			reason:     ErrDuplicatePlayer,
		},
		{
			name:       "unknown player",
			selections: []lineup.Selection{{PlayerID: 1, IsCaptain: true}, {PlayerID: 999}},
			reason:     ErrPlayerNotFound,
			check: func(t *testing.T, lerr *LineupError) {
				if lerr.PlayerID != 999 {
					t.Fatalf("unexpected player id: got=%d want=999", lerr.PlayerID)
				}
			},
		},
		{
			name: "four forwards among six",
			selections: []lineup.Selection{
				{PlayerID: 1, IsCaptain: true}, {PlayerID: 2}, {PlayerID: 3}, {PlayerID: 4},
				{PlayerID: 11}, {PlayerID: 21},
			},
			reason: ErrSlotLimitExceeded,
			check: func(t *testing.T, lerr *LineupError) {
				if lerr.Position != player.PositionForward || lerr.Limit != 3 || lerr.Count != 4 {
					t.Fatalf("unexpected slot detail: %+v", lerr)
				}
			},
		},
		{
			name: "two goalkeepers",
			selections: []lineup.Selection{
				{PlayerID: 21, IsCaptain: true}, {PlayerID: 22},
			},
			reason: ErrSlotLimitExceeded,
			check: func(t *testing.T, lerr *LineupError) {
				if lerr.Position != player.PositionGoalkeeper || lerr.Limit != 1 || lerr.Count != 2 {
					t.Fatalf("unexpected slot detail: %+v", lerr)
				}
			},
		},
		{
			name: "forward limit reported before defender limit",
			selections: []lineup.Selection{
				{PlayerID: 1, IsCaptain: true}, {PlayerID: 2}, {PlayerID: 3}, {PlayerID: 4},
				{PlayerID: 11}, {PlayerID: 12}, {PlayerID: 13},
			},
			reason: ErrSlotLimitExceeded,
			check: func(t *testing.T, lerr *LineupError) {
				if lerr.Position != player.PositionForward {
					t.Fatalf("unexpected position: got=%s want=%s", lerr.Position, player.PositionForward)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateSelections(tc.selections, roster, DefaultSlotLimits())
			if tc.reason == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			if !errors.Is(err, ErrInvalidLineup) {
				t.Fatalf("expected invalid lineup kind, got=%v", err)
			}
			if !errors.Is(err, tc.reason) {
				t.Fatalf("unexpected reason: got=%v want=%v", err, tc.reason)
			}
			var lerr *LineupError
			if !errors.As(err, &lerr) {
				t.Fatalf("expected *LineupError, got %T", err)
			}
			if tc.check != nil {
				tc.check(t, lerr)
			}
		})
	}
}

func TestLocked(t *testing.T) {
	t.Parallel()

	err := Locked(player.Player{ID: 7, Name: "Connor McDavid", Position: player.PositionForward})
	if !errors.Is(err, ErrInvalidLineup) || !errors.Is(err, ErrPlayerLocked) {
		t.Fatalf("unexpected error kind: %v", err)
	}
	want := "invalid lineup: player is locked (player=7 Connor McDavid)"
	if err.Error() != want {
		t.Fatalf("unexpected message: got=%q want=%q", err.Error(), want)
	}
}

func TestLineupError_SlotMessage(t *testing.T) {
	t.Parallel()

	err := &LineupError{Reason: ErrSlotLimitExceeded, Position: player.PositionForward, Limit: 3, Count: 4}
	want := "invalid lineup: position slot limit exceeded (position=Forward limit=3 count=4)"
	if err.Error() != want {
		t.Fatalf("unexpected message: got=%q want=%q", err.Error(), want)
	}
}

func TestSlotLimits_Accessors(t *testing.T) {
	t.Parallel()

	limits := DefaultSlotLimits()
	got := limits.Positions()
	want := []player.Position{player.PositionForward, player.PositionDefender, player.PositionGoalkeeper}
	if len(got) != len(want) {
		t.Fatalf("unexpected positions: got=%v want=%v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected position order: got=%v want=%v", got, want)
		}
	}

	got[0] = player.PositionGoalkeeper
	if limits.Positions()[0] != player.PositionForward {
		t.Fatalf("positions must be returned as a copy")
	}
	if v, ok := limits.Limit(player.PositionDefender); !ok || v != 2 {
		t.Fatalf("unexpected defender limit: got=%d ok=%v", v, ok)
	}
	if _, ok := limits.Limit(player.Position("Coach")); ok {
		t.Fatalf("unexpected limit for unknown position")
	}
}

func TestValidateSelections_UnlimitedPositionRejected(t *testing.T) {
	t.Parallel()

	skatersOnly := NewSlotLimits(
		SlotLimit{Position: player.PositionForward, Max: 3},
		SlotLimit{Position: player.PositionDefender, Max: 2},
	)
	tests := []struct {
		name    string
		pos     player.Position
		limits  SlotLimits
		wantPos player.Position
	}{
		{name: "position outside the defaults", pos: player.Position("Coach"), limits: DefaultSlotLimits(), wantPos: player.Position("Coach")},
		{name: "goalkeeper without a slot", pos: player.PositionGoalkeeper, limits: skatersOnly, wantPos: player.PositionGoalkeeper},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			roster := map[int64]player.Player{
				1: {ID: 1, Name: "Nikita Kucherov", Position: player.PositionForward},
				2: {ID: 2, Name: "X", Position: tt.pos},
			}
			err := ValidateSelections([]lineup.Selection{{PlayerID: 1, IsCaptain: true}, {PlayerID: 2}}, roster, tt.limits)
			if !errors.Is(err, ErrSlotLimitExceeded) {
				t.Fatalf("unexpected error: got=%v want=%v", err, ErrSlotLimitExceeded)
			}
			var lineupErr *LineupError
			if !errors.As(err, &lineupErr) || lineupErr.Position != tt.wantPos || lineupErr.Limit != 0 || lineupErr.Count != 1 {
				t.Fatalf("unexpected rejection detail: %v", err)
			}
		})
	}
}
