package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/iihf-fantasy/internal/domain/fantasy"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/lineup"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/match"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/player"
)

func TestLineupService_Save_ValidLineup(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	svc := f.lineupService(fixtureNow)

	view, err := svc.Save(t.Context(), SaveLineupInput{
		UserID: aliceID,
		Day:    1,
		Selections: f.selections(t,
			"Aleksander Barkov", "Mikael Granlund", "Sebastian Aho",
			"Miro Heiskanen", "Esa Lindell", "Juuse Saros",
		),
	})
	if err != nil {
		t.Fatalf("save lineup failed: %v", err)
	}

	if len(view.Entries) != 6 {
		t.Fatalf("unexpected entry count: got=%d want=6", len(view.Entries))
	}
	captains := 0
	for _, e := range view.Entries {
		if e.IsCaptain {
			captains++
			if e.Player.Name != "Aleksander Barkov" {
				t.Fatalf("unexpected captain: %s", e.Player.Name)
			}
		}
		if e.Locked {
			t.Fatalf("new entry must not be locked: %+v", e)
		}
	}
	if captains != 1 {
		t.Fatalf("unexpected captain count: got=%d want=1", captains)
	}
}

func TestLineupService_Save_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		userID     string
		day        int
		players    []string
		wantErr    error
		wantLimit  int
		wantCount  int
		wantPlayer string
	}{
		{
			name:    "missing user",
			userID:  "0196b3c4-0000-7000-8000-0000000000ff",
			day:     1,
			players: []string{"Aleksander Barkov"},
			wantErr: ErrNotFound,
		},
		{
			name:    "non positive day",
			userID:  aliceID,
			day:     0,
			players: []string{"Aleksander Barkov"},
			wantErr: ErrInvalidInput,
		},
		{
			name:   "four forwards",
			userID: aliceID,
			day:    1,
			players: []string{
				"Aleksander Barkov", "Mikael Granlund", "Sebastian Aho", "Patrik Laine",
				"Miro Heiskanen", "Juuse Saros",
			},
			wantErr:   fantasy.ErrSlotLimitExceeded,
			wantLimit: 3,
			wantCount: 4,
		},
		{
			name:       "started match locks player",
			userID:     aliceID,
			day:        1,
			players:    []string{"Aleksander Barkov", "William Nylander"},
			wantErr:    fantasy.ErrPlayerLocked,
			wantPlayer: "William Nylander",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			svc := f.lineupService(fixtureNow)

			_, err := svc.Save(t.Context(), SaveLineupInput{UserID: tt.userID, Day: tt.day, Selections: f.selections(t, tt.players...)})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("unexpected error: got=%v want=%v", err, tt.wantErr)
			}

			var lineupErr *fantasy.LineupError
			if errors.As(err, &lineupErr) {
				if !errors.Is(err, fantasy.ErrInvalidLineup) {
					t.Fatalf("lineup error must match ErrInvalidLineup: %v", err)
				}
				if tt.wantLimit != 0 && (lineupErr.Limit != tt.wantLimit || lineupErr.Count != tt.wantCount || lineupErr.Position != player.PositionForward) {
					t.Fatalf("unexpected slot report: got=%s %d/%d want=Forward %d/%d", lineupErr.Position, lineupErr.Count, lineupErr.Limit, tt.wantCount, tt.wantLimit)
				}
				if tt.wantPlayer != "" && lineupErr.PlayerName != tt.wantPlayer {
					t.Fatalf("unexpected locked player: got=%s want=%s", lineupErr.PlayerName, tt.wantPlayer)
				}
			}

			entries, err := f.store.Repositories().Lineups.List(t.Context(), lineup.Filter{UserID: aliceID})
			if err != nil {
				t.Fatalf("list entries: %v", err)
			}
			if len(entries) != 0 {
				t.Fatalf("rejected lineup must not be stored, got %d entries", len(entries))
			}
		})
	}
}

func TestLineupService_Save_ResubmitChangesCaptain(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	svc := f.lineupService(fixtureNow)
	ctx := t.Context()

	if _, err := svc.Save(ctx, SaveLineupInput{UserID: aliceID, Day: 1, Selections: f.selections(t, "Aleksander Barkov", "Mikael Granlund")}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	view, err := svc.Save(ctx, SaveLineupInput{UserID: aliceID, Day: 1, Selections: f.selections(t, "Mikael Granlund", "Aleksander Barkov")})
	if err != nil {
		t.Fatalf("second save: %v", err)
	}

	if len(view.Entries) != 2 {
		t.Fatalf("unexpected entry count: got=%d want=2", len(view.Entries))
	}
	for _, e := range view.Entries {
		wantCaptain := e.Player.Name == "Mikael Granlund"
		if e.IsCaptain != wantCaptain {
			t.Fatalf("unexpected captaincy for %s: got=%v want=%v", e.Player.Name, e.IsCaptain, wantCaptain)
		}
	}
}

func TestLineupService_Save_ResubmitReplacesUnlockedEntries(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	svc := f.lineupService(fixtureNow)
	ctx := t.Context()

	if _, err := svc.Save(ctx, SaveLineupInput{UserID: aliceID, Day: 2, Selections: f.selections(t, "Aleksander Barkov", "Mikael Granlund", "Sebastian Aho")}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	view, err := svc.Save(ctx, SaveLineupInput{UserID: aliceID, Day: 2, Selections: f.selections(t, "Patrik Laine")})
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if len(view.Entries) != 1 || view.Entries[0].Player.Name != "Patrik Laine" || !view.Entries[0].IsCaptain {
		t.Fatalf("unexpected lineup after resubmit: %+v", view.Entries)
	}

	entries, err := f.store.Repositories().Lineups.List(ctx, lineup.Filter{UserID: aliceID, Day: 2})
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	forwards, captains := 0, 0
	for _, e := range entries {
		if e.IsCaptain {
			captains++
		}
		for _, p := range f.players {
			if p.ID == e.PlayerID && p.Position == player.PositionForward {
				forwards++
			}
		}
	}
	if len(entries) != 1 || forwards != 1 || captains != 1 {
		t.Fatalf("unexpected stored lineup: entries=%d forwards=%d captains=%d want=1/1/1", len(entries), forwards, captains)
	}
}

func TestLineupService_Save_ResubmitCountsLockedEntries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		players   []string
		wantErr   error
		wantCount int
	}{
		{
			name:      "second captain next to a locked captain",
			players:   []string{"David Pastrnak", "Sebastian Aho"},
			wantErr:   fantasy.ErrCaptainCount,
			wantCount: 2,
		},
		{
			name:      "locked forwards fill the slots",
			players:   []string{"Aleksander Barkov", "Sebastian Aho", "Patrik Laine"},
			wantErr:   fantasy.ErrSlotLimitExceeded,
			wantCount: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			ctx := t.Context()

			if _, err := f.lineupService(fixtureNow).Save(ctx, SaveLineupInput{UserID: aliceID, Day: 1, Selections: f.selections(t, "Aleksander Barkov", "Mikael Granlund")}); err != nil {
				t.Fatalf("save: %v", err)
			}
			later := f.lineupService(f.matches["FIN-CZE"].MatchTime.Add(time.Minute))
			if _, err := later.LockStarted(ctx); err != nil {
				t.Fatalf("lock started: %v", err)
			}
			if err := f.store.Repositories().Matches.UpdateStatus(ctx, f.matches["FIN-CZE"].ID, match.StatusCompleted); err != nil {
				t.Fatalf("complete match: %v", err)
			}

			_, err := later.Save(ctx, SaveLineupInput{UserID: aliceID, Day: 1, Selections: f.selections(t, tt.players...)})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("unexpected error: got=%v want=%v", err, tt.wantErr)
			}
			var lineupErr *fantasy.LineupError
			if !errors.As(err, &lineupErr) || lineupErr.Count != tt.wantCount {
				t.Fatalf("unexpected rejection detail: got=%v want count=%d", err, tt.wantCount)
			}

			entries, err := f.store.Repositories().Lineups.List(ctx, lineup.Filter{UserID: aliceID, Day: 1})
			if err != nil {
				t.Fatalf("list entries: %v", err)
			}
			if len(entries) != 2 {
				t.Fatalf("rejected resubmit changed the lineup: got %d entries want=2", len(entries))
			}
		})
	}
}

func TestLineupService_LockedEntryKeepsCaptaincy(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := t.Context()

	if _, err := f.lineupService(fixtureNow).Save(ctx, SaveLineupInput{UserID: aliceID, Day: 1, Selections: f.selections(t, "Aleksander Barkov", "Mikael Granlund")}); err != nil {
		t.Fatalf("save: %v", err)
	}

	afterFaceoff := f.matches["FIN-CZE"].MatchTime.Add(time.Minute)
	later := f.lineupService(afterFaceoff)
	locked, err := later.LockStarted(ctx)
	if err != nil {
		t.Fatalf("lock started: %v", err)
	}
	if locked != 2 {
		t.Fatalf("unexpected locked count: got=%d want=2", locked)
	}

	// A completed match no longer blocks submissions, but locked entries
	// must still ignore the new captain.
	if err := f.store.Repositories().Matches.UpdateStatus(ctx, f.matches["FIN-CZE"].ID, match.StatusCompleted); err != nil {
		t.Fatalf("complete match: %v", err)
	}
	view, err := later.Save(ctx, SaveLineupInput{UserID: aliceID, Day: 1, Selections: f.selections(t, "Mikael Granlund", "Aleksander Barkov")})
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	for _, e := range view.Entries {
		if !e.Locked {
			t.Fatalf("expected %s to stay locked", e.Player.Name)
		}
		wantCaptain := e.Player.Name == "Aleksander Barkov"
		if e.IsCaptain != wantCaptain {
			t.Fatalf("locked captaincy changed for %s: got=%v want=%v", e.Player.Name, e.IsCaptain, wantCaptain)
		}
	}
}

func TestLineupService_GetAndListByDay(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	svc := f.lineupService(fixtureNow)
	ctx := t.Context()

	empty, err := svc.Get(ctx, carolID, 1)
	if err != nil {
		t.Fatalf("get empty lineup: %v", err)
	}
	if empty.Entries == nil || len(empty.Entries) != 0 {
		t.Fatalf("expected empty non-nil entries, got %#v", empty.Entries)
	}

	if _, err := svc.Save(ctx, SaveLineupInput{UserID: aliceID, Day: 1, Selections: f.selections(t, "Aleksander Barkov")}); err != nil {
		t.Fatalf("save alice: %v", err)
	}
	if _, err := svc.Save(ctx, SaveLineupInput{UserID: bobID, Day: 1, Selections: f.selections(t, "David Pastrnak", "Lukas Dostal")}); err != nil {
		t.Fatalf("save bob: %v", err)
	}
	if _, err := svc.Save(ctx, SaveLineupInput{UserID: bobID, Day: 2, Selections: f.selections(t, "Patrik Laine")}); err != nil {
		t.Fatalf("save bob day 2: %v", err)
	}

	views, err := svc.ListByDay(ctx, 1)
	if err != nil {
		t.Fatalf("list by day: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("unexpected lineup count: got=%d want=2", len(views))
	}
	if views[0].UserID != aliceID || views[1].UserID != bobID {
		t.Fatalf("unexpected lineup order: %s, %s", views[0].UserID, views[1].UserID)
	}
	if len(views[1].Entries) != 2 {
		t.Fatalf("unexpected bob entries: got=%d want=2", len(views[1].Entries))
	}

	if _, err := svc.ListByDay(ctx, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unexpected error: got=%v want=%v", err, ErrInvalidInput)
	}
}
