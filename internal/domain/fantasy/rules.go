package fantasy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/iihf-fantasy/internal/domain/lineup"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/player"
)

// ErrInvalidLineup is the outer kind of every lineup rejection. The reason
// sentinels below tell the rejections apart.
var ErrInvalidLineup = errors.New("invalid lineup")

var (
	ErrEmptyLineup       = errors.New("lineup has no selections")
	ErrCaptainCount      = errors.New("lineup needs exactly one captain")
	ErrDuplicatePlayer   = errors.New("player selected more than once")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrSlotLimitExceeded = errors.New("position slot limit exceeded")
	ErrPlayerLocked      = errors.New("player is locked")
)

// LineupError carries the detail a caller needs to fix a submission.
type LineupError struct {
	Reason     error
	PlayerID   int64
	PlayerName string
	Position   player.Position
	Limit      int
	Count      int
}

func (e *LineupError) Error() string {
	var b strings.Builder
	b.WriteString(ErrInvalidLineup.Error())
	b.WriteString(": ")
	b.WriteString(e.Reason.Error())
	switch {
	case errors.Is(e.Reason, ErrSlotLimitExceeded):
		fmt.Fprintf(&b, " (position=%s limit=%d count=%d)", e.Position, e.Limit, e.Count)
	case errors.Is(e.Reason, ErrCaptainCount):
		fmt.Fprintf(&b, " (count=%d)", e.Count)
	case e.PlayerName != "":
		fmt.Fprintf(&b, " (player=%d %s)", e.PlayerID, e.PlayerName)
	case e.PlayerID != 0:
		fmt.Fprintf(&b, " (player=%d)", e.PlayerID)
	}
	return b.String()
}

func (e *LineupError) Unwrap() []error {
	return []error{ErrInvalidLineup, e.Reason}
}

// SlotLimits caps selections per position for one (user, day) lineup.
// Positions are checked in the order they were declared.
type SlotLimits struct {
	order  []player.Position
	limits map[player.Position]int
}

func DefaultSlotLimits() SlotLimits {
	return NewSlotLimits(
		SlotLimit{Position: player.PositionForward, Max: 3},
		SlotLimit{Position: player.PositionDefender, Max: 2},
		SlotLimit{Position: player.PositionGoalkeeper, Max: 1},
	)
}

type SlotLimit struct {
	Position player.Position
	Max      int
}

func NewSlotLimits(items ...SlotLimit) SlotLimits {
	out := SlotLimits{
		order:  make([]player.Position, 0, len(items)),
		limits: make(map[player.Position]int, len(items)),
	}
	for _, item := range items {
		if _, exists := out.limits[item.Position]; !exists {
			out.order = append(out.order, item.Position)
		}
		out.limits[item.Position] = item.Max
	}
	return out
}

func (l SlotLimits) Limit(pos player.Position) (int, bool) {
	v, ok := l.limits[pos]
	return v, ok
}

func (l SlotLimits) Positions() []player.Position {
	return append([]player.Position(nil), l.order...)
}

// ValidateSelections runs every check that needs no clock: selection count,
// captaincy, duplicates, player resolution and slot limits. roster must hold
// every known player keyed by id. The first failing check is returned as a
// *LineupError.
func ValidateSelections(selections []lineup.Selection, roster map[int64]player.Player, limits SlotLimits) error {
	if len(selections) == 0 {
		return &LineupError{Reason: ErrEmptyLineup}
	}

	captains := 0
	for _, sel := range selections {
		if sel.IsCaptain {
			captains++
		}
	}
	if captains != 1 {
		return &LineupError{Reason: ErrCaptainCount, Count: captains}
	}

	seen := make(map[int64]struct{}, len(selections))
	for _, sel := range selections {
		if _, exists := seen[sel.PlayerID]; exists {
			return &LineupError{Reason: ErrDuplicatePlayer, PlayerID: sel.PlayerID}
		}
		seen[sel.PlayerID] = struct{}{}
	}

	counts := make(map[player.Position]int, len(limits.order))
	for _, sel := range selections {
		p, ok := roster[sel.PlayerID]
		if !ok {
			return &LineupError{Reason: ErrPlayerNotFound, PlayerID: sel.PlayerID}
		}
		counts[p.Position]++
		if _, limited := limits.limits[p.Position]; !limited {
			return &LineupError{Reason: ErrSlotLimitExceeded, Position: p.Position, Count: counts[p.Position]}
		}
	}

	for _, pos := range limits.order {
		if limit := limits.limits[pos]; counts[pos] > limit {
			return &LineupError{Reason: ErrSlotLimitExceeded, Position: pos, Limit: limit, Count: counts[pos]}
		}
	}

	return nil
}

// Locked builds the rejection for a player whose match has started.
func Locked(p player.Player) error {
	return &LineupError{Reason: ErrPlayerLocked, PlayerID: p.ID, PlayerName: p.Name, Position: p.Position}
}
