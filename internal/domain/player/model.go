package player

import (
	"fmt"
	"strings"
)

// Position represents hockey roster slots used in fantasy rules.
type Position string

const (
	PositionForward    Position = "Forward"
	PositionDefender   Position = "Defender"
	PositionGoalkeeper Position = "Goalkeeper"
)

var AllPositions = map[Position]struct{}{
	PositionForward:    {},
	PositionDefender:   {},
	PositionGoalkeeper: {},
}

var positionAliases = map[string]Position{
	"forward":    PositionForward,
	"f":          PositionForward,
	"fw":         PositionForward,
	"fwd":        PositionForward,
	"defender":   PositionDefender,
	"defence":    PositionDefender,
	"defense":    PositionDefender,
	"defenceman": PositionDefender,
	"defenseman": PositionDefender,
	"d":          PositionDefender,
	"def":        PositionDefender,
	"goalkeeper": PositionGoalkeeper,
	"goalie":     PositionGoalkeeper,
	"g":          PositionGoalkeeper,
	"gk":         PositionGoalkeeper,
}

// NormalizePosition maps roster feed spellings to a canonical position.
// Unknown values fall back to Forward and report ok=false.
func NormalizePosition(raw string) (Position, bool) {
	pos, ok := positionAliases[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return PositionForward, false
	}
	return pos, true
}

// Player is one tournament roster entry.
type Player struct {
	ID               int64
	Name             string
	Position         Position
	TeamAbbr         string
	ChampionshipYear int
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	if strings.TrimSpace(p.TeamAbbr) == "" {
		return fmt.Errorf("player team abbreviation is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}
	if p.ChampionshipYear <= 0 {
		return fmt.Errorf("player championship year is required")
	}

	return nil
}
