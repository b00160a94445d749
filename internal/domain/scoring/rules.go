package scoring

import (
	"math"

	"github.com/riskibarqy/iihf-fantasy/internal/domain/player"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/playerstat"
)

// Weights holds per-event point values for one position. Events a position
// does not score on stay zero.
type Weights struct {
	Goal            float64 `json:"goal"`
	Assist          float64 `json:"assist"`
	PowerPlayGoal   float64 `json:"power_play_goal"`
	ShorthandedGoal float64 `json:"shorthanded_goal"`
	GameWinningGoal float64 `json:"game_winning_goal"`
	Win             float64 `json:"win"`
	Save            float64 `json:"save"`
	GoalsAgainst    float64 `json:"goals_against"`
}

const DefaultCaptainMultiplier = 2.0

// Rules is the scoring configuration. It is a value type whose table is
// copied on construction and on read, so a Rules cannot be mutated after
// it is built.
type Rules struct {
	weights           map[player.Position]Weights
	captainMultiplier float64
}

func DefaultRules() Rules {
	return NewRules(map[player.Position]Weights{
		player.PositionForward: {
			Goal:            3,
			Assist:          2,
			PowerPlayGoal:   1,
			ShorthandedGoal: 1,
			GameWinningGoal: 1,
			Win:             1,
		},
		player.PositionDefender: {
			Goal:            4,
			Assist:          3,
			PowerPlayGoal:   1,
			ShorthandedGoal: 1,
			GameWinningGoal: 1,
			Win:             1,
		},
		player.PositionGoalkeeper: {
			Win:          3,
			Save:         0.2,
			GoalsAgainst: -1,
		},
	}, DefaultCaptainMultiplier)
}

func NewRules(weights map[player.Position]Weights, captainMultiplier float64) Rules {
	table := make(map[player.Position]Weights, len(weights))
	for pos, w := range weights {
		table[pos] = w
	}
	return Rules{weights: table, captainMultiplier: captainMultiplier}
}

// Weights returns the table of pos; unknown positions report ok=false.
func (r Rules) Weights(pos player.Position) (Weights, bool) {
	w, ok := r.weights[pos]
	return w, ok
}

// Table returns a copy of the whole weight table.
func (r Rules) Table() map[player.Position]Weights {
	out := make(map[player.Position]Weights, len(r.weights))
	for pos, w := range r.weights {
		out[pos] = w
	}
	return out
}

func (r Rules) CaptainMultiplier() float64 {
	return r.captainMultiplier
}

// Score maps one stat line to fantasy points. Skaters score on goals and
// their bonuses, goalkeepers on saves and goals against; a win counts for
// both. Unknown positions score zero.
func (r Rules) Score(line playerstat.Line, pos player.Position, captain bool) float64 {
	w := r.weights[pos]

	var points float64
	if line.Win {
		points += w.Win
	}
	if pos == player.PositionGoalkeeper {
		points += float64(line.Saves)*w.Save + float64(line.GoalsAgainst)*w.GoalsAgainst
	} else {
		points += float64(line.Goals)*w.Goal +
			float64(line.Assists)*w.Assist +
			float64(line.PowerPlayGoals)*w.PowerPlayGoal +
			float64(line.ShorthandedGoals)*w.ShorthandedGoal +
			float64(line.GameWinningGoals)*w.GameWinningGoal
	}

	if captain {
		points *= r.captainMultiplier
	}
	return Round2(points)
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	out := math.Round(v*100) / 100
	if out == 0 {
		return 0
	}
	return out
}
