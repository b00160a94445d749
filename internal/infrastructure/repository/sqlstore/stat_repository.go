package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/playerstat"
	qb "github.com/riskibarqy/iihf-fantasy/internal/platform/querybuilder"
)

type StatRepository struct {
	db sqlx.ExtContext
}

var statSelectColumns = []string{
	"ps.id",
	"ps.player_id",
	"ps.match_id",
	"ps.goals",
	"ps.assists",
	"ps.ppg",
	"ps.shg",
	"ps.gwg",
	"ps.pim",
	"ps.plus_minus",
	"ps.saves",
	"ps.goals_against",
	"ps.win",
	"ps.fantasy_points",
}

var statLineColumns = []string{
	"goals",
	"assists",
	"ppg",
	"shg",
	"gwg",
	"pim",
	"plus_minus",
	"saves",
	"goals_against",
	"win",
}

func (r *StatRepository) ListByDay(ctx context.Context, day int) ([]playerstat.DayStat, error) {
	query, args, err := qb.Select(append(append([]string(nil), statSelectColumns...), "m.day")...).
		From("player_stats ps").
		Join("JOIN matches m ON m.id = ps.match_id").
		Where(qb.Eq("m.day", day)).
		OrderBy("ps.match_id", "ps.player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list stats by day query: %w", err)
	}

	var rows []dayStatRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list stats by day: %w", err)
	}

	out := make([]playerstat.DayStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerstat.DayStat{Stat: statFromRow(row.playerStatTableModel), Day: row.Day})
	}
	return out, nil
}

func (r *StatRepository) ListByMatch(ctx context.Context, matchID int64) ([]playerstat.Stat, error) {
	query, args, err := qb.Select(statSelectColumns...).
		From("player_stats ps").
		Where(qb.Eq("ps.match_id", matchID)).
		OrderBy("ps.player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list stats by match query: %w", err)
	}

	var rows []playerStatTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list stats by match: %w", err)
	}

	out := make([]playerstat.Stat, 0, len(rows))
	for _, row := range rows {
		out = append(out, statFromRow(row))
	}
	return out, nil
}

func (r *StatRepository) Upsert(ctx context.Context, s playerstat.Stat) error {
	query, args, err := qb.InsertModel("player_stats", playerStatTableModel{
		PlayerID:         s.PlayerID,
		MatchID:          s.MatchID,
		Goals:            s.Line.Goals,
		Assists:          s.Line.Assists,
		PowerPlayGoals:   s.Line.PowerPlayGoals,
		ShorthandedGoals: s.Line.ShorthandedGoals,
		GameWinningGoals: s.Line.GameWinningGoals,
		PenaltyMinutes:   s.Line.PenaltyMinutes,
		PlusMinus:        s.Line.PlusMinus,
		Saves:            s.Line.Saves,
		GoalsAgainst:     s.Line.GoalsAgainst,
		Win:              s.Line.Win,
	}, qb.OnConflictUpdate([]string{"player_id", "match_id"}, statLineColumns, ""))
	if err != nil {
		return fmt.Errorf("build upsert player stat query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("upsert player stat player=%d match=%d: %w", s.PlayerID, s.MatchID, err)
	}
	return nil
}

func (r *StatRepository) UpdateFantasyPoints(ctx context.Context, statID int64, points float64) error {
	query, args, err := qb.Update("player_stats").
		Set("fantasy_points", points).
		Where(qb.Eq("id", statID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update fantasy points query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("update fantasy points stat=%d: %w", statID, err)
	}
	return nil
}

func statFromRow(row playerStatTableModel) playerstat.Stat {
	return playerstat.Stat{
		ID:       row.ID,
		PlayerID: row.PlayerID,
		MatchID:  row.MatchID,
		Line: playerstat.Line{
			Goals:            row.Goals,
			Assists:          row.Assists,
			PowerPlayGoals:   row.PowerPlayGoals,
			ShorthandedGoals: row.ShorthandedGoals,
			GameWinningGoals: row.GameWinningGoals,
			PenaltyMinutes:   row.PenaltyMinutes,
			PlusMinus:        row.PlusMinus,
			Saves:            row.Saves,
			GoalsAgainst:     row.GoalsAgainst,
			Win:              row.Win,
		},
		FantasyPoints: row.FantasyPoints,
	}
}
