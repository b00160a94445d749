package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/lineup"
	qb "github.com/riskibarqy/iihf-fantasy/internal/platform/querybuilder"
)

type LineupRepository struct {
	db sqlx.ExtContext
}

var lineupSelectColumns = []string{"id", "user_id", "day", "player_id", "is_captain", "locked", "fantasy_points"}

// lockStartedQuery locks entries whose player's team has a match on the
// entry's day that started at or before the bound time.
const lockStartedQuery = `UPDATE daily_lineups SET locked = TRUE
WHERE locked = FALSE
  AND EXISTS (
    SELECT 1 FROM players p
    JOIN matches m ON (m.home_team = p.team_abbr OR m.away_team = p.team_abbr)
    WHERE p.id = daily_lineups.player_id
      AND m.day = daily_lineups.day
      AND m.match_time <= ?
  )`

func (r *LineupRepository) List(ctx context.Context, filter lineup.Filter) ([]lineup.Entry, error) {
	builder := qb.Select(lineupSelectColumns...).From("daily_lineups")
	if filter.UserID != "" {
		builder.Where(qb.Eq("user_id", filter.UserID))
	}
	if filter.Day != 0 {
		builder.Where(qb.Eq("day", filter.Day))
	}
	query, args, err := builder.OrderBy("user_id", "day", "id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list lineup entries query: %w", err)
	}

	var rows []lineupTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list lineup entries: %w", err)
	}

	out := make([]lineup.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, lineup.Entry{
			ID:        row.ID,
			UserID:    row.UserID,
			Day:       row.Day,
			PlayerID:  row.PlayerID,
			IsCaptain: row.IsCaptain,
			Locked:    row.Locked,
			Points:    row.FantasyPoints,
		})
	}
	return out, nil
}

func (r *LineupRepository) Upsert(ctx context.Context, entry lineup.Entry) (bool, error) {
	query, args, err := qb.InsertModel("daily_lineups", lineupInsertModel{
		UserID:    entry.UserID,
		Day:       entry.Day,
		PlayerID:  entry.PlayerID,
		IsCaptain: entry.IsCaptain,
	}, qb.OnConflictUpdate(
		[]string{"user_id", "day", "player_id"},
		[]string{"is_captain"},
		"daily_lineups.locked = FALSE",
	))
	if err != nil {
		return false, fmt.Errorf("build upsert lineup entry query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return false, fmt.Errorf("upsert lineup entry player=%d: %w", entry.PlayerID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("upsert lineup entry rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *LineupRepository) DeleteUnlocked(ctx context.Context, entryIDs []int64) (int64, error) {
	if len(entryIDs) == 0 {
		return 0, nil
	}

	query, args, err := qb.DeleteFrom("daily_lineups").
		Where(qb.In("id", qb.Int64s(entryIDs)), qb.Expr("locked = FALSE")).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build delete lineup entries query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("delete lineup entries: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete lineup entries rows affected: %w", err)
	}
	return affected, nil
}

func (r *LineupRepository) UpdatePoints(ctx context.Context, entryID int64, points float64) error {
	query, args, err := qb.Update("daily_lineups").
		Set("fantasy_points", points).
		Where(qb.Eq("id", entryID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update lineup points query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("update lineup points entry=%d: %w", entryID, err)
	}
	return nil
}

func (r *LineupRepository) LockStarted(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(lockStartedQuery), now.Unix())
	if err != nil {
		return 0, fmt.Errorf("lock started lineup entries: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("lock started rows affected: %w", err)
	}
	return affected, nil
}
