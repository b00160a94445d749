package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/scoring"
	qb "github.com/riskibarqy/iihf-fantasy/internal/platform/querybuilder"
)

type ScoreRepository struct {
	db sqlx.ExtContext
}

func (r *ScoreRepository) UpsertDayScore(ctx context.Context, score scoring.DayScore) error {
	query, args, err := qb.InsertModel("user_day_scores", dayScoreTableModel{
		UserID:       score.UserID,
		Day:          score.Day,
		TotalPoints:  score.TotalPoints,
		CalculatedAt: timeToUnix(score.CalculatedAt),
	}, qb.OnConflictUpdate([]string{"user_id", "day"}, []string{"total_points", "calculated_at"}, ""))
	if err != nil {
		return fmt.Errorf("build upsert day score query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("upsert day score user=%s day=%d: %w", score.UserID, score.Day, err)
	}
	return nil
}

func (r *ScoreRepository) ListDayScores(ctx context.Context, filter scoring.Filter) ([]scoring.DayScore, error) {
	builder := qb.Select("user_id", "day", "total_points", "calculated_at").From("user_day_scores")
	if filter.UserID != "" {
		builder.Where(qb.Eq("user_id", filter.UserID))
	}
	if filter.Day != 0 {
		builder.Where(qb.Eq("day", filter.Day))
	}
	query, args, err := builder.OrderBy("day", "user_id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list day scores query: %w", err)
	}

	var rows []dayScoreTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list day scores: %w", err)
	}

	out := make([]scoring.DayScore, 0, len(rows))
	for _, row := range rows {
		out = append(out, scoring.DayScore{
			UserID:       row.UserID,
			Day:          row.Day,
			TotalPoints:  row.TotalPoints,
			CalculatedAt: unixToTime(row.CalculatedAt),
		})
	}
	return out, nil
}
