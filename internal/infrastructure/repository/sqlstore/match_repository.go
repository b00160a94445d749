package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/match"
	qb "github.com/riskibarqy/iihf-fantasy/internal/platform/querybuilder"
)

type MatchRepository struct {
	db sqlx.ExtContext
}

var matchSelectColumns = []string{
	"id",
	"day",
	"match_date",
	"match_time",
	"home_team",
	"away_team",
	"status",
	"url_playbyplay",
	"url_statistics",
}

func (r *MatchRepository) List(ctx context.Context, filter match.Filter) ([]match.Match, error) {
	builder := qb.Select(matchSelectColumns...).From("matches")
	if filter.Day != 0 {
		builder.Where(qb.Eq("day", filter.Day))
	}
	if filter.Date != "" {
		builder.Where(qb.Eq("match_date", filter.Date))
	}
	if !filter.StartedAfter.IsZero() {
		builder.Where(qb.Expr("match_time >= ?", filter.StartedAfter.Unix()))
	}
	if !filter.StartedBefore.IsZero() {
		builder.Where(qb.Expr("match_time <= ?", filter.StartedBefore.Unix()))
	}
	query, args, err := builder.OrderBy("match_time", "id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID int64) (match.Match, bool, error) {
	query, args, err := qb.Select(matchSelectColumns...).From("matches").
		Where(qb.Eq("id", matchID)).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	return r.getOne(ctx, query, args)
}

func (r *MatchRepository) FindStartedForTeam(ctx context.Context, team string, now time.Time) (match.Match, bool, error) {
	query, args, err := qb.Select(matchSelectColumns...).From("matches").
		Where(
			qb.Expr("(home_team = ? OR away_team = ?)", team, team),
			qb.Expr("status <> ?", string(match.StatusCompleted)),
			qb.Expr("match_time <= ?", now.Unix()),
		).
		OrderBy("match_time", "id").
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build find started match query: %w", err)
	}

	return r.getOne(ctx, query, args)
}

func (r *MatchRepository) Upsert(ctx context.Context, m match.Match) (match.Match, error) {
	status := m.Status
	if status == "" {
		status = match.StatusUpcoming
	}
	query, args, err := qb.InsertModel("matches", matchTableModel{
		Day:           m.Day,
		MatchDate:     m.Date,
		MatchTime:     timeToUnix(m.MatchTime),
		HomeTeam:      m.HomeTeam,
		AwayTeam:      m.AwayTeam,
		Status:        string(status),
		URLPlayByPlay: m.URLPlayByPlay,
		URLStatistics: m.URLStatistics,
	}, qb.OnConflictUpdate(
		[]string{"home_team", "away_team", "day"},
		[]string{"match_date", "match_time", "url_playbyplay", "url_statistics"},
		"",
	)+" RETURNING id, status")
	if err != nil {
		return match.Match{}, fmt.Errorf("build upsert match query: %w", err)
	}

	var stored struct {
		ID     int64  `db:"id"`
		Status string `db:"status"`
	}
	if err := sqlx.GetContext(ctx, r.db, &stored, r.db.Rebind(query), args...); err != nil {
		return match.Match{}, fmt.Errorf("upsert match %s-%s day %d: %w", m.HomeTeam, m.AwayTeam, m.Day, err)
	}
	m.ID = stored.ID
	m.Status = match.Status(stored.Status)
	return m, nil
}

func (r *MatchRepository) UpdateStatus(ctx context.Context, matchID int64, status match.Status) error {
	query, args, err := qb.Update("matches").
		Set("status", string(status)).
		Where(qb.Eq("id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match status query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("update match status: %w", err)
	}
	return nil
}

func (r *MatchRepository) getOne(ctx context.Context, query string, args []any) (match.Match, bool, error) {
	var row matchTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, r.db.Rebind(query), args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match: %w", err)
	}
	return matchFromRow(row), true, nil
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:            row.ID,
		Day:           row.Day,
		Date:          row.MatchDate,
		MatchTime:     unixToTime(row.MatchTime),
		HomeTeam:      row.HomeTeam,
		AwayTeam:      row.AwayTeam,
		Status:        match.Status(row.Status),
		URLPlayByPlay: row.URLPlayByPlay,
		URLStatistics: row.URLStatistics,
	}
}
