package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/player"
	qb "github.com/riskibarqy/iihf-fantasy/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db sqlx.ExtContext
}

var playerSelectColumns = []string{"id", "name", "position", "team_abbr", "championship_year"}

func (r *PlayerRepository) List(ctx context.Context, filter player.Filter) ([]player.Player, error) {
	builder := qb.Select(playerSelectColumns...).From("players")
	if filter.Position != "" {
		builder.Where(qb.Eq("position", string(filter.Position)))
	}
	if filter.TeamAbbr != "" {
		builder.Where(qb.Eq("team_abbr", filter.TeamAbbr))
	}
	if filter.ChampionshipYear != 0 {
		builder.Where(qb.Eq("championship_year", filter.ChampionshipYear))
	}
	query, args, err := builder.OrderBy("team_abbr", "name", "id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}

	return r.selectPlayers(ctx, query, args)
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []int64) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return []player.Player{}, nil
	}

	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(qb.In("id", qb.Int64s(playerIDs))).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by ids query: %w", err)
	}

	return r.selectPlayers(ctx, query, args)
}

func (r *PlayerRepository) FindByName(ctx context.Context, name string, year int) (player.Player, bool, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(
			qb.Eq("name", name),
			qb.Eq("championship_year", year),
		).
		OrderBy("id").
		Limit(1).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build find player by name query: %w", err)
	}

	var row playerTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, r.db.Rebind(query), args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("find player by name: %w", err)
	}
	return playerFromRow(row), true, nil
}

func (r *PlayerRepository) Upsert(ctx context.Context, p player.Player) (player.Player, error) {
	query, args, err := qb.InsertModel("players", playerTableModel{
		Name:             p.Name,
		Position:         string(p.Position),
		TeamAbbr:         p.TeamAbbr,
		ChampionshipYear: p.ChampionshipYear,
	}, qb.OnConflictUpdate(
		[]string{"name", "team_abbr", "championship_year"},
		[]string{"position"},
		"",
	)+" RETURNING id")
	if err != nil {
		return player.Player{}, fmt.Errorf("build upsert player query: %w", err)
	}

	if err := sqlx.GetContext(ctx, r.db, &p.ID, r.db.Rebind(query), args...); err != nil {
		return player.Player{}, fmt.Errorf("upsert player %s: %w", p.Name, err)
	}
	return p, nil
}

func (r *PlayerRepository) selectPlayers(ctx context.Context, query string, args []any) ([]player.Player, error) {
	var rows []playerTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}
	return out, nil
}

func playerFromRow(row playerTableModel) player.Player {
	return player.Player{
		ID:               row.ID,
		Name:             row.Name,
		Position:         player.Position(row.Position),
		TeamAbbr:         row.TeamAbbr,
		ChampionshipYear: row.ChampionshipYear,
	}
}
