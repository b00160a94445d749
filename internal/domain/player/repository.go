package player

import "context"

// Filter narrows player listings; zero values match everything.
type Filter struct {
	Position         Position
	TeamAbbr         string
	ChampionshipYear int
}

// Repository describes player persistence needs from use cases.
type Repository interface {
	// List orders by team, name, then id.
	List(ctx context.Context, filter Filter) ([]Player, error)
	GetByIDs(ctx context.Context, playerIDs []int64) ([]Player, error)
	FindByName(ctx context.Context, name string, championshipYear int) (Player, bool, error)
	// Upsert is keyed on (name, team, year) and returns the stored row.
	Upsert(ctx context.Context, p Player) (Player, error)
}
