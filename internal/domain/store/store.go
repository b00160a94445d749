package store

import (
	"context"

	"github.com/riskibarqy/iihf-fantasy/internal/domain/lineup"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/match"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/player"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/playerstat"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/user"
)

// Repositories is one consistent view of persistence. Inside WithinTx every
// repository shares the same transaction.
type Repositories struct {
	Users   user.Repository
	Players player.Repository
	Matches match.Repository
	Stats   playerstat.Repository
	Lineups lineup.Repository
	Scores  scoring.Repository
}

// Store hands out repositories and runs units of work. fn's writes are
// committed when it returns nil and discarded otherwise.
type Store interface {
	Repositories() Repositories
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
