// Package sqlstore persists the fantasy data with sqlx. Statements are built
// with "?" placeholders and rebound per driver, so one implementation serves
// postgres and sqlite.
package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/store"
)

type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Repositories() store.Repositories {
	return repositories(s.db)
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos store.Repositories) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, repositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func repositories(db sqlx.ExtContext) store.Repositories {
	return store.Repositories{
		Users:   &UserRepository{db: db},
		Players: &PlayerRepository{db: db},
		Matches: &MatchRepository{db: db},
		Stats:   &StatRepository{db: db},
		Lineups: &LineupRepository{db: db},
		Scores:  &ScoreRepository{db: db},
	}
}

var _ store.Store = (*Store)(nil)
