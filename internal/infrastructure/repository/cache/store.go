package cache

import (
	"context"

	"github.com/riskibarqy/iihf-fantasy/internal/domain/match"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/player"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/store"
	basecache "github.com/riskibarqy/iihf-fantasy/internal/platform/cache"
)

// Store serves player and match reads from cache outside transactions.
// Transactions always hit the underlying store; writes made inside one
// invalidate the cache only after commit.
type Store struct {
	next  store.Store
	cache *basecache.Store
}

func NewStore(next store.Store, cache *basecache.Store) *Store {
	return &Store{next: next, cache: cache}
}

func (s *Store) Repositories() store.Repositories {
	repos := s.next.Repositories()
	repos.Players = NewPlayerRepository(repos.Players, s.cache)
	repos.Matches = NewMatchRepository(repos.Matches, s.cache)
	return repos
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos store.Repositories) error) error {
	var players, matches bool
	err := s.next.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		repos.Players = &trackedPlayers{Repository: repos.Players, dirty: &players}
		repos.Matches = &trackedMatches{Repository: repos.Matches, dirty: &matches}
		return fn(ctx, repos)
	})
	if err != nil {
		return err
	}

	if players {
		s.cache.DeletePrefix(ctx, playerKeyPrefix)
	}
	if matches {
		s.cache.DeletePrefix(ctx, matchKeyPrefix)
	}
	return nil
}

type trackedPlayers struct {
	player.Repository
	dirty *bool
}

func (r *trackedPlayers) Upsert(ctx context.Context, p player.Player) (player.Player, error) {
	*r.dirty = true
	return r.Repository.Upsert(ctx, p)
}

type trackedMatches struct {
	match.Repository
	dirty *bool
}

func (r *trackedMatches) Upsert(ctx context.Context, m match.Match) (match.Match, error) {
	*r.dirty = true
	return r.Repository.Upsert(ctx, m)
}

func (r *trackedMatches) UpdateStatus(ctx context.Context, matchID int64, status match.Status) error {
	*r.dirty = true
	return r.Repository.UpdateStatus(ctx, matchID, status)
}

var _ store.Store = (*Store)(nil)
