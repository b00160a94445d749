// Package memory is an in-process store.Store. One mutex guards all state;
// WithinTx holds it for the whole unit of work and restores a snapshot when
// the work fails.
package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/iihf-fantasy/internal/domain/lineup"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/match"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/player"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/playerstat"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/store"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/user"
)

type dayScoreKey struct {
	userID string
	day    int
}

type state struct {
	users   map[string]user.User
	players map[int64]player.Player
	matches map[int64]match.Match
	stats   map[int64]playerstat.Stat
	entries map[int64]lineup.Entry
	scores  map[dayScoreKey]scoring.DayScore

	nextPlayerID int64
	nextMatchID  int64
	nextStatID   int64
	nextEntryID  int64
}

func newState() *state {
	return &state{
		users:   make(map[string]user.User),
		players: make(map[int64]player.Player),
		matches: make(map[int64]match.Match),
		stats:   make(map[int64]playerstat.Stat),
		entries: make(map[int64]lineup.Entry),
		scores:  make(map[dayScoreKey]scoring.DayScore),
	}
}

func (s *state) clone() *state {
	out := *s
	out.users = cloneMap(s.users)
	out.players = cloneMap(s.players)
	out.matches = cloneMap(s.matches)
	out.stats = cloneMap(s.stats)
	out.entries = cloneMap(s.entries)
	out.scores = cloneMap(s.scores)
	return &out
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

type Store struct {
	mu    sync.Mutex
	state *state
}

func NewStore() *Store {
	return &Store{state: newState()}
}

// Repositories returns repositories that lock the store per call.
func (s *Store) Repositories() store.Repositories {
	return s.repositories(false)
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos store.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(ctx, s.repositories(true)); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

func (s *Store) repositories(inTx bool) store.Repositories {
	h := handle{store: s, inTx: inTx}
	return store.Repositories{
		Users:   &UserRepository{h},
		Players: &PlayerRepository{h},
		Matches: &MatchRepository{h},
		Stats:   &StatRepository{h},
		Lineups: &LineupRepository{h},
		Scores:  &ScoreRepository{h},
	}
}

// handle gives a repository access to the current state. Inside WithinTx
// the store lock is already held.
type handle struct {
	store *Store
	inTx  bool
}

func (h handle) acquire() (*state, func()) {
	if h.inTx {
		return h.store.state, func() {}
	}
	h.store.mu.Lock()
	return h.store.state, h.store.mu.Unlock
}

var _ store.Store = (*Store)(nil)
