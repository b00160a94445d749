package cache

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/iihf-fantasy/internal/domain/match"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/player"
	basecache "github.com/riskibarqy/iihf-fantasy/internal/platform/cache"
)

const (
	playerKeyPrefix = "player:"
	matchKeyPrefix  = "match:"
)

type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) List(ctx context.Context, filter player.Filter) ([]player.Player, error) {
	key := playerKeyPrefix + "list:" + string(filter.Position) + ":" + filter.TeamAbbr + ":" + strconv.Itoa(filter.ChampionshipYear)
	items, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) ([]player.Player, error) {
		return r.next.List(ctx, filter)
	})
	if err != nil {
		return nil, err
	}
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []int64) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return []player.Player{}, nil
	}

	ids := slices.Clone(playerIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	key := playerKeyPrefix + "ids:" + strings.Join(parts, ",")
	items, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) ([]player.Player, error) {
		return r.next.GetByIDs(ctx, ids)
	})
	if err != nil {
		return nil, err
	}
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) FindByName(ctx context.Context, name string, year int) (player.Player, bool, error) {
	key := playerKeyPrefix + "name:" + strconv.Itoa(year) + ":" + name
	cached, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) (cachedPlayer, error) {
		item, exists, err := r.next.FindByName(ctx, name, year)
		return cachedPlayer{value: item, exists: exists}, err
	})
	if err != nil {
		return player.Player{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *PlayerRepository) Upsert(ctx context.Context, p player.Player) (player.Player, error) {
	out, err := r.next.Upsert(ctx, p)
	if err != nil {
		return player.Player{}, err
	}
	r.cache.DeletePrefix(ctx, playerKeyPrefix)
	return out, nil
}

type cachedPlayer struct {
	value  player.Player
	exists bool
}

type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) List(ctx context.Context, filter match.Filter) ([]match.Match, error) {
	key := matchKeyPrefix + "list:" + strconv.Itoa(filter.Day) + ":" + filter.Date + ":" +
		unixKey(filter.StartedAfter) + ":" + unixKey(filter.StartedBefore)
	items, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) ([]match.Match, error) {
		return r.next.List(ctx, filter)
	})
	if err != nil {
		return nil, err
	}
	return append([]match.Match(nil), items...), nil
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID int64) (match.Match, bool, error) {
	key := matchKeyPrefix + "id:" + strconv.FormatInt(matchID, 10)
	cached, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) (cachedMatch, error) {
		item, exists, err := r.next.GetByID(ctx, matchID)
		return cachedMatch{value: item, exists: exists}, err
	})
	if err != nil {
		return match.Match{}, false, err
	}
	return cached.value, cached.exists, nil
}

// FindStartedForTeam depends on the clock and is never cached.
func (r *MatchRepository) FindStartedForTeam(ctx context.Context, team string, now time.Time) (match.Match, bool, error) {
	return r.next.FindStartedForTeam(ctx, team, now)
}

func (r *MatchRepository) Upsert(ctx context.Context, m match.Match) (match.Match, error) {
	out, err := r.next.Upsert(ctx, m)
	if err != nil {
		return match.Match{}, err
	}
	r.cache.DeletePrefix(ctx, matchKeyPrefix)
	return out, nil
}

func (r *MatchRepository) UpdateStatus(ctx context.Context, matchID int64, status match.Status) error {
	if err := r.next.UpdateStatus(ctx, matchID, status); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, matchKeyPrefix)
	return nil
}

type cachedMatch struct {
	value  match.Match
	exists bool
}

func unixKey(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return strconv.FormatInt(t.Unix(), 10)
}
