package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/iihf-fantasy/internal/domain/match"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/player"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/store"
	"github.com/riskibarqy/iihf-fantasy/internal/infrastructure/repository/memory"
	basecache "github.com/riskibarqy/iihf-fantasy/internal/platform/cache"
)

func TestStore_InvalidatesPlayersAfterCommit(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	s := NewStore(memory.NewStore(), basecache.NewStore(time.Minute))

	before, err := s.Repositories().Players.List(ctx, player.Filter{})
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(before) != 0 {
		t.Fatalf("unexpected players: %v", before)
	}

	err = s.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		_, err := repos.Players.Upsert(ctx, player.Player{Name: "A", TeamAbbr: "CAN", Position: player.PositionForward, ChampionshipYear: 2025})
		return err
	})
	if err != nil {
		t.Fatalf("upsert player: %v", err)
	}

	after, err := s.Repositories().Players.List(ctx, player.Filter{})
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(after) != 1 {
		t.Fatalf("stale cached players: got=%d want=1", len(after))
	}
}

func TestStore_FailedTxKeepsCache(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	c := basecache.NewStore(time.Minute)
	s := NewStore(memory.NewStore(), c)

	if _, err := s.Repositories().Matches.List(ctx, match.Filter{Day: 1}); err != nil {
		t.Fatalf("list matches: %v", err)
	}

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		if _, err := repos.Matches.Upsert(ctx, match.Match{Day: 1, Date: "2025-05-09", MatchTime: time.Now(), HomeTeam: "CAN", AwayTeam: "SWE"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("unexpected error: got=%v want=%v", err, boom)
	}

	if _, ok := c.Get(ctx, matchKeyPrefix+"list:1:::"); !ok {
		t.Fatalf("expected cached match list to survive rolled back tx")
	}
}

func TestPlayerRepository_GetByIDsNormalizesKey(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	mem := memory.NewStore()
	c := basecache.NewStore(time.Minute)
	inner := mem.Repositories().Players
	p, err := inner.Upsert(ctx, player.Player{Name: "A", TeamAbbr: "CAN", Position: player.PositionForward, ChampionshipYear: 2025})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	repo := NewPlayerRepository(inner, c)
	got, err := repo.GetByIDs(ctx, []int64{p.ID, p.ID})
	if err != nil {
		t.Fatalf("get by ids: %v", err)
	}
	if len(got) != 1 || got[0].ID != p.ID {
		t.Fatalf("unexpected players: %+v", got)
	}
	if _, ok := c.Get(ctx, "player:ids:1"); !ok {
		t.Fatalf("expected normalized cache key")
	}
}
