package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/iihf-fantasy/internal/domain/player"
)

type PlayerRepository struct {
	h handle
}

func (r *PlayerRepository) List(_ context.Context, filter player.Filter) ([]player.Player, error) {
	st, release := r.h.acquire()
	defer release()

	out := make([]player.Player, 0, len(st.players))
	for _, p := range st.players {
		if filter.Position != "" && p.Position != filter.Position {
			continue
		}
		if filter.TeamAbbr != "" && p.TeamAbbr != filter.TeamAbbr {
			continue
		}
		if filter.ChampionshipYear != 0 && p.ChampionshipYear != filter.ChampionshipYear {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TeamAbbr != out[j].TeamAbbr {
			return out[i].TeamAbbr < out[j].TeamAbbr
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *PlayerRepository) GetByIDs(_ context.Context, playerIDs []int64) ([]player.Player, error) {
	st, release := r.h.acquire()
	defer release()

	out := make([]player.Player, 0, len(playerIDs))
	seen := make(map[int64]struct{}, len(playerIDs))
	for _, id := range playerIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if p, ok := st.players[id]; ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *PlayerRepository) FindByName(_ context.Context, name string, year int) (player.Player, bool, error) {
	st, release := r.h.acquire()
	defer release()

	var (
		found player.Player
		ok    bool
	)
	for _, p := range st.players {
		if p.Name != name || p.ChampionshipYear != year {
			continue
		}
		if !ok || p.ID < found.ID {
			found, ok = p, true
		}
	}
	return found, ok, nil
}

func (r *PlayerRepository) Upsert(_ context.Context, p player.Player) (player.Player, error) {
	st, release := r.h.acquire()
	defer release()

	for id, existing := range st.players {
		if existing.Name == p.Name && existing.TeamAbbr == p.TeamAbbr && existing.ChampionshipYear == p.ChampionshipYear {
			p.ID = id
			st.players[id] = p
			return p, nil
		}
	}
	st.nextPlayerID++
	p.ID = st.nextPlayerID
	st.players[p.ID] = p
	return p, nil
}
