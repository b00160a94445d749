package usecase

import (
	"testing"
	"time"

	"github.com/riskibarqy/iihf-fantasy/internal/domain/fantasy"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/lineup"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/match"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/player"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/playerstat"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/user"
	"github.com/riskibarqy/iihf-fantasy/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/iihf-fantasy/internal/platform/cache"
	"github.com/riskibarqy/iihf-fantasy/internal/platform/logging"
)

const (
	aliceID = "0196b3c4-0000-7000-8000-000000000001"
	bobID   = "0196b3c4-0000-7000-8000-000000000002"
	carolID = "0196b3c4-0000-7000-8000-000000000003"

	fixtureYear = 2025
)

// fixtureNow sits between the two day 1 games: SWE-USA has started, FIN-CZE
// has not.
var fixtureNow = time.Date(2025, 5, 9, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store   *memory.Store
	players map[string]player.Player
	matches map[string]match.Match
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctx := t.Context()
	st := memory.NewStore()
	repos := st.Repositories()
	f := &fixture{store: st, players: map[string]player.Player{}, matches: map[string]match.Match{}}

	for i, u := range []user.User{
		{ID: aliceID, Username: "alice"},
		{ID: bobID, Username: "bob"},
		{ID: carolID, Username: "carol"},
	} {
		u.CreatedAt = fixtureNow.Add(-time.Duration(3-i) * time.Hour)
		if err := repos.Users.Create(ctx, u); err != nil {
			t.Fatalf("seed user %s: %v", u.Username, err)
		}
	}

	roster := []struct {
		name string
		team string
		pos  player.Position
	}{
		{"Aleksander Barkov", "FIN", player.PositionForward},
		{"Mikael Granlund", "FIN", player.PositionForward},
		{"Sebastian Aho", "FIN", player.PositionForward},
		{"Patrik Laine", "FIN", player.PositionForward},
		{"Miro Heiskanen", "FIN", player.PositionDefender},
		{"Esa Lindell", "FIN", player.PositionDefender},
		{"Juuse Saros", "FIN", player.PositionGoalkeeper},
		{"David Pastrnak", "CZE", player.PositionForward},
		{"Lukas Dostal", "CZE", player.PositionGoalkeeper},
		{"William Nylander", "SWE", player.PositionForward},
	}
	for _, r := range roster {
		p, err := repos.Players.Upsert(ctx, player.Player{Name: r.name, TeamAbbr: r.team, Position: r.pos, ChampionshipYear: fixtureYear})
		if err != nil {
			t.Fatalf("seed player %s: %v", r.name, err)
		}
		f.players[r.name] = p
	}

	schedule := []match.Match{
		{Day: 1, Date: "2025-05-09", MatchTime: time.Date(2025, 5, 9, 10, 20, 0, 0, time.UTC), HomeTeam: "SWE", AwayTeam: "USA"},
		{Day: 1, Date: "2025-05-09", MatchTime: time.Date(2025, 5, 9, 16, 20, 0, 0, time.UTC), HomeTeam: "FIN", AwayTeam: "CZE"},
		{Day: 2, Date: "2025-05-10", MatchTime: time.Date(2025, 5, 10, 16, 20, 0, 0, time.UTC), HomeTeam: "CAN", AwayTeam: "FIN"},
	}
	for _, m := range schedule {
		m.Status = match.StatusUpcoming
		stored, err := repos.Matches.Upsert(ctx, m)
		if err != nil {
			t.Fatalf("seed match %s-%s: %v", m.HomeTeam, m.AwayTeam, err)
		}
		f.matches[m.HomeTeam+"-"+m.AwayTeam] = stored
	}

	return f
}

func (f *fixture) id(t *testing.T, name string) int64 {
	t.Helper()
	p, ok := f.players[name]
	if !ok {
		t.Fatalf("unknown fixture player %q", name)
	}
	return p.ID
}

func (f *fixture) lineupService(now time.Time) *LineupService {
	svc := NewLineupService(f.store, fantasy.DefaultSlotLimits(), logging.NewNop())
	svc.now = func() time.Time { return now }
	return svc
}

func (f *fixture) scoringService(now time.Time) *ScoringService {
	svc := NewScoringService(f.store, scoring.DefaultRules(), cache.NewStore(time.Minute), logging.NewNop())
	svc.now = func() time.Time { return now }
	return svc
}

// selections builds a submission; the first name is the captain.
func (f *fixture) selections(t *testing.T, names ...string) []lineup.Selection {
	t.Helper()
	out := make([]lineup.Selection, 0, len(names))
	for i, name := range names {
		out = append(out, lineup.Selection{PlayerID: f.id(t, name), IsCaptain: i == 0})
	}
	return out
}

func (f *fixture) addStat(t *testing.T, matchKey, name string, line playerstat.Line) {
	t.Helper()
	m, ok := f.matches[matchKey]
	if !ok {
		t.Fatalf("unknown fixture match %q", matchKey)
	}
	if err := f.store.Repositories().Stats.Upsert(t.Context(), playerstat.Stat{PlayerID: f.id(t, name), MatchID: m.ID, Line: line}); err != nil {
		t.Fatalf("seed stat for %s: %v", name, err)
	}
}
