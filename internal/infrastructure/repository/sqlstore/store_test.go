package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/lineup"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/match"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/player"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/playerstat"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/store"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/user"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "fantasy.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sqlx.Open(DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := Migrate(db.DB, DriverSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db)
}

type fixture struct {
	userID  string
	forward player.Player
	goalie  player.Player
	match   match.Match
}

func seed(t *testing.T, s *Store, kickoff time.Time) fixture {
	t.Helper()

	ctx := t.Context()
	repos := s.Repositories()
	out := fixture{userID: "0190a6b2-0000-7000-8000-000000000001"}

	if err := repos.Users.Create(ctx, user.User{ID: out.userID, Username: "alice", CreatedAt: kickoff.Add(-time.Hour)}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	var err error
	out.forward, err = repos.Players.Upsert(ctx, player.Player{Name: "Nathan MacKinnon", Position: player.PositionForward, TeamAbbr: "CAN", ChampionshipYear: 2025})
	if err != nil {
		t.Fatalf("upsert forward: %v", err)
	}
	out.goalie, err = repos.Players.Upsert(ctx, player.Player{Name: "Samuel Ersson", Position: player.PositionGoalkeeper, TeamAbbr: "SWE", ChampionshipYear: 2025})
	if err != nil {
		t.Fatalf("upsert goalie: %v", err)
	}
	out.match, err = repos.Matches.Upsert(ctx, match.Match{
		Day:       1,
		Date:      "2025-05-09",
		MatchTime: kickoff,
		HomeTeam:  "CAN",
		AwayTeam:  "SWE",
	})
	if err != nil {
		t.Fatalf("upsert match: %v", err)
	}
	return out
}

func TestPlayerRepository_UpsertAndFind(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := t.Context()
	fx := seed(t, s, time.Date(2025, 5, 9, 16, 20, 0, 0, time.UTC))
	repos := s.Repositories()

	again, err := repos.Players.Upsert(ctx, player.Player{Name: "Nathan MacKinnon", Position: player.PositionDefender, TeamAbbr: "CAN", ChampionshipYear: 2025})
	if err != nil {
		t.Fatalf("re-upsert: %v", err)
	}
	if again.ID != fx.forward.ID {
		t.Fatalf("unexpected id: got=%d want=%d", again.ID, fx.forward.ID)
	}

	found, ok, err := repos.Players.FindByName(ctx, "Nathan MacKinnon", 2025)
	if err != nil || !ok {
		t.Fatalf("find by name: ok=%v err=%v", ok, err)
	}
	if found.Position != player.PositionDefender {
		t.Fatalf("unexpected position: got=%s want=%s", found.Position, player.PositionDefender)
	}

	if _, ok, err := repos.Players.FindByName(ctx, "Nobody", 2025); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	goalies, err := repos.Players.List(ctx, player.Filter{Position: player.PositionGoalkeeper})
	if err != nil {
		t.Fatalf("list goalies: %v", err)
	}
	if len(goalies) != 1 || goalies[0].ID != fx.goalie.ID {
		t.Fatalf("unexpected goalies: %+v", goalies)
	}

	byID, err := repos.Players.GetByIDs(ctx, []int64{fx.goalie.ID, fx.forward.ID, 9999})
	if err != nil {
		t.Fatalf("get by ids: %v", err)
	}
	if len(byID) != 2 {
		t.Fatalf("unexpected players: %+v", byID)
	}
}

func TestMatchRepository(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := t.Context()
	kickoff := time.Date(2025, 5, 9, 16, 20, 0, 0, time.UTC)
	fx := seed(t, s, kickoff)
	repos := s.Repositories()

	if fx.match.Status != match.StatusUpcoming {
		t.Fatalf("unexpected status: got=%s want=%s", fx.match.Status, match.StatusUpcoming)
	}

	if _, ok, err := repos.Matches.FindStartedForTeam(ctx, "CAN", kickoff.Add(-time.Minute)); err != nil || ok {
		t.Fatalf("match must not be started before kickoff: ok=%v err=%v", ok, err)
	}
	got, ok, err := repos.Matches.FindStartedForTeam(ctx, "SWE", kickoff)
	if err != nil || !ok {
		t.Fatalf("expected started match at kickoff: ok=%v err=%v", ok, err)
	}
	if !got.MatchTime.Equal(kickoff) {
		t.Fatalf("unexpected match time: got=%v want=%v", got.MatchTime, kickoff)
	}

	if err := repos.Matches.UpdateStatus(ctx, fx.match.ID, match.StatusCompleted); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if _, ok, _ := repos.Matches.FindStartedForTeam(ctx, "CAN", kickoff.Add(time.Hour)); ok {
		t.Fatalf("completed match must not lock")
	}

	again, err := repos.Matches.Upsert(ctx, match.Match{Day: 1, Date: "2025-05-09", MatchTime: kickoff, HomeTeam: "CAN", AwayTeam: "SWE", URLStatistics: "https://example.test/stats"})
	if err != nil {
		t.Fatalf("re-upsert match: %v", err)
	}
	if again.ID != fx.match.ID || again.Status != match.StatusCompleted {
		t.Fatalf("re-import must keep id and status: %+v", again)
	}

	listed, err := repos.Matches.List(ctx, match.Filter{StartedAfter: kickoff.Add(-time.Hour), StartedBefore: kickoff})
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if len(listed) != 1 || listed[0].URLStatistics != "https://example.test/stats" {
		t.Fatalf("unexpected matches: %+v", listed)
	}
}

func TestLineupRepository_UpsertRespectsLock(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := t.Context()
	kickoff := time.Date(2025, 5, 9, 16, 20, 0, 0, time.UTC)
	fx := seed(t, s, kickoff)
	repos := s.Repositories()

	written, err := repos.Lineups.Upsert(ctx, lineup.Entry{UserID: fx.userID, Day: 1, PlayerID: fx.forward.ID, IsCaptain: true})
	if err != nil || !written {
		t.Fatalf("insert entry: written=%v err=%v", written, err)
	}

	locked, err := repos.Lineups.LockStarted(ctx, kickoff.Add(-time.Second))
	if err != nil {
		t.Fatalf("lock before kickoff: %v", err)
	}
	if locked != 0 {
		t.Fatalf("unexpected locked count before kickoff: got=%d want=0", locked)
	}

	locked, err = repos.Lineups.LockStarted(ctx, kickoff)
	if err != nil {
		t.Fatalf("lock at kickoff: %v", err)
	}
	if locked != 1 {
		t.Fatalf("unexpected locked count: got=%d want=1", locked)
	}

	written, err = repos.Lineups.Upsert(ctx, lineup.Entry{UserID: fx.userID, Day: 1, PlayerID: fx.forward.ID, IsCaptain: false})
	if err != nil {
		t.Fatalf("upsert locked entry: %v", err)
	}
	if written {
		t.Fatalf("locked entry must not be rewritten")
	}

	entries, err := repos.Lineups.List(ctx, lineup.Filter{UserID: fx.userID, Day: 1})
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 1 || !entries[0].Locked || !entries[0].IsCaptain {
		t.Fatalf("unexpected entries: %+v", entries)
	}

	if err := repos.Lineups.UpdatePoints(ctx, entries[0].ID, 6); err != nil {
		t.Fatalf("update points: %v", err)
	}
	entries, _ = repos.Lineups.List(ctx, lineup.Filter{UserID: fx.userID})
	if entries[0].Points != 6 {
		t.Fatalf("unexpected points: got=%v want=6", entries[0].Points)
	}
}

func TestLineupRepository_DeleteUnlockedKeepsLockedEntries(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := t.Context()
	kickoff := time.Date(2025, 5, 9, 16, 20, 0, 0, time.UTC)
	fx := seed(t, s, kickoff)
	repos := s.Repositories()

	for _, e := range []lineup.Entry{
		{UserID: fx.userID, Day: 1, PlayerID: fx.forward.ID, IsCaptain: true},
		{UserID: fx.userID, Day: 1, PlayerID: fx.goalie.ID},
	} {
		if _, err := repos.Lineups.Upsert(ctx, e); err != nil {
			t.Fatalf("insert entry: %v", err)
		}
	}
	if _, err := repos.Lineups.LockStarted(ctx, kickoff); err != nil {
		t.Fatalf("lock at kickoff: %v", err)
	}
	// Unlock the goalie's row by hand so one entry of each kind exists.
	if _, err := s.db.ExecContext(ctx, s.db.Rebind("UPDATE daily_lineups SET locked = FALSE WHERE player_id = ?"), fx.goalie.ID); err != nil {
		t.Fatalf("unlock goalie entry: %v", err)
	}

	entries, err := repos.Lineups.List(ctx, lineup.Filter{UserID: fx.userID, Day: 1})
	if err != nil || len(entries) != 2 {
		t.Fatalf("list entries: n=%d err=%v", len(entries), err)
	}

	if deleted, err := repos.Lineups.DeleteUnlocked(ctx, nil); err != nil || deleted != 0 {
		t.Fatalf("empty delete: deleted=%d err=%v", deleted, err)
	}
	deleted, err := repos.Lineups.DeleteUnlocked(ctx, []int64{entries[0].ID, entries[1].ID})
	if err != nil {
		t.Fatalf("delete unlocked: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("unexpected deleted count: got=%d want=1", deleted)
	}

	entries, err = repos.Lineups.List(ctx, lineup.Filter{UserID: fx.userID, Day: 1})
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 1 || entries[0].PlayerID != fx.forward.ID || !entries[0].Locked {
		t.Fatalf("unexpected entries after delete: %+v", entries)
	}
}

func TestStatAndScoreRepositories(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := t.Context()
	kickoff := time.Date(2025, 5, 9, 16, 20, 0, 0, time.UTC)
	fx := seed(t, s, kickoff)
	repos := s.Repositories()

	line := playerstat.Line{Goals: 1, Assists: 2, PlusMinus: -1, Win: true}
	if err := repos.Stats.Upsert(ctx, playerstat.Stat{PlayerID: fx.forward.ID, MatchID: fx.match.ID, Line: line}); err != nil {
		t.Fatalf("upsert stat: %v", err)
	}
	day, err := repos.Stats.ListByDay(ctx, 1)
	if err != nil {
		t.Fatalf("list by day: %v", err)
	}
	if len(day) != 1 || day[0].Line != line || day[0].Day != 1 {
		t.Fatalf("unexpected day stats: %+v", day)
	}

	if err := repos.Stats.UpdateFantasyPoints(ctx, day[0].ID, 8); err != nil {
		t.Fatalf("update fantasy points: %v", err)
	}
	line.Goals = 2
	if err := repos.Stats.Upsert(ctx, playerstat.Stat{PlayerID: fx.forward.ID, MatchID: fx.match.ID, Line: line}); err != nil {
		t.Fatalf("re-upsert stat: %v", err)
	}
	byMatch, err := repos.Stats.ListByMatch(ctx, fx.match.ID)
	if err != nil {
		t.Fatalf("list by match: %v", err)
	}
	if len(byMatch) != 1 || byMatch[0].Line.Goals != 2 || byMatch[0].FantasyPoints != 8 {
		t.Fatalf("unexpected match stats: %+v", byMatch)
	}

	calculated := kickoff.Add(3 * time.Hour)
	for _, total := range []float64{4.5, 9} {
		if err := repos.Scores.UpsertDayScore(ctx, scoring.DayScore{UserID: fx.userID, Day: 1, TotalPoints: total, CalculatedAt: calculated}); err != nil {
			t.Fatalf("upsert day score: %v", err)
		}
	}
	scores, err := repos.Scores.ListDayScores(ctx, scoring.Filter{UserID: fx.userID})
	if err != nil {
		t.Fatalf("list day scores: %v", err)
	}
	if len(scores) != 1 || scores[0].TotalPoints != 9 || !scores[0].CalculatedAt.Equal(calculated) {
		t.Fatalf("unexpected scores: %+v", scores)
	}
}

func TestUserRepository(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := t.Context()
	created := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	repos := s.Repositories()

	if err := repos.Users.Create(ctx, user.User{ID: "b", Username: "bob", CreatedAt: created}); err != nil {
		t.Fatalf("create bob: %v", err)
	}
	if err := repos.Users.Create(ctx, user.User{ID: "a", Username: "ann", CreatedAt: created}); err != nil {
		t.Fatalf("create ann: %v", err)
	}
	if err := repos.Users.Create(ctx, user.User{ID: "c", Username: "bob", CreatedAt: created}); !errors.Is(err, user.ErrUsernameTaken) {
		t.Fatalf("unexpected error: got=%v want=%v", err, user.ErrUsernameTaken)
	}

	users, err := repos.Users.List(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 2 || users[0].ID != "a" || users[1].ID != "b" {
		t.Fatalf("unexpected order: %+v", users)
	}

	if _, ok, err := repos.Users.GetByID(ctx, "zzz"); err != nil || ok {
		t.Fatalf("expected missing user: ok=%v err=%v", ok, err)
	}
}

func TestStore_WithinTxRollsBack(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := t.Context()
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		if err := repos.Users.Create(ctx, user.User{ID: "a", Username: "ann", CreatedAt: time.Now()}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("unexpected error: got=%v want=%v", err, boom)
	}

	users, err := s.Repositories().Users.List(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("expected rollback, got %+v", users)
	}
}
