package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/iihf-fantasy/internal/app"
	"github.com/riskibarqy/iihf-fantasy/internal/config"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/lineup"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/player"
	"github.com/riskibarqy/iihf-fantasy/internal/platform/logging"
	"github.com/riskibarqy/iihf-fantasy/internal/usecase"
	"github.com/stretchr/testify/require"
)

func cliConfig(t *testing.T) config.Config {
	t.Helper()

	return config.Config{
		AppEnv:                 config.EnvDev,
		DBURL:                  "sqlite://" + filepath.Join(t.TempDir(), "cli.db"),
		DBAutoMigrate:          true,
		ChampionshipYear:       2025,
		FeedLocation:           time.UTC,
		ImportWorkers:          2,
		SchedulerScoringWindow: 5 * time.Hour,
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCLI(t *testing.T, cfg config.Config, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	err := run(t.Context(), cfg, logging.NewNop(), args, &out)
	return out.String(), err
}

func TestRun_Usage(t *testing.T) {
	t.Parallel()

	cfg := cliConfig(t)
	tests := [][]string{
		nil,
		{"teleport"},
		{"calculate"},
		{"calculate", "zero"},
		{"import-stats", "7"},
		{"standings", "-format", "xml"},
	}

	for _, args := range tests {
		if _, err := runCLI(t, cfg, args...); !errors.Is(err, errUsage) {
			t.Fatalf("args %q: unexpected error: got=%v want=%v", args, err, errUsage)
		}
	}
}

func TestRun_ImportScoreAndExport(t *testing.T) {
	t.Parallel()

	cfg := cliConfig(t)

	roster := writeFile(t, "roster.csv", "name,position,team_abbr,country\n"+
		"Aleksander Barkov,Forward,FIN,Finland\n"+
		"Juuse Saros,Goalie,FIN,Finland\n"+
		"Lukas Dostal,Goalkeeper,CZE,Czechia\n")
	out, err := runCLI(t, cfg, "import-players", roster)
	require.NoError(t, err)
	require.Contains(t, out, "players: 3 imported, 0 skipped of 3")

	schedule := writeFile(t, "match_urls.csv", "Day,date,time,home_team,away_team,url_playbyplay,url_statistics\n"+
		"1,9 May,16:20,FIN,CZE,,\n")
	out, err = runCLI(t, cfg, "import-matches", schedule)
	require.NoError(t, err)
	require.Contains(t, out, "matches: 1 imported")

	for _, u := range [][]string{{"alice", "alice@example.com", "alice-secret"}, {"bob", "", "bob-secret"}} {
		out, err = runCLI(t, cfg, append([]string{"add-user"}, u...)...)
		require.NoError(t, err)
		require.Contains(t, out, "user "+u[0]+" created")
	}

	stats := writeFile(t, "fin_cze.csv", "Player,Team,Position,Goals,Assists,Saves,Goals Against,Win\n"+
		"Aleksander Barkov,FIN,F,1.0,0.0,0,0,1\n"+
		"Juuse Saros,FIN,GK,0,0,0,0,1\n"+
		"Lukas Dostal,CZE,GK,0,0,25.0,2.0,0\n"+
		"Somebody Else,CZE,F,0,0,0,0,0\n")
	out, err = runCLI(t, cfg, "import-stats", "1="+stats)
	require.NoError(t, err)
	require.Contains(t, out, "match 1 stats: 3 imported, 1 skipped of 4")

	// The match is completed now, so lineups for its teams are editable.
	a, err := app.New(t.Context(), cfg, logging.NewNop())
	require.NoError(t, err)
	users, err := a.Services.Users.List(t.Context())
	require.NoError(t, err)
	require.Len(t, users, 2)
	ids := make(map[string]string, len(users))
	for _, u := range users {
		ids[u.Username] = u.ID
	}
	players, err := a.Services.Players.List(t.Context(), usecase.PlayerListInput{})
	require.NoError(t, err)
	byName := make(map[string]player.Player, len(players))
	for _, p := range players {
		byName[p.Name] = p
	}
	_, err = a.Services.Lineups.Save(t.Context(), usecase.SaveLineupInput{
		UserID: ids["alice"],
		Day:    1,
		Selections: []lineup.Selection{
			{PlayerID: byName["Aleksander Barkov"].ID, IsCaptain: true},
			{PlayerID: byName["Lukas Dostal"].ID},
		},
	})
	require.NoError(t, err)
	require.NoError(t, a.Close())

	out, err = runCLI(t, cfg, "calculate", "1")
	require.NoError(t, err)
	require.Equal(t, "day 1: 2 users, 2 entries scored, 0 without stats\n", out)

	// Barkov: (3 + 1 win) * 2. Dostal: 25 * 0.2 - 2.
	out, err = runCLI(t, cfg, "standings", "-format", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Equal(t, []string{
		"rank,username,user_id,total_points,day_1",
		"1,alice," + ids["alice"] + ",11.00,11.00",
		"2,bob," + ids["bob"] + ",0.00,0.00",
	}, lines)

	out, err = runCLI(t, cfg, "standings", "-day", "1")
	require.NoError(t, err)
	require.Contains(t, out, "alice")
	require.Contains(t, out, "11.00")
}
