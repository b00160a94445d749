package iihf

import (
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/iihf-fantasy/internal/domain/match"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/player"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/playerstat"
	"github.com/stretchr/testify/require"
)

func TestParseCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{raw: "3", want: 3},
		{raw: "1.0", want: 1},
		{raw: "+2", want: 2},
		{raw: "-1", want: -1},
		{raw: "-1.0", want: -1},
		{raw: "", want: 0},
		{raw: "NaN", want: 0},
		{raw: "1.5", wantErr: true},
		{raw: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseCount(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestReadRoster(t *testing.T) {
	t.Parallel()

	in := "name,position,team_abbr,country\n" +
		"Juuse Saros,Goalie,FIN,Finland\n" +
		"\n" +
		"Miro Heiskanen,Defence,FIN,Finland\n"

	got, err := ReadRoster(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, []player.Player{
		{Name: "Juuse Saros", Position: "Goalie", TeamAbbr: "FIN"},
		{Name: "Miro Heiskanen", Position: "Defence", TeamAbbr: "FIN"},
	}, got)

	_, err = ReadRoster(strings.NewReader("name,team_abbr\nA,FIN\n"))
	require.ErrorContains(t, err, `missing column "position"`)
}

func TestReadSchedule(t *testing.T) {
	t.Parallel()

	in := "Day,date,time,home_team,away_team,url_playbyplay,url_statistics\n" +
		"1,9 May,16:20,fin,cze,https://example.test/pbp/1,https://example.test/stats/1\n" +
		"2.0,10 May,20:20,CAN,SWE,,\n"
	prague := time.FixedZone("CEST", 2*60*60)

	got, err := ReadSchedule(strings.NewReader(in), ScheduleOptions{Year: 2025, Location: prague})
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.Equal(t, 1, got[0].Day)
	require.Equal(t, "2025-05-09", got[0].Date)
	require.True(t, got[0].MatchTime.Equal(time.Date(2025, 5, 9, 14, 20, 0, 0, time.UTC)))
	require.Equal(t, time.UTC, got[0].MatchTime.Location())
	require.Equal(t, "FIN", got[0].HomeTeam)
	require.Equal(t, match.StatusUpcoming, got[0].Status)
	require.Equal(t, "https://example.test/stats/1", got[0].URLStatistics)
	require.Equal(t, 2, got[1].Day)

	_, err = ReadSchedule(strings.NewReader("Day,date,time,home_team,away_team\n1,32 May,16:20,A,B\n"), ScheduleOptions{Year: 2025})
	require.ErrorContains(t, err, "schedule row 2")

	_, err = ReadSchedule(strings.NewReader(in), ScheduleOptions{})
	require.Error(t, err)
}

func TestReadMatchStats(t *testing.T) {
	t.Parallel()

	in := "Player,Team,Position,Goals,Assists,Points,Penalty Minutes,Plus Minus,Goals Against,Saves,Shorthanded Goal,Power Play Goal,Game Winning Goal,Win,Event\n" +
		"Aleksander Barkov,FIN,F,1.0,1.0,2.0,2.0,+1,0,0,0.0,1.0,1.0,1,WM\n" +
		"Juuse Saros,FIN,GK,0,0,0,0,0,2.0,31.0,0,0,0,1.0,WM\n" +
		"Kevin Lankinen,FIN,GK,0,1,1,2,0,0,0,0,0,0,1,WM\n"

	got, err := ReadMatchStats(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 3)

	require.Equal(t, StatRow{
		PlayerName: "Aleksander Barkov",
		Team:       "FIN",
		Position:   player.PositionForward,
		Line: playerstat.Line{
			Goals:            1,
			Assists:          1,
			PenaltyMinutes:   2,
			PlusMinus:        1,
			PowerPlayGoals:   1,
			GameWinningGoals: 1,
			Win:              true,
		},
	}, got[0])
	require.Equal(t, playerstat.Line{Saves: 31, GoalsAgainst: 2, Win: true}, got[1].Line)
	require.Equal(t, playerstat.Line{}, got[2].Line, "goalkeeper without saves did not play")

	_, err = ReadMatchStats(strings.NewReader("Player,Goals\nA,two\n"))
	require.ErrorContains(t, err, `column "Goals"`)
}
