package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/riskibarqy/iihf-fantasy/external/iihf"
	"github.com/riskibarqy/iihf-fantasy/internal/app"
	"github.com/riskibarqy/iihf-fantasy/internal/config"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/match"
	"github.com/riskibarqy/iihf-fantasy/internal/platform/logging"
	"github.com/riskibarqy/iihf-fantasy/internal/report"
	"github.com/riskibarqy/iihf-fantasy/internal/usecase"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/text/language"
)

var errUsage = errors.New("invalid usage")

func usageErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

type cli struct {
	cfg      config.Config
	services app.Services
	logger   *logging.Logger
	out      io.Writer
}

// run opens the configured database and dispatches args[0].
func run(ctx context.Context, cfg config.Config, logger *logging.Logger, args []string, out io.Writer) error {
	if len(args) == 0 {
		return usageErr("missing command")
	}

	commands := map[string]func(*cli, context.Context, []string) error{
		"import-players": (*cli).importPlayers,
		"import-matches": (*cli).importMatches,
		"import-stats":   (*cli).importStats,
		"add-user":       (*cli).addUser,
		"lock":           (*cli).lock,
		"calculate":      (*cli).calculate,
		"daily-scoring":  (*cli).dailyScoring,
		"standings":      (*cli).standings,
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return usageErr("unknown command %q", args[0])
	}

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	c := &cli{cfg: cfg, services: a.Services, logger: logger, out: out}
	return cmd(c, ctx, args[1:])
}

func (c *cli) importPlayers(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageErr("import-players takes one roster file")
	}

	players, err := readFile(args[0], iihf.ReadRoster)
	if err != nil {
		return err
	}

	rep, err := c.services.Ingestion.ImportPlayers(ctx, c.cfg.ChampionshipYear, players)
	if err != nil {
		return err
	}
	c.printReport("players", rep)
	return nil
}

func (c *cli) importMatches(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageErr("import-matches takes one schedule file")
	}

	opts := iihf.ScheduleOptions{Year: c.cfg.ChampionshipYear, Location: c.cfg.FeedLocation}
	matches, err := readFile(args[0], func(r io.Reader) ([]match.Match, error) {
		return iihf.ReadSchedule(r, opts)
	})
	if err != nil {
		return err
	}

	rep, err := c.services.Ingestion.ImportMatches(ctx, matches)
	if err != nil {
		return err
	}
	c.printReport("matches", rep)
	return nil
}

// importStats reads every <match_id>=<file> argument concurrently, then
// imports the parsed batches on the ingestion worker pool.
func (c *cli) importStats(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageErr("import-stats needs at least one <match_id>=<stats.csv>")
	}

	type source struct {
		matchID int64
		path    string
	}
	sources := make([]source, 0, len(args))
	for _, arg := range args {
		rawID, path, ok := strings.Cut(arg, "=")
		matchID, err := strconv.ParseInt(rawID, 10, 64)
		if !ok || err != nil || matchID <= 0 || path == "" {
			return usageErr("bad stats argument %q, want <match_id>=<stats.csv>", arg)
		}
		sources = append(sources, source{matchID: matchID, path: path})
	}

	p := pool.NewWithResults[usecase.MatchStatsBatch]().
		WithContext(ctx).
		WithCancelOnError().
		WithMaxGoroutines(c.cfg.ImportWorkers)
	for _, src := range sources {
		p.Go(func(ctx context.Context) (usecase.MatchStatsBatch, error) {
			rows, err := readFile(src.path, iihf.ReadMatchStats)
			if err != nil {
				return usecase.MatchStatsBatch{}, err
			}
			records := make([]usecase.MatchStatRecord, 0, len(rows))
			for _, row := range rows {
				records = append(records, usecase.MatchStatRecord{PlayerName: row.PlayerName, Line: row.Line})
			}
			c.logger.DebugContext(ctx, "stats file read", "match_id", src.matchID, "path", src.path, "rows", len(rows))
			return usecase.MatchStatsBatch{MatchID: src.matchID, Records: records}, nil
		})
	}
	batches, err := p.Wait()
	if err != nil {
		return err
	}
	sort.Slice(batches, func(i, j int) bool { return batches[i].MatchID < batches[j].MatchID })

	result, err := c.services.Ingestion.ImportStatsBatch(ctx, c.cfg.ChampionshipYear, batches)
	if err != nil {
		return err
	}
	for _, m := range result.Matches {
		if m.Error != "" {
			fmt.Fprintf(c.out, "match %d: failed: %s\n", m.MatchID, m.Error)
			continue
		}
		c.printReport("match "+strconv.FormatInt(m.MatchID, 10)+" stats", m.Report)
	}
	if result.FailedCount > 0 {
		return fmt.Errorf("%d of %d stats imports failed", result.FailedCount, len(result.Matches))
	}
	return nil
}

func (c *cli) addUser(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return usageErr("add-user takes <username> <email> <password>")
	}

	u, err := c.services.Users.Register(ctx, usecase.RegisterUserInput{
		Username: args[0],
		Email:    args[1],
		Password: args[2],
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "user %s created: %s\n", u.Username, u.ID)
	return nil
}

func (c *cli) lock(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return usageErr("lock takes no arguments")
	}

	locked, err := c.services.Lineups.LockStarted(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "locked %d lineup entries\n", locked)
	return nil
}

func (c *cli) calculate(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageErr("calculate takes one day")
	}
	day, err := strconv.Atoi(args[0])
	if err != nil || day <= 0 {
		return usageErr("day must be a positive integer, got %q", args[0])
	}

	result, err := c.services.Scoring.CalculateDay(ctx, day)
	if err != nil {
		return err
	}
	c.printCalculation(result)
	return nil
}

func (c *cli) dailyScoring(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return usageErr("daily-scoring takes no arguments")
	}

	result, err := c.services.Jobs.RunDailyScoring(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "locked %d lineup entries\n", result.Locked)
	if len(result.Days) == 0 {
		fmt.Fprintln(c.out, "no recently started matches")
	}
	for _, d := range result.Days {
		c.printCalculation(d)
	}
	return nil
}

func (c *cli) standings(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("standings", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	day := fs.Int("day", 0, "scores of a single day instead of overall standings")
	format := fs.String("format", "table", "table or csv")
	lang := fs.String("lang", "en", "BCP 47 tag for number formatting in tables")
	if err := fs.Parse(args); err != nil {
		return usageErr("standings: %v", err)
	}
	if *day < 0 {
		return usageErr("day must not be negative")
	}
	tag, err := language.Parse(*lang)
	if err != nil {
		return usageErr("standings: bad -lang %q", *lang)
	}

	var rows []usecase.Standing
	if *day > 0 {
		rows, err = c.services.Scoring.ScoresForDay(ctx, *day)
	} else {
		rows, err = c.services.Scoring.Standings(ctx)
	}
	if err != nil {
		return err
	}

	switch *format {
	case "table":
		return report.WriteStandingsTable(c.out, rows, tag)
	case "csv":
		return report.WriteStandingsCSV(c.out, rows)
	default:
		return usageErr("standings: unknown format %q", *format)
	}
}

func (c *cli) printReport(what string, rep usecase.ImportReport) {
	fmt.Fprintf(c.out, "%s: %d imported, %d skipped of %d\n", what, rep.Imported, rep.Skipped, rep.Total)
	for _, w := range rep.Warnings {
		fmt.Fprintf(c.out, "  warning: %s\n", w)
	}
}

func (c *cli) printCalculation(d usecase.DayCalculation) {
	fmt.Fprintf(c.out, "day %d: %d users, %d entries scored, %d without stats\n",
		d.Day, d.Users, d.EntriesScored, d.MissingStats)
}

func readFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	out, err := read(f)
	if err != nil {
		return zero, fmt.Errorf("read %s: %w", path, err)
	}
	return out, nil
}
