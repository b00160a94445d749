// Command fantasy is the operator CLI: feed imports, lineup locking, day
// scoring and standings export against the configured database.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/riskibarqy/iihf-fantasy/internal/config"
	"github.com/riskibarqy/iihf-fantasy/internal/platform/logging"
)

const usage = `usage: fantasy <command> [args]

commands:
  import-players <roster.csv>
  import-matches <match_urls.csv>
  import-stats <match_id>=<stats.csv> [...]
  add-user <username> <email> <password>
  lock
  calculate <day>
  daily-scoring
  standings [-day N] [-format table|csv] [-lang en]
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	logger := logging.NewConsole(cfg.LogLevel)
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = run(ctx, cfg, logger, os.Args[1:], os.Stdout)
	_ = logger.Sync()
	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	default:
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
