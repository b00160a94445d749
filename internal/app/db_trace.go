package app

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/iihf-fantasy/internal/infrastructure/repository/sqlstore"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
)

const maxTracedQueryLength = 512

var queryWhitespaceRegex = regexp.MustCompile(`\s+`)

func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	normalized := queryWhitespaceRegex.ReplaceAllString(query, " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}

// openDB opens a traced sqlx handle for target and checks it answers.
func openDB(ctx context.Context, target dbTarget) (*sqlx.DB, error) {
	db, err := otelsqlx.Open(target.Driver, target.DSN,
		otelsql.WithDBSystem(target.Driver),
		otelsql.WithDBName(target.Name),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
		otelsql.WithAttributes(attribute.String("service.component", "sqlstore")),
	)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", target.Driver, err)
	}

	if target.Driver == sqlstore.DriverSQLite {
		// sqlite has a single writer.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	}
	otelsql.ReportDBStatsMetrics(db.DB, otelsql.WithDBName(target.Name))

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", target.Driver, err)
	}
	return db, nil
}
