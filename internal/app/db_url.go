package app

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/riskibarqy/iihf-fantasy/internal/infrastructure/repository/sqlstore"
)

const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// dbTarget is a DB_URL split into the driver and the DSN that driver expects.
type dbTarget struct {
	Driver string
	DSN    string
	Name   string
}

// parseDBURL picks the driver from the DB_URL scheme. sqlite://path becomes a
// modernc file DSN with foreign keys on; postgres URLs pass through.
func parseDBURL(raw string, disablePreparedBinaryResult bool) (dbTarget, error) {
	trimmed := strings.TrimSpace(raw)
	scheme, rest, ok := strings.Cut(trimmed, "://")
	if !ok {
		return dbTarget{}, fmt.Errorf("DB_URL %q has no scheme", raw)
	}

	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		return dbTarget{
			Driver: sqlstore.DriverPostgres,
			DSN:    normalizeDBURL(trimmed, disablePreparedBinaryResult),
			Name:   dbNameFromURL(trimmed),
		}, nil
	case "sqlite", "sqlite3", "file":
		path, query, _ := strings.Cut(rest, "?")
		if path == "" {
			return dbTarget{}, fmt.Errorf("DB_URL %q has no sqlite path", raw)
		}
		dsn := "file:" + path + "?" + sqlitePragmas
		if query != "" {
			dsn += "&" + query
		}
		return dbTarget{Driver: sqlstore.DriverSQLite, DSN: dsn, Name: path}, nil
	default:
		return dbTarget{}, fmt.Errorf("unsupported DB_URL scheme %q", scheme)
	}
}

func normalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}

	return parsed.String()
}

func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
		if name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		if !strings.HasPrefix(token, "dbname=") {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(token, "dbname="))
		name = strings.Trim(name, `"'`)
		if name != "" {
			return name
		}
	}

	return ""
}
