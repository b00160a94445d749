// Package iihf reads the CSV exports produced by the championship scrapers:
// team rosters, the match schedule and per-match player statistics.
package iihf

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

// table is a CSV file loaded into memory with a case-insensitive header
// index. Extra columns are ignored.
type table struct {
	name   string
	header map[string]int
	rows   [][]string
}

func readTable(name string, r io.Reader, required ...string) (*table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, crerr.Wrapf(err, "read %s feed", name)
	}
	if len(records) == 0 {
		return nil, crerr.Newf("%s feed is empty", name)
	}

	header := make(map[string]int, len(records[0]))
	for idx, col := range records[0] {
		key := normalizeHeader(col)
		if _, exists := header[key]; !exists {
			header[key] = idx
		}
	}
	for _, col := range required {
		if _, ok := header[normalizeHeader(col)]; !ok {
			return nil, crerr.Newf("%s feed is missing column %q", name, col)
		}
	}

	return &table{name: name, header: header, rows: records[1:]}, nil
}

func normalizeHeader(v string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(v, "\ufeff")))
}

// value returns the trimmed cell of column in row, or "" when the column
// or cell is absent.
func (t *table) value(row []string, column string) string {
	idx, ok := t.header[normalizeHeader(column)]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (t *table) has(column string) bool {
	_, ok := t.header[normalizeHeader(column)]
	return ok
}

// blank reports whether every cell of row is empty.
func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseCount parses scraper numbers. Exports written through pandas carry
// floats ("1.0") and signed values ("+1"); empty cells and NaN read as zero.
func parseCount(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "", "nan", "-":
		return 0, nil
	}

	if n, err := strconv.Atoi(strings.TrimPrefix(raw, "+")); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, crerr.Wrapf(err, "parse number %q", raw)
	}
	if f != math.Trunc(f) {
		return 0, crerr.Newf("number %q is not a whole count", raw)
	}
	return int(f), nil
}

// parseFlag reads win markers: 1, 1.0, true, yes.
func parseFlag(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "0", "0.0", "false", "no", "nan":
		return false, nil
	case "1", "1.0", "true", "yes":
		return true, nil
	}
	return false, crerr.Newf("invalid flag %q", raw)
}
