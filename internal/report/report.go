// Package report renders standings for spreadsheet sinks and terminals.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/riskibarqy/iihf-fantasy/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Days returns the sorted union of days present in rows.
func Days(rows []usecase.Standing) []int {
	seen := make(map[int]struct{})
	for _, row := range rows {
		for day := range row.ScoresByDay {
			seen[day] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for day := range seen {
		out = append(out, day)
	}
	sort.Ints(out)
	return out
}

// WriteStandingsCSV writes one row per user with a column per scored day.
// Numbers use a dot decimal separator regardless of locale.
func WriteStandingsCSV(w io.Writer, rows []usecase.Standing) error {
	days := Days(rows)
	cw := csv.NewWriter(w)

	header := []string{"rank", "username", "user_id", "total_points"}
	for _, day := range days {
		header = append(header, "day_"+strconv.Itoa(day))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write standings header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.Rank),
			row.Username,
			row.UserID,
			formatPoints(row.TotalPoints),
		}
		for _, day := range days {
			record = append(record, formatPoints(row.ScoresByDay[day]))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write standings row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush standings csv: %w", err)
	}
	return nil
}

func formatPoints(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// WriteStandingsTable writes an aligned plain-text table. Numbers follow
// the conventions of lang, so Czech output reads "11,20".
func WriteStandingsTable(w io.Writer, rows []usecase.Standing, lang language.Tag) error {
	p := message.NewPrinter(lang)
	days := Days(rows)

	header := []string{"#", "User", "Total"}
	for _, day := range days {
		header = append(header, "D"+strconv.Itoa(day))
	}
	cells := [][]string{header}
	for _, row := range rows {
		line := []string{
			strconv.Itoa(row.Rank),
			row.Username,
			p.Sprintf("%.2f", row.TotalPoints),
		}
		for _, day := range days {
			line = append(line, p.Sprintf("%.2f", row.ScoresByDay[day]))
		}
		cells = append(cells, line)
	}

	widths := make([]int, len(header))
	for _, line := range cells {
		for i, cell := range line {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for n, line := range cells {
		for i, cell := range line {
			if i > 0 {
				_, _ = buf.WriteString("  ")
			}
			pad := strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell))
			// Names align left, numbers right.
			if i == 1 {
				_, _ = buf.WriteString(cell + pad)
			} else {
				_, _ = buf.WriteString(pad + cell)
			}
		}
		_ = buf.WriteByte('\n')
		if n == 0 {
			total := len(widths)*2 - 2
			for _, width := range widths {
				total += width
			}
			_, _ = buf.WriteString(strings.Repeat("-", total) + "\n")
		}
	}

	if _, err := w.Write(buf.B); err != nil {
		return fmt.Errorf("write standings table: %w", err)
	}
	return nil
}
