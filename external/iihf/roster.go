package iihf

import (
	"io"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/player"
)

// ReadRoster parses a roster export with columns
// name,position,team_abbr[,country]. Positions are kept verbatim; the
// importer normalizes them so unknown spellings can be reported.
func ReadRoster(r io.Reader) ([]player.Player, error) {
	t, err := readTable("roster", r, "name", "position", "team_abbr")
	if err != nil {
		return nil, err
	}

	out := make([]player.Player, 0, len(t.rows))
	for idx, row := range t.rows {
		if blank(row) {
			continue
		}
		name := t.value(row, "name")
		if name == "" {
			return nil, crerr.Newf("roster row %d: name is empty", idx+2)
		}
		out = append(out, player.Player{
			Name:     name,
			Position: player.Position(t.value(row, "position")),
			TeamAbbr: t.value(row, "team_abbr"),
		})
	}
	return out, nil
}
