// Package grid places states on the hand-authored cartogram used by the tile
// map.
//
// The table has [Rows] rows and [Cols] columns. Rows run west to east and
// columns north to south, so the tile chart draws it transposed: a cell's row
// becomes its horizontal position. Alaska and Hawaii sit in the corners near
// the west coast and DC sits beside Maryland.
package grid

import (
	"github.com/matzehuels/electoral/pkg/errors"
)

// Table dimensions.
const (
	Rows = 12
	Cols = 8
)

// table is the cartogram. Empty strings are unused cells.
var table = [Rows][Cols]string{
	{"AK", "", "", "", "", "", "", ""},
	{"", "", "WA", "OR", "CA", "", "", "HI"},
	{"", "", "ID", "NV", "UT", "AZ", "", ""},
	{"", "", "MT", "WY", "CO", "NM", "", ""},
	{"", "", "ND", "SD", "NE", "KS", "OK", "TX"},
	{"", "", "MN", "IA", "MO", "AR", "LA", ""},
	{"", "", "IL", "IN", "KY", "TN", "MS", ""},
	{"", "", "WI", "OH", "WV", "NC", "AL", ""},
	{"", "", "MI", "PA", "VA", "SC", "GA", ""},
	{"", "", "NY", "NJ", "MD", "DE", "", "FL"},
	{"", "VT", "RI", "CT", "DC", "", "", ""},
	{"ME", "NH", "MA", "", "", "", "", ""},
}

// Cell is a position in the cartogram table.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Locate returns the cell of the given state code. The table is scanned row
// by row and the first match wins. Unknown codes return an UNKNOWN_STATE
// error naming the code; callers must not draw such records.
func Locate(abbr string) (Cell, error) {
	if abbr != "" {
		for r := range Rows {
			for c := range Cols {
				if table[r][c] == abbr {
					return Cell{Row: r, Col: c}, nil
				}
			}
		}
	}
	return Cell{}, errors.New(errors.ErrCodeUnknownState, "state %q has no cartogram cell", abbr)
}

// LocateAll locates every code and fails on the first unknown one.
func LocateAll(abbrs []string) (map[string]Cell, error) {
	cells := make(map[string]Cell, len(abbrs))
	for _, a := range abbrs {
		c, err := Locate(a)
		if err != nil {
			return nil, err
		}
		cells[a] = c
	}
	return cells, nil
}

// Extent returns the largest row and column index among cells. An empty input
// yields (0, 0).
func Extent(cells map[string]Cell) (maxRow, maxCol int) {
	for _, c := range cells {
		maxRow = max(maxRow, c.Row)
		maxCol = max(maxCol, c.Col)
	}
	return maxRow, maxCol
}

// States returns every state code in the table in scan order.
func States() []string {
	var out []string
	for r := range Rows {
		for c := range Cols {
			if table[r][c] != "" {
				out = append(out, table[r][c])
			}
		}
	}
	return out
}

// At returns the code stored at cell c, or "" for an unused or out-of-range
// cell.
func At(c Cell) string {
	if c.Row < 0 || c.Row >= Rows || c.Col < 0 || c.Col >= Cols {
		return ""
	}
	return table[c.Row][c.Col]
}
