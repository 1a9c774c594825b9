package sequencer

import "strings"

// NumSteps is the default bar length in sixteenth notes
const NumSteps = 16

// Grid is rows (instruments) x steps of active flags
type Grid [][]bool

// NewGrid returns an all-false grid of the given size
func NewGrid(rows, steps int) Grid {
	g := make(Grid, rows)
	for r := range g {
		g[r] = make([]bool, steps)
	}
	return g
}

// Rows returns the row count
func (g Grid) Rows() int {
	return len(g)
}

// Steps returns the length of the first row (all rows match)
func (g Grid) Steps() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Clone returns a deep copy
func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	out := make(Grid, len(g))
	for r, row := range g {
		out[r] = append([]bool(nil), row...)
	}
	return out
}

// Active reports whether a cell is on; out-of-range cells are off
func (g Grid) Active(row, step int) bool {
	if row < 0 || row >= len(g) || step < 0 || step >= len(g[row]) {
		return false
	}
	return g[row][step]
}

// Empty reports whether no cell is on
func (g Grid) Empty() bool {
	for _, row := range g {
		for _, on := range row {
			if on {
				return false
			}
		}
	}
	return true
}

// Normalize fits an arbitrary shaped grid into rows x steps.
// Short rows are padded with false, long rows truncated, missing rows are
// empty and extra rows dropped. The input is never aliased.
func Normalize(src [][]bool, rows, steps int) Grid {
	g := NewGrid(rows, steps)
	for r := 0; r < rows && r < len(src); r++ {
		copy(g[r], src[r])
	}
	return g
}

// ParseRow reads a row in text form: x, X, 1 or ● are active, anything else is a rest
func ParseRow(s string) []bool {
	var row []bool
	for _, c := range s {
		switch c {
		case ' ', '|':
			// bar separators
			continue
		case 'x', 'X', '1', '●':
			row = append(row, true)
		default:
			row = append(row, false)
		}
	}
	return row
}

// FormatRow is the inverse of ParseRow
func FormatRow(row []bool) string {
	var b strings.Builder
	for _, on := range row {
		if on {
			b.WriteByte('x')
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// ParseGrid parses one text row per instrument
func ParseGrid(rows []string) [][]bool {
	out := make([][]bool, len(rows))
	for i, r := range rows {
		out[i] = ParseRow(r)
	}
	return out
}

// FormatGrid is the inverse of ParseGrid
func FormatGrid(g Grid) []string {
	out := make([]string, len(g))
	for i, row := range g {
		out[i] = FormatRow(row)
	}
	return out
}
