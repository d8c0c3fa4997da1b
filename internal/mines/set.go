package mines

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// RevealedCells maps a "row,col" key to whether the revealed cell was a mine.
// Entries are only ever added.
type RevealedCells map[string]bool

func CellKey(row, col int) string {
	return strconv.Itoa(row) + "," + strconv.Itoa(col)
}

func ParseCellKey(key string) (row, col int, err error) {
	rs, cs, ok := strings.Cut(key, ",")
	if !ok {
		return 0, 0, fmt.Errorf("malformed cell key %q", key)
	}
	if row, err = strconv.Atoi(rs); err != nil {
		return 0, 0, fmt.Errorf("malformed cell key %q: %w", key, err)
	}
	if col, err = strconv.Atoi(cs); err != nil {
		return 0, 0, fmt.Errorf("malformed cell key %q: %w", key, err)
	}
	return row, col, nil
}

func (s RevealedCells) Has(row, col int) bool {
	_, ok := s[CellKey(row, col)]
	return ok
}

func (s RevealedCells) SafeCount() int {
	n := 0
	for _, mine := range s {
		if !mine {
			n++
		}
	}
	return n
}

// Keys returns the revealed keys in row-major order.
func (s RevealedCells) Keys() []string {
	type cell struct {
		key      string
		row, col int
	}
	cells := make([]cell, 0, len(s))
	for k := range s {
		r, c, err := ParseCellKey(k)
		if err != nil {
			r, c = -1, -1
		}
		cells = append(cells, cell{k, r, c})
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].row != cells[j].row {
			return cells[i].row < cells[j].row
		}
		return cells[i].col < cells[j].col
	})
	keys := make([]string, len(cells))
	for i, c := range cells {
		keys[i] = c.key
	}
	return keys
}

func (s RevealedCells) clone() RevealedCells {
	c := make(RevealedCells, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}
