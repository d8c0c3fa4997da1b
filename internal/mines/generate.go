package mines

import (
	"math/rand/v2"
	"strconv"
)

// Minefield is the fixed mine layout of one game. It is never modified after
// generation.
type Minefield struct {
	size  int
	cells []bool
}

// Generate places p.MineCount mines uniformly at random among all cells.
func Generate(p GameParams, r *rand.Rand) (*Minefield, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := p.CellCount()
	cells := make([]bool, n)

	/*
	 * Write down the list of possible mine locations, then pick
	 * MineCount off the list at random, removing each pick.
	 */
	candidates := make([]int, n)
	for i := range candidates {
		candidates[i] = i
	}
	k := n
	for range p.MineCount {
		i := r.IntN(k)
		cells[candidates[i]] = true
		k--
		candidates[i] = candidates[k]
	}

	return &Minefield{size: p.GridSize, cells: cells}, nil
}

func (m *Minefield) Size() int {
	return m.size
}

func (m *Minefield) MineCount() int {
	c := 0
	for _, mine := range m.cells {
		if mine {
			c++
		}
	}
	return c
}

func (m *Minefield) IsMine(row, col int) bool {
	if row < 0 || row >= m.size || col < 0 || col >= m.size {
		return false
	}
	return m.cells[row*m.size+col]
}

// Matrix returns a copy of the layout as rows of mine flags.
func (m *Minefield) Matrix() [][]bool {
	rows := make([][]bool, m.size)
	for r := range m.size {
		rows[r] = make([]bool, m.size)
		copy(rows[r], m.cells[r*m.size:(r+1)*m.size])
	}
	return rows
}

// Layout maps a row index to a column index to 0 (safe) or 1 (mine). It is
// the form a minefield is stored in between requests.
type Layout map[string]map[string]int

func (m *Minefield) Layout() Layout {
	layout := make(Layout, m.size)
	for r := range m.size {
		row := make(map[string]int, m.size)
		for c := range m.size {
			v := 0
			if m.cells[r*m.size+c] {
				v = 1
			}
			row[strconv.Itoa(c)] = v
		}
		layout[strconv.Itoa(r)] = row
	}
	return layout
}

// DecodeLayout restores the minefield a layout was produced from.
func DecodeLayout(layout Layout, size int) (*Minefield, error) {
	if size <= 0 || len(layout) != size {
		return nil, ErrCorruptLayout
	}
	cells := make([]bool, size*size)
	for r := range size {
		row, ok := layout[strconv.Itoa(r)]
		if !ok || len(row) != size {
			return nil, ErrCorruptLayout
		}
		for c := range size {
			v, ok := row[strconv.Itoa(c)]
			if !ok {
				return nil, ErrCorruptLayout
			}
			switch v {
			case 0:
			case 1:
				cells[r*size+c] = true
			default:
				return nil, ErrCorruptLayout
			}
		}
	}
	return &Minefield{size: size, cells: cells}, nil
}
