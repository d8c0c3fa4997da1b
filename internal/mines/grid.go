package mines

import (
	"fmt"
	"strings"
)

type CellState int8

const (
	Hidden         CellState = -2
	Revealed       CellState = 0
	UnrevealedSafe CellState = 1
	ExplodedMine   CellState = 65
	UnrevealedMine CellState = 67
	/*
	 * What the player is allowed to see of a cell:
	 *
	 * 	- Hidden while the game is active and the cell is unopened.
	 * 	- Revealed for an opened safe cell.
	 * 	- Once the game has ended every remaining cell is exposed:
	 * 	  UnrevealedSafe, UnrevealedMine, and ExplodedMine for the
	 * 	  one the player hit.
	 */
)

var cellStateNames = map[CellState]string{
	Hidden:         "hidden",
	Revealed:       "revealed",
	UnrevealedSafe: "safe",
	ExplodedMine:   "exploded",
	UnrevealedMine: "mine",
}

func (s CellState) String() string {
	if name, ok := cellStateNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s CellState) MarshalText() ([]byte, error) {
	if _, ok := cellStateNames[s]; !ok {
		return nil, fmt.Errorf("unknown cell state %d", s)
	}
	return []byte(s.String()), nil
}

func (s CellState) glyph() string {
	switch s {
	case Hidden:
		return "#"
	case Revealed:
		return "."
	case UnrevealedSafe:
		return " "
	case ExplodedMine:
		return "X"
	case UnrevealedMine:
		return "*"
	default:
		return "!"
	}
}

type Grid [][]CellState

func (g Grid) String() string {
	var b strings.Builder
	for _, row := range g {
		for _, c := range row {
			fmt.Fprint(&b, c.glyph()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}

// Board returns the player's view of the grid. Mines stay hidden until the
// game has ended.
func (g *Game) Board() (Grid, error) {
	field, err := DecodeLayout(g.MineLayout, g.GridSize)
	if err != nil {
		return nil, err
	}
	ended := g.Status.Terminal()
	grid := make(Grid, g.GridSize)
	for r := range g.GridSize {
		grid[r] = make([]CellState, g.GridSize)
		for c := range g.GridSize {
			mine, revealed := g.RevealedCells[CellKey(r, c)]
			switch {
			case revealed && mine:
				grid[r][c] = ExplodedMine
			case revealed:
				grid[r][c] = Revealed
			case !ended:
				grid[r][c] = Hidden
			case field.IsMine(r, c):
				grid[r][c] = UnrevealedMine
			default:
				grid[r][c] = UnrevealedSafe
			}
		}
	}
	return grid, nil
}
