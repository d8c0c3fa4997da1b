package mines

import (
	"fmt"
	"slices"
	"strings"
)

var supportedGridSizes = []int{3, 4, 5}

// SupportedGridSizes returns the grid side lengths a game can be created with.
func SupportedGridSizes() []int {
	return slices.Clone(supportedGridSizes)
}

type GameParams struct {
	GridSize, MineCount int
}

func (p GameParams) CellCount() int {
	return p.GridSize * p.GridSize
}

func (p GameParams) Validate() error {
	if !slices.Contains(supportedGridSizes, p.GridSize) {
		return ValidationError{
			Field:  "grid_size",
			Reason: fmt.Sprintf("must be one of %s", joinInts(supportedGridSizes)),
		}
	}
	if p.MineCount < 1 || p.MineCount >= p.CellCount() {
		return ValidationError{
			Field:  "mines_count",
			Reason: fmt.Sprintf("must be between 1 and %d", p.CellCount()-1),
		}
	}
	return nil
}

// ValidateParams reports whether a game of this size and mine count can be
// created.
func ValidateParams(gridSize, mineCount int) bool {
	return GameParams{GridSize: gridSize, MineCount: mineCount}.Validate() == nil
}

func (p GameParams) PointInBounds(row, col int) bool {
	return 0 <= row && row < p.GridSize && 0 <= col && col < p.GridSize
}

func (p GameParams) Seed() string {
	return fmt.Sprintf("%d:%d", p.GridSize, p.MineCount)
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, ", ")
}
