package mines

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMineCount(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for _, size := range SupportedGridSizes() {
		for mc := 1; mc < size*size; mc++ {
			params := GameParams{GridSize: size, MineCount: mc}
			field, err := Generate(params, r)
			require.NoError(t, err, params.Seed())
			assert.Equal(t, size, field.Size())
			assert.Equal(t, mc, field.MineCount(), params.Seed())

			safe := 0
			for _, row := range field.Matrix() {
				for _, mine := range row {
					if !mine {
						safe++
					}
				}
			}
			assert.Equal(t, size*size-mc, safe, params.Seed())
		}
	}
}

func TestGenerateRejectsInvalidParams(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	tests := []GameParams{
		{GridSize: 6, MineCount: 3},
		{GridSize: 2, MineCount: 1},
		{GridSize: 3, MineCount: 0},
		{GridSize: 3, MineCount: 9},
		{GridSize: 5, MineCount: -1},
	}
	for _, params := range tests {
		t.Run(params.Seed(), func(t *testing.T) {
			field, err := Generate(params, r)
			assert.Nil(t, field)
			var ve ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
}

func TestGenerateUniformSingleMine(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}

	const trials = 9000
	r := rand.New(rand.NewPCG(1, 2))
	params := GameParams{GridSize: 3, MineCount: 1}

	counts := make(map[int]int)
	for range trials {
		field, err := Generate(params, r)
		require.NoError(t, err)
		for i, mine := range field.cells {
			if mine {
				counts[i]++
			}
		}
	}

	require.Len(t, counts, 9)
	for cell, n := range counts {
		assert.InDelta(t, trials/9, n, 200, "cell %d", cell)
	}
}

func TestGenerateEveryLayoutReachable(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}

	// C(9, 2) = 36 distinct layouts, 200 expected draws of each.
	const (
		layouts = 36
		trials  = layouts * 200
	)
	r := rand.New(rand.NewPCG(3, 4))
	params := GameParams{GridSize: 3, MineCount: 2}

	counts := make(map[[9]bool]int)
	for range trials {
		field, err := Generate(params, r)
		require.NoError(t, err)
		var key [9]bool
		copy(key[:], field.cells)
		counts[key]++
	}

	require.Len(t, counts, layouts)
	for _, n := range counts {
		assert.InDelta(t, trials/layouts, n, 100)
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	field, err := Generate(GameParams{GridSize: 4, MineCount: 6}, r)
	require.NoError(t, err)

	b, err := json.Marshal(field.Layout())
	require.NoError(t, err)

	var layout Layout
	require.NoError(t, json.Unmarshal(b, &layout))

	decoded, err := DecodeLayout(layout, 4)
	require.NoError(t, err)
	assert.Equal(t, field.Matrix(), decoded.Matrix())
}

func TestLayoutFormat(t *testing.T) {
	field := &Minefield{size: 3, cells: []bool{
		false, true, false,
		false, false, false,
		true, false, false,
	}}
	expected := Layout{
		"0": {"0": 0, "1": 1, "2": 0},
		"1": {"0": 0, "1": 0, "2": 0},
		"2": {"0": 1, "1": 0, "2": 0},
	}
	assert.Equal(t, expected, field.Layout())
}

func TestDecodeLayoutCorrupt(t *testing.T) {
	tests := []struct {
		name   string
		layout Layout
		size   int
	}{
		{"empty", Layout{}, 3},
		{"missing row", Layout{"0": {"0": 0, "1": 0}}, 2},
		{"short row", Layout{"0": {"0": 0, "1": 0}, "1": {"0": 0}}, 2},
		{"bad value", Layout{"0": {"0": 2}}, 1},
		{"bad key", Layout{"0": {"0": 0, "x": 1}, "1": {"0": 0, "1": 0}}, 2},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := DecodeLayout(test.layout, test.size)
			assert.ErrorIs(t, err, ErrCorruptLayout)
		})
	}
}

func TestCryptoRand(t *testing.T) {
	r := NewCryptoRand()
	field, err := Generate(GameParams{GridSize: 5, MineCount: 8}, r)
	require.NoError(t, err)
	assert.Equal(t, 8, field.MineCount())
}
