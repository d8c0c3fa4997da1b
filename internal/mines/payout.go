package mines

import "github.com/shopspring/decimal"

type oddsKey struct {
	gridSize, mineCount int
}

/*
 * House-edge tuning. Only these exact (grid, mines) pairs have curated
 * odds; every other valid combination plays at defaultBase.
 */
var baseMultipliers = map[oddsKey]decimal.Decimal{
	{3, 1}: decimal.RequireFromString("1.5"),
	{3, 2}: decimal.RequireFromString("1.8"),
	{3, 3}: decimal.RequireFromString("2.5"),
	{4, 2}: decimal.RequireFromString("1.3"),
	{4, 4}: decimal.RequireFromString("1.6"),
	{4, 6}: decimal.RequireFromString("2.0"),
	{5, 3}: decimal.RequireFromString("1.2"),
	{5, 5}: decimal.RequireFromString("1.5"),
	{5, 8}: decimal.RequireFromString("1.8"),
}

var (
	defaultBase = decimal.NewFromInt(1)
	revealStep  = decimal.RequireFromString("0.15")
)

const moneyPlaces = 2

func BaseMultiplier(gridSize, mineCount int) decimal.Decimal {
	if m, ok := baseMultipliers[oddsKey{gridSize, mineCount}]; ok {
		return m
	}
	return defaultBase
}

// Multiplier is base * (1 + safeClicks * 0.15), rounded to cents.
func Multiplier(gridSize, mineCount, safeClicks int) decimal.Decimal {
	growth := decimal.NewFromInt(1).Add(revealStep.Mul(decimal.NewFromInt(int64(safeClicks))))
	return BaseMultiplier(gridSize, mineCount).Mul(growth).Round(moneyPlaces)
}

func Prize(bet, multiplier decimal.Decimal) decimal.Decimal {
	return bet.Mul(multiplier).Round(moneyPlaces)
}
