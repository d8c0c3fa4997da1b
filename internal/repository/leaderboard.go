// custom query
package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type LeaderboardRow struct {
	Username     string
	TotalGames   int
	TotalWagered decimal.Decimal
	TotalWon     decimal.Decimal
	Balance      decimal.Decimal
	CreatedAt    time.Time
}

// Leaderboard lists active players by total winnings.
func (q *Queries) Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	rows, err := q.db.Query(
		ctx,
		`SELECT username, total_games, total_wagered, total_won, balance, created_at
		FROM player
		WHERE is_active = true
		ORDER BY total_won DESC, player_id
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[LeaderboardRow])
}

type CasinoTotals struct {
	TotalWagered decimal.Decimal
	TotalWon     decimal.Decimal
	Players      int
}

func (q *Queries) CasinoTotals(ctx context.Context) (CasinoTotals, error) {
	var t CasinoTotals
	err := q.db.QueryRow(
		ctx,
		`SELECT
			coalesce(sum(total_wagered), 0),
			coalesce(sum(total_won), 0),
			count(*)
		FROM player`,
	).Scan(&t.TotalWagered, &t.TotalWon, &t.Players)
	return t, err
}
