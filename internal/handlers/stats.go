package handlers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vancomm/minewager/internal/mines"
	"github.com/vancomm/minewager/internal/repository"
)

var hundred = decimal.NewFromInt(100)

// percent returns part/whole*100 rounded to cents, or zero when whole is
// not positive.
func percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Mul(hundred).DivRound(whole, 4).Round(2)
}

type PlayerStats struct {
	Username     string          `json:"username"`
	Balance      decimal.Decimal `json:"balance"`
	TotalGames   int             `json:"total_games"`
	WonGames     int             `json:"won_games"`
	LostGames    int             `json:"lost_games"`
	ActiveGames  int             `json:"active_games"`
	TotalWagered decimal.Decimal `json:"total_wagered"`
	TotalWon     decimal.Decimal `json:"total_won"`
	WinRate      decimal.Decimal `json:"win_rate"`
	ROI          decimal.Decimal `json:"roi"`
	Joined       string          `json:"joined"`
}

// NewPlayerStats counts claimed games as won. Win rate is over every game
// the player started, ROI is net winnings over the total wagered.
func NewPlayerStats(p *repository.Player, counts map[mines.Status]int) PlayerStats {
	won := counts[mines.Claimed] + counts[mines.Won]
	return PlayerStats{
		Username:     p.Username,
		Balance:      p.Balance,
		TotalGames:   p.TotalGames,
		WonGames:     won,
		LostGames:    counts[mines.Lost],
		ActiveGames:  counts[mines.Active],
		TotalWagered: p.TotalWagered,
		TotalWon:     p.TotalWon,
		WinRate:      percent(decimal.NewFromInt(int64(won)), decimal.NewFromInt(int64(p.TotalGames))),
		ROI:          percent(p.TotalWon.Sub(p.TotalWagered), p.TotalWagered),
		Joined:       p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type LeaderboardEntry struct {
	Rank         int             `json:"rank"`
	Username     string          `json:"username"`
	TotalGames   int             `json:"total_games"`
	TotalWagered decimal.Decimal `json:"total_wagered"`
	TotalWon     decimal.Decimal `json:"total_won"`
	WinRate      decimal.Decimal `json:"win_rate"`
	Balance      decimal.Decimal `json:"balance"`
	CreatedAt    string          `json:"created_at"`
}

type Leaderboard struct {
	Players    []LeaderboardEntry `json:"users"`
	TotalUsers int                `json:"total_users"`
}

func NewLeaderboard(rows []repository.LeaderboardRow) Leaderboard {
	entries := make([]LeaderboardEntry, len(rows))
	for i, row := range rows {
		entries[i] = LeaderboardEntry{
			Rank:         i + 1,
			Username:     row.Username,
			TotalGames:   row.TotalGames,
			TotalWagered: row.TotalWagered,
			TotalWon:     row.TotalWon,
			WinRate:      percent(row.TotalWon, row.TotalWagered),
			Balance:      row.Balance,
			CreatedAt:    row.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	return Leaderboard{Players: entries, TotalUsers: len(entries)}
}

type CasinoStats struct {
	TotalWagered      decimal.Decimal `json:"total_wagered"`
	TotalWon          decimal.Decimal `json:"total_won"`
	CasinoProfit      decimal.Decimal `json:"casino_profit"`
	CasinoEdgePercent decimal.Decimal `json:"casino_edge_percent"`
	Players           int             `json:"players"`
}

// NewCasinoStats treats every wagered amount as house income and every
// payout as house expense.
func NewCasinoStats(t repository.CasinoTotals) CasinoStats {
	profit := t.TotalWagered.Sub(t.TotalWon)
	return CasinoStats{
		TotalWagered:      t.TotalWagered.Round(2),
		TotalWon:          t.TotalWon.Round(2),
		CasinoProfit:      profit.Round(2),
		CasinoEdgePercent: percent(profit, t.TotalWagered),
		Players:           t.Players,
	}
}
