package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/vancomm/minewager/internal/mines"
)

// Game is a stored wager. Version increments on every successful update.
type Game struct {
	mines.Game
	GameId    int64
	PlayerId  int64
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

const gameColumns = `game_id, player_id, bet_amount, grid_size, mine_count,
	mine_layout, revealed_cells, current_multiplier, status, prize_amount,
	version, created_at, updated_at`

func scanGame(row pgx.Row) (*Game, error) {
	var (
		g      Game
		status string
	)
	err := row.Scan(
		&g.GameId, &g.PlayerId, &g.BetAmount, &g.GridSize, &g.MineCount,
		&g.MineLayout, &g.RevealedCells, &g.CurrentMultiplier, &status, &g.PrizeAmount,
		&g.Version, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	if g.Status, err = mines.ParseStatus(status); err != nil {
		return nil, err
	}
	if g.RevealedCells == nil {
		g.RevealedCells = mines.RevealedCells{}
	}
	return &g, nil
}

func (q *Queries) CreateGame(ctx context.Context, playerId int64, game *mines.Game) (*Game, error) {
	row := q.db.QueryRow(
		ctx,
		`INSERT INTO game (
			player_id, bet_amount, grid_size, mine_count, mine_layout,
			revealed_cells, current_multiplier, status, prize_amount
		)
		VALUES (
			@player_id, @bet_amount, @grid_size, @mine_count, @mine_layout,
			@revealed_cells, @current_multiplier, @status, @prize_amount
		)
		RETURNING `+gameColumns,
		gameArgs(game, pgx.NamedArgs{"player_id": playerId}),
	)
	return scanGame(row)
}

func (q *Queries) FetchGame(ctx context.Context, gameId int64) (*Game, error) {
	row := q.db.QueryRow(
		ctx, "SELECT "+gameColumns+" FROM game WHERE game_id = $1", gameId,
	)
	return scanGame(row)
}

// UpdateGame writes the mutable part of game if the stored version still
// equals expectedVersion, and returns ErrStaleGame otherwise.
func (q *Queries) UpdateGame(
	ctx context.Context, gameId int64, expectedVersion int, game *mines.Game,
) (*Game, error) {
	row := q.db.QueryRow(
		ctx,
		`UPDATE game SET
			revealed_cells = @revealed_cells,
			current_multiplier = @current_multiplier,
			status = @status,
			prize_amount = @prize_amount,
			version = version + 1
		WHERE game_id = @game_id AND version = @version
		RETURNING `+gameColumns,
		gameArgs(game, pgx.NamedArgs{"game_id": gameId, "version": expectedVersion}),
	)
	updated, err := scanGame(row)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrStaleGame
	}
	return updated, err
}

func gameArgs(game *mines.Game, args pgx.NamedArgs) pgx.NamedArgs {
	revealed := game.RevealedCells
	if revealed == nil {
		revealed = mines.RevealedCells{}
	}
	args["bet_amount"] = game.BetAmount
	args["grid_size"] = game.GridSize
	args["mine_count"] = game.MineCount
	args["mine_layout"] = game.MineLayout
	args["revealed_cells"] = revealed
	args["current_multiplier"] = game.CurrentMultiplier
	args["status"] = string(game.Status)
	args["prize_amount"] = game.PrizeAmount
	return args
}

type GameSummary struct {
	GameId      int64           `json:"id"`
	BetAmount   decimal.Decimal `json:"bet_amount"`
	GridSize    int             `json:"grid_size"`
	MineCount   int             `json:"mines_count"`
	Status      mines.Status    `json:"status"`
	PrizeAmount decimal.Decimal `json:"prize_amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ListGames returns a page of the player's games, newest first.
func (q *Queries) ListGames(ctx context.Context, playerId int64, offset, limit int) ([]GameSummary, error) {
	rows, err := q.db.Query(
		ctx,
		`SELECT game_id, bet_amount, grid_size, mine_count, status, prize_amount, created_at
		FROM game
		WHERE player_id = $1
		ORDER BY created_at DESC, game_id DESC
		OFFSET $2 LIMIT $3`,
		playerId, offset, limit,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (GameSummary, error) {
		var (
			s      GameSummary
			status string
		)
		err := row.Scan(
			&s.GameId, &s.BetAmount, &s.GridSize, &s.MineCount, &status, &s.PrizeAmount, &s.CreatedAt,
		)
		if err != nil {
			return s, err
		}
		s.Status, err = mines.ParseStatus(status)
		return s, err
	})
}

func (q *Queries) CountGamesByStatus(ctx context.Context, playerId int64) (map[mines.Status]int, error) {
	rows, err := q.db.Query(
		ctx,
		"SELECT status, count(*) FROM game WHERE player_id = $1 GROUP BY status",
		playerId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[mines.Status]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		st, err := mines.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		counts[st] = n
	}
	return counts, rows.Err()
}
