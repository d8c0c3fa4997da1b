package handlers

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vancomm/minewager/internal/mines"
	"github.com/vancomm/minewager/internal/repository"
)

type NewGameDTO struct {
	BetAmount decimal.Decimal `schema:"bet_amount,required" json:"bet_amount"`
	GridSize  int             `schema:"grid_size,required" json:"grid_size"`
	MineCount int             `schema:"mines_count,required" json:"mines_count"`
}

type ClickDTO struct {
	Row *int `schema:"row,required" json:"row"`
	Col *int `schema:"col,required" json:"col"`
}

var (
	ErrMissingCell  = errors.New("row and col are required")
	ErrNegativeCell = errors.New("row and col must be non-negative")
)

func (c ClickDTO) Validate() (row, col int, err error) {
	if c.Row == nil || c.Col == nil {
		return 0, 0, ErrMissingCell
	}
	if *c.Row < 0 || *c.Col < 0 {
		return 0, 0, ErrNegativeCell
	}
	return *c.Row, *c.Col, nil
}

type PageDTO struct {
	Skip  int `schema:"skip"`
	Limit int `schema:"limit"`
}

// GameView is what a player may see of a game. Mine positions are never
// included; the board exposes them only after the game has ended.
type GameView struct {
	Id                int64               `json:"id"`
	PlayerId          int64               `json:"user_id"`
	BetAmount         decimal.Decimal     `json:"bet_amount"`
	GridSize          int                 `json:"grid_size"`
	MineCount         int                 `json:"mines_count"`
	Status            mines.Status        `json:"status"`
	CurrentMultiplier decimal.Decimal     `json:"current_multiplier"`
	NextMultiplier    decimal.Decimal     `json:"next_multiplier"`
	PrizeAmount       decimal.Decimal     `json:"prize_amount"`
	SafeCellsLeft     int                 `json:"safe_cells_left"`
	RevealedCells     mines.RevealedCells `json:"revealed_cells"`
	Grid              mines.Grid          `json:"grid"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

func NewGameView(g *repository.Game) (*GameView, error) {
	grid, err := g.Board()
	if err != nil {
		return nil, err
	}
	revealed := g.RevealedCells
	if revealed == nil {
		revealed = mines.RevealedCells{}
	}
	return &GameView{
		Id:                g.GameId,
		PlayerId:          g.PlayerId,
		BetAmount:         g.BetAmount,
		GridSize:          g.GridSize,
		MineCount:         g.MineCount,
		Status:            g.Status,
		CurrentMultiplier: g.CurrentMultiplier,
		NextMultiplier:    g.NextMultiplier(),
		PrizeAmount:       g.PrizeAmount,
		SafeCellsLeft:     g.SafeCellsLeft(),
		RevealedCells:     revealed,
		Grid:              grid,
		CreatedAt:         g.CreatedAt,
		UpdatedAt:         g.UpdatedAt,
	}, nil
}

type GameResult struct {
	GameId      int64           `json:"game_id"`
	Status      mines.Status    `json:"status"`
	PrizeAmount decimal.Decimal `json:"prize_amount"`
	Multiplier  decimal.Decimal `json:"multiplier"`
	SafeClicks  int             `json:"safe_clicks"`
	HitMine     bool            `json:"hit_mine"`
	Message     string          `json:"message"`
}

func NewGameResult(g *repository.Game, o mines.Outcome) GameResult {
	return GameResult{
		GameId:      g.GameId,
		Status:      g.Status,
		PrizeAmount: g.PrizeAmount,
		Multiplier:  g.CurrentMultiplier,
		SafeClicks:  o.SafeClicks,
		HitMine:     o.HitMine,
		Message:     o.Message,
	}
}
