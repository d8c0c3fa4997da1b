package mines

import (
	"fmt"
	"math/rand/v2"

	"github.com/shopspring/decimal"
)

type Status string

const (
	Active  Status = "active"
	Won     Status = "won"
	Lost    Status = "lost"
	Claimed Status = "claimed"
)

func (s Status) Terminal() bool {
	return s != Active
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case Active, Won, Lost, Claimed:
		return st, nil
	}
	return "", fmt.Errorf("unknown game status %q", s)
}

// Game is the persistent record of one wager. The caller owns storage; the
// engine only mutates a record handed to it through Reveal and Claim.
type Game struct {
	GridSize          int
	MineCount         int
	MineLayout        Layout
	RevealedCells     RevealedCells
	CurrentMultiplier decimal.Decimal
	Status            Status
	BetAmount         decimal.Decimal
	PrizeAmount       decimal.Decimal
}

// Outcome describes the result of a reveal or claim.
type Outcome struct {
	HitMine    bool            `json:"hit_mine"`
	SafeClicks int             `json:"safe_clicks"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Prize      decimal.Decimal `json:"prize_amount"`
	Message    string          `json:"message"`
	Error      bool            `json:"error,omitempty"`
}

func NewGame(params GameParams, bet decimal.Decimal, r *rand.Rand) (*Game, error) {
	if !bet.IsPositive() {
		return nil, ValidationError{Field: "bet_amount", Reason: "must be positive"}
	}
	field, err := Generate(params, r)
	if err != nil {
		return nil, err
	}
	g := &Game{
		GridSize:          params.GridSize,
		MineCount:         params.MineCount,
		MineLayout:        field.Layout(),
		RevealedCells:     RevealedCells{},
		CurrentMultiplier: decimal.NewFromInt(1),
		Status:            Active,
		BetAmount:         bet,
		PrizeAmount:       bet,
	}
	return g, nil
}

func (g *Game) Params() GameParams {
	return GameParams{GridSize: g.GridSize, MineCount: g.MineCount}
}

func (g *Game) SafeReveals() int {
	return g.RevealedCells.SafeCount()
}

// SafeCellsLeft is the number of safe cells not yet revealed.
func (g *Game) SafeCellsLeft() int {
	return g.GridSize*g.GridSize - g.MineCount - g.SafeReveals()
}

// NextMultiplier is the multiplier the next safe reveal would give.
func (g *Game) NextMultiplier() decimal.Decimal {
	if g.SafeCellsLeft() <= 0 {
		return g.CurrentMultiplier
	}
	return Multiplier(g.GridSize, g.MineCount, g.SafeReveals()+1)
}

func (g *Game) Clone() *Game {
	c := *g
	c.RevealedCells = g.RevealedCells.clone()
	c.MineLayout = make(Layout, len(g.MineLayout))
	for r, row := range g.MineLayout {
		cr := make(map[string]int, len(row))
		for k, v := range row {
			cr[k] = v
		}
		c.MineLayout[r] = cr
	}
	return &c
}

// Reveal opens the cell at row, col. On error the record is left untouched.
func (g *Game) Reveal(row, col int) (Outcome, error) {
	if g.Status != Active {
		return g.failure(WrongStateError{Status: g.Status})
	}
	if !g.Params().PointInBounds(row, col) {
		return g.failure(InvalidCellError{Row: row, Col: col})
	}
	if g.RevealedCells.Has(row, col) {
		return g.failure(AlreadyRevealedError{Row: row, Col: col})
	}
	field, err := DecodeLayout(g.MineLayout, g.GridSize)
	if err != nil {
		return g.failure(err)
	}

	if g.RevealedCells == nil {
		g.RevealedCells = RevealedCells{}
	}
	mine := field.IsMine(row, col)
	g.RevealedCells[CellKey(row, col)] = mine

	if mine {
		g.Status = Lost
		g.PrizeAmount = decimal.Zero
		return Outcome{
			HitMine:    true,
			SafeClicks: g.SafeReveals(),
			Multiplier: g.CurrentMultiplier,
			Prize:      decimal.Zero,
			Message:    "Hit a mine! Game over.",
		}, nil
	}

	safe := g.SafeReveals()
	g.CurrentMultiplier = Multiplier(g.GridSize, g.MineCount, safe)
	g.PrizeAmount = Prize(g.BetAmount, g.CurrentMultiplier)

	return Outcome{
		SafeClicks: safe,
		Multiplier: g.CurrentMultiplier,
		Prize:      g.PrizeAmount,
		Message: fmt.Sprintf(
			"Safe! Current multiplier: %sx, Prize: $%s",
			g.CurrentMultiplier.String(), g.PrizeAmount.StringFixed(moneyPlaces),
		),
	}, nil
}

// Claim ends an active game and banks the current prize.
func (g *Game) Claim() (Outcome, error) {
	if g.Status != Active {
		return g.failure(WrongStateError{Status: g.Status})
	}
	g.Status = Claimed
	return Outcome{
		SafeClicks: g.SafeReveals(),
		Multiplier: g.CurrentMultiplier,
		Prize:      g.PrizeAmount,
		Message:    fmt.Sprintf("Prize claimed! Won $%s", g.PrizeAmount.StringFixed(moneyPlaces)),
	}, nil
}

func (g *Game) failure(err error) (Outcome, error) {
	return Outcome{
		SafeClicks: g.SafeReveals(),
		Multiplier: g.CurrentMultiplier,
		Prize:      g.PrizeAmount,
		Message:    err.Error(),
		Error:      true,
	}, err
}
