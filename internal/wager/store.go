package wager

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vancomm/minewager/internal/mines"
	"github.com/vancomm/minewager/internal/repository"
)

// Repo is the part of *repository.Queries the service needs.
type Repo interface {
	DebitStake(ctx context.Context, playerId int64, bet decimal.Decimal) (decimal.Decimal, error)
	CreditPrize(ctx context.Context, playerId int64, prize decimal.Decimal) (decimal.Decimal, error)
	CreateGame(ctx context.Context, playerId int64, game *mines.Game) (*repository.Game, error)
	FetchGame(ctx context.Context, gameId int64) (*repository.Game, error)
	UpdateGame(ctx context.Context, gameId int64, expectedVersion int, game *mines.Game) (*repository.Game, error)
	ListGames(ctx context.Context, playerId int64, offset, limit int) ([]repository.GameSummary, error)
}

// Store runs reads directly and writes inside InTx.
type Store interface {
	Repo
	InTx(ctx context.Context, fn func(Repo) error) error
}

type DB interface {
	repository.DBTX
	repository.TxStarter
}

type pgStore struct {
	*repository.Queries
	db DB
}

func NewStore(db DB) Store {
	return pgStore{Queries: repository.New(db), db: db}
}

func (s pgStore) InTx(ctx context.Context, fn func(Repo) error) error {
	return repository.InTx(ctx, s.db, func(q *repository.Queries) error {
		return fn(q)
	})
}
