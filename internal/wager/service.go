// Package wager runs games against player balances. Every mutation of a game
// happens under a per-game lock and is written with a version check.
package wager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minewager/internal/audit"
	"github.com/vancomm/minewager/internal/locker"
	"github.com/vancomm/minewager/internal/mines"
	"github.com/vancomm/minewager/internal/repository"
)

var ErrNotOwner = errors.New("Not your game")

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

type Config struct {
	MaxBet   decimal.Decimal
	LockWait time.Duration
	// Rand defaults to mines.NewCryptoRand.
	Rand *rand.Rand
}

type Service struct {
	store    Store
	locks    locker.Locker
	audit    *audit.Logger
	logger   *slog.Logger
	rand     *rand.Rand
	maxBet   decimal.Decimal
	lockWait time.Duration
}

func NewService(
	store Store, locks locker.Locker, auditor *audit.Logger, logger *slog.Logger, cfg Config,
) *Service {
	s := &Service{
		store:    store,
		locks:    locks,
		audit:    auditor,
		logger:   logger,
		rand:     cfg.Rand,
		maxBet:   cfg.MaxBet,
		lockWait: cfg.LockWait,
	}
	if s.rand == nil {
		s.rand = mines.NewCryptoRand()
	}
	if s.lockWait <= 0 {
		s.lockWait = 5 * time.Second
	}
	return s
}

type NewGame struct {
	Bet       decimal.Decimal
	GridSize  int
	MineCount int
}

func (s *Service) validateBet(bet decimal.Decimal) error {
	switch {
	case !bet.IsPositive():
		return mines.ValidationError{Field: "bet_amount", Reason: "must be positive"}
	case !bet.Equal(bet.Round(2)):
		return mines.ValidationError{Field: "bet_amount", Reason: "at most 2 decimal places"}
	case !s.maxBet.IsZero() && bet.GreaterThan(s.maxBet):
		return mines.ValidationError{
			Field:  "bet_amount",
			Reason: "must not exceed " + s.maxBet.String(),
		}
	}
	return nil
}

// Start validates the request, takes the stake and stores a fresh game. A
// request that fails validation creates nothing.
func (s *Service) Start(ctx context.Context, playerId int64, req NewGame) (*repository.Game, error) {
	params := mines.GameParams{GridSize: req.GridSize, MineCount: req.MineCount}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := s.validateBet(req.Bet); err != nil {
		return nil, err
	}
	game, err := mines.NewGame(params, req.Bet, s.rand)
	if err != nil {
		return nil, err
	}

	var stored *repository.Game
	err = s.store.InTx(ctx, func(repo Repo) error {
		if _, err := repo.DebitStake(ctx, playerId, req.Bet); err != nil {
			return err
		}
		stored, err = repo.CreateGame(ctx, playerId, game)
		return err
	})
	if err != nil {
		s.fail("GAME_CREATION_ERROR", err, logrus.Fields{"player_id": playerId})
		return nil, err
	}

	s.audit.GameAction(audit.GameStarted, playerId, stored.GameId, logrus.Fields{
		"bet_amount": req.Bet.String(),
		"params":     params.Seed(),
	})
	return stored, nil
}

type Result struct {
	Game    *repository.Game
	Outcome mines.Outcome
}

func gameKey(gameId int64) string {
	return "game:" + strconv.FormatInt(gameId, 10)
}

// mutate applies fn to a copy of the player's game and persists the copy if
// fn succeeds. afterWrite runs in the same transaction.
func (s *Service) mutate(
	ctx context.Context,
	playerId, gameId int64,
	fn func(*mines.Game) (mines.Outcome, error),
	afterWrite func(Repo, *repository.Game) error,
) (*Result, error) {
	lockCtx, cancel := context.WithTimeout(ctx, s.lockWait)
	defer cancel()
	unlock, err := s.locks.Lock(lockCtx, gameKey(gameId))
	if err != nil {
		return nil, err
	}
	defer unlock()

	result := &Result{}
	err = s.store.InTx(ctx, func(repo Repo) error {
		current, err := repo.FetchGame(ctx, gameId)
		if err != nil {
			return err
		}
		if current.PlayerId != playerId {
			return ErrNotOwner
		}

		next := current.Game.Clone()
		result.Outcome, err = fn(next)
		if err != nil {
			result.Game = current
			return err
		}

		updated, err := repo.UpdateGame(ctx, gameId, current.Version, next)
		if err != nil {
			return err
		}
		result.Game = updated
		if afterWrite != nil {
			return afterWrite(repo, updated)
		}
		return nil
	})
	if err != nil {
		return result, err
	}
	return result, nil
}

func (s *Service) Reveal(ctx context.Context, playerId, gameId int64, row, col int) (*Result, error) {
	result, err := s.mutate(ctx, playerId, gameId, func(g *mines.Game) (mines.Outcome, error) {
		return g.Reveal(row, col)
	}, nil)
	if err != nil {
		s.fail("CLICK_ERROR", err, logrus.Fields{"player_id": playerId, "game_id": gameId})
		return result, err
	}

	s.logger.Debug("cell revealed",
		"game_id", gameId, "row", row, "col", col, "hit_mine", result.Outcome.HitMine)
	s.audit.GameAction(audit.CellClicked, playerId, gameId, logrus.Fields{
		"row":        row,
		"col":        col,
		"hit_mine":   result.Outcome.HitMine,
		"multiplier": result.Outcome.Multiplier.String(),
	})
	return result, nil
}

// Claim ends the game and credits the prize to the player's balance.
func (s *Service) Claim(ctx context.Context, playerId, gameId int64) (*Result, error) {
	result, err := s.mutate(ctx, playerId, gameId, func(g *mines.Game) (mines.Outcome, error) {
		return g.Claim()
	}, func(repo Repo, g *repository.Game) error {
		_, err := repo.CreditPrize(ctx, g.PlayerId, g.PrizeAmount)
		return err
	})
	if err != nil {
		s.fail("CLAIM_ERROR", err, logrus.Fields{"player_id": playerId, "game_id": gameId})
		return result, err
	}

	s.audit.GameAction(audit.PrizeClaimed, playerId, gameId, logrus.Fields{
		"prize_amount": result.Game.PrizeAmount.StringFixed(2),
		"multiplier":   result.Game.CurrentMultiplier.String(),
	})
	return result, nil
}

func (s *Service) Get(ctx context.Context, playerId, gameId int64) (*repository.Game, error) {
	g, err := s.store.FetchGame(ctx, gameId)
	if err != nil {
		return nil, err
	}
	if g.PlayerId != playerId {
		return nil, ErrNotOwner
	}
	return g, nil
}

func (s *Service) History(ctx context.Context, playerId int64, offset, limit int) ([]repository.GameSummary, error) {
	offset = max(offset, 0)
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	limit = min(limit, MaxHistoryLimit)
	games, err := s.store.ListGames(ctx, playerId, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("unable to list games: %w", err)
	}
	return games, nil
}

// Expected reports whether err is an outcome the player caused rather than
// a fault of the server.
func Expected(err error) bool {
	return mines.IsGameError(err) ||
		errors.Is(err, ErrNotOwner) ||
		errors.Is(err, repository.ErrNotFound) ||
		errors.Is(err, repository.ErrInsufficientFunds) ||
		errors.Is(err, repository.ErrStaleGame) ||
		errors.Is(err, locker.ErrLockTimeout) ||
		errors.Is(err, context.Canceled)
}

func (s *Service) fail(code string, err error, fields logrus.Fields) {
	if Expected(err) {
		return
	}
	s.logger.Error("game operation failed", "code", code, "error", err)
	s.audit.Error(code, err, fields)
}
