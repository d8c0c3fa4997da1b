package wager

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vancomm/minewager/internal/mines"
	"github.com/vancomm/minewager/internal/repository"
)

type memState struct {
	balances map[int64]decimal.Decimal
	games    map[int64]*repository.Game
	nextId   int64
	// beforeUpdate runs inside UpdateGame before the version check.
	beforeUpdate func(*repository.Game)
}

func (m *memState) copy() *memState {
	c := &memState{
		balances:     make(map[int64]decimal.Decimal, len(m.balances)),
		games:        make(map[int64]*repository.Game, len(m.games)),
		nextId:       m.nextId,
		beforeUpdate: m.beforeUpdate,
	}
	for k, v := range m.balances {
		c.balances[k] = v
	}
	for k, g := range m.games {
		c.games[k] = cloneStored(g)
	}
	return c
}

func cloneStored(g *repository.Game) *repository.Game {
	c := *g
	c.Game = *g.Game.Clone()
	return &c
}

func (m *memState) DebitStake(_ context.Context, playerId int64, bet decimal.Decimal) (decimal.Decimal, error) {
	balance, ok := m.balances[playerId]
	if !ok {
		return decimal.Zero, repository.ErrNotFound
	}
	if balance.LessThan(bet) {
		return decimal.Zero, repository.ErrInsufficientFunds
	}
	m.balances[playerId] = balance.Sub(bet)
	return m.balances[playerId], nil
}

func (m *memState) CreditPrize(_ context.Context, playerId int64, prize decimal.Decimal) (decimal.Decimal, error) {
	balance, ok := m.balances[playerId]
	if !ok {
		return decimal.Zero, repository.ErrNotFound
	}
	m.balances[playerId] = balance.Add(prize)
	return m.balances[playerId], nil
}

func (m *memState) CreateGame(_ context.Context, playerId int64, game *mines.Game) (*repository.Game, error) {
	m.nextId++
	now := time.Now()
	g := &repository.Game{
		Game:      *game.Clone(),
		GameId:    m.nextId,
		PlayerId:  playerId,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.games[g.GameId] = g
	return cloneStored(g), nil
}

func (m *memState) FetchGame(_ context.Context, gameId int64) (*repository.Game, error) {
	g, ok := m.games[gameId]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneStored(g), nil
}

func (m *memState) UpdateGame(
	_ context.Context, gameId int64, expectedVersion int, game *mines.Game,
) (*repository.Game, error) {
	g, ok := m.games[gameId]
	if !ok {
		return nil, repository.ErrStaleGame
	}
	if m.beforeUpdate != nil {
		m.beforeUpdate(g)
	}
	if g.Version != expectedVersion {
		return nil, repository.ErrStaleGame
	}
	g.RevealedCells = game.Clone().RevealedCells
	g.CurrentMultiplier = game.CurrentMultiplier
	g.Status = game.Status
	g.PrizeAmount = game.PrizeAmount
	g.Version++
	g.UpdatedAt = time.Now()
	return cloneStored(g), nil
}

func (m *memState) ListGames(_ context.Context, playerId int64, offset, limit int) ([]repository.GameSummary, error) {
	var out []repository.GameSummary
	for _, g := range m.games {
		if g.PlayerId != playerId {
			continue
		}
		out = append(out, repository.GameSummary{
			GameId:      g.GameId,
			BetAmount:   g.BetAmount,
			GridSize:    g.GridSize,
			MineCount:   g.MineCount,
			Status:      g.Status,
			PrizeAmount: g.PrizeAmount,
			CreatedAt:   g.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GameId > out[j].GameId })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// memStore is an in-memory Store. Transactions are serialized and applied
// only when fn succeeds.
type memStore struct {
	mu    sync.Mutex
	state *memState
}

func newMemStore() *memStore {
	return &memStore{state: &memState{
		balances: map[int64]decimal.Decimal{},
		games:    map[int64]*repository.Game{},
	}}
}

func (s *memStore) InTx(ctx context.Context, fn func(Repo) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := s.state.copy()
	if err := fn(tx); err != nil {
		return err
	}
	s.state = tx
	return nil
}

func (s *memStore) balance(playerId int64) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.balances[playerId]
}

func (s *memStore) setBalance(playerId int64, amount string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.balances[playerId] = decimal.RequireFromString(amount)
}

func (s *memStore) gameCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.games)
}

func (s *memStore) DebitStake(ctx context.Context, playerId int64, bet decimal.Decimal) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.DebitStake(ctx, playerId, bet)
}

func (s *memStore) CreditPrize(ctx context.Context, playerId int64, prize decimal.Decimal) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CreditPrize(ctx, playerId, prize)
}

func (s *memStore) CreateGame(ctx context.Context, playerId int64, game *mines.Game) (*repository.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CreateGame(ctx, playerId, game)
}

func (s *memStore) FetchGame(ctx context.Context, gameId int64) (*repository.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.FetchGame(ctx, gameId)
}

func (s *memStore) UpdateGame(
	ctx context.Context, gameId int64, expectedVersion int, game *mines.Game,
) (*repository.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.UpdateGame(ctx, gameId, expectedVersion, game)
}

func (s *memStore) ListGames(ctx context.Context, playerId int64, offset, limit int) ([]repository.GameSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ListGames(ctx, playerId, offset, limit)
}
