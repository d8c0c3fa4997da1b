package handlers

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minewager/internal/config"
	"github.com/vancomm/minewager/internal/mines"
	"github.com/vancomm/minewager/internal/repository"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakePlayers struct {
	mu      sync.Mutex
	players map[int64]*repository.Player
	nextId  int64
	counts  map[int64]map[mines.Status]int
	totals  repository.CasinoTotals
}

func newFakePlayers() *fakePlayers {
	return &fakePlayers{
		players: map[int64]*repository.Player{},
		counts:  map[int64]map[mines.Status]int{},
	}
}

func (f *fakePlayers) CreatePlayer(_ context.Context, p repository.CreatePlayerParams) (*repository.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.players {
		if existing.Username == p.Username {
			return nil, repository.ErrUsernameTaken
		}
	}
	f.nextId++
	player := &repository.Player{
		PlayerId:     f.nextId,
		Username:     p.Username,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		Balance:      p.Balance,
		ReferredBy:   p.ReferredBy,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.players[player.PlayerId] = player
	c := *player
	return &c, nil
}

func (f *fakePlayers) FetchPlayer(_ context.Context, username string) (*repository.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.players {
		if p.Username == username {
			c := *p
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePlayers) FetchPlayerByID(_ context.Context, playerId int64) (*repository.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.players[playerId]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (f *fakePlayers) IncrementReferralCount(_ context.Context, playerId int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.players[playerId]
	if !ok {
		return repository.ErrNotFound
	}
	p.ReferralCount++
	return nil
}

func (f *fakePlayers) CountGamesByStatus(_ context.Context, playerId int64) (map[mines.Status]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[playerId], nil
}

func (f *fakePlayers) Leaderboard(_ context.Context, limit int) ([]repository.LeaderboardRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rows []repository.LeaderboardRow
	for id := int64(1); id <= f.nextId && len(rows) < limit; id++ {
		p := f.players[id]
		rows = append(rows, repository.LeaderboardRow{
			Username:     p.Username,
			TotalGames:   p.TotalGames,
			TotalWagered: p.TotalWagered,
			TotalWon:     p.TotalWon,
			Balance:      p.Balance,
			CreatedAt:    p.CreatedAt,
		})
	}
	return rows, nil
}

func (f *fakePlayers) CasinoTotals(context.Context) (repository.CasinoTotals, error) {
	return f.totals, nil
}

func testJWT(t *testing.T) *config.JWT {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return config.NewJWTFromKeys(key, &key.PublicKey, time.Minute)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
