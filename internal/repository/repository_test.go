package repository_test

import (
	"context"
	"math/rand/v2"
	"os"
	"strconv"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minewager/internal/database"
	"github.com/vancomm/minewager/internal/mines"
	"github.com/vancomm/minewager/internal/repository"
	"github.com/vancomm/minewager/migrations"
)

// setupPool needs a disposable database in TEST_DATABASE_URL.
func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url, ok := os.LookupEnv("TEST_DATABASE_URL")
	if !ok {
		t.Skip("TEST_DATABASE_URL not set")
	}
	_, err := database.Migrate(url, migrations.FS)
	require.NoError(t, err)

	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func createPlayer(t *testing.T, q *repository.Queries, balance string) *repository.Player {
	t.Helper()
	name := "player" + strconv.FormatUint(rand.Uint64()%1_000_000_000, 10)
	p, err := q.CreatePlayer(context.Background(), repository.CreatePlayerParams{
		Username:     name,
		PasswordHash: []byte("hash"),
		Balance:      decimal.RequireFromString(balance),
	})
	require.NoError(t, err)
	return p
}

func TestPlayerLifecycle(t *testing.T) {
	ctx := context.Background()
	q := repository.New(setupPool(t))

	p := createPlayer(t, q, "100")
	assert.Equal(t, "100.00", p.Balance.StringFixed(2))
	assert.True(t, p.IsActive)

	_, err := q.CreatePlayer(ctx, repository.CreatePlayerParams{
		Username: p.Username, PasswordHash: []byte("x"), Balance: decimal.Zero,
	})
	assert.ErrorIs(t, err, repository.ErrUsernameTaken)

	balance, err := q.DebitStake(ctx, p.PlayerId, decimal.RequireFromString("40"))
	require.NoError(t, err)
	assert.Equal(t, "60.00", balance.StringFixed(2))

	_, err = q.DebitStake(ctx, p.PlayerId, decimal.RequireFromString("60.01"))
	assert.ErrorIs(t, err, repository.ErrInsufficientFunds)

	balance, err = q.CreditPrize(ctx, p.PlayerId, decimal.RequireFromString("69.20"))
	require.NoError(t, err)
	assert.Equal(t, "129.20", balance.StringFixed(2))

	require.NoError(t, q.IncrementReferralCount(ctx, p.PlayerId))

	fetched, err := q.FetchPlayer(ctx, p.Username)
	require.NoError(t, err)
	assert.Equal(t, 1, fetched.TotalGames)
	assert.Equal(t, 1, fetched.ReferralCount)
	assert.Equal(t, "40.00", fetched.TotalWagered.StringFixed(2))
	assert.Equal(t, "69.20", fetched.TotalWon.StringFixed(2))

	_, err = q.FetchPlayerByID(ctx, -1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = q.DebitStake(ctx, -1, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGameVersioning(t *testing.T) {
	ctx := context.Background()
	q := repository.New(setupPool(t))
	p := createPlayer(t, q, "100")

	g, err := mines.NewGame(
		mines.GameParams{GridSize: 3, MineCount: 1},
		decimal.NewFromInt(10),
		rand.New(rand.NewPCG(1, 2)),
	)
	require.NoError(t, err)

	stored, err := q.CreateGame(ctx, p.PlayerId, g)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Version)
	assert.Equal(t, mines.Active, stored.Status)
	assert.Equal(t, g.MineLayout, stored.MineLayout)

	next := stored.Game.Clone()
	_, err = next.Claim()
	require.NoError(t, err)

	updated, err := q.UpdateGame(ctx, stored.GameId, stored.Version, next)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Version)
	assert.Equal(t, mines.Claimed, updated.Status)

	_, err = q.UpdateGame(ctx, stored.GameId, stored.Version, next)
	assert.ErrorIs(t, err, repository.ErrStaleGame)

	page, err := q.ListGames(ctx, p.PlayerId, 0, 10)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, stored.GameId, page[0].GameId)

	counts, err := q.CountGamesByStatus(ctx, p.PlayerId)
	require.NoError(t, err)
	assert.Equal(t, map[mines.Status]int{mines.Claimed: 1}, counts)
}

func TestInTxRollsBack(t *testing.T) {
	ctx := context.Background()
	pool := setupPool(t)
	q := repository.New(pool)
	p := createPlayer(t, q, "50")

	err := repository.InTx(ctx, pool, func(tx *repository.Queries) error {
		if _, err := tx.DebitStake(ctx, p.PlayerId, decimal.NewFromInt(20)); err != nil {
			return err
		}
		_, err := tx.DebitStake(ctx, p.PlayerId, decimal.NewFromInt(40))
		return err
	})
	assert.ErrorIs(t, err, repository.ErrInsufficientFunds)

	fetched, err := q.FetchPlayerByID(ctx, p.PlayerId)
	require.NoError(t, err)
	assert.Equal(t, "50.00", fetched.Balance.StringFixed(2))
	assert.Equal(t, 0, fetched.TotalGames)
}
