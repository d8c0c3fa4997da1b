package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPort(t *testing.T) {
	t.Setenv("APP_PORT", "")
	assert.Equal(t, ":8080", Port())

	t.Setenv("APP_PORT", "9000")
	assert.Equal(t, ":9000", Port())

	t.Setenv("APP_PORT", "localhost:9000")
	assert.Equal(t, "localhost:9000", Port())
}

func TestNewGameDefaults(t *testing.T) {
	t.Setenv("STARTING_BALANCE", "")
	t.Setenv("MAX_BET", "")

	cfg, err := NewGame()
	require.NoError(t, err)
	assert.Equal(t, "1000.00", cfg.StartingBalance.StringFixed(2))
	assert.Equal(t, "10000.00", cfg.MaxBet.StringFixed(2))
}

func TestNewGameRejectsBadAmounts(t *testing.T) {
	t.Setenv("MAX_BET", "-5")
	_, err := NewGame()
	assert.Error(t, err)

	t.Setenv("MAX_BET", "lots")
	_, err = NewGame()
	assert.Error(t, err)
}

func TestNewRedisOptional(t *testing.T) {
	t.Setenv("REDIS_URL", "")
	r, err := NewRedis()
	require.NoError(t, err)
	assert.Nil(t, r)

	t.Setenv("REDIS_URL", "redis://localhost:6379/2")
	t.Setenv("LOCK_TTL", "3s")
	r, err = NewRedis()
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, 2, r.Options.DB)
	assert.Equal(t, "3s", r.LockTTL.String())
}
