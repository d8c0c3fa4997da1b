package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

func BasePath() string {
	return os.Getenv("APP_BASE_PATH")
}

func Port() string {
	port, ok := os.LookupEnv("APP_PORT")
	if !ok || port == "" {
		return ":8080"
	}
	if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		port = ":" + port
	}
	return port
}

// PublicURL is the externally visible origin used in referral links.
func PublicURL() string {
	return strings.TrimRight(os.Getenv("PUBLIC_URL"), "/")
}

type Game struct {
	StartingBalance decimal.Decimal
	MaxBet          decimal.Decimal
}

func loadAmount(key, fallback string) (decimal.Decimal, error) {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		s = fallback
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unable to parse %s: %w", key, err)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%s must be positive", key)
	}
	return d.Round(2), nil
}

func NewGame() (*Game, error) {
	balance, err := loadAmount("STARTING_BALANCE", "1000")
	if err != nil {
		return nil, err
	}
	maxBet, err := loadAmount("MAX_BET", "10000")
	if err != nil {
		return nil, err
	}
	return &Game{StartingBalance: balance, MaxBet: maxBet}, nil
}
