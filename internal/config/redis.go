package config

import (
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultLockTTL = 10 * time.Second

type Redis struct {
	Options *redis.Options
	LockTTL time.Duration
}

// NewRedis returns nil, nil when REDIS_URL is unset; games are then locked
// in-process only.
func NewRedis() (*Redis, error) {
	url, ok := os.LookupEnv("REDIS_URL")
	if !ok || url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("unable to parse REDIS_URL: %w", err)
	}

	ttl := defaultLockTTL
	if s, ok := os.LookupEnv("LOCK_TTL"); ok && s != "" {
		ttl, err = time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("unable to parse LOCK_TTL: %w", err)
		}
	}

	return &Redis{Options: opts, LockTTL: ttl}, nil
}
