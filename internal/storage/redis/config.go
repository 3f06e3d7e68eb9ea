package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// FinishedGameTTL expires a finished game together with its round
	// history. Zero, the default, keeps both forever. Leaderboard entries
	// never expire.
	FinishedGameTTL time.Duration

	// MaxTxRetries bounds optimistic transaction retries on watched key changes
	MaxTxRetries int
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		MaxTxRetries: 3,
	}
}
