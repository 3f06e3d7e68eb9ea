package testutil

import (
	"testing"

	"github.com/rs/zerolog"
)

// NopLogger returns a logger that discards all output.
// Use this in tests to avoid log noise.
func NopLogger() zerolog.Logger {
	return zerolog.Nop()
}

// TestLogger returns a logger that writes through t.Log, so output only
// shows for failing or verbose tests
func TestLogger(t testing.TB) zerolog.Logger {
	return zerolog.New(zerolog.NewTestWriter(t)).With().Timestamp().Logger()
}
