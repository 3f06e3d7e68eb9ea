package model

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the services wraps exactly one of these
// so callers can classify failures with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUpstream        = errors.New("upstream failure")
	ErrConflict        = errors.New("conflict")
	ErrInternal        = errors.New("internal error")
)

// Password limits. bcrypt only hashes the first 72 bytes.
const (
	MinPasswordLength = 8
	MaxPasswordBytes  = 72
)

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound    = fmt.Errorf("player %w", ErrNotFound)
	ErrAccountNotFound   = fmt.Errorf("account %w", ErrNotFound)
	ErrUsernameTaken     = fmt.Errorf("%w: username already taken", ErrInvalidInput)
	ErrInvalidDifficulty = fmt.Errorf("%w: difficulty must be between %d and %d", ErrInvalidInput, MinDifficulty, MaxDifficulty)

	// Auth errors
	ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", ErrUnauthenticated)
	ErrMissingCredentials = fmt.Errorf("%w: missing credentials", ErrUnauthenticated)
	ErrInvalidToken       = fmt.Errorf("%w: invalid or expired token", ErrUnauthenticated)
	ErrInvalidUsername    = fmt.Errorf("%w: username must be 3-150 letters, digits or @.+-_", ErrInvalidInput)
	ErrWeakPassword       = fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	ErrPasswordTooLong    = fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, MaxPasswordBytes)

	// Game errors
	ErrGameNotFound          = fmt.Errorf("game %w", ErrNotFound)
	ErrNoCurrentGame         = fmt.Errorf("current game %w", ErrNotFound)
	ErrGameOver              = fmt.Errorf("%w: game is already over", ErrInvalidInput)
	ErrInvalidPauseTimestamp = fmt.Errorf("%w: invalid pause timestamp", ErrInvalidInput)
	ErrConcurrentUpdate      = fmt.Errorf("%w: game was modified concurrently", ErrConflict)

	// Guess errors
	ErrGuessTooLong        = fmt.Errorf("%w: guess exceeds %d digits", ErrInvalidInput, MaxGuessLength)
	ErrGuessNotDigits      = fmt.Errorf("%w: guess must contain only digits", ErrInvalidInput)
	ErrGuessLengthMismatch = fmt.Errorf("%w: guess length does not match secret length", ErrInvalidInput)
	ErrDuplicateGuess      = fmt.Errorf("%w: guess already submitted for this game", ErrInvalidInput)

	// Leaderboard errors
	ErrDuplicateLeaderboardEntry = fmt.Errorf("%w: game already has a leaderboard entry", ErrConflict)

	// Secret generation errors
	ErrInvalidSecret = fmt.Errorf("%w: generator returned an invalid secret", ErrUpstream)
)

// Upstream wraps a collaborator failure so it classifies as ErrUpstream while
// keeping the cause inspectable. Errors that already carry a kind are
// returned unchanged.
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	if HasKind(err) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrUpstream, op, err)
}

// HasKind reports whether err already wraps one of the error kinds.
func HasKind(err error) bool {
	for _, kind := range []error{ErrNotFound, ErrInvalidInput, ErrUnauthenticated, ErrUpstream, ErrConflict, ErrInternal} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
