package model

import "time"

// GameID uniquely identifies a game
type GameID string

// GameState represents the current phase of a game
type GameState string

const (
	GameStateActive GameState = "active"
	GameStateWon    GameState = "won"
	GameStateLost   GameState = "lost"
)

// Game limits
const (
	MaxRounds      = 10
	MaxGuessLength = 6
	MinSecretDigit = '0'
	MaxSecretDigit = '7'
)

// Game represents one play session against a secret code
type Game struct {
	ID           GameID
	PlayerID     PlayerID
	SecretNumber string
	Difficulty   int // secret length when the game was created
	Round        int // guesses submitted so far, 0..MaxRounds
	State        GameState

	// Timing. TotalTime is always derived from StartTime, which resume
	// shifts forward by the paused interval.
	StartTime time.Time
	TotalTime time.Duration
	CreatedAt time.Time
	UpdatedAt time.Time

	// Version counts stored writes. Storage compares it before every game
	// write and bumps it on success.
	Version int
}

// IsOver returns true once the game has been won or lost
func (g *Game) IsOver() bool {
	return g.State == GameStateWon || g.State == GameStateLost
}

// RoundsLeft returns the number of guesses still allowed
func (g *Game) RoundsLeft() int {
	if g.Round >= MaxRounds {
		return 0
	}
	return MaxRounds - g.Round
}

// ElapsedAt returns the elapsed play time at the given instant.
// It never reports less than the already recorded TotalTime.
func (g *Game) ElapsedAt(now time.Time) time.Duration {
	elapsed := now.Sub(g.StartTime)
	if elapsed < g.TotalTime {
		return g.TotalTime
	}
	return elapsed
}
