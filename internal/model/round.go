package model

import "time"

// RoundID uniquely identifies a round
type RoundID string

// Round is one scored guess within a game
type Round struct {
	ID               RoundID
	GameID           GameID
	Number           int // 1-based position of the guess in the game
	Guess            string
	CorrectNumbers   int
	CorrectPositions int
	Timestamp        time.Time
}
