package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Difficulty bounds: the secret code length of a player's games
const (
	MinDifficulty     = 4
	MaxDifficulty     = 6
	DefaultDifficulty = 4
)

// PlayerProfile holds a registered player's game configuration
type PlayerProfile struct {
	PlayerID    PlayerID
	Difficulty  int
	CurrentGame *GameID // nil when no game has been started
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewPlayerProfile returns a profile with the default difficulty and no game
func NewPlayerProfile(id PlayerID, now time.Time) *PlayerProfile {
	return &PlayerProfile{
		PlayerID:   id,
		Difficulty: DefaultDifficulty,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// ValidateDifficulty checks a difficulty is within [MinDifficulty, MaxDifficulty]
func ValidateDifficulty(difficulty int) error {
	if difficulty < MinDifficulty || difficulty > MaxDifficulty {
		return ErrInvalidDifficulty
	}
	return nil
}

// Account is the login identity backing a PlayerProfile.
// Stored separately so password hashes never travel with profile reads.
type Account struct {
	PlayerID     PlayerID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
}

// Identity is what the identity resolver returns for an authenticated request
type Identity struct {
	PlayerID    PlayerID
	Username    string
	Difficulty  int
	CurrentGame *GameID
}
