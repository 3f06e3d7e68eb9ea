package model

import "time"

// Result is the terminal outcome recorded for a game
type Result string

const (
	ResultWin  Result = "W"
	ResultLoss Result = "L"
)

// LeaderboardEntry is created exactly once when a game reaches a terminal state
type LeaderboardEntry struct {
	ID         string
	PlayerID   PlayerID
	GameID     GameID
	Result     Result
	TotalTime  time.Duration
	Difficulty int
	CreatedAt  time.Time
}

// LeaderboardFilter selects leaderboard entries. Zero fields match anything.
type LeaderboardFilter struct {
	PlayerID   PlayerID
	Difficulty int
	Result     Result
}

// Matches reports whether the entry satisfies the filter
func (f LeaderboardFilter) Matches(e *LeaderboardEntry) bool {
	if f.PlayerID != "" && e.PlayerID != f.PlayerID {
		return false
	}
	if f.Difficulty != 0 && e.Difficulty != f.Difficulty {
		return false
	}
	if f.Result != "" && e.Result != f.Result {
		return false
	}
	return true
}

// LeaderboardTotals aggregates a player's results at one difficulty
type LeaderboardTotals struct {
	PlayerID    PlayerID
	Difficulty  int
	Wins        int
	Losses      int
	FastestTime *time.Duration // nil when the player has no wins
}
