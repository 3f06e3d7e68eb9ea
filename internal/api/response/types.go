package response

import (
	"time"

	"github.com/mmind/mastermind-go/internal/model"
	"github.com/mmind/mastermind-go/internal/services/auth"
	"github.com/mmind/mastermind-go/internal/services/game"
)

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	PlayerID    string    `json:"player_id"`
	Username    string    `json:"username"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		PlayerID:    string(s.PlayerID),
		Username:    s.Username,
		AccessToken: s.Token,
		ExpiresAt:   s.ExpiresAt,
	}
}

// Profile represents a player profile in API responses
type Profile struct {
	PlayerID    string  `json:"player_id"`
	Username    string  `json:"username,omitempty"`
	Difficulty  int     `json:"difficulty"`
	CurrentGame *string `json:"current_game"`
}

// ProfileFromModel converts model.PlayerProfile
func ProfileFromModel(p *model.PlayerProfile, username string) Profile {
	var current *string
	if p.CurrentGame != nil {
		g := string(*p.CurrentGame)
		current = &g
	}
	return Profile{
		PlayerID:    string(p.PlayerID),
		Username:    username,
		Difficulty:  p.Difficulty,
		CurrentGame: current,
	}
}

// Difficulty is the response for difficulty endpoints
type Difficulty struct {
	Difficulty int `json:"difficulty"`
}

// Game represents a game in API responses. The secret is only revealed once
// the game is over.
type Game struct {
	ID           string    `json:"id"`
	Difficulty   int       `json:"difficulty"`
	Round        int       `json:"round"`
	RoundsLeft   int       `json:"rounds_left"`
	State        string    `json:"state"`
	StartTime    time.Time `json:"start_time"`
	TotalTimeMS  int64     `json:"total_time_ms"`
	SecretNumber string    `json:"secret_number,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// GameFromModel converts model.Game
func GameFromModel(g *model.Game) Game {
	resp := Game{
		ID:          string(g.ID),
		Difficulty:  g.Difficulty,
		Round:       g.Round,
		RoundsLeft:  g.RoundsLeft(),
		State:       string(g.State),
		StartTime:   g.StartTime,
		TotalTimeMS: g.TotalTime.Milliseconds(),
		CreatedAt:   g.CreatedAt,
	}
	if g.IsOver() {
		resp.SecretNumber = g.SecretNumber
	}
	return resp
}

// Round represents one scored guess
type Round struct {
	Number           int       `json:"number"`
	Guess            string    `json:"guess"`
	CorrectNumbers   int       `json:"correct_numbers"`
	CorrectPositions int       `json:"correct_positions"`
	Timestamp        time.Time `json:"timestamp"`
}

// RoundFromModel converts model.Round
func RoundFromModel(r *model.Round) Round {
	return Round{
		Number:           r.Number,
		Guess:            r.Guess,
		CorrectNumbers:   r.CorrectNumbers,
		CorrectPositions: r.CorrectPositions,
		Timestamp:        r.Timestamp,
	}
}

// RoundsFromModel converts a slice of rounds
func RoundsFromModel(rounds []*model.Round) []Round {
	resp := make([]Round, len(rounds))
	for i, r := range rounds {
		resp[i] = RoundFromModel(r)
	}
	return resp
}

// GuessResponse is the response after submitting a guess
type GuessResponse struct {
	Round  Round   `json:"round"`
	Game   Game    `json:"game"`
	Result *string `json:"result"`
}

// GuessResponseFromResult converts a game.GuessResult
func GuessResponseFromResult(r *game.GuessResult) GuessResponse {
	var result *string
	if r.Entry != nil {
		res := string(r.Entry.Result)
		result = &res
	}
	return GuessResponse{
		Round:  RoundFromModel(r.Round),
		Game:   GameFromModel(r.Game),
		Result: result,
	}
}

// LeaderboardTotals is the response for the leaderboard endpoint.
// FastestTimeMS is null when the player has no wins.
type LeaderboardTotals struct {
	Difficulty    int    `json:"difficulty"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	FastestTimeMS *int64 `json:"fastest_time_ms"`
}

// LeaderboardTotalsFromModel converts model.LeaderboardTotals
func LeaderboardTotalsFromModel(t *model.LeaderboardTotals) LeaderboardTotals {
	var fastest *int64
	if t.FastestTime != nil {
		ms := t.FastestTime.Milliseconds()
		fastest = &ms
	}
	return LeaderboardTotals{
		Difficulty:    t.Difficulty,
		Wins:          t.Wins,
		Losses:        t.Losses,
		FastestTimeMS: fastest,
	}
}

// LeaderboardEntry represents one finished game
type LeaderboardEntry struct {
	GameID      string    `json:"game_id"`
	Result      string    `json:"result"`
	TotalTimeMS int64     `json:"total_time_ms"`
	Difficulty  int       `json:"difficulty"`
	CreatedAt   time.Time `json:"created_at"`
}

// LeaderboardEntriesFromModel converts a slice of entries
func LeaderboardEntriesFromModel(entries []*model.LeaderboardEntry) []LeaderboardEntry {
	resp := make([]LeaderboardEntry, len(entries))
	for i, e := range entries {
		resp[i] = LeaderboardEntry{
			GameID:      string(e.GameID),
			Result:      string(e.Result),
			TotalTimeMS: e.TotalTime.Milliseconds(),
			Difficulty:  e.Difficulty,
			CreatedAt:   e.CreatedAt,
		}
	}
	return resp
}
