package request

import (
	"encoding/json"
	"strconv"
)

// RegisterRequest is the request body for registering an account
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// DifficultyRequest is the request body for changing difficulty
type DifficultyRequest struct {
	Difficulty *int `json:"difficulty"`
}

// GuessRequest is the request body for submitting a guess
type GuessRequest struct {
	Guess string `json:"guess"`
}

// ResumeRequest is the request body for resuming a paused game.
// PausedAt is an RFC 3339 string or a unix millisecond number.
type ResumeRequest struct {
	PausedAt json.RawMessage `json:"paused_at"`
}

// PausedAtString returns PausedAt as text for parsing; numbers are returned
// as their integer digits and anything else as ""
func (r ResumeRequest) PausedAtString() string {
	if len(r.PausedAt) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(r.PausedAt, &s); err == nil {
		return s
	}

	var n json.Number
	if err := json.Unmarshal(r.PausedAt, &n); err == nil {
		if i, err := n.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		if f, err := n.Float64(); err == nil {
			return strconv.FormatInt(int64(f), 10)
		}
	}
	return ""
}
