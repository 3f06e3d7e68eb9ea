package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	w      io.Writer
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(w io.Writer, format string) *Output {
	return &Output{w: w, format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case AuthResult:
		o.printAuthResult(v)
	case Profile:
		o.printProfile(v)
	case DifficultyResult:
		fmt.Fprintf(o.w, "Difficulty: %d\n", v.Difficulty)
	case Game:
		o.printGame(v)
	case []Round:
		o.printRounds(v)
	case GuessResult:
		o.printGuessResult(v)
	case LeaderboardTotals:
		o.printTotals(v)
	case []LeaderboardEntry:
		o.printHistory(v)
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// AuthResult response type (matches API)
type AuthResult struct {
	PlayerID    string    `json:"player_id"`
	Username    string    `json:"username"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Profile response type
type Profile struct {
	PlayerID    string  `json:"player_id"`
	Username    string  `json:"username,omitempty"`
	Difficulty  int     `json:"difficulty"`
	CurrentGame *string `json:"current_game"`
}

// DifficultyResult response type
type DifficultyResult struct {
	Difficulty int `json:"difficulty"`
}

// Game response type
type Game struct {
	ID           string    `json:"id"`
	Difficulty   int       `json:"difficulty"`
	Round        int       `json:"round"`
	RoundsLeft   int       `json:"rounds_left"`
	State        string    `json:"state"`
	StartTime    time.Time `json:"start_time"`
	TotalTimeMS  int64     `json:"total_time_ms"`
	SecretNumber string    `json:"secret_number,omitempty"`
}

// Round response type
type Round struct {
	Number           int       `json:"number"`
	Guess            string    `json:"guess"`
	CorrectNumbers   int       `json:"correct_numbers"`
	CorrectPositions int       `json:"correct_positions"`
	Timestamp        time.Time `json:"timestamp"`
}

// GuessResult response type
type GuessResult struct {
	Round  Round   `json:"round"`
	Game   Game    `json:"game"`
	Result *string `json:"result"`
}

// LeaderboardTotals response type
type LeaderboardTotals struct {
	Difficulty    int    `json:"difficulty"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	FastestTimeMS *int64 `json:"fastest_time_ms"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	GameID      string    `json:"game_id"`
	Result      string    `json:"result"`
	TotalTimeMS int64     `json:"total_time_ms"`
	Difficulty  int       `json:"difficulty"`
	CreatedAt   time.Time `json:"created_at"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func formatMS(ms int64) string {
	return (time.Duration(ms) * time.Millisecond).String()
}

func (o *Output) printAuthResult(a AuthResult) {
	fmt.Fprintf(o.w, "Player: %s (%s)\n", a.Username, a.PlayerID)
	fmt.Fprintf(o.w, "Token: %s\n", a.AccessToken)
	fmt.Fprintf(o.w, "Expires: %s\n", a.ExpiresAt.Format(time.RFC3339))
}

func (o *Output) printProfile(p Profile) {
	if p.Username != "" {
		fmt.Fprintf(o.w, "Player: %s (%s)\n", p.Username, p.PlayerID)
	} else {
		fmt.Fprintf(o.w, "Player: %s\n", p.PlayerID)
	}
	fmt.Fprintf(o.w, "Difficulty: %d\n", p.Difficulty)
	if p.CurrentGame != nil {
		fmt.Fprintf(o.w, "Current Game: %s\n", *p.CurrentGame)
	}
}

func (o *Output) printGame(g Game) {
	fmt.Fprintf(o.w, "Game: %s\n", g.ID)
	fmt.Fprintf(o.w, "State: %s\n", g.State)
	fmt.Fprintf(o.w, "Difficulty: %d\n", g.Difficulty)
	fmt.Fprintf(o.w, "Round: %d (%d left)\n", g.Round, g.RoundsLeft)
	fmt.Fprintf(o.w, "Time: %s\n", formatMS(g.TotalTimeMS))
	if g.SecretNumber != "" {
		fmt.Fprintf(o.w, "Secret: %s\n", g.SecretNumber)
	}
}

func (o *Output) printRounds(rounds []Round) {
	if len(rounds) == 0 {
		fmt.Fprintln(o.w, "No guesses yet")
		return
	}
	fmt.Fprintln(o.w, "  #  guess   numbers  positions")
	for _, r := range rounds {
		fmt.Fprintf(o.w, " %2d  %-6s  %7d  %9d\n", r.Number, r.Guess, r.CorrectNumbers, r.CorrectPositions)
	}
}

func (o *Output) printGuessResult(g GuessResult) {
	fmt.Fprintf(o.w, "Guess %s: %d correct numbers, %d correct positions\n",
		g.Round.Guess, g.Round.CorrectNumbers, g.Round.CorrectPositions)

	if g.Result == nil {
		fmt.Fprintf(o.w, "%d rounds left\n", g.Game.RoundsLeft)
		return
	}
	switch *g.Result {
	case "W":
		fmt.Fprintf(o.w, "You won in %d rounds (%s)!\n", g.Game.Round, formatMS(g.Game.TotalTimeMS))
	default:
		fmt.Fprintf(o.w, "Game over. The secret was %s\n", g.Game.SecretNumber)
	}
}

func (o *Output) printTotals(t LeaderboardTotals) {
	fmt.Fprintf(o.w, "Difficulty: %d\n", t.Difficulty)
	fmt.Fprintf(o.w, "Wins: %d\n", t.Wins)
	fmt.Fprintf(o.w, "Losses: %d\n", t.Losses)
	if t.FastestTimeMS != nil {
		fmt.Fprintf(o.w, "Fastest: %s\n", formatMS(*t.FastestTimeMS))
	} else {
		fmt.Fprintln(o.w, "Fastest: -")
	}
}

func (o *Output) printHistory(entries []LeaderboardEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(o.w, "No finished games")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(o.w, "  %s  %s  d=%d  %s\n", e.GameID, e.Result, e.Difficulty, formatMS(e.TotalTimeMS))
	}
}
