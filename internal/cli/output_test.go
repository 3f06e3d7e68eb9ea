package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputText(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutput(&buf, "text")

	win := "W"
	out.Print(GuessResult{
		Round:  Round{Guess: "1234", CorrectNumbers: 4, CorrectPositions: 4},
		Game:   Game{Round: 3, TotalTimeMS: 12500, SecretNumber: "1234"},
		Result: &win,
	})

	assert.Contains(t, buf.String(), "Guess 1234: 4 correct numbers, 4 correct positions")
	assert.Contains(t, buf.String(), "You won in 3 rounds (12.5s)!")
}

func TestOutputTextLoss(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutput(&buf, "text")

	loss := "L"
	out.Print(GuessResult{
		Round:  Round{Guess: "0000"},
		Game:   Game{Round: 10, SecretNumber: "7777"},
		Result: &loss,
	})

	assert.Contains(t, buf.String(), "The secret was 7777")
}

func TestOutputTotalsWithoutWins(t *testing.T) {
	var buf bytes.Buffer
	NewOutput(&buf, "text").Print(LeaderboardTotals{Difficulty: 4, Losses: 2})

	assert.Contains(t, buf.String(), "Losses: 2")
	assert.Contains(t, buf.String(), "Fastest: -")
}

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	NewOutput(&buf, "json").Print(DifficultyResult{Difficulty: 6})

	var decoded DifficultyResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 6, decoded.Difficulty)
}

func TestOutputEmptyRounds(t *testing.T) {
	var buf bytes.Buffer
	NewOutput(&buf, "text").Print([]Round{})

	assert.Contains(t, buf.String(), "No guesses yet")
}
