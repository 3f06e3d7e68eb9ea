package scoring

import (
	"github.com/mmind/mastermind-go/internal/model"
)

// consumed marks a digit already matched in an earlier pass
const consumed = 'x'

// Score is the peg count for one guess
type Score struct {
	CorrectNumbers   int
	CorrectPositions int
}

// Service scores guesses against secret codes
type Service struct{}

// New creates a new scoring Service
func New() *Service {
	return &Service{}
}

// Evaluate scores guess against secret. Callers validate lengths first.
func (s *Service) Evaluate(secret, guess string) Score {
	return Evaluate(secret, guess)
}

// ValidateGuess checks a raw guess before it is scored against a secret of
// the given length
func (s *Service) ValidateGuess(guess string, length int) error {
	return ValidateGuess(guess, length)
}

// Evaluate counts digits of guess present in secret (correct numbers) and
// digits in the right place (correct positions). Exact matches are taken
// first, then each remaining guess digit claims the leftmost unclaimed equal
// digit of the secret, so duplicates are counted at most once per side.
func Evaluate(secret, guess string) Score {
	sec := []byte(secret)
	gue := []byte(guess)
	n := min(len(sec), len(gue))

	var score Score
	for i := 0; i < n; i++ {
		if gue[i] == sec[i] {
			score.CorrectPositions++
			score.CorrectNumbers++
			gue[i] = consumed
			sec[i] = consumed
		}
	}

	for i := 0; i < len(gue); i++ {
		if gue[i] == consumed {
			continue
		}
		for j := 0; j < len(sec); j++ {
			if sec[j] == gue[i] {
				score.CorrectNumbers++
				sec[j] = consumed
				break
			}
		}
	}

	return score
}

// ValidateGuess rejects guesses with non-digit characters, guesses over the
// maximum length and guesses whose length differs from the secret. Digits are
// checked first so byte lengths below only ever count ASCII digits.
func ValidateGuess(guess string, length int) error {
	if guess == "" {
		return model.ErrGuessLengthMismatch
	}
	for i := 0; i < len(guess); i++ {
		if guess[i] < '0' || guess[i] > '9' {
			return model.ErrGuessNotDigits
		}
	}
	if len(guess) > model.MaxGuessLength {
		return model.ErrGuessTooLong
	}
	if len(guess) != length {
		return model.ErrGuessLengthMismatch
	}
	return nil
}

// Interface for dependency injection
type ServiceInterface interface {
	Evaluate(secret, guess string) Score
	ValidateGuess(guess string, length int) error
}

var _ ServiceInterface = (*Service)(nil)
