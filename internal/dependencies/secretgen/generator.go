// Package secretgen produces secret codes for new games.
package secretgen

import (
	"context"
	"fmt"

	"github.com/mmind/mastermind-go/internal/model"
)

// Generator produces a secret code of the given length with each digit in
// [model.MinSecretDigit, model.MaxSecretDigit]
type Generator interface {
	Generate(ctx context.Context, length int) (string, error)
}

// Validate checks a generated secret has the requested length and digit range
func Validate(secret string, length int) error {
	if len(secret) != length {
		return fmt.Errorf("%w: got %d digits, want %d", model.ErrInvalidSecret, len(secret), length)
	}
	for _, c := range secret {
		if c < model.MinSecretDigit || c > model.MaxSecretDigit {
			return fmt.Errorf("%w: digit %q out of range", model.ErrInvalidSecret, c)
		}
	}
	return nil
}
