package secretgen

import (
	"context"

	"github.com/mmind/mastermind-go/internal/dependencies/random"
)

const digitAlphabet = "01234567"

// Local generates secrets in-process from a random source
type Local struct {
	random random.Random
}

// NewLocal creates a Local generator
func NewLocal(random random.Random) *Local {
	return &Local{random: random}
}

// Generate draws length digits in [0,7]
func (g *Local) Generate(ctx context.Context, length int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	secret := g.random.String(length, digitAlphabet)
	if err := Validate(secret, length); err != nil {
		return "", err
	}
	return secret, nil
}

var _ Generator = (*Local)(nil)
