package mocks

import (
	"context"
	"strings"
	"sync"

	"github.com/mmind/mastermind-go/internal/dependencies/secretgen"
)

// MockSecretGenerator is a mock implementation of secretgen.Generator for testing
type MockSecretGenerator struct {
	mu sync.Mutex

	// Secrets is a queue of secrets to return from Generate. Once drained,
	// a run of zeros of the requested length is returned.
	Secrets []string
	index   int

	// Err, when set, is returned by every Generate call
	Err error

	// Calls records the requested lengths
	Calls []int
}

// Ensure MockSecretGenerator implements Generator
var _ secretgen.Generator = (*MockSecretGenerator)(nil)

// NewMockSecretGenerator creates a new MockSecretGenerator
func NewMockSecretGenerator() *MockSecretGenerator {
	return &MockSecretGenerator{}
}

// Generate returns the next queued secret or the configured error
func (g *MockSecretGenerator) Generate(ctx context.Context, length int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Calls = append(g.Calls, length)
	if g.Err != nil {
		return "", g.Err
	}
	if g.index < len(g.Secrets) {
		secret := g.Secrets[g.index]
		g.index++
		return secret, nil
	}
	return strings.Repeat("0", length), nil
}

// QueueSecret adds values to the Generate result queue
func (g *MockSecretGenerator) QueueSecret(values ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Secrets = append(g.Secrets, values...)
}

// Fail makes subsequent Generate calls return err (nil clears it)
func (g *MockSecretGenerator) Fail(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Err = err
}
