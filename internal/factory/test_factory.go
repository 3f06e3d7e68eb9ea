package factory

import (
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmind/mastermind-go/internal/dependencies/mocks"
	"github.com/mmind/mastermind-go/internal/services/auth"
	"github.com/mmind/mastermind-go/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock     *mocks.MockClock
	MockRandom    *mocks.MockRandom
	MockGenerator *mocks.MockSecretGenerator
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithLogger(zerolog.Nop())
}

// NewTestAppWithLogger is NewTestApp with the given logger
func NewTestAppWithLogger(logger zerolog.Logger) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	mockGenerator := mocks.NewMockSecretGenerator()

	authCfg := auth.DefaultConfig()
	authCfg.BcryptCost = bcrypt.MinCost

	app := newWithDependencies(store, mockClock, mockRandom, mockGenerator, authCfg, logger)

	return &TestApp{
		App:           app,
		MockClock:     mockClock,
		MockRandom:    mockRandom,
		MockGenerator: mockGenerator,
	}
}
