package player

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mmind/mastermind-go/internal/dependencies/clock"
	"github.com/mmind/mastermind-go/internal/model"
	"github.com/mmind/mastermind-go/internal/storage"
)

// Service reads and updates player profiles
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  zerolog.Logger
}

// New creates a new player Service
func New(storage storage.Storage, clock clock.Clock, logger zerolog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// GetProfile returns the player's profile
func (s *Service) GetProfile(ctx context.Context, playerID model.PlayerID) (*model.PlayerProfile, error) {
	profile, err := s.storage.GetProfile(ctx, playerID)
	if err != nil {
		return nil, model.Upstream("get profile", err)
	}
	return profile, nil
}

// GetDifficulty returns the secret length used for the player's next game
func (s *Service) GetDifficulty(ctx context.Context, playerID model.PlayerID) (int, error) {
	profile, err := s.GetProfile(ctx, playerID)
	if err != nil {
		return 0, err
	}
	return profile.Difficulty, nil
}

// SetDifficulty changes the secret length for the player's future games.
// A game already in progress keeps its own length.
func (s *Service) SetDifficulty(ctx context.Context, playerID model.PlayerID, difficulty int) (*model.PlayerProfile, error) {
	if err := model.ValidateDifficulty(difficulty); err != nil {
		return nil, err
	}

	profile, err := s.storage.UpdateDifficulty(ctx, playerID, difficulty, s.clock.Now())
	if err != nil {
		return nil, model.Upstream("update difficulty", err)
	}

	s.logger.Info().
		Str("player_id", string(playerID)).
		Int("difficulty", difficulty).
		Msg("difficulty changed")

	return profile, nil
}
