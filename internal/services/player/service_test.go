package player

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"

	"github.com/mmind/mastermind-go/internal/dependencies/mocks"
	"github.com/mmind/mastermind-go/internal/model"
	"github.com/mmind/mastermind-go/internal/storage/memory"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, zerolog.Nop())
	s.ctx = context.Background()

	s.Require().NoError(s.storage.CreateAccount(s.ctx,
		&model.Account{PlayerID: "p1", Username: "alice", CreatedAt: s.clock.Now()},
		model.NewPlayerProfile("p1", s.clock.Now())))
}

func (s *ServiceSuite) TestGetDifficultyDefaults() {
	difficulty, err := s.service.GetDifficulty(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(model.DefaultDifficulty, difficulty)
}

func (s *ServiceSuite) TestSetDifficulty() {
	s.clock.Advance(time.Minute)

	profile, err := s.service.SetDifficulty(s.ctx, "p1", 6)
	s.Require().NoError(err)
	s.Equal(6, profile.Difficulty)
	s.Equal(s.clock.Now(), profile.UpdatedAt)

	difficulty, err := s.service.GetDifficulty(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(6, difficulty)
}

func (s *ServiceSuite) TestSetDifficultyOutOfRange() {
	for _, d := range []int{0, 3, 7, -1} {
		_, err := s.service.SetDifficulty(s.ctx, "p1", d)
		s.ErrorIs(err, model.ErrInvalidDifficulty, "difficulty %d", d)
		s.ErrorIs(err, model.ErrInvalidInput)
	}

	difficulty, err := s.service.GetDifficulty(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(model.DefaultDifficulty, difficulty)
}

func (s *ServiceSuite) TestUnknownPlayer() {
	_, err := s.service.GetProfile(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	_, err = s.service.SetDifficulty(s.ctx, "nobody", 5)
	s.ErrorIs(err, model.ErrNotFound)
}
