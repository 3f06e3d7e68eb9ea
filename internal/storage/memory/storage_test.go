package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mmind/mastermind-go/internal/model"
	"github.com/mmind/mastermind-go/internal/storage"
	"github.com/mmind/mastermind-go/internal/storage/storagetest"
)

func TestStorageSuite(t *testing.T) {
	suite.Run(t, &storagetest.Suite{
		NewStorage: func() storage.Storage { return New() },
	})
}

func TestStoredRecordsAreCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now()

	profile := model.NewPlayerProfile("p1", now)
	require.NoError(t, s.CreateAccount(ctx, &model.Account{PlayerID: "p1", Username: "alice"}, profile))
	profile.Difficulty = 6

	game := &model.Game{ID: "g1", PlayerID: "p1", SecretNumber: "1234", Difficulty: 4, State: model.GameStateActive}
	require.NoError(t, s.StartGame(ctx, game))
	game.Round = 5

	got, err := s.GetProfile(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultDifficulty, got.Difficulty)

	*got.CurrentGame = "other"
	again, err := s.GetProfile(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, model.GameID("g1"), *again.CurrentGame)

	storedGame, err := s.GetGame(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 0, storedGame.Round)
}
