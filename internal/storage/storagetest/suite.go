// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mmind/mastermind-go/internal/model"
	"github.com/mmind/mastermind-go/internal/storage"
)

// Suite runs the storage contract against a fresh store per test.
// Backends embed it and set NewStorage.
type Suite struct {
	suite.Suite
	NewStorage func() storage.Storage

	Store storage.Storage
	ctx   context.Context
	now   time.Time
}

func (s *Suite) SetupTest() {
	s.Require().NotNil(s.NewStorage, "NewStorage must be set")
	s.Store = s.NewStorage()
	s.ctx = context.Background()
	s.now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *Suite) TearDownTest() {
	if s.Store != nil {
		_ = s.Store.Close()
	}
}

func (s *Suite) createPlayer(id model.PlayerID, username string) {
	account := &model.Account{
		PlayerID:     id,
		Username:     username,
		PasswordHash: "hash",
		CreatedAt:    s.now,
	}
	s.Require().NoError(s.Store.CreateAccount(s.ctx, account, model.NewPlayerProfile(id, s.now)))
}

func (s *Suite) startGame(id model.GameID, playerID model.PlayerID, secret string) *model.Game {
	game := &model.Game{
		ID:           id,
		PlayerID:     playerID,
		SecretNumber: secret,
		Difficulty:   len(secret),
		State:        model.GameStateActive,
		StartTime:    s.now,
		CreatedAt:    s.now,
		UpdatedAt:    s.now,
	}
	s.Require().NoError(s.Store.StartGame(s.ctx, game))
	return game
}

// nextRound advances game by one guess in the same way the controller does
func (s *Suite) nextRound(game *model.Game, guess string) *model.Round {
	game.Round++
	game.TotalTime = time.Duration(game.Round) * time.Second
	game.UpdatedAt = s.now.Add(game.TotalTime)
	return &model.Round{
		ID:        model.RoundID(fmt.Sprintf("%s-round-%d", game.ID, game.Round)),
		GameID:    game.ID,
		Number:    game.Round,
		Guess:     guess,
		Timestamp: game.UpdatedAt,
	}
}

func (s *Suite) entry(id string, game *model.Game, result model.Result, total time.Duration, created time.Time) *model.LeaderboardEntry {
	return &model.LeaderboardEntry{
		ID:         id,
		PlayerID:   game.PlayerID,
		GameID:     game.ID,
		Result:     result,
		TotalTime:  total,
		Difficulty: game.Difficulty,
		CreatedAt:  created,
	}
}

// Account tests

func (s *Suite) TestCreateAccountCreatesDefaultProfile() {
	s.createPlayer("p1", "alice")

	account, err := s.Store.GetAccountByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p1"), account.PlayerID)
	s.Equal("hash", account.PasswordHash)

	byID, err := s.Store.GetAccount(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal("alice", byID.Username)

	profile, err := s.Store.GetProfile(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(model.DefaultDifficulty, profile.Difficulty)
	s.Nil(profile.CurrentGame)
}

func (s *Suite) TestCreateAccountRejectsTakenUsername() {
	s.createPlayer("p1", "alice")

	err := s.Store.CreateAccount(s.ctx,
		&model.Account{PlayerID: "p2", Username: "alice", PasswordHash: "x", CreatedAt: s.now},
		model.NewPlayerProfile("p2", s.now))
	s.ErrorIs(err, model.ErrUsernameTaken)

	_, err = s.Store.GetProfile(s.ctx, "p2")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestMissingAccountAndProfile() {
	_, err := s.Store.GetAccount(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrNotFound)
	_, err = s.Store.GetAccountByUsername(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrNotFound)
	_, err = s.Store.GetProfile(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Profile tests

func (s *Suite) TestUpdateDifficulty() {
	s.createPlayer("p1", "alice")
	s.startGame("g1", "p1", "1234")

	later := s.now.Add(time.Minute)
	profile, err := s.Store.UpdateDifficulty(s.ctx, "p1", 6, later)
	s.Require().NoError(err)
	s.Equal(6, profile.Difficulty)
	s.Require().NotNil(profile.CurrentGame)
	s.Equal(model.GameID("g1"), *profile.CurrentGame)

	stored, err := s.Store.GetProfile(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(6, stored.Difficulty)
	s.True(later.Equal(stored.UpdatedAt))

	_, err = s.Store.UpdateDifficulty(s.ctx, "nobody", 5, later)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Game tests

func (s *Suite) TestStartGamePointsProfileAtGame() {
	s.createPlayer("p1", "alice")
	s.startGame("g1", "p1", "1234")
	s.startGame("g2", "p1", "5670")

	profile, err := s.Store.GetProfile(s.ctx, "p1")
	s.Require().NoError(err)
	s.Require().NotNil(profile.CurrentGame)
	s.Equal(model.GameID("g2"), *profile.CurrentGame)

	game, err := s.Store.GetGame(s.ctx, "g1")
	s.Require().NoError(err)
	s.Equal("1234", game.SecretNumber)
	s.Equal(model.GameStateActive, game.State)
	s.Equal(0, game.Round)
	s.True(s.now.Equal(game.StartTime))
}

func (s *Suite) TestStartGameForUnknownPlayerWritesNothing() {
	err := s.Store.StartGame(s.ctx, &model.Game{
		ID: "g1", PlayerID: "nobody", SecretNumber: "1234", Difficulty: 4,
		State: model.GameStateActive, StartTime: s.now, CreatedAt: s.now, UpdatedAt: s.now,
	})
	s.ErrorIs(err, model.ErrPlayerNotFound)

	_, err = s.Store.GetGame(s.ctx, "g1")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *Suite) TestGetGameNotFound() {
	_, err := s.Store.GetGame(s.ctx, "missing")
	s.ErrorIs(err, model.ErrGameNotFound)
	_, err = s.Store.ListRounds(s.ctx, "missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *Suite) TestUpdateGameComparesVersion() {
	s.createPlayer("p1", "alice")
	game := s.startGame("g1", "p1", "1234")
	stale := *game

	game.StartTime = s.now.Add(30 * time.Second)
	s.Require().NoError(s.Store.UpdateGame(s.ctx, game))
	s.Equal(1, game.Version)

	stored, err := s.Store.GetGame(s.ctx, "g1")
	s.Require().NoError(err)
	s.True(s.now.Add(30 * time.Second).Equal(stored.StartTime))
	s.Equal(1, stored.Version)

	// Same round, older version
	stale.StartTime = s.now.Add(time.Minute)
	s.ErrorIs(s.Store.UpdateGame(s.ctx, &stale), model.ErrConcurrentUpdate)
	s.Equal(0, stale.Version)

	stored, err = s.Store.GetGame(s.ctx, "g1")
	s.Require().NoError(err)
	s.True(s.now.Add(30 * time.Second).Equal(stored.StartTime))

	game.ID = "missing"
	s.ErrorIs(s.Store.UpdateGame(s.ctx, game), model.ErrGameNotFound)
}

// Round tests

func (s *Suite) TestRecordRoundPersistsRoundAndGame() {
	s.createPlayer("p1", "alice")
	game := s.startGame("g1", "p1", "1234")

	first := s.nextRound(game, "5670")
	first.CorrectNumbers = 0
	s.Require().NoError(s.Store.RecordRound(s.ctx, game, first, nil))

	second := s.nextRound(game, "4321")
	second.CorrectNumbers = 4
	s.Require().NoError(s.Store.RecordRound(s.ctx, game, second, nil))

	stored, err := s.Store.GetGame(s.ctx, "g1")
	s.Require().NoError(err)
	s.Equal(2, stored.Round)
	s.Equal(2*time.Second, stored.TotalTime)

	rounds, err := s.Store.ListRounds(s.ctx, "g1")
	s.Require().NoError(err)
	s.Require().Len(rounds, 2)
	s.Equal("5670", rounds[0].Guess)
	s.Equal(1, rounds[0].Number)
	s.Equal("4321", rounds[1].Guess)
	s.Equal(4, rounds[1].CorrectNumbers)
}

func (s *Suite) TestRecordRoundRejectsDuplicateGuess() {
	s.createPlayer("p1", "alice")
	game := s.startGame("g1", "p1", "1234")

	s.Require().NoError(s.Store.RecordRound(s.ctx, game, s.nextRound(game, "5670"), nil))
	err := s.Store.RecordRound(s.ctx, game, s.nextRound(game, "5670"), nil)
	s.ErrorIs(err, model.ErrDuplicateGuess)

	rounds, err := s.Store.ListRounds(s.ctx, "g1")
	s.Require().NoError(err)
	s.Len(rounds, 1)

	stored, err := s.Store.GetGame(s.ctx, "g1")
	s.Require().NoError(err)
	s.Equal(1, stored.Round)
}

func (s *Suite) TestRecordRoundRejectsStaleRound() {
	s.createPlayer("p1", "alice")
	game := s.startGame("g1", "p1", "1234")
	stale := *game

	s.Require().NoError(s.Store.RecordRound(s.ctx, game, s.nextRound(game, "5670"), nil))

	// A second writer that loaded the game before the first write
	err := s.Store.RecordRound(s.ctx, &stale, s.nextRound(&stale, "0000"), nil)
	s.ErrorIs(err, model.ErrConcurrentUpdate)

	rounds, err := s.Store.ListRounds(s.ctx, "g1")
	s.Require().NoError(err)
	s.Len(rounds, 1)
}

func (s *Suite) TestRecordRoundRejectsGameUpdatedSinceRead() {
	s.createPlayer("p1", "alice")
	game := s.startGame("g1", "p1", "1234")

	// A guess reads the game, then a resume lands before the guess is written
	read := *game
	resumed := *game
	resumed.StartTime = s.now.Add(time.Hour)
	s.Require().NoError(s.Store.UpdateGame(s.ctx, &resumed))

	err := s.Store.RecordRound(s.ctx, &read, s.nextRound(&read, "5670"), nil)
	s.ErrorIs(err, model.ErrConcurrentUpdate)

	stored, err := s.Store.GetGame(s.ctx, "g1")
	s.Require().NoError(err)
	s.True(s.now.Add(time.Hour).Equal(stored.StartTime))
	s.Equal(0, stored.Round)

	rounds, err := s.Store.ListRounds(s.ctx, "g1")
	s.Require().NoError(err)
	s.Empty(rounds)

	// Re-reading picks up the resume and the guess goes through
	fresh, err := s.Store.GetGame(s.ctx, "g1")
	s.Require().NoError(err)
	s.Require().NoError(s.Store.RecordRound(s.ctx, fresh, s.nextRound(fresh, "5670"), nil))
	s.Equal(2, fresh.Version)

	stored, err = s.Store.GetGame(s.ctx, "g1")
	s.Require().NoError(err)
	s.True(s.now.Add(time.Hour).Equal(stored.StartTime))
	s.Equal(1, stored.Round)
}

func (s *Suite) TestRecordRoundWithEntryFinishesGame() {
	s.createPlayer("p1", "alice")
	game := s.startGame("g1", "p1", "1234")

	round := s.nextRound(game, "1234")
	round.CorrectNumbers, round.CorrectPositions = 4, 4
	game.State = model.GameStateWon
	entry := s.entry("e1", game, model.ResultWin, game.TotalTime, game.UpdatedAt)
	s.Require().NoError(s.Store.RecordRound(s.ctx, game, round, entry))

	stored, err := s.Store.GetGame(s.ctx, "g1")
	s.Require().NoError(err)
	s.Equal(model.GameStateWon, stored.State)

	entries, err := s.Store.ListLeaderboard(s.ctx, model.LeaderboardFilter{PlayerID: "p1"})
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(model.ResultWin, entries[0].Result)
	s.Equal(time.Second, entries[0].TotalTime)
	s.Equal(4, entries[0].Difficulty)

	// The finished game accepts no more rounds
	err = s.Store.RecordRound(s.ctx, game, s.nextRound(game, "0000"), nil)
	s.ErrorIs(err, model.ErrConcurrentUpdate)
}

func (s *Suite) TestConcurrentRecordRoundHasOneWinner() {
	s.createPlayer("p1", "alice")
	game := s.startGame("g1", "p1", "1234")

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			g := *game
			round := s.nextRound(&g, fmt.Sprintf("%04d", i))
			errs[i] = s.Store.RecordRound(s.ctx, &g, round, nil)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.ErrorIs(err, model.ErrConflict)
	}
	s.Equal(1, succeeded)

	rounds, err := s.Store.ListRounds(s.ctx, "g1")
	s.Require().NoError(err)
	s.Len(rounds, 1)
}

// Leaderboard tests

func (s *Suite) TestListLeaderboardFiltersAndOrders() {
	s.createPlayer("p1", "alice")
	s.createPlayer("p2", "bob")

	finish := func(gameID model.GameID, playerID model.PlayerID, secret string, result model.Result, total time.Duration, created time.Time) {
		game := s.startGame(gameID, playerID, secret)
		round := s.nextRound(game, secret)
		if result == model.ResultWin {
			game.State = model.GameStateWon
		} else {
			game.State = model.GameStateLost
		}
		s.Require().NoError(s.Store.RecordRound(s.ctx, game, round,
			s.entry("entry-"+string(gameID), game, result, total, created)))
	}

	finish("g1", "p1", "1234", model.ResultWin, 90*time.Second, s.now)
	finish("g2", "p1", "1234", model.ResultWin, 30*time.Second, s.now.Add(time.Minute))
	finish("g3", "p1", "1234", model.ResultLoss, 10*time.Second, s.now.Add(2*time.Minute))
	finish("g4", "p1", "123456", model.ResultWin, 5*time.Second, s.now.Add(3*time.Minute))
	finish("g5", "p2", "1234", model.ResultWin, 1*time.Second, s.now.Add(4*time.Minute))
	finish("g6", "p1", "4321", model.ResultWin, 30*time.Second, s.now.Add(-time.Minute))

	entries, err := s.Store.ListLeaderboard(s.ctx, model.LeaderboardFilter{PlayerID: "p1", Difficulty: 4})
	s.Require().NoError(err)
	s.Require().Len(entries, 4)
	s.Equal(model.GameID("g3"), entries[0].GameID)
	// Equal total times fall back to creation order
	s.Equal(model.GameID("g6"), entries[1].GameID)
	s.Equal(model.GameID("g2"), entries[2].GameID)
	s.Equal(model.GameID("g1"), entries[3].GameID)

	wins, err := s.Store.ListLeaderboard(s.ctx, model.LeaderboardFilter{PlayerID: "p1", Difficulty: 4, Result: model.ResultWin})
	s.Require().NoError(err)
	s.Len(wins, 3)

	all, err := s.Store.ListLeaderboard(s.ctx, model.LeaderboardFilter{})
	s.Require().NoError(err)
	s.Require().Len(all, 6)
	s.Equal(model.GameID("g5"), all[0].GameID)

	none, err := s.Store.ListLeaderboard(s.ctx, model.LeaderboardFilter{PlayerID: "nobody"})
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *Suite) TestLeaderboardEntryIsUniquePerGame() {
	s.createPlayer("p1", "alice")
	game := s.startGame("g1", "p1", "1234")

	// A second terminal write for the same game must not add an entry
	first := s.nextRound(game, "5670")
	s.Require().NoError(s.Store.RecordRound(s.ctx, game, first,
		s.entry("e1", game, model.ResultLoss, game.TotalTime, s.now)))

	entries, err := s.Store.ListLeaderboard(s.ctx, model.LeaderboardFilter{PlayerID: "p1"})
	s.Require().NoError(err)
	s.Len(entries, 1)

	err = s.Store.RecordRound(s.ctx, game, s.nextRound(game, "0000"),
		s.entry("e2", game, model.ResultLoss, game.TotalTime, s.now))
	s.ErrorIs(err, model.ErrDuplicateLeaderboardEntry)

	rounds, err := s.Store.ListRounds(s.ctx, "g1")
	s.Require().NoError(err)
	s.Len(rounds, 1)

	entries, err = s.Store.ListLeaderboard(s.ctx, model.LeaderboardFilter{PlayerID: "p1"})
	s.Require().NoError(err)
	s.Len(entries, 1)
}
