package game

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mmind/mastermind-go/internal/dependencies/clock"
	"github.com/mmind/mastermind-go/internal/dependencies/random"
	"github.com/mmind/mastermind-go/internal/dependencies/secretgen"
	"github.com/mmind/mastermind-go/internal/model"
	"github.com/mmind/mastermind-go/internal/services/scoring"
	"github.com/mmind/mastermind-go/internal/storage"
)

const gameIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GuessResult is the outcome of one submitted guess
type GuessResult struct {
	Round *model.Round
	Game  *model.Game
	// Entry is set when the guess ended the game
	Entry *model.LeaderboardEntry
}

// Controller manages the game state machine: creation, guesses, and the
// paused-timer correction
type Controller struct {
	storage        storage.Storage
	scoringService *scoring.Service
	generator      secretgen.Generator
	clock          clock.Clock
	random         random.Random
	logger         zerolog.Logger
}

// NewController creates a new Controller
func NewController(
	storage storage.Storage,
	scoringService *scoring.Service,
	generator secretgen.Generator,
	clock clock.Clock,
	random random.Random,
	logger zerolog.Logger,
) *Controller {
	return &Controller{
		storage:        storage,
		scoringService: scoringService,
		generator:      generator,
		clock:          clock,
		random:         random,
		logger:         logger,
	}
}

// NewGame starts a game at the player's difficulty and makes it their current game.
// Nothing is written if the secret cannot be generated.
func (c *Controller) NewGame(ctx context.Context, playerID model.PlayerID) (*model.Game, error) {
	profile, err := c.storage.GetProfile(ctx, playerID)
	if err != nil {
		return nil, model.Upstream("get profile", err)
	}

	secret, err := c.generator.Generate(ctx, profile.Difficulty)
	if err == nil {
		err = secretgen.Validate(secret, profile.Difficulty)
	}
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("player_id", string(playerID)).
			Int("difficulty", profile.Difficulty).
			Msg("failed to generate secret")
		return nil, model.Upstream("generate secret", err)
	}

	now := c.clock.Now()
	game := &model.Game{
		ID:           model.GameID(c.random.String(12, gameIDAlphabet)),
		PlayerID:     playerID,
		SecretNumber: secret,
		Difficulty:   profile.Difficulty,
		Round:        0,
		State:        model.GameStateActive,
		StartTime:    now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := c.storage.StartGame(ctx, game); err != nil {
		c.logger.Error().
			Err(err).
			Str("game_id", string(game.ID)).
			Msg("failed to save game")
		return nil, model.Upstream("start game", err)
	}

	c.logger.Info().
		Str("game_id", string(game.ID)).
		Str("player_id", string(playerID)).
		Int("difficulty", game.Difficulty).
		Msg("game created")

	return game, nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, model.Upstream("get game", err)
	}
	return game, nil
}

// CurrentGameID returns the ID of the player's current game
func (c *Controller) CurrentGameID(ctx context.Context, playerID model.PlayerID) (model.GameID, error) {
	profile, err := c.storage.GetProfile(ctx, playerID)
	if err != nil {
		return "", model.Upstream("get profile", err)
	}
	if profile.CurrentGame == nil {
		return "", model.ErrNoCurrentGame
	}
	return *profile.CurrentGame, nil
}

// CurrentGame returns the player's current game
func (c *Controller) CurrentGame(ctx context.Context, playerID model.PlayerID) (*model.Game, error) {
	gameID, err := c.CurrentGameID(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return c.GetGame(ctx, gameID)
}

// ListRounds returns the game's rounds in the order they were played
func (c *Controller) ListRounds(ctx context.Context, gameID model.GameID) ([]*model.Round, error) {
	rounds, err := c.storage.ListRounds(ctx, gameID)
	if err != nil {
		return nil, model.Upstream("list rounds", err)
	}
	return rounds, nil
}

// SubmitGuess scores a guess, advances the round and timer, and finishes the
// game on a win or when the round cap is reached. Invalid guesses are
// rejected before anything is written.
func (c *Controller) SubmitGuess(ctx context.Context, gameID model.GameID, guess string) (*GuessResult, error) {
	game, err := c.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if game.IsOver() || game.Round >= model.MaxRounds {
		return nil, model.ErrGameOver
	}

	if err := c.scoringService.ValidateGuess(guess, len(game.SecretNumber)); err != nil {
		return nil, err
	}

	rounds, err := c.ListRounds(ctx, gameID)
	if err != nil {
		return nil, err
	}
	for _, r := range rounds {
		if r.Guess == guess {
			return nil, model.ErrDuplicateGuess
		}
	}

	score := c.scoringService.Evaluate(game.SecretNumber, guess)

	now := c.clock.Now()
	game.TotalTime = game.ElapsedAt(now)
	game.Round++
	game.UpdatedAt = now

	round := &model.Round{
		ID:               model.RoundID(c.random.NewID()),
		GameID:           game.ID,
		Number:           game.Round,
		Guess:            guess,
		CorrectNumbers:   score.CorrectNumbers,
		CorrectPositions: score.CorrectPositions,
		Timestamp:        now,
	}

	var entry *model.LeaderboardEntry
	switch {
	case score.CorrectPositions == len(game.SecretNumber):
		game.State = model.GameStateWon
		entry = c.newEntry(game, model.ResultWin, now)
	case game.Round >= model.MaxRounds:
		game.State = model.GameStateLost
		entry = c.newEntry(game, model.ResultLoss, now)
	}

	if err := c.storage.RecordRound(ctx, game, round, entry); err != nil {
		c.logger.Error().
			Err(err).
			Str("game_id", string(game.ID)).
			Int("round", round.Number).
			Msg("failed to record round")
		return nil, model.Upstream("record round", err)
	}

	c.logger.Info().
		Str("game_id", string(game.ID)).
		Int("round", round.Number).
		Int("correct_numbers", round.CorrectNumbers).
		Int("correct_positions", round.CorrectPositions).
		Msg("guess recorded")

	if entry != nil {
		msg := "game won"
		if entry.Result == model.ResultLoss {
			msg = "game lost"
		}
		c.logger.Info().
			Str("game_id", string(game.ID)).
			Str("player_id", string(game.PlayerID)).
			Str("result", string(entry.Result)).
			Dur("total_time", entry.TotalTime).
			Msg(msg)
	}

	return &GuessResult{Round: round, Game: game, Entry: entry}, nil
}

func (c *Controller) newEntry(game *model.Game, result model.Result, now time.Time) *model.LeaderboardEntry {
	return &model.LeaderboardEntry{
		ID:         c.random.NewID(),
		PlayerID:   game.PlayerID,
		GameID:     game.ID,
		Result:     result,
		TotalTime:  game.TotalTime,
		Difficulty: game.Difficulty,
		CreatedAt:  now,
	}
}

// Resume shifts the game's start time forward by the time since pausedAt so
// the paused interval never counts towards the total time
func (c *Controller) Resume(ctx context.Context, gameID model.GameID, pausedAt time.Time) (*model.Game, error) {
	if pausedAt.IsZero() {
		return nil, model.ErrInvalidPauseTimestamp
	}

	game, err := c.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.IsOver() {
		return nil, model.ErrGameOver
	}

	now := c.clock.Now()
	if pausedAt.After(now) || pausedAt.Before(game.StartTime) {
		return nil, model.ErrInvalidPauseTimestamp
	}

	paused := now.Sub(pausedAt)
	game.StartTime = game.StartTime.Add(paused)
	game.UpdatedAt = now

	if err := c.storage.UpdateGame(ctx, game); err != nil {
		return nil, model.Upstream("update game", err)
	}

	c.logger.Info().
		Str("game_id", string(game.ID)).
		Dur("paused", paused).
		Msg("game resumed")

	return game, nil
}

// ParsePauseTimestamp accepts an RFC 3339 timestamp or unix milliseconds
func ParsePauseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, model.ErrInvalidPauseTimestamp
	}

	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}

	ms, err := strconv.ParseInt(value, 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}, model.ErrInvalidPauseTimestamp
	}
	return time.UnixMilli(ms).UTC(), nil
}
