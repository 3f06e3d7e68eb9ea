package leaderboard

import (
	"context"

	"github.com/mmind/mastermind-go/internal/model"
	"github.com/mmind/mastermind-go/internal/storage"
)

// Service aggregates finished games
type Service struct {
	storage storage.Storage
}

// New creates a new leaderboard Service
func New(storage storage.Storage) *Service {
	return &Service{storage: storage}
}

// Totals counts the player's wins and losses at a difficulty and finds the
// fastest win. FastestTime stays nil when there are no wins.
func (s *Service) Totals(ctx context.Context, playerID model.PlayerID, difficulty int) (*model.LeaderboardTotals, error) {
	if err := model.ValidateDifficulty(difficulty); err != nil {
		return nil, err
	}

	entries, err := s.storage.ListLeaderboard(ctx, model.LeaderboardFilter{
		PlayerID:   playerID,
		Difficulty: difficulty,
	})
	if err != nil {
		return nil, model.Upstream("list leaderboard", err)
	}

	return Summarize(playerID, difficulty, entries), nil
}

// History returns the player's finished games, fastest first.
// A zero difficulty includes every difficulty.
func (s *Service) History(ctx context.Context, playerID model.PlayerID, difficulty int) ([]*model.LeaderboardEntry, error) {
	if difficulty != 0 {
		if err := model.ValidateDifficulty(difficulty); err != nil {
			return nil, err
		}
	}

	entries, err := s.storage.ListLeaderboard(ctx, model.LeaderboardFilter{
		PlayerID:   playerID,
		Difficulty: difficulty,
	})
	if err != nil {
		return nil, model.Upstream("list leaderboard", err)
	}
	return entries, nil
}

// Summarize folds entries into totals
func Summarize(playerID model.PlayerID, difficulty int, entries []*model.LeaderboardEntry) *model.LeaderboardTotals {
	totals := &model.LeaderboardTotals{
		PlayerID:   playerID,
		Difficulty: difficulty,
	}
	for _, e := range entries {
		switch e.Result {
		case model.ResultWin:
			totals.Wins++
			if totals.FastestTime == nil || e.TotalTime < *totals.FastestTime {
				fastest := e.TotalTime
				totals.FastestTime = &fastest
			}
		case model.ResultLoss:
			totals.Losses++
		}
	}
	return totals
}
