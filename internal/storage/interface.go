package storage

import (
	"context"
	"time"

	"github.com/mmind/mastermind-go/internal/model"
)

// Storage defines the interface for data persistence.
//
// Multi-record writes (StartGame, UpdateGame, RecordRound, CreateAccount) are
// atomic: either every record is written or none is. UpdateGame and
// RecordRound compare the stored game's Version with the caller's copy and
// fail with model.ErrConcurrentUpdate when another write got there first.
// On success they increment game.Version in place.
type Storage interface {
	// Account operations
	CreateAccount(ctx context.Context, account *model.Account, profile *model.PlayerProfile) error
	GetAccount(ctx context.Context, playerID model.PlayerID) (*model.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*model.Account, error)

	// Profile operations
	GetProfile(ctx context.Context, playerID model.PlayerID) (*model.PlayerProfile, error)
	UpdateDifficulty(ctx context.Context, playerID model.PlayerID, difficulty int, at time.Time) (*model.PlayerProfile, error)

	// Game operations
	StartGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	UpdateGame(ctx context.Context, game *model.Game) error

	// Round operations.
	// RecordRound stores round, saves game and inserts entry (if non-nil) in
	// one step. The stored game must still be active at round.Number-1.
	RecordRound(ctx context.Context, game *model.Game, round *model.Round, entry *model.LeaderboardEntry) error
	ListRounds(ctx context.Context, gameID model.GameID) ([]*model.Round, error)

	// Leaderboard operations.
	// Entries are ordered by total time ascending, then creation time.
	ListLeaderboard(ctx context.Context, filter model.LeaderboardFilter) ([]*model.LeaderboardEntry, error)

	Close() error
}
