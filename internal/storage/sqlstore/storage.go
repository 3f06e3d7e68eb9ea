package sqlstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mmind/mastermind-go/internal/model"
	"github.com/mmind/mastermind-go/internal/storage"
)

// Storage is a SQL implementation of the storage interface backed by gorm
type Storage struct {
	db *gorm.DB
}

// New opens the configured database and migrates the schema
func New(cfg Config) (*Storage, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	case DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Driver == DriverSQLite {
		// One connection keeps ":memory:" databases shared and serialises writers
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
	}

	return NewWithDB(db)
}

// NewWithDB creates a Storage on an existing gorm handle and migrates the schema
func NewWithDB(db *gorm.DB) (*Storage, error) {
	if err := db.AutoMigrate(&accountRow{}, &profileRow{}, &gameRow{}, &roundRow{}, &leaderboardRow{}); err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

// Close closes the underlying connection pool
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// notFound maps gorm's missing-record error to the given domain error
func notFound(err, domainErr error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainErr
	}
	return err
}

// duplicate maps unique-constraint violations to the given domain error
func duplicate(err, domainErr error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainErr
	}
	return err
}

// Account operations

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account, profile *model.PlayerProfile) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&accountRow{}).
			Where("username = ? OR player_id = ?", account.Username, string(account.PlayerID)).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return model.ErrUsernameTaken
		}

		if err := tx.Create(toAccountRow(account)).Error; err != nil {
			return duplicate(err, model.ErrUsernameTaken)
		}
		return tx.Create(toProfileRow(profile)).Error
	})
}

func (s *Storage) GetAccount(ctx context.Context, playerID model.PlayerID) (*model.Account, error) {
	var row accountRow
	if err := s.db.WithContext(ctx).Where("player_id = ?", string(playerID)).First(&row).Error; err != nil {
		return nil, notFound(err, model.ErrAccountNotFound)
	}
	return row.toModel(), nil
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	var row accountRow
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&row).Error; err != nil {
		return nil, notFound(err, model.ErrAccountNotFound)
	}
	return row.toModel(), nil
}

// Profile operations

func (s *Storage) GetProfile(ctx context.Context, playerID model.PlayerID) (*model.PlayerProfile, error) {
	return getProfile(s.db.WithContext(ctx), playerID)
}

func getProfile(db *gorm.DB, playerID model.PlayerID) (*model.PlayerProfile, error) {
	var row profileRow
	if err := db.Where("player_id = ?", string(playerID)).First(&row).Error; err != nil {
		return nil, notFound(err, model.ErrPlayerNotFound)
	}
	return row.toModel(), nil
}

func (s *Storage) UpdateDifficulty(ctx context.Context, playerID model.PlayerID, difficulty int, at time.Time) (*model.PlayerProfile, error) {
	var updated *model.PlayerProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&profileRow{}).
			Where("player_id = ?", string(playerID)).
			Updates(map[string]any{"difficulty": difficulty, "updated_at": at})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return model.ErrPlayerNotFound
		}

		profile, err := getProfile(tx, playerID)
		updated = profile
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Game operations

func (s *Storage) StartGame(ctx context.Context, game *model.Game) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&profileRow{}).
			Where("player_id = ?", string(game.PlayerID)).
			Updates(map[string]any{"current_game_id": string(game.ID), "updated_at": game.CreatedAt})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return model.ErrPlayerNotFound
		}
		return tx.Create(toGameRow(game)).Error
	})
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	var row gameRow
	if err := s.db.WithContext(ctx).Where("id = ?", string(id)).First(&row).Error; err != nil {
		return nil, notFound(err, model.ErrGameNotFound)
	}
	return row.toModel(), nil
}

// casGame writes game only if the stored version still equals game.Version.
// A non-negative expectedRound additionally requires an active game at that round.
func casGame(tx *gorm.DB, game *model.Game, expectedRound int) error {
	row := toGameRow(game)
	q := tx.Model(&gameRow{}).Where("id = ? AND version = ?", row.ID, row.Version)
	if expectedRound >= 0 {
		q = q.Where("round = ? AND state = ?", expectedRound, string(model.GameStateActive))
	}
	res := q.Updates(map[string]any{
		"round":         row.Round,
		"state":         row.State,
		"start_time":    row.StartTime,
		"total_time_ns": row.TotalTimeNS,
		"updated_at":    row.UpdatedAt,
		"version":       row.Version + 1,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := tx.Model(&gameRow{}).Where("id = ?", row.ID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return model.ErrGameNotFound
	}
	return model.ErrConcurrentUpdate
}

func (s *Storage) UpdateGame(ctx context.Context, game *model.Game) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return casGame(tx, game, -1)
	})
	if err != nil {
		return err
	}
	game.Version++
	return nil
}

// Round operations

func (s *Storage) RecordRound(ctx context.Context, game *model.Game, round *model.Round, entry *model.LeaderboardEntry) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dup int64
		if err := tx.Model(&roundRow{}).
			Where("game_id = ? AND guess = ?", string(round.GameID), round.Guess).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return model.ErrDuplicateGuess
		}

		if err := casGame(tx, game, round.Number-1); err != nil {
			return err
		}

		if err := tx.Create(toRoundRow(round)).Error; err != nil {
			return duplicate(err, model.ErrDuplicateGuess)
		}

		if entry != nil {
			if err := tx.Create(toLeaderboardRow(entry)).Error; err != nil {
				return duplicate(err, model.ErrDuplicateLeaderboardEntry)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	game.Version++
	return nil
}

func (s *Storage) ListRounds(ctx context.Context, gameID model.GameID) ([]*model.Round, error) {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&gameRow{}).Where("id = ?", string(gameID)).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, model.ErrGameNotFound
	}

	var rows []roundRow
	if err := db.Where("game_id = ?", string(gameID)).
		Order("number ASC").Order("timestamp ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	rounds := make([]*model.Round, 0, len(rows))
	for i := range rows {
		rounds = append(rounds, rows[i].toModel())
	}
	return rounds, nil
}

// Leaderboard operations

func (s *Storage) ListLeaderboard(ctx context.Context, filter model.LeaderboardFilter) ([]*model.LeaderboardEntry, error) {
	q := s.db.WithContext(ctx).Model(&leaderboardRow{})
	if filter.PlayerID != "" {
		q = q.Where("player_id = ?", string(filter.PlayerID))
	}
	if filter.Difficulty != 0 {
		q = q.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.Result != "" {
		q = q.Where("result = ?", string(filter.Result))
	}

	var rows []leaderboardRow
	if err := q.Order("total_time_ns ASC").Order("created_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]*model.LeaderboardEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, rows[i].toModel())
	}
	return entries, nil
}
