package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mmind/mastermind-go/internal/model"
	"github.com/mmind/mastermind-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// watch runs fn in an optimistic transaction over keys, retrying when a
// watched key changes underneath it
func (s *Storage) watch(ctx context.Context, fn func(tx *redis.Tx) error, keys ...string) error {
	attempts := s.cfg.MaxTxRetries
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		err := s.client.Watch(ctx, fn, keys...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return model.ErrConcurrentUpdate
}

// getter is satisfied by both the client and a watched transaction
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func getJSON[T any](ctx context.Context, c getter, key string, notFound error) (*T, error) {
	data, err := c.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notFound
		}
		return nil, err
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Account operations

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account, profile *model.PlayerProfile) error {
	accountData, err := json.Marshal(account)
	if err != nil {
		return err
	}
	profileData, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	idxKey := usernameIndexKey(account.Username)
	accKey := accountKey(account.PlayerID)
	return s.watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, idxKey, accKey).Result()
		if err != nil {
			return err
		}
		if exists > 0 {
			return model.ErrUsernameTaken
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, accKey, accountData, 0)
			pipe.Set(ctx, idxKey, string(account.PlayerID), 0)
			pipe.Set(ctx, profileKey(profile.PlayerID), profileData, 0)
			return nil
		})
		return err
	}, idxKey, accKey)
}

func (s *Storage) GetAccount(ctx context.Context, playerID model.PlayerID) (*model.Account, error) {
	return getJSON[model.Account](ctx, s.client, accountKey(playerID), model.ErrAccountNotFound)
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	// Look up player ID from username index
	playerIDStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	return s.GetAccount(ctx, model.PlayerID(playerIDStr))
}

// Profile operations

func (s *Storage) GetProfile(ctx context.Context, playerID model.PlayerID) (*model.PlayerProfile, error) {
	return getJSON[model.PlayerProfile](ctx, s.client, profileKey(playerID), model.ErrPlayerNotFound)
}

func (s *Storage) UpdateDifficulty(ctx context.Context, playerID model.PlayerID, difficulty int, at time.Time) (*model.PlayerProfile, error) {
	key := profileKey(playerID)
	var updated *model.PlayerProfile
	err := s.watch(ctx, func(tx *redis.Tx) error {
		profile, err := getJSON[model.PlayerProfile](ctx, tx, key, model.ErrPlayerNotFound)
		if err != nil {
			return err
		}
		profile.Difficulty = difficulty
		profile.UpdatedAt = at

		data, err := json.Marshal(profile)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		updated = profile
		return err
	}, key)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Game operations

func (s *Storage) StartGame(ctx context.Context, game *model.Game) error {
	gameData, err := json.Marshal(game)
	if err != nil {
		return err
	}

	pKey := profileKey(game.PlayerID)
	return s.watch(ctx, func(tx *redis.Tx) error {
		profile, err := getJSON[model.PlayerProfile](ctx, tx, pKey, model.ErrPlayerNotFound)
		if err != nil {
			return err
		}
		id := game.ID
		profile.CurrentGame = &id
		profile.UpdatedAt = game.CreatedAt

		profileData, err := json.Marshal(profile)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, gameKey(game.ID), gameData, 0)
			pipe.Set(ctx, pKey, profileData, 0)
			return nil
		})
		return err
	}, pKey)
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	return getJSON[model.Game](ctx, s.client, gameKey(id), model.ErrGameNotFound)
}

func (s *Storage) UpdateGame(ctx context.Context, game *model.Game) error {
	next := *game
	next.Version++
	data, err := json.Marshal(&next)
	if err != nil {
		return err
	}

	key := gameKey(game.ID)
	err = s.watch(ctx, func(tx *redis.Tx) error {
		stored, err := getJSON[model.Game](ctx, tx, key, model.ErrGameNotFound)
		if err != nil {
			return err
		}
		if stored.Version != game.Version {
			return model.ErrConcurrentUpdate
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.gameTTL(&next))
			return nil
		})
		return err
	}, key)
	if err != nil {
		return err
	}
	game.Version = next.Version
	return nil
}

// Round operations

func (s *Storage) RecordRound(ctx context.Context, game *model.Game, round *model.Round, entry *model.LeaderboardEntry) error {
	next := *game
	next.Version++
	gameData, err := json.Marshal(&next)
	if err != nil {
		return err
	}
	roundData, err := json.Marshal(round)
	if err != nil {
		return err
	}
	var entryData []byte
	if entry != nil {
		if entryData, err = json.Marshal(entry); err != nil {
			return err
		}
	}

	gKey := gameKey(game.ID)
	rKey := roundsKey(game.ID)
	guessKey := guessesKey(game.ID)
	keys := []string{gKey, guessKey}
	var lbGameKey string
	if entry != nil {
		lbGameKey = leaderboardGameKey(entry.PlayerID, entry.GameID)
		keys = append(keys, lbGameKey)
	}

	err = s.watch(ctx, func(tx *redis.Tx) error {
		stored, err := getJSON[model.Game](ctx, tx, gKey, model.ErrGameNotFound)
		if err != nil {
			return err
		}

		dup, err := tx.SIsMember(ctx, guessKey, round.Guess).Result()
		if err != nil {
			return err
		}
		if dup {
			return model.ErrDuplicateGuess
		}

		if stored.IsOver() || stored.Version != game.Version || stored.Round != round.Number-1 {
			return model.ErrConcurrentUpdate
		}

		if entry != nil {
			exists, err := tx.Exists(ctx, lbGameKey).Result()
			if err != nil {
				return err
			}
			if exists > 0 {
				return model.ErrDuplicateLeaderboardEntry
			}
		}

		ttl := s.gameTTL(&next)
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, gKey, gameData, ttl)
			pipe.RPush(ctx, rKey, roundData)
			pipe.SAdd(ctx, guessKey, round.Guess)

			if entry != nil {
				member := redis.Z{Score: float64(entry.TotalTime), Member: entry.ID}
				pipe.Set(ctx, leaderboardEntryKey(entry.ID), entryData, 0)
				pipe.Set(ctx, lbGameKey, entry.ID, 0)
				pipe.ZAdd(ctx, leaderboardPlayerKey(entry.PlayerID), member)
				pipe.ZAdd(ctx, leaderboardAllKey(), member)
			}

			// A finished game and its history expire together
			if ttl > 0 {
				pipe.Expire(ctx, rKey, ttl)
				pipe.Expire(ctx, guessKey, ttl)
			}
			return nil
		})
		return err
	}, keys...)
	if err != nil {
		return err
	}
	game.Version = next.Version
	return nil
}

// gameTTL is the expiry for a game's keys: FinishedGameTTL once the game is
// over, otherwise none
func (s *Storage) gameTTL(game *model.Game) time.Duration {
	if game.IsOver() && s.cfg.FinishedGameTTL > 0 {
		return s.cfg.FinishedGameTTL
	}
	return 0
}

func (s *Storage) ListRounds(ctx context.Context, gameID model.GameID) ([]*model.Round, error) {
	exists, err := s.client.Exists(ctx, gameKey(gameID)).Result()
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, model.ErrGameNotFound
	}

	values, err := s.client.LRange(ctx, roundsKey(gameID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	rounds := make([]*model.Round, 0, len(values))
	for _, val := range values {
		var round model.Round
		if err := json.Unmarshal([]byte(val), &round); err != nil {
			return nil, err
		}
		rounds = append(rounds, &round)
	}
	storage.SortRounds(rounds)
	return rounds, nil
}

// Leaderboard operations

func (s *Storage) ListLeaderboard(ctx context.Context, filter model.LeaderboardFilter) ([]*model.LeaderboardEntry, error) {
	indexKey := leaderboardAllKey()
	if filter.PlayerID != "" {
		indexKey = leaderboardPlayerKey(filter.PlayerID)
	}

	// Entry IDs come back ordered by total time
	ids, err := s.client.ZRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.LeaderboardEntry{}, nil
	}

	entryKeys := make([]string, len(ids))
	for i, id := range ids {
		entryKeys[i] = leaderboardEntryKey(id)
	}

	values, err := s.client.MGet(ctx, entryKeys...).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]*model.LeaderboardEntry, 0, len(values))
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue
		}
		var entry model.LeaderboardEntry
		if err := json.Unmarshal([]byte(str), &entry); err != nil {
			return nil, err
		}
		if filter.Matches(&entry) {
			entries = append(entries, &entry)
		}
	}

	// Break total time ties by creation time
	storage.SortLeaderboard(entries)
	return entries, nil
}
