package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mmind/mastermind-go/internal/model"
	"github.com/mmind/mastermind-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Records are copied on the way in and out so callers never share state
// with the store.
type Storage struct {
	mu sync.RWMutex

	accounts      map[model.PlayerID]*model.Account
	usernameIndex map[string]model.PlayerID
	profiles      map[model.PlayerID]*model.PlayerProfile
	games         map[model.GameID]*model.Game
	rounds        map[model.GameID][]*model.Round
	guesses       map[model.GameID]map[string]bool
	leaderboard   []*model.LeaderboardEntry
	finished      map[entryKey]bool
}

type entryKey struct {
	playerID model.PlayerID
	gameID   model.GameID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		accounts:      make(map[model.PlayerID]*model.Account),
		usernameIndex: make(map[string]model.PlayerID),
		profiles:      make(map[model.PlayerID]*model.PlayerProfile),
		games:         make(map[model.GameID]*model.Game),
		rounds:        make(map[model.GameID][]*model.Round),
		guesses:       make(map[model.GameID]map[string]bool),
		finished:      make(map[entryKey]bool),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) Close() error {
	return nil
}

// Account operations

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account, profile *model.PlayerProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.usernameIndex[account.Username]; taken {
		return model.ErrUsernameTaken
	}
	if _, exists := s.accounts[account.PlayerID]; exists {
		return model.ErrUsernameTaken
	}
	a := *account
	s.accounts[a.PlayerID] = &a
	s.usernameIndex[a.Username] = a.PlayerID
	s.profiles[profile.PlayerID] = copyProfile(profile)
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, playerID model.PlayerID) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[playerID]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	a := *account
	return &a, nil
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	s.mu.RLock()
	playerID, ok := s.usernameIndex[username]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return s.GetAccount(ctx, playerID)
}

// Profile operations

func (s *Storage) GetProfile(ctx context.Context, playerID model.PlayerID) (*model.PlayerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return copyProfile(profile), nil
}

func (s *Storage) UpdateDifficulty(ctx context.Context, playerID model.PlayerID, difficulty int, at time.Time) (*model.PlayerProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	profile.Difficulty = difficulty
	profile.UpdatedAt = at
	return copyProfile(profile), nil
}

// Game operations

func (s *Storage) StartGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[game.PlayerID]
	if !ok {
		return model.ErrPlayerNotFound
	}
	g := *game
	s.games[g.ID] = &g
	id := g.ID
	profile.CurrentGame = &id
	profile.UpdatedAt = g.CreatedAt
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	g := *game
	return &g, nil
}

func (s *Storage) UpdateGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.games[game.ID]
	if !ok {
		return model.ErrGameNotFound
	}
	if stored.Version != game.Version {
		return model.ErrConcurrentUpdate
	}
	game.Version++
	g := *game
	s.games[g.ID] = &g
	return nil
}

// Round operations

func (s *Storage) RecordRound(ctx context.Context, game *model.Game, round *model.Round, entry *model.LeaderboardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.games[game.ID]
	if !ok {
		return model.ErrGameNotFound
	}
	if s.guesses[game.ID][round.Guess] {
		return model.ErrDuplicateGuess
	}
	if stored.IsOver() || stored.Version != game.Version || stored.Round != round.Number-1 {
		return model.ErrConcurrentUpdate
	}
	if entry != nil && s.finished[entryKey{entry.PlayerID, entry.GameID}] {
		return model.ErrDuplicateLeaderboardEntry
	}

	game.Version++
	g := *game
	s.games[g.ID] = &g

	r := *round
	s.rounds[g.ID] = append(s.rounds[g.ID], &r)
	if s.guesses[g.ID] == nil {
		s.guesses[g.ID] = make(map[string]bool)
	}
	s.guesses[g.ID][r.Guess] = true

	if entry != nil {
		e := *entry
		s.leaderboard = append(s.leaderboard, &e)
		s.finished[entryKey{e.PlayerID, e.GameID}] = true
	}
	return nil
}

func (s *Storage) ListRounds(ctx context.Context, gameID model.GameID) ([]*model.Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.games[gameID]; !ok {
		return nil, model.ErrGameNotFound
	}
	rounds := make([]*model.Round, 0, len(s.rounds[gameID]))
	for _, round := range s.rounds[gameID] {
		r := *round
		rounds = append(rounds, &r)
	}
	storage.SortRounds(rounds)
	return rounds, nil
}

// Leaderboard operations

func (s *Storage) ListLeaderboard(ctx context.Context, filter model.LeaderboardFilter) ([]*model.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := []*model.LeaderboardEntry{}
	for _, entry := range s.leaderboard {
		if filter.Matches(entry) {
			e := *entry
			entries = append(entries, &e)
		}
	}
	storage.SortLeaderboard(entries)
	return entries, nil
}

func copyProfile(p *model.PlayerProfile) *model.PlayerProfile {
	c := *p
	if p.CurrentGame != nil {
		id := *p.CurrentGame
		c.CurrentGame = &id
	}
	return &c
}
