package sqlstore

import (
	"time"

	"github.com/mmind/mastermind-go/internal/model"
)

// accountRow is the accounts table
type accountRow struct {
	PlayerID     string `gorm:"primaryKey;size:64"`
	Username     string `gorm:"uniqueIndex;not null;size:150"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
}

func (accountRow) TableName() string { return "accounts" }

// profileRow is the player_profiles table
type profileRow struct {
	PlayerID      string  `gorm:"primaryKey;size:64"`
	Difficulty    int     `gorm:"not null;default:4"`
	CurrentGameID *string `gorm:"size:32"`
	CreatedAt     time.Time
	UpdatedAt     time.Time `gorm:"autoUpdateTime:false"`
}

func (profileRow) TableName() string { return "player_profiles" }

// gameRow is the games table
type gameRow struct {
	ID           string `gorm:"primaryKey;size:32"`
	PlayerID     string `gorm:"index;not null;size:64"`
	SecretNumber string `gorm:"not null;size:6"`
	Difficulty   int    `gorm:"not null"`
	Round        int    `gorm:"not null;default:0"`
	State        string `gorm:"not null;size:16"`
	StartTime    time.Time
	TotalTimeNS  int64 `gorm:"column:total_time_ns;not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time `gorm:"autoUpdateTime:false"`
	Version      int       `gorm:"not null;default:0"`
}

func (gameRow) TableName() string { return "games" }

// roundRow is the rounds table. A guess may appear once per game.
type roundRow struct {
	ID               string `gorm:"primaryKey;size:64"`
	GameID           string `gorm:"not null;size:32;uniqueIndex:idx_rounds_game_guess,priority:1;index:idx_rounds_game_number,priority:1"`
	Number           int    `gorm:"not null;index:idx_rounds_game_number,priority:2"`
	Guess            string `gorm:"not null;size:6;uniqueIndex:idx_rounds_game_guess,priority:2"`
	CorrectNumbers   int    `gorm:"not null"`
	CorrectPositions int    `gorm:"not null"`
	Timestamp        time.Time
}

func (roundRow) TableName() string { return "rounds" }

// leaderboardRow is the leaderboard table. A game finishes at most once.
type leaderboardRow struct {
	ID          string `gorm:"primaryKey;size:64"`
	PlayerID    string `gorm:"not null;size:64;uniqueIndex:idx_leaderboard_player_game,priority:1"`
	GameID      string `gorm:"not null;size:32;uniqueIndex:idx_leaderboard_player_game,priority:2"`
	Result      string `gorm:"not null;size:1"`
	TotalTimeNS int64  `gorm:"column:total_time_ns;not null;index"`
	Difficulty  int    `gorm:"not null;index"`
	CreatedAt   time.Time
}

func (leaderboardRow) TableName() string { return "leaderboard" }

func toAccountRow(a *model.Account) *accountRow {
	return &accountRow{
		PlayerID:     string(a.PlayerID),
		Username:     a.Username,
		PasswordHash: a.PasswordHash,
		CreatedAt:    a.CreatedAt,
	}
}

func (r *accountRow) toModel() *model.Account {
	return &model.Account{
		PlayerID:     model.PlayerID(r.PlayerID),
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}

func toProfileRow(p *model.PlayerProfile) *profileRow {
	row := &profileRow{
		PlayerID:   string(p.PlayerID),
		Difficulty: p.Difficulty,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	if p.CurrentGame != nil {
		id := string(*p.CurrentGame)
		row.CurrentGameID = &id
	}
	return row
}

func (r *profileRow) toModel() *model.PlayerProfile {
	p := &model.PlayerProfile{
		PlayerID:   model.PlayerID(r.PlayerID),
		Difficulty: r.Difficulty,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.CurrentGameID != nil {
		id := model.GameID(*r.CurrentGameID)
		p.CurrentGame = &id
	}
	return p
}

func toGameRow(g *model.Game) *gameRow {
	return &gameRow{
		ID:           string(g.ID),
		PlayerID:     string(g.PlayerID),
		SecretNumber: g.SecretNumber,
		Difficulty:   g.Difficulty,
		Round:        g.Round,
		State:        string(g.State),
		StartTime:    g.StartTime,
		TotalTimeNS:  int64(g.TotalTime),
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
		Version:      g.Version,
	}
}

func (r *gameRow) toModel() *model.Game {
	return &model.Game{
		ID:           model.GameID(r.ID),
		PlayerID:     model.PlayerID(r.PlayerID),
		SecretNumber: r.SecretNumber,
		Difficulty:   r.Difficulty,
		Round:        r.Round,
		State:        model.GameState(r.State),
		StartTime:    r.StartTime,
		TotalTime:    time.Duration(r.TotalTimeNS),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		Version:      r.Version,
	}
}

func toRoundRow(r *model.Round) *roundRow {
	return &roundRow{
		ID:               string(r.ID),
		GameID:           string(r.GameID),
		Number:           r.Number,
		Guess:            r.Guess,
		CorrectNumbers:   r.CorrectNumbers,
		CorrectPositions: r.CorrectPositions,
		Timestamp:        r.Timestamp,
	}
}

func (r *roundRow) toModel() *model.Round {
	return &model.Round{
		ID:               model.RoundID(r.ID),
		GameID:           model.GameID(r.GameID),
		Number:           r.Number,
		Guess:            r.Guess,
		CorrectNumbers:   r.CorrectNumbers,
		CorrectPositions: r.CorrectPositions,
		Timestamp:        r.Timestamp,
	}
}

func toLeaderboardRow(e *model.LeaderboardEntry) *leaderboardRow {
	return &leaderboardRow{
		ID:          e.ID,
		PlayerID:    string(e.PlayerID),
		GameID:      string(e.GameID),
		Result:      string(e.Result),
		TotalTimeNS: int64(e.TotalTime),
		Difficulty:  e.Difficulty,
		CreatedAt:   e.CreatedAt,
	}
}

func (r *leaderboardRow) toModel() *model.LeaderboardEntry {
	return &model.LeaderboardEntry{
		ID:         r.ID,
		PlayerID:   model.PlayerID(r.PlayerID),
		GameID:     model.GameID(r.GameID),
		Result:     model.Result(r.Result),
		TotalTime:  time.Duration(r.TotalTimeNS),
		Difficulty: r.Difficulty,
		CreatedAt:  r.CreatedAt,
	}
}
