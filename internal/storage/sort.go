package storage

import (
	"sort"

	"github.com/mmind/mastermind-go/internal/model"
)

// SortLeaderboard orders entries by total time, then creation time, then ID
func SortLeaderboard(entries []*model.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.TotalTime != b.TotalTime {
			return a.TotalTime < b.TotalTime
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// SortRounds orders rounds by round number, then timestamp
func SortRounds(rounds []*model.Round) {
	sort.SliceStable(rounds, func(i, j int) bool {
		if rounds[i].Number != rounds[j].Number {
			return rounds[i].Number < rounds[j].Number
		}
		return rounds[i].Timestamp.Before(rounds[j].Timestamp)
	})
}
