package redis

import (
	"fmt"

	"github.com/mmind/mastermind-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "mmind"

// Key generation functions for each entity type

// accountKey returns the Redis key for an Account
func accountKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, playerID)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// profileKey returns the Redis key for a PlayerProfile
func profileKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:profile:%s", keyPrefix, playerID)
}

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// roundsKey returns the Redis key for the LIST of a game's rounds
func roundsKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:rounds:%s", keyPrefix, gameID)
}

// guessesKey returns the Redis key for the SET of guesses made in a game
func guessesKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:idx:guesses:%s", keyPrefix, gameID)
}

// leaderboardEntryKey returns the Redis key for a LeaderboardEntry
func leaderboardEntryKey(id string) string {
	return fmt.Sprintf("%s:leaderboard:entry:%s", keyPrefix, id)
}

// leaderboardGameKey returns the Redis key marking a (player, game) pair as finished
func leaderboardGameKey(playerID model.PlayerID, gameID model.GameID) string {
	return fmt.Sprintf("%s:idx:leaderboard_game:%s:%s", keyPrefix, playerID, gameID)
}

// leaderboardPlayerKey returns the Redis key for the ZSET of a player's
// entries scored by total time
func leaderboardPlayerKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:idx:leaderboard_player:%s", keyPrefix, playerID)
}

// leaderboardAllKey returns the Redis key for the ZSET of all entries
func leaderboardAllKey() string {
	return fmt.Sprintf("%s:idx:leaderboard", keyPrefix)
}
