package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func newLeaderboardCmd() *cobra.Command {
	var difficulty int

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show wins, losses and fastest time",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result LeaderboardTotals

			if err := client.Get(cmd.Context(), withDifficulty("/api/v1/leaderboard", difficulty), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&difficulty, "difficulty", 0, "Difficulty to report (defaults to your current one)")
	cmd.AddCommand(newLeaderboardHistoryCmd())

	return cmd
}

func newLeaderboardHistoryCmd() *cobra.Command {
	var difficulty int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List finished games, fastest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []LeaderboardEntry

			if err := client.Get(cmd.Context(), withDifficulty("/api/v1/leaderboard/history", difficulty), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&difficulty, "difficulty", 0, "Only show games at this difficulty")

	return cmd
}

func withDifficulty(path string, difficulty int) string {
	if difficulty == 0 {
		return path
	}
	return fmt.Sprintf("%s?%s", path, url.Values{"difficulty": {strconv.Itoa(difficulty)}}.Encode())
}
