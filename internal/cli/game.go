package cli

import (
	"time"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameNewCmd())
	cmd.AddCommand(newGameShowCmd())
	cmd.AddCommand(newGameGuessCmd())
	cmd.AddCommand(newGameRoundsCmd())
	cmd.AddCommand(newGameResumeCmd())

	return cmd
}

func newGameNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a new game at the current difficulty",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			if err := client.Post(cmd.Context(), "/api/v1/games", nil, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current game",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			if err := client.Get(cmd.Context(), "/api/v1/games/current", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameGuessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guess <digits>",
		Short: "Submit a guess for the current game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GuessResult

			if err := client.Post(cmd.Context(), "/api/v1/games/current/rounds", map[string]string{"guess": args[0]}, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameRoundsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rounds",
		Short: "List the guesses made in the current game",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Round

			if err := client.Get(cmd.Context(), "/api/v1/games/current/rounds", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameResumeCmd() *cobra.Command {
	var pausedAt string

	cmd := &cobra.Command{
		Use:   "resume",
		Short: "Resume the current game after a pause",
		Long: `Resume the current game. The time between --paused-at and now is not
counted towards the game's total time. --paused-at accepts an RFC 3339
timestamp or unix milliseconds.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			if err := client.Post(cmd.Context(), "/api/v1/games/current/resume", map[string]string{"paused_at": pausedAt}, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&pausedAt, "paused-at", time.Now().UTC().Format(time.RFC3339), "When the game was paused")

	return cmd
}
