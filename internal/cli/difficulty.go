package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newDifficultyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "difficulty",
		Short: "Show or change the secret length for new games",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the current difficulty",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result DifficultyResult
			if err := client.Get(cmd.Context(), "/api/v1/difficulty", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <4-6>",
		Short: "Change the difficulty (applies to the next game)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			difficulty, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("difficulty must be a number")
			}

			var result DifficultyResult
			if err := client.Patch(cmd.Context(), "/api/v1/difficulty", map[string]int{"difficulty": difficulty}, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	})

	return cmd
}
