package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account commands",
	}

	cmd.AddCommand(newAccountAuthCmd("register", "Register a new account", "/api/v1/accounts/register"))
	cmd.AddCommand(newAccountAuthCmd("login", "Login with an existing account", "/api/v1/accounts/login"))
	cmd.AddCommand(newAccountMeCmd())

	return cmd
}

// register and login take the same flags and both store the returned token
func newAccountAuthCmd(use, short, path string) *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			if user == "" || pass == "" {
				return fmt.Errorf("--user and --pass are required")
			}

			req := map[string]string{
				"username": user,
				"password": pass,
			}
			var result AuthResult

			if err := client.Post(cmd.Context(), path, req, &result); err != nil {
				return err
			}

			// Save token
			if err := cfg.SaveToken(result.AccessToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newAccountMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the current player profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Profile

			if err := client.Get(cmd.Context(), "/api/v1/players/me", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
