package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect and manage stored sessions",
	}

	cmd.PersistentFlags().StringVar(&flagToken, "token", "", "Session token (required)")
	cmd.MarkPersistentFlagRequired("token") // nolint:errcheck

	cmd.AddCommand(
		newSessionShowCmd(),
		newSessionTTLCmd(),
		newSessionLogoutCmd(),
	)
	return cmd
}

func newSessionShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show a stored session (renews its TTL)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			sess, err := newSessionStore(cfg).Get(cmd.Context(), flagToken)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "base_url:   %s\n", sess.BaseURL)
			fmt.Fprintf(out, "created_at: %s\n", sess.CreatedAt.Format("2006-01-02T15:04:05Z07:00"))
			fmt.Fprintf(out, "cookies:    %d\n", len(sess.Cookies))
			return nil
		},
	}
}

func newSessionTTLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ttl",
		Short: "Show the seconds left on a session without renewing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store := newSessionStore(cfg)

			exists, err := store.Exists(cmd.Context(), flagToken)
			if err != nil {
				return err
			}
			if !exists {
				return fmt.Errorf("session not found or expired")
			}

			ttl, err := store.RemainingTTL(cmd.Context(), flagToken)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ttl)
			return nil
		},
	}
}

func newSessionLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Delete a stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			deleted, err := newSessionStore(cfg).Delete(cmd.Context(), flagToken)
			if err != nil {
				return err
			}

			if deleted {
				fmt.Fprintln(cmd.OutOrStdout(), "session deleted")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "session was already gone")
			}
			return nil
		},
	}
}
