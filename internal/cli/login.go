package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store a resumable session",
		Long: `Logs in to the club website and stores the authenticated session in
the session store. The printed token resumes the session in later
commands via --token until it expires.`,
		RunE: runLogin,
	}

	addAuthFlags(cmd)
	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if flagToken != "" {
		return fmt.Errorf("login always creates a new session; drop --token")
	}

	store := newSessionStore(cfg)

	client, token, err := resolveClient(cmd.Context(), cfg, store)
	if err != nil {
		return err
	}
	defer client.Close()

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
