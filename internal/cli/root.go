package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/tee-booker/internal/config"
	"github.com/pfrederiksen/tee-booker/internal/logger"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig  string
	flagVerbose bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tee-booker",
		Short: "Book tee times on the club website",
		Long: `A CLI tool to book golf tee times on the club booking website.
Sessions survive between invocations through the session store, so a
single login can back many later commands.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "tee-booker.yaml", "Path to the config file")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	cmd.AddCommand(
		newLoginCmd(),
		newAvailabilityCmd(),
		newBookCmd(),
		newSnipeCmd(),
		newSessionCmd(),
		newEncryptCmd(),
	)

	return cmd
}

// loadConfig reads the config file and configures the default logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	level := logger.ParseLevel(cfg.Log.Level)
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, os.Stderr))

	return cfg, nil
}
