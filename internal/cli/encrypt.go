package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/tee-booker/internal/crypto"
)

func newEncryptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Produce an encrypted credential envelope",
		Long: `Seals a member id and PIN into a base64 envelope using the operator
shared secret. The envelope can be passed to other commands via
--credentials instead of plaintext credentials.`,
		RunE: runEncrypt,
	}

	cmd.Flags().StringVar(&flagUsername, "username", "", "Member id (required)")
	cmd.Flags().StringVar(&flagPin, "pin", "", "Member PIN (required)")

	cmd.MarkFlagRequired("username") // nolint:errcheck
	cmd.MarkFlagRequired("pin")      // nolint:errcheck
	return cmd
}

func runEncrypt(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	codec, err := crypto.NewCodec(cfg.Security.SharedSecret)
	if err != nil {
		return fmt.Errorf("configuring credential codec: %w", err)
	}

	envelope, err := codec.Encrypt(flagUsername, flagPin)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), envelope)
	return nil
}
