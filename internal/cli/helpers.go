package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/tee-booker/internal/booking"
	"github.com/pfrederiksen/tee-booker/internal/config"
	"github.com/pfrederiksen/tee-booker/internal/crypto"
	"github.com/pfrederiksen/tee-booker/internal/logger"
	"github.com/pfrederiksen/tee-booker/internal/session"
)

var (
	flagToken       string
	flagUsername    string
	flagPin         string
	flagCredentials string
)

// addAuthFlags registers the flags a command can authenticate with:
// either a stored session token or credentials (plain or as an encrypted
// envelope).
func addAuthFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagToken, "token", "", "Resume a stored session by token")
	cmd.Flags().StringVar(&flagUsername, "username", os.Getenv("TB_USERNAME"), "Member id (or env: TB_USERNAME)")
	cmd.Flags().StringVar(&flagPin, "pin", os.Getenv("TB_PIN"), "Member PIN (or env: TB_PIN)")
	cmd.Flags().StringVar(&flagCredentials, "credentials", "", "Encrypted credential envelope (see 'tee-booker encrypt')")
}

// newSessionStore builds the configured session store. Without a Redis
// address the store is in-memory and sessions end with the process.
func newSessionStore(cfg *config.Config) session.Store {
	if cfg.Redis.Addr == "" {
		logger.Warn("No Redis configured; sessions will not outlive this process", nil)
		return session.NewMemoryStore(cfg.Session.TTL())
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return session.NewRedisStore(client, cfg.Session.TTL())
}

// resolveCredentials returns the member credentials from the flags,
// opening the encrypted envelope when one was given.
func resolveCredentials(cfg *config.Config) (username, pin string, err error) {
	if flagCredentials != "" {
		codec, err := crypto.NewCodec(cfg.Security.SharedSecret)
		if err != nil {
			return "", "", fmt.Errorf("configuring credential codec: %w", err)
		}
		username, pin, err = codec.Decrypt(flagCredentials)
		if err != nil {
			return "", "", fmt.Errorf("opening credential envelope: %w", err)
		}
		return username, pin, nil
	}

	if flagUsername == "" || flagPin == "" {
		return "", "", fmt.Errorf("credentials required: pass --token, --credentials, or --username and --pin")
	}
	return flagUsername, flagPin, nil
}

// resolveClient yields an authenticated booking client plus its session
// token. A --token resumes the stored session; otherwise it logs in with
// the resolved credentials and stores the fresh session.
func resolveClient(ctx context.Context, cfg *config.Config, store session.Store) (*booking.Client, string, error) {
	if flagToken != "" {
		sess, err := store.Get(ctx, flagToken)
		if err != nil {
			return nil, "", fmt.Errorf("resuming session: %w", err)
		}

		client, err := booking.NewClientFromCookies(sess.BaseURL, sess.Cookies)
		if err != nil {
			return nil, "", err
		}
		return client, flagToken, nil
	}

	username, pin, err := resolveCredentials(cfg)
	if err != nil {
		return nil, "", err
	}

	client, err := booking.NewClient(cfg.Site.BaseURL)
	if err != nil {
		return nil, "", err
	}

	ok, err := client.Login(ctx, username, pin)
	if err != nil {
		return nil, "", fmt.Errorf("login failed: %w", err)
	}
	if !ok {
		return nil, "", fmt.Errorf("login rejected for member %s", username)
	}

	token, err := store.Store(ctx, client.Cookies(), client.BaseURL())
	if err != nil {
		return nil, "", fmt.Errorf("storing session: %w", err)
	}
	return client, token, nil
}

// parseBookingDate validates a DD-MM-YYYY date string.
func parseBookingDate(date string) error {
	if _, err := time.Parse("02-01-2006", date); err != nil {
		return fmt.Errorf("invalid date %q: expected DD-MM-YYYY", date)
	}
	return nil
}
