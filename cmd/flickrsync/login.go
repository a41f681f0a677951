package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/openmined/flickrsync/internal/config"
	"github.com/openmined/flickrsync/internal/flickrsdk"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newLoginCmd())
}

func newLoginCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authorize flickrsync to manage your photostream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readOrCreateConfig(configPath(cmd), "", stdin, cmd.OutOrStdout(), config.TerminalSecret(stdin))
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			cmd.SilenceUsage = true
			out := cmd.OutOrStdout()

			if cfg.Authorized() && !force {
				fmt.Fprintln(out, green.Render("Already logged in"), gray.Render("(use --force to log in again)"))
				logConfig(out, cfg)
				return nil
			}

			client, err := flickrsdk.New(&flickrsdk.Config{APIKey: cfg.APIKey, APISecret: cfg.APISecret})
			if err != nil {
				return err
			}
			defer client.Close()

			token, err := authorize(cmd.Context(), client.Auth, stdin, out)
			if err != nil {
				return err
			}

			if err := saveToken(cfg, token); err != nil {
				return err
			}

			fmt.Fprintf(out, "%s as %s\n", green.Render("Logged in"), cyan.Render(token.Username))
			logConfig(out, cfg)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "log in again even when a token is stored")
	return cmd
}

// oauthFlow is the part of the auth API the login command drives.
type oauthFlow interface {
	RequestToken(ctx context.Context, callback string) (*flickrsdk.RequestToken, error)
	AuthorizeURL(rt *flickrsdk.RequestToken, perms string) string
	AccessToken(ctx context.Context, rt *flickrsdk.RequestToken, verifier string) (*flickrsdk.AccessToken, error)
}

// authorize runs the out-of-band OAuth flow: the user opens the URL, grants
// delete permission and pastes the verifier code back.
func authorize(ctx context.Context, flow oauthFlow, in *bufio.Reader, out io.Writer) (*flickrsdk.AccessToken, error) {
	rt, err := flow.RequestToken(ctx, flickrsdk.OutOfBand)
	if err != nil {
		return nil, fmt.Errorf("request token: %w", err)
	}

	fmt.Fprintln(out, "Open this URL in a browser and authorize flickrsync:")
	fmt.Fprintln(out, cyan.Render(flow.AuthorizeURL(rt, flickrsdk.PermsDelete)))
	fmt.Fprint(out, "Verifier code: ")

	line, err := in.ReadString('\n')
	verifier := strings.TrimSpace(line)
	if verifier == "" {
		if err != nil {
			return nil, fmt.Errorf("read verifier: %w", err)
		}
		return nil, fmt.Errorf("no verifier code entered")
	}

	token, err := flow.AccessToken(ctx, rt, verifier)
	if err != nil {
		return nil, fmt.Errorf("access token: %w", err)
	}
	return token, nil
}

// loginIfNeeded runs the OAuth flow when cfg holds no token yet, so a first
// sync does not stop at a missing login.
func loginIfNeeded(ctx context.Context, cfg *config.Config, flow oauthFlow, in *bufio.Reader, out io.Writer) error {
	if cfg.Authorized() {
		return nil
	}

	fmt.Fprintln(out, yellow.Render("Not logged in yet"))
	token, err := authorize(ctx, flow, in, out)
	if err != nil {
		return err
	}
	if err := saveToken(cfg, token); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s as %s\n", green.Render("Logged in"), cyan.Render(token.Username))
	return nil
}

// saveToken stores token in cfg and in its config file. Only the token
// fields of the file change; values coming from flags or env stay out of it.
func saveToken(cfg *config.Config, token *flickrsdk.AccessToken) error {
	cfg.OAuthToken = token.Token
	cfg.OAuthTokenSecret = token.Secret
	cfg.UserID = token.UserNSID

	file, err := config.Load(cfg.Path)
	if errors.Is(err, os.ErrNotExist) {
		copied := *cfg
		file = &copied
	} else if err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	file.OAuthToken = token.Token
	file.OAuthTokenSecret = token.Secret
	file.UserID = token.UserNSID
	if err := file.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

var _ oauthFlow = (*flickrsdk.AuthAPI)(nil)
