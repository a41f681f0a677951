package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/openmined/flickrsync/internal/config"
	"github.com/spf13/cobra"
)

var stdin = bufio.NewReader(os.Stdin)

// ensureConfigFile creates the config file on first run and persists a
// --folder override as the new default folder.
func ensureConfigFile(cmd *cobra.Command) error {
	folder := ""
	if f := cmd.Flags().Lookup("folder"); f != nil && f.Changed {
		folder = f.Value.String()
	}

	_, err := readOrCreateConfig(configPath(cmd), folder, stdin, cmd.OutOrStdout(), config.TerminalSecret(stdin))
	return err
}

// readOrCreateConfig loads the config file at path, prompting for a new one
// when it does not exist. A non-empty folder replaces the stored one.
func readOrCreateConfig(path, folder string, in *bufio.Reader, out io.Writer, secret config.SecretReader) (*config.Config, error) {
	cfg, err := config.Load(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		cfg, err = config.Prompt(in, out, secret, folder)
		if err != nil {
			return nil, err
		}
		cfg.Path = path
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("save config: %w", err)
		}
		fmt.Fprintf(out, "Config saved to %s\n", path)
		return cfg, nil
	case err != nil:
		return nil, err
	}

	if folder != "" && folder != cfg.PhotoFolder {
		cfg.PhotoFolder = folder
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("save config: %w", err)
		}
	}
	return cfg, nil
}
