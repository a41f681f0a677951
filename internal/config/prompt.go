package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// SecretReader reads a value without echoing it.
type SecretReader func() (string, error)

// TerminalSecret reads from stdin with echo disabled. It falls back to a
// plain line read when stdin is not a terminal.
func TerminalSecret(fallback *bufio.Reader) SecretReader {
	return func() (string, error) {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return readLine(fallback)
		}
		b, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
}

// Prompt asks for the fields of a new config. A non-empty folder skips the
// folder question.
func Prompt(in *bufio.Reader, out io.Writer, readSecret SecretReader, folder string) (*Config, error) {
	fmt.Fprintln(out, "Creating local config file...")

	cfg := &Config{PhotoFolder: folder}
	var err error

	if cfg.APIKey, err = ask(in, out, "Enter your Flickr API key: "); err != nil {
		return nil, err
	}

	fmt.Fprint(out, "Enter your Flickr API secret: ")
	if cfg.APISecret, err = readSecret(); err != nil {
		return nil, fmt.Errorf("read api secret: %w", err)
	}

	if cfg.PhotoFolder == "" {
		if cfg.PhotoFolder, err = ask(in, out, "Enter full path to photo folder: "); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func ask(in *bufio.Reader, out io.Writer, question string) (string, error) {
	fmt.Fprint(out, question)
	return readLine(in)
}

func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
