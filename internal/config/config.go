// Package config holds the flickrsync settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/openmined/flickrsync/internal/utils"
)

var (
	home, _            = os.UserHomeDir()
	DefaultConfigDir   = filepath.Join(home, ".flickrsync")
	DefaultConfigPath  = filepath.Join(DefaultConfigDir, "config.json")
	DefaultLogFilePath = filepath.Join(DefaultConfigDir, "logs", "flickrsync.log")
	DefaultHistoryPath = filepath.Join(DefaultConfigDir, "history.db")
)

var (
	ErrNoAPIKey      = errors.New("config: api_key is required")
	ErrNoAPISecret   = errors.New("config: api_secret is required")
	ErrNoPhotoFolder = errors.New("config: photo_folder is required")
)

type Config struct {
	APIKey           string `json:"api_key"`
	APISecret        string `json:"api_secret"`
	PhotoFolder      string `json:"photo_folder"`
	OAuthToken       string `json:"oauth_token,omitempty"`
	OAuthTokenSecret string `json:"oauth_token_secret,omitempty"`
	UserID           string `json:"user_id,omitempty"`
	Path             string `json:"-"`
}

// Validate checks the fields every command needs. The photo folder is
// resolved in place.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrNoAPIKey
	}
	if c.APISecret == "" {
		return ErrNoAPISecret
	}
	if c.PhotoFolder == "" {
		return ErrNoPhotoFolder
	}

	folder, err := utils.ResolvePath(c.PhotoFolder)
	if err != nil {
		return fmt.Errorf("photo_folder: %w", err)
	}
	c.PhotoFolder = folder

	return nil
}

// Authorized reports whether an OAuth token has been stored.
func (c *Config) Authorized() bool {
	return c.OAuthToken != "" && c.OAuthTokenSecret != ""
}

// Save writes the config to c.Path. The file holds secrets and is only
// readable by the owner.
func (c *Config) Save() error {
	if c.Path == "" {
		c.Path = DefaultConfigPath
	}
	if err := utils.EnsureParent(c.Path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(c.Path, data, 0o600)
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config parse '%s': %w", path, err)
	}

	cfg.Path = path
	return &cfg, nil
}
