package flickrsdk

import "strings"

// Config is the configuration for the Client
type Config struct {
	APIKey      string // APIKey is required
	APISecret   string // APISecret is required
	Token       string // Token is required for everything except the oauth flow
	TokenSecret string
	UserID      string // UserID defaults to DefaultUserID

	RESTURL    string
	UploadURL  string
	ReplaceURL string
	OAuthURL   string
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrNoAPIKey
	}

	if strings.TrimSpace(c.APISecret) == "" {
		return ErrNoAPISecret
	}

	return nil
}

func (c *Config) setDefaults() {
	if c.UserID == "" {
		c.UserID = DefaultUserID
	}
	if c.RESTURL == "" {
		c.RESTURL = DefaultRESTURL
	}
	if c.UploadURL == "" {
		c.UploadURL = DefaultUploadURL
	}
	if c.ReplaceURL == "" {
		c.ReplaceURL = DefaultReplaceURL
	}
	if c.OAuthURL == "" {
		c.OAuthURL = DefaultOAuthURL
	}
}
