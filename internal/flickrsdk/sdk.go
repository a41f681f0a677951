// Package flickrsdk is a small Flickr API client covering what a folder sync
// needs: listing, photo info, upload, replace, delete and the OAuth flow.
package flickrsdk

import (
	"time"

	"github.com/imroc/req/v3"
)

const (
	// uploads share the client, so the timeout has to fit a large photo
	requestTimeout = 10 * time.Minute

	readRetries       = 2
	readRetryInterval = 1 * time.Second
)

// Client is the main client for interacting with the Flickr API
type Client struct {
	t      *transport
	People *PeopleAPI
	Photos *PhotosAPI
	Upload *UploadAPI
	Auth   *AuthAPI
}

// New creates a new Client. The oauth token may be empty when the client is
// only used to run the Auth flow.
func New(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := *cfg
	c.setDefaults()

	httpClient := req.C().
		SetTimeout(requestTimeout).
		SetUserAgent(UserAgent).
		SetJsonMarshal(jsonMarshal).
		SetJsonUnmarshal(jsonUnmarshal)

	s := newSigner(c.APIKey, c.APISecret)
	s.setToken(c.Token, c.TokenSecret)

	t := &transport{
		cfg:           &c,
		client:        httpClient,
		signer:        s,
		retries:       readRetries,
		retryInterval: readRetryInterval,
	}

	return &Client{
		t:      t,
		People: newPeopleAPI(t),
		Photos: newPhotosAPI(t),
		Upload: newUploadAPI(t),
		Auth:   newAuthAPI(t),
	}, nil
}

// SetToken switches the oauth token used to sign requests.
func (c *Client) SetToken(token, tokenSecret string) {
	c.t.signer.setToken(token, tokenSecret)
}

// UserID is the user whose photostream is listed.
func (c *Client) UserID() string {
	return c.t.cfg.UserID
}

// Authorized reports whether an oauth token is configured.
func (c *Client) Authorized() bool {
	return c.t.signer.token != ""
}

// Close releases idle connections.
func (c *Client) Close() {
	c.t.client.GetClient().CloseIdleConnections()
}
