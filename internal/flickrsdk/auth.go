package flickrsdk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

const (
	oauthRequestToken = "request_token"
	oauthAuthorize    = "authorize"
	oauthAccessToken  = "access_token"
)

var ErrOAuthRejected = errors.New("sdk: oauth request rejected")

type AuthAPI struct {
	t *transport
}

func newAuthAPI(t *transport) *AuthAPI {
	return &AuthAPI{t: t}
}

// RequestToken starts the OAuth flow.
func (a *AuthAPI) RequestToken(ctx context.Context, callback string) (*RequestToken, error) {
	params := url.Values{}
	params.Set("oauth_callback", callback)

	// the request token is signed with the consumer credentials only
	s := *a.t.signer
	s.setToken("", "")

	values, err := a.oauthGet(ctx, &s, oauthRequestToken, params)
	if err != nil {
		return nil, err
	}

	if values.Get("oauth_callback_confirmed") != "true" {
		return nil, fmt.Errorf("%w: callback not confirmed", ErrOAuthRejected)
	}

	return &RequestToken{
		Token:  values.Get("oauth_token"),
		Secret: values.Get("oauth_token_secret"),
	}, nil
}

// AuthorizeURL is the page the user opens to grant access.
func (a *AuthAPI) AuthorizeURL(rt *RequestToken, perms string) string {
	q := url.Values{}
	q.Set("oauth_token", rt.Token)
	q.Set("perms", perms)
	return a.t.cfg.OAuthURL + oauthAuthorize + "?" + q.Encode()
}

// AccessToken exchanges an authorized request token and its verifier.
func (a *AuthAPI) AccessToken(ctx context.Context, rt *RequestToken, verifier string) (*AccessToken, error) {
	params := url.Values{}
	params.Set("oauth_verifier", verifier)

	s := *a.t.signer
	s.setToken(rt.Token, rt.Secret)

	values, err := a.oauthGet(ctx, &s, oauthAccessToken, params)
	if err != nil {
		return nil, err
	}

	at := &AccessToken{
		Token:    values.Get("oauth_token"),
		Secret:   values.Get("oauth_token_secret"),
		UserNSID: values.Get("user_nsid"),
		Username: values.Get("username"),
		FullName: values.Get("fullname"),
	}
	if at.Token == "" || at.Secret == "" {
		return nil, fmt.Errorf("%w: no token in reply", ErrOAuthRejected)
	}

	return at, nil
}

func (a *AuthAPI) oauthGet(ctx context.Context, s *signer, endpoint string, params url.Values) (url.Values, error) {
	endpointURL := a.t.cfg.OAuthURL + endpoint

	signed, err := s.sign(http.MethodGet, endpointURL, params)
	if err != nil {
		return nil, fmt.Errorf("sign %s: %w", endpoint, err)
	}

	resp, err := a.t.client.R().
		SetContext(ctx).
		SetQueryString(signed.Encode()).
		Get(endpointURL)
	if err != nil {
		return nil, fmt.Errorf("http request error: %s %w", endpoint, err)
	}

	body := resp.String()
	if resp.IsErrorState() {
		return nil, fmt.Errorf("%w: %s %s: %s", ErrOAuthRejected, endpoint, resp.Status, body)
	}

	values, err := url.ParseQuery(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBadResponse, endpoint, err)
	}
	if problem := values.Get("oauth_problem"); problem != "" {
		return nil, fmt.Errorf("%w: %s", ErrOAuthRejected, problem)
	}
	return values, nil
}
