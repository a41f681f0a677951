package flickrsdk

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/imroc/req/v3"
)

type transport struct {
	cfg    *Config
	client *req.Client
	signer *signer
	// extra attempts for reads that failed in transit
	retries       int
	retryInterval time.Duration
}

type restStatus struct {
	Stat    string `json:"stat"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// call invokes a REST method and decodes the JSON reply into out.
// Reads go out as signed GETs, writes as signed form POSTs.
func (t *transport) call(ctx context.Context, httpMethod, apiMethod string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("method", apiMethod)
	params.Set("format", "json")
	params.Set("nojsoncallback", "1")

	if t.signer.token == "" {
		return fmt.Errorf("%s: %w", apiMethod, ErrNotAuthorized)
	}

	// writes are sent once: a lost reply does not mean the write failed
	attempts := 1
	if httpMethod == http.MethodGet {
		attempts += t.retries
	}

	var resp *req.Response
	var err error
	for attempt := 1; ; attempt++ {
		resp, err = t.send(ctx, httpMethod, apiMethod, params)
		if err == nil || attempt >= attempts || ctx.Err() != nil {
			break
		}

		slog.Debug("flickr retry", "method", apiMethod, "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(t.retryInterval):
		}
	}
	if err := handleHTTPError(resp, err, apiMethod); err != nil {
		return err
	}

	body := resp.Bytes()
	var status restStatus
	if err := jsonUnmarshal(body, &status); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrBadResponse, apiMethod, err)
	}
	if status.Stat != "ok" {
		return NewAPIError(apiMethod, status.Code, status.Message)
	}

	slog.Debug("flickr", "method", apiMethod, "status", resp.StatusCode)

	if out == nil {
		return nil
	}
	if err := jsonUnmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrBadResponse, apiMethod, err)
	}
	return nil
}

// send signs and sends one attempt. Every attempt gets a fresh nonce and
// timestamp.
func (t *transport) send(ctx context.Context, httpMethod, apiMethod string, params url.Values) (*req.Response, error) {
	signed, err := t.signer.sign(httpMethod, t.cfg.RESTURL, params)
	if err != nil {
		return nil, fmt.Errorf("sign %s: %w", apiMethod, err)
	}

	r := t.client.R().SetContext(ctx).SetRetryCount(0)
	if httpMethod == http.MethodGet {
		return r.SetQueryString(signed.Encode()).Get(t.cfg.RESTURL)
	}
	return r.SetFormDataFromValues(signed).Post(t.cfg.RESTURL)
}

// flexInt accepts both JSON numbers and numeric strings. Flickr is not
// consistent about which one it sends for counters.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("flexInt %q: %w", s, err)
	}
	*f = flexInt(n)
	return nil
}
