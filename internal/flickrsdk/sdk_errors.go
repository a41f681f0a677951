package flickrsdk

import (
	"errors"
	"fmt"

	"github.com/imroc/req/v3"
)

var (
	ErrNoAPIKey      = errors.New("sdk: api key missing")
	ErrNoAPISecret   = errors.New("sdk: api secret missing")
	ErrNotAuthorized = errors.New("sdk: oauth token missing")
	ErrFileNotFound  = errors.New("sdk: file not found")
	ErrBadResponse   = errors.New("sdk: malformed response")
)

// Flickr error codes we react to. Codes are per method but these are shared.
const (
	CodePhotoNotFound     = 1
	CodeInsufficientPerms = 99
)

// APIError is a stat="fail" response from Flickr.
type APIError struct {
	Method  string
	Code    int
	Message string
}

func NewAPIError(method string, code int, message string) *APIError {
	return &APIError{Method: method, Code: code, Message: message}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %s %d - %s", e.Method, e.Code, e.Message)
}

// IsNotFound reports whether err is a Flickr "photo not found" error.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == CodePhotoNotFound
}

// handleHTTPError covers transport failures and non-2xx statuses. Flickr
// reports most API level failures with a 200 and stat="fail", which the
// callers decode themselves.
func handleHTTPError(resp *req.Response, requestErr error, operation string) error {
	if requestErr != nil {
		return fmt.Errorf("http request error: %s %w", operation, requestErr)
	}

	if resp.IsErrorState() {
		return fmt.Errorf("http error: %s %s", operation, resp.Status)
	}

	return nil
}
