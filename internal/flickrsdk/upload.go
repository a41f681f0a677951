package flickrsdk

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/imroc/req/v3"
	"github.com/openmined/flickrsync/internal/utils"
)

const (
	opUpload  = "upload"
	opReplace = "replace"

	// progress callbacks are skipped for files smaller than this
	progressThreshold = 1024 * 1024
)

type UploadAPI struct {
	t *transport
}

func newUploadAPI(t *transport) *UploadAPI {
	return &UploadAPI{t: t}
}

// Upload sends a new photo and returns its id.
func (u *UploadAPI) Upload(ctx context.Context, params *UploadParams) (string, error) {
	if !utils.FileExists(params.FilePath) {
		return "", ErrFileNotFound
	}

	form := url.Values{}
	form.Set("title", params.Title)
	if len(params.Tags) > 0 {
		form.Set("tags", strings.Join(params.Tags, " "))
	}
	form.Set("is_public", boolFlag(params.Visibility.Public))
	form.Set("is_friend", boolFlag(params.Visibility.Friend))
	form.Set("is_family", boolFlag(params.Visibility.Family))

	return u.send(ctx, opUpload, u.t.cfg.UploadURL, params.FilePath, form, params.Callback)
}

// Replace swaps the file behind an existing photo. Title, tags and
// permissions stay as they are on Flickr.
func (u *UploadAPI) Replace(ctx context.Context, params *ReplaceParams) (string, error) {
	if !utils.FileExists(params.FilePath) {
		return "", ErrFileNotFound
	}

	form := url.Values{}
	form.Set("photo_id", params.PhotoID)

	return u.send(ctx, opReplace, u.t.cfg.ReplaceURL, params.FilePath, form, params.Callback)
}

func (u *UploadAPI) send(
	ctx context.Context,
	operation, endpoint, filePath string,
	form url.Values,
	callback func(int64, int64),
) (string, error) {
	if u.t.signer.token == "" {
		return "", fmt.Errorf("%s: %w", operation, ErrNotAuthorized)
	}

	// the photo itself is not part of the signature
	signed, err := u.t.signer.sign(http.MethodPost, endpoint, form)
	if err != nil {
		return "", fmt.Errorf("sign %s: %w", operation, err)
	}

	resp, err := u.t.client.R().
		SetContext(ctx).
		SetRetryCount(0).
		SetFormDataFromValues(signed).
		SetFile("photo", filePath).
		SetUploadCallbackWithInterval(func(info req.UploadInfo) {
			if info.FileSize < progressThreshold || callback == nil {
				return
			}
			callback(info.UploadedSize, info.FileSize)
		}, time.Second).
		Post(endpoint)

	if err := handleHTTPError(resp, err, operation); err != nil {
		return "", err
	}

	var rsp uploadResponse
	if err := xml.Unmarshal(resp.Bytes(), &rsp); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrBadResponse, operation, err)
	}
	if rsp.Stat != "ok" {
		if rsp.Err != nil {
			return "", NewAPIError(operation, rsp.Err.Code, rsp.Err.Msg)
		}
		return "", NewAPIError(operation, 0, "stat="+rsp.Stat)
	}

	return strings.TrimSpace(rsp.PhotoID), nil
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
