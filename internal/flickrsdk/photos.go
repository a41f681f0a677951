package flickrsdk

import (
	"context"
	"net/http"
	"net/url"
)

const (
	methodPhotosGetInfo = "flickr.photos.getInfo"
	methodPhotosDelete  = "flickr.photos.delete"
)

type PhotosAPI struct {
	t *transport
}

func newPhotosAPI(t *transport) *PhotosAPI {
	return &PhotosAPI{t: t}
}

// GetInfo fetches capture and last-update dates of a photo.
func (p *PhotosAPI) GetInfo(ctx context.Context, photoID string) (*PhotoInfo, error) {
	params := url.Values{}
	params.Set("photo_id", photoID)

	var dto photoInfoDTO
	if err := p.t.call(ctx, http.MethodGet, methodPhotosGetInfo, params, &dto); err != nil {
		return nil, err
	}
	return dto.toInfo()
}

// Delete removes a photo. It needs a token with "delete" permission.
func (p *PhotosAPI) Delete(ctx context.Context, photoID string) error {
	params := url.Values{}
	params.Set("photo_id", photoID)

	return p.t.call(ctx, http.MethodPost, methodPhotosDelete, params, nil)
}
