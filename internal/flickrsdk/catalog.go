package flickrsdk

import "context"

// The methods below expose the client through the small capability set the
// sync packages depend on.

func (c *Client) ListPhotos(ctx context.Context, page, perPage int) (*PhotosPage, error) {
	return c.People.GetPhotos(ctx, c.UserID(), page, perPage)
}

func (c *Client) GetPhotoInfo(ctx context.Context, photoID string) (*PhotoInfo, error) {
	return c.Photos.GetInfo(ctx, photoID)
}

func (c *Client) DeletePhoto(ctx context.Context, photoID string) error {
	return c.Photos.Delete(ctx, photoID)
}

func (c *Client) UploadPhoto(ctx context.Context, params *UploadParams) (string, error) {
	return c.Upload.Upload(ctx, params)
}

func (c *Client) ReplacePhoto(ctx context.Context, params *ReplaceParams) (string, error) {
	return c.Upload.Replace(ctx, params)
}
