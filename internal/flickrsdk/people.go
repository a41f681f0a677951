package flickrsdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const (
	methodPeopleGetPhotos = "flickr.people.getPhotos"

	// MaxPerPage is the largest page Flickr serves for people.getPhotos.
	MaxPerPage = 500
)

type PeopleAPI struct {
	t *transport
}

func newPeopleAPI(t *transport) *PeopleAPI {
	return &PeopleAPI{t: t}
}

// GetPhotos lists one page of a user's photostream. Pages are 1-indexed.
func (p *PeopleAPI) GetPhotos(ctx context.Context, userID string, page, perPage int) (*PhotosPage, error) {
	if page < 1 {
		return nil, fmt.Errorf("invalid page %d", page)
	}
	if perPage < 1 || perPage > MaxPerPage {
		return nil, fmt.Errorf("invalid per page %d", perPage)
	}

	params := url.Values{}
	params.Set("user_id", userID)
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	var dto photosPageDTO
	if err := p.t.call(ctx, http.MethodGet, methodPeopleGetPhotos, params, &dto); err != nil {
		return nil, err
	}
	return dto.toPage(), nil
}
