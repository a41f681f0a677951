// Package fakeflickr is an in-memory stand-in for the Flickr API used by tests.
package fakeflickr

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/openmined/flickrsync/internal/flickrsdk"
)

type Photo struct {
	ID         string
	Title      string
	Taken      *time.Time
	LastUpdate time.Time
	FilePath   string
	Tags       []string
	Visibility flickrsdk.Visibility
}

// Service keeps photos in listing order. Fail* maps inject errors keyed by
// photo id (info, replace, delete) or title (upload).
type Service struct {
	mu     sync.Mutex
	photos []*Photo
	nextID int

	Calls       []string
	FailInfo    map[string]error
	FailUpload  map[string]error
	FailReplace map[string]error
	FailDelete  map[string]error
	Now         func() time.Time
}

func New() *Service {
	return &Service{
		nextID:      1000,
		FailInfo:    map[string]error{},
		FailUpload:  map[string]error{},
		FailReplace: map[string]error{},
		FailDelete:  map[string]error{},
		Now:         func() time.Time { return time.Unix(1_700_000_000, 0) },
	}
}

// Add seeds a photo and returns its id.
func (s *Service) Add(title string, taken *time.Time, lastUpdate time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	s.photos = append(s.photos, &Photo{ID: id, Title: title, Taken: taken, LastUpdate: lastUpdate})
	return id
}

func (s *Service) Photos() []Photo {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Photo, 0, len(s.photos))
	for _, p := range s.photos {
		out = append(out, *p)
	}
	return out
}

func (s *Service) Get(id string) (Photo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p := s.find(id); p != nil {
		return *p, true
	}
	return Photo{}, false
}

func (s *Service) ListPhotos(_ context.Context, page, perPage int) (*flickrsdk.PhotosPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, fmt.Sprintf("list %d", page))

	total := len(s.photos)
	pages := 0
	if perPage > 0 {
		pages = (total + perPage - 1) / perPage
	}

	result := &flickrsdk.PhotosPage{Page: page, Pages: pages, PerPage: perPage, Total: total}
	start := (page - 1) * perPage
	for i := start; i < total && i < start+perPage; i++ {
		result.Photos = append(result.Photos, flickrsdk.PhotoSummary{ID: s.photos[i].ID, Title: s.photos[i].Title})
	}
	return result, nil
}

func (s *Service) GetPhotoInfo(_ context.Context, photoID string) (*flickrsdk.PhotoInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, "info "+photoID)

	if err := s.FailInfo[photoID]; err != nil {
		return nil, err
	}
	p := s.find(photoID)
	if p == nil {
		return nil, notFound("flickr.photos.getInfo", photoID)
	}
	return &flickrsdk.PhotoInfo{ID: p.ID, Title: p.Title, Taken: p.Taken, LastUpdate: p.LastUpdate}, nil
}

func (s *Service) DeletePhoto(_ context.Context, photoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, "delete "+photoID)

	if err := s.FailDelete[photoID]; err != nil {
		return err
	}
	for i, p := range s.photos {
		if p.ID == photoID {
			s.photos = append(s.photos[:i], s.photos[i+1:]...)
			return nil
		}
	}
	return notFound("flickr.photos.delete", photoID)
}

func (s *Service) UploadPhoto(_ context.Context, params *flickrsdk.UploadParams) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, "upload "+params.Title)

	if err := s.FailUpload[params.Title]; err != nil {
		return "", err
	}
	now := s.Now()
	id := s.newID()
	s.photos = append(s.photos, &Photo{
		ID:         id,
		Title:      params.Title,
		Taken:      &now,
		LastUpdate: now,
		FilePath:   params.FilePath,
		Tags:       params.Tags,
		Visibility: params.Visibility,
	})
	return id, nil
}

func (s *Service) ReplacePhoto(_ context.Context, params *flickrsdk.ReplaceParams) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, "replace "+params.PhotoID)

	if err := s.FailReplace[params.PhotoID]; err != nil {
		return "", err
	}
	p := s.find(params.PhotoID)
	if p == nil {
		return "", notFound("replace", params.PhotoID)
	}
	p.FilePath = params.FilePath
	p.LastUpdate = s.Now()
	return p.ID, nil
}

func (s *Service) find(id string) *Photo {
	for _, p := range s.photos {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Service) newID() string {
	s.nextID++
	return strconv.Itoa(s.nextID)
}

func notFound(method, id string) error {
	return flickrsdk.NewAPIError(method, flickrsdk.CodePhotoNotFound, fmt.Sprintf("Photo %q not found", id))
}
