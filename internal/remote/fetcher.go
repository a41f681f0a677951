// Package remote builds the inventory of photos on the Flickr account.
package remote

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openmined/flickrsync/internal/flickrsdk"
	"github.com/openmined/flickrsync/internal/photo"
)

// PageSize is the number of photos requested per listing page.
const PageSize = flickrsdk.MaxPerPage

// CatalogAPI is the part of the remote service the fetcher needs.
type CatalogAPI interface {
	ListPhotos(ctx context.Context, page, perPage int) (*flickrsdk.PhotosPage, error)
	GetPhotoInfo(ctx context.Context, photoID string) (*flickrsdk.PhotoInfo, error)
	DeletePhoto(ctx context.Context, photoID string) error
}

// Listing is one remote photo with its extended metadata, before dedup.
type Listing struct {
	ID         string
	Title      string
	Taken      *time.Time
	LastUpdate time.Time
}

// Duplicate is a listing dropped by Dedup because an earlier listing has the
// same title and capture time.
type Duplicate struct {
	Name   string
	ID     string
	KeptID string
}

type Fetcher struct {
	api      CatalogAPI
	pageSize int
	recorder photo.Recorder
}

type FetcherOption func(*Fetcher)

func WithPageSize(n int) FetcherOption {
	return func(f *Fetcher) {
		f.pageSize = n
	}
}

func WithRecorder(r photo.Recorder) FetcherOption {
	return func(f *Fetcher) {
		f.recorder = r
	}
}

func NewFetcher(api CatalogAPI, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		api:      api,
		pageSize: PageSize,
		recorder: photo.NopRecorder,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// List reads the whole photostream page by page, fetching the dates of each
// photo. It does not modify the remote side. Duplicates are kept, in
// listing order.
func (f *Fetcher) List(ctx context.Context) ([]*Listing, error) {
	first, err := f.api.ListPhotos(ctx, 1, f.pageSize)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}

	total := first.Total
	pages := PageCount(total, f.pageSize)
	slog.Info("checking remote photos", "total", total, "pages", pages)

	listings := make([]*Listing, 0, total)
	for page := 1; page <= pages; page++ {
		slog.Info("requesting page", "page", page, "pages", pages)

		current := first
		if page > 1 {
			current, err = f.api.ListPhotos(ctx, page, f.pageSize)
			if err != nil {
				return nil, fmt.Errorf("list photos page %d: %w", page, err)
			}
		}

		for _, summary := range current.Photos {
			info, err := f.api.GetPhotoInfo(ctx, summary.ID)
			if err != nil {
				if flickrsdk.IsNotFound(err) {
					// deleted since the page was served
					slog.Warn("photo vanished while listing", "id", summary.ID, "title", summary.Title)
					continue
				}
				return nil, fmt.Errorf("photo info %s: %w", summary.ID, err)
			}

			listings = append(listings, &Listing{
				ID:         summary.ID,
				Title:      summary.Title,
				Taken:      info.Taken,
				LastUpdate: info.LastUpdate,
			})
		}

		slog.Info("loaded remote metadata", "page", page, "photos", len(listings))
	}

	return listings, nil
}

// PageCount is ceil(total / pageSize).
func PageCount(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Dedup folds listings into an inventory keyed by title.
//
// A listing whose title is already present with the exact same capture time
// is treated as a duplicate upload: it is left out and reported so the
// caller can delete it. A listing with the same title but a different (or
// unknown) capture time replaces the earlier one.
func Dedup(listings []*Listing) (photo.Inventory, []Duplicate) {
	inventory := make(photo.Inventory, len(listings))
	var duplicates []Duplicate

	for _, l := range listings {
		if existing, ok := inventory[l.Title]; ok && sameTaken(existing.Taken, l.Taken) {
			duplicates = append(duplicates, Duplicate{
				Name:   l.Title,
				ID:     l.ID,
				KeptID: existing.ID,
			})
			continue
		}

		inventory[l.Title] = &photo.Record{
			ID:       l.ID,
			Taken:    l.Taken,
			Modified: l.LastUpdate,
		}
	}

	return inventory, duplicates
}

func sameTaken(a, b *time.Time) bool {
	return a != nil && b != nil && a.Equal(*b)
}

// RemoveDuplicates deletes the given duplicates on the remote side. It stops
// at the first failure.
func (f *Fetcher) RemoveDuplicates(ctx context.Context, duplicates []Duplicate) error {
	for _, d := range duplicates {
		slog.Info("found duplicate uploads", "name", d.Name, "removing", d.ID, "keeping", d.KeptID)

		err := f.api.DeletePhoto(ctx, d.ID)
		f.recorder.Record(photo.OpDedup, d.Name, d.ID, err)
		if err != nil {
			return fmt.Errorf("delete duplicate %s (%s): %w", d.Name, d.ID, err)
		}
	}
	return nil
}

// Fetch lists, dedups and removes duplicates in one go. The returned
// inventory holds one record per title.
func (f *Fetcher) Fetch(ctx context.Context) (photo.Inventory, []Duplicate, error) {
	listings, err := f.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	inventory, duplicates := Dedup(listings)
	if err := f.RemoveDuplicates(ctx, duplicates); err != nil {
		return nil, nil, err
	}

	slog.Info("remote inventory", "unique", len(inventory), "duplicates", len(duplicates))
	return inventory, duplicates, nil
}
