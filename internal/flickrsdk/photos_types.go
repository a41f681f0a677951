package flickrsdk

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TakenLayout is the format of the "taken" date in photo info replies.
const TakenLayout = "2006-01-02 15:04:05"

// PhotoSummary is one entry of a photostream listing.
type PhotoSummary struct {
	ID    string
	Title string
}

// PhotosPage is one page of a photostream listing.
type PhotosPage struct {
	Page    int
	Pages   int
	PerPage int
	Total   int
	Photos  []PhotoSummary
}

// PhotoInfo holds the extended metadata of one photo.
type PhotoInfo struct {
	ID    string
	Title string
	// Taken is nil when Flickr does not know the capture time.
	Taken      *time.Time
	LastUpdate time.Time
}

// ===================================================================================================

type photosPageDTO struct {
	Photos struct {
		Page    flexInt `json:"page"`
		Pages   flexInt `json:"pages"`
		PerPage flexInt `json:"perpage"`
		Total   flexInt `json:"total"`
		Photo   []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"photo"`
	} `json:"photos"`
}

func (d *photosPageDTO) toPage() *PhotosPage {
	page := &PhotosPage{
		Page:    int(d.Photos.Page),
		Pages:   int(d.Photos.Pages),
		PerPage: int(d.Photos.PerPage),
		Total:   int(d.Photos.Total),
		Photos:  make([]PhotoSummary, 0, len(d.Photos.Photo)),
	}
	for _, p := range d.Photos.Photo {
		page.Photos = append(page.Photos, PhotoSummary{ID: p.ID, Title: p.Title})
	}
	return page
}

type photoInfoDTO struct {
	Photo struct {
		ID    string `json:"id"`
		Title struct {
			Content string `json:"_content"`
		} `json:"title"`
		Dates struct {
			Taken        string  `json:"taken"`
			TakenUnknown flexInt `json:"takenunknown"`
			LastUpdate   string  `json:"lastupdate"`
		} `json:"dates"`
	} `json:"photo"`
}

func (d *photoInfoDTO) toInfo() (*PhotoInfo, error) {
	info := &PhotoInfo{
		ID:    d.Photo.ID,
		Title: d.Photo.Title.Content,
	}

	// with takenunknown set, taken holds the upload time
	if taken := strings.TrimSpace(d.Photo.Dates.Taken); taken != "" && d.Photo.Dates.TakenUnknown == 0 {
		ts, err := time.Parse(TakenLayout, taken)
		if err != nil {
			return nil, fmt.Errorf("parse taken %q: %w", taken, err)
		}
		info.Taken = &ts
	}

	lastUpdate, err := parseUnix(d.Photo.Dates.LastUpdate)
	if err != nil {
		return nil, fmt.Errorf("parse lastupdate: %w", err)
	}
	info.LastUpdate = lastUpdate

	return info, nil
}

func parseUnix(s string) (time.Time, error) {
	secs, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(secs, 0), nil
}
