// Package exifcheck reports local photos whose EXIF data has no capture date.
// Flickr falls back to the upload time for such photos, which breaks
// duplicate detection on later runs.
package exifcheck

import (
	"log/slog"
	"sort"

	"github.com/openmined/flickrsync/internal/photo"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/spf13/afero"
)

type Checker struct {
	fs afero.Fs
}

func NewChecker(fs afero.Fs) *Checker {
	return &Checker{fs: fs}
}

// Check returns the sorted paths of photos without a DateTimeOriginal tag.
func (c *Checker) Check(inv photo.Inventory) []string {
	problematic := make([]string, 0)
	for _, rec := range inv {
		if !c.HasDateTaken(rec.ID) {
			problematic = append(problematic, rec.ID)
		}
	}
	sort.Strings(problematic)

	if len(problematic) == 0 {
		slog.Info("no files found with problematic EXIF data")
	} else {
		slog.Warn("found files with problematic EXIF data", "count", len(problematic))
		for _, path := range problematic {
			slog.Warn("missing EXIF date", "path", path)
		}
	}

	return problematic
}

// HasDateTaken reports whether the file carries a DateTimeOriginal tag.
// Unreadable files and files without EXIF count as missing the date.
func (c *Checker) HasDateTaken(path string) bool {
	f, err := c.fs.Open(path)
	if err != nil {
		slog.Debug("exif open", "path", path, "error", err)
		return false
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		slog.Debug("exif decode", "path", path, "error", err)
		return false
	}

	_, err = x.Get(exif.DateTimeOriginal)
	return err == nil
}
