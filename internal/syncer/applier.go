// Package syncer applies a reconciliation plan to the remote photostream and
// drives a complete sync run.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/openmined/flickrsync/internal/flickrsdk"
	"github.com/openmined/flickrsync/internal/photo"
	"github.com/spf13/afero"
	"golang.org/x/time/rate"
)

const (
	// DefaultInterval is the pause between two remote calls.
	DefaultInterval = 100 * time.Millisecond
	DefaultTag      = "auto-upload"
)

var (
	ErrMissingRecord = errors.New("syncer: no record for name")
	ErrMissingFile   = errors.New("syncer: local file is gone")
)

// PhotoAPI is the part of the remote service the applier writes through.
type PhotoAPI interface {
	DeletePhoto(ctx context.Context, photoID string) error
	UploadPhoto(ctx context.Context, params *flickrsdk.UploadParams) (string, error)
	ReplacePhoto(ctx context.Context, params *flickrsdk.ReplaceParams) (string, error)
}

// Failure is a single upload or replace that did not go through.
type Failure struct {
	Name string
	Err  error
}

// Report is the outcome of an upload or replace batch.
type Report struct {
	Op        photo.Op
	Succeeded []string
	Failed    []Failure
}

func (r *Report) Total() int {
	if r == nil {
		return 0
	}
	return len(r.Succeeded) + len(r.Failed)
}

type Applier struct {
	api        PhotoAPI
	fs         afero.Fs
	limiter    *rate.Limiter
	recorder   photo.Recorder
	tags       []string
	visibility flickrsdk.Visibility
}

type ApplierOption func(*Applier)

// WithLimiter replaces the default one-call-per-100ms limiter.
func WithLimiter(l *rate.Limiter) ApplierOption {
	return func(a *Applier) {
		a.limiter = l
	}
}

// WithFs sets the filesystem local files are checked on before sending.
// The files themselves are read by the remote client from disk.
func WithFs(fs afero.Fs) ApplierOption {
	return func(a *Applier) {
		a.fs = fs
	}
}

func WithApplierRecorder(r photo.Recorder) ApplierOption {
	return func(a *Applier) {
		a.recorder = r
	}
}

// WithTags sets the tags of newly uploaded photos.
func WithTags(tags ...string) ApplierOption {
	return func(a *Applier) {
		a.tags = tags
	}
}

// WithVisibility sets who can see newly uploaded photos. Default is private.
func WithVisibility(v flickrsdk.Visibility) ApplierOption {
	return func(a *Applier) {
		a.visibility = v
	}
}

func NewApplier(api PhotoAPI, opts ...ApplierOption) *Applier {
	a := &Applier{
		api:      api,
		fs:       afero.NewOsFs(),
		limiter:  rate.NewLimiter(rate.Every(DefaultInterval), 1),
		recorder: photo.NopRecorder,
		tags:     []string{DefaultTag},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Delete removes the named photos from the remote side, using the ids of
// the remote inventory. The first failure aborts the batch.
func (a *Applier) Delete(ctx context.Context, names photo.NameSet, remote photo.Inventory) error {
	for _, name := range photo.Sorted(names) {
		rec, ok := remote[name]
		if !ok {
			return fmt.Errorf("delete %s: %w", name, ErrMissingRecord)
		}

		if err := a.limiter.Wait(ctx); err != nil {
			return err
		}

		slog.Info("deleting", "name", name, "id", rec.ID)
		err := a.api.DeletePhoto(ctx, rec.ID)
		a.recorder.Record(photo.OpDelete, name, rec.ID, err)
		if err != nil {
			return fmt.Errorf("delete %s (%s): %w", name, rec.ID, err)
		}
	}
	return nil
}

// Upload sends the local files of the named photos. When replace is set the
// file of the existing remote photo is swapped instead. Failures are logged
// and collected in the report; only context cancellation stops the batch
// early.
func (a *Applier) Upload(ctx context.Context, names photo.NameSet, local, remote photo.Inventory, replace bool) (*Report, error) {
	report := &Report{Op: photo.OpUpload}
	if replace {
		report.Op = photo.OpReplace
	}

	for _, name := range photo.Sorted(names) {
		if err := a.limiter.Wait(ctx); err != nil {
			return report, err
		}

		photoID, err := a.uploadOne(ctx, name, local, remote, replace)
		a.recorder.Record(report.Op, name, photoID, err)
		if err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			slog.Error("sync", "op", report.Op, "name", name, "error", err)
			report.Failed = append(report.Failed, Failure{Name: name, Err: err})
			continue
		}

		slog.Info("sync", "op", report.Op, "name", name, "id", photoID)
		report.Succeeded = append(report.Succeeded, name)
	}

	return report, nil
}

func (a *Applier) uploadOne(ctx context.Context, name string, local, remote photo.Inventory, replace bool) (string, error) {
	rec, ok := local[name]
	if !ok {
		return "", ErrMissingRecord
	}

	info, err := a.fs.Stat(rec.ID)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = fmt.Errorf("%w: %s", ErrMissingFile, rec.ID)
		}
		if existing, ok := remote[name]; ok && replace {
			return existing.ID, err
		}
		return "", err
	}
	slog.Info("uploading", "name", name, "path", rec.ID, "size", humanize.Bytes(uint64(info.Size())), "replace", replace)

	progress := func(uploaded, total int64) {
		slog.Debug("upload progress", "name", name, "sent", humanize.Bytes(uint64(uploaded)), "total", humanize.Bytes(uint64(total)))
	}

	if !replace {
		return a.api.UploadPhoto(ctx, &flickrsdk.UploadParams{
			FilePath:   rec.ID,
			Title:      name,
			Tags:       a.tags,
			Visibility: a.visibility,
			Callback:   progress,
		})
	}

	existing, ok := remote[name]
	if !ok {
		return "", ErrMissingRecord
	}
	id, err := a.api.ReplacePhoto(ctx, &flickrsdk.ReplaceParams{
		FilePath: rec.ID,
		PhotoID:  existing.ID,
		Callback: progress,
	})
	if err != nil {
		return existing.ID, err
	}
	return id, nil
}
