package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openmined/flickrsync/internal/exifcheck"
	"github.com/openmined/flickrsync/internal/local"
	"github.com/openmined/flickrsync/internal/photo"
	"github.com/openmined/flickrsync/internal/reconcile"
	"github.com/openmined/flickrsync/internal/remote"
	"github.com/spf13/afero"
)

// API is everything a run needs from the remote service.
type API interface {
	remote.CatalogAPI
	PhotoAPI
}

type RunOptions struct {
	Folder        string
	HiddenSegment string
	SkipEXIF      bool
	SkipUpload    bool
	SkipReplace   bool
	// DryRun computes the plan without touching the remote side. Duplicate
	// uploads are reported but not deleted.
	DryRun bool
}

// Summary describes a finished run.
type Summary struct {
	LocalCount   int
	RemoteCount  int
	Collisions   map[string][]string
	ExifProblems []string
	Duplicates   []remote.Duplicate
	Plan         *reconcile.Plan
	Deleted      int
	Uploads      *Report
	Replacements *Report
	DryRun       bool
	Elapsed      time.Duration
}

// Failed reports whether any upload or replace did not go through.
func (s *Summary) Failed() int {
	n := 0
	if s.Uploads != nil {
		n += len(s.Uploads.Failed)
	}
	if s.Replacements != nil {
		n += len(s.Replacements.Failed)
	}
	return n
}

type Runner struct {
	fs       afero.Fs
	api      API
	opts     RunOptions
	recorder photo.Recorder
	applier  []ApplierOption
}

type RunnerOption func(*Runner)

func WithRunRecorder(r photo.Recorder) RunnerOption {
	return func(rn *Runner) {
		rn.recorder = r
	}
}

// WithApplierOptions passes options through to the applier of the run.
func WithApplierOptions(opts ...ApplierOption) RunnerOption {
	return func(rn *Runner) {
		rn.applier = append(rn.applier, opts...)
	}
}

func NewRunner(fs afero.Fs, api API, opts RunOptions, runnerOpts ...RunnerOption) *Runner {
	if opts.HiddenSegment == "" {
		opts.HiddenSegment = local.DefaultHiddenSegment
	}
	r := &Runner{
		fs:       fs,
		api:      api,
		opts:     opts,
		recorder: photo.NopRecorder,
	}
	for _, opt := range runnerOpts {
		opt(r)
	}
	return r
}

// Run performs one sync of the photo folder against the photostream.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	tStart := time.Now()
	summary := &Summary{DryRun: r.opts.DryRun}

	ignore := local.NewIgnoreList(r.fs, r.opts.Folder)
	ignore.Load()
	scanner := local.NewScanner(r.fs, r.opts.Folder,
		local.WithHiddenSegment(r.opts.HiddenSegment),
		local.WithIgnoreList(ignore),
	)

	slog.Info("scanning local photos", "folder", r.opts.Folder)
	scan, err := scanner.Scan()
	if err != nil {
		return nil, fmt.Errorf("scan local photos: %w", err)
	}
	localInv := scan.Inventory
	summary.LocalCount = len(localInv)
	summary.Collisions = scan.Collisions
	for name, paths := range scan.Collisions {
		slog.Warn("photo name used more than once", "name", name, "paths", paths, "using", paths[len(paths)-1])
	}
	slog.Info("local photos", "count", len(localInv))

	if !r.opts.SkipEXIF {
		summary.ExifProblems = exifcheck.NewChecker(r.fs).Check(localInv)
	}

	fetcher := remote.NewFetcher(r.api, remote.WithRecorder(r.recorder))
	listings, err := fetcher.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch remote photos: %w", err)
	}
	remoteInv, duplicates := remote.Dedup(listings)
	summary.Duplicates = duplicates
	if r.opts.DryRun {
		for _, d := range duplicates {
			slog.Info("found duplicate uploads", "name", d.Name, "would remove", d.ID, "keeping", d.KeptID)
		}
	} else if err := fetcher.RemoveDuplicates(ctx, duplicates); err != nil {
		return nil, err
	}
	summary.RemoteCount = len(remoteInv)

	plan := reconcile.Reconcile(localInv, remoteInv)
	summary.Plan = plan
	slog.Info("reconciled",
		"delete", plan.ToDelete.Cardinality(),
		"upload", plan.ToUpload.Cardinality(),
		"replace", plan.ToReplace.Cardinality(),
		"unchanged", plan.Unchanged.Cardinality(),
	)

	if r.opts.DryRun {
		r.logPlan(plan)
		summary.Elapsed = time.Since(tStart)
		return summary, nil
	}

	applier := NewApplier(r.api, append([]ApplierOption{WithFs(r.fs), WithApplierRecorder(r.recorder)}, r.applier...)...)

	if err := applier.Delete(ctx, plan.ToDelete, remoteInv); err != nil {
		return summary, fmt.Errorf("delete remote photos: %w", err)
	}
	summary.Deleted = plan.ToDelete.Cardinality()

	if r.opts.SkipUpload {
		slog.Info("skipping uploads", "pending", plan.ToUpload.Cardinality())
	} else {
		summary.Uploads, err = applier.Upload(ctx, plan.ToUpload, localInv, remoteInv, false)
		if err != nil {
			return summary, err
		}
	}

	if r.opts.SkipReplace {
		slog.Info("skipping replacements", "pending", plan.ToReplace.Cardinality())
	} else {
		summary.Replacements, err = applier.Upload(ctx, plan.ToReplace, localInv, remoteInv, true)
		if err != nil {
			return summary, err
		}
	}

	summary.Elapsed = time.Since(tStart)
	slog.Info("sync done", "deleted", summary.Deleted, "uploaded", len(reportNames(summary.Uploads)),
		"replaced", len(reportNames(summary.Replacements)), "failed", summary.Failed(), "tsTotal", summary.Elapsed)
	return summary, nil
}

func (r *Runner) logPlan(plan *reconcile.Plan) {
	for _, name := range photo.Sorted(plan.ToDelete) {
		slog.Info("dry run", "op", photo.OpDelete, "name", name)
	}
	if !r.opts.SkipUpload {
		for _, name := range photo.Sorted(plan.ToUpload) {
			slog.Info("dry run", "op", photo.OpUpload, "name", name)
		}
	}
	if !r.opts.SkipReplace {
		for _, name := range photo.Sorted(plan.ToReplace) {
			slog.Info("dry run", "op", photo.OpReplace, "name", name)
		}
	}
}

func reportNames(r *Report) []string {
	if r == nil {
		return nil
	}
	return r.Succeeded
}
