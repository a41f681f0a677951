package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/openmined/flickrsync/internal/config"
	"github.com/openmined/flickrsync/internal/syncer"
	"github.com/openmined/flickrsync/internal/utils"
)

var (
	red       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	green     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	yellow    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	cyan      = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	gray      = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	lightGray = lipgloss.NewStyle().Foreground(lipgloss.Color("248"))
	bold      = lipgloss.NewStyle().Bold(true)
)

func printSummary(w io.Writer, s *syncer.Summary) {
	title := "Sync summary"
	if s.DryRun {
		title += " (dry run)"
	}
	fmt.Fprintln(w, bold.Render(title))

	row := func(label string, value any, style lipgloss.Style) {
		fmt.Fprintf(w, "  %-12s %s\n", gray.Render(label), style.Render(fmt.Sprint(value)))
	}

	row("local", s.LocalCount, lightGray)
	row("remote", s.RemoteCount, lightGray)
	if len(s.Collisions) > 0 {
		row("collisions", len(s.Collisions), yellow)
	}
	if len(s.ExifProblems) > 0 {
		row("no exif date", len(s.ExifProblems), yellow)
	}
	if len(s.Duplicates) > 0 {
		row("duplicates", len(s.Duplicates), yellow)
	}

	if s.Plan != nil {
		if s.DryRun {
			row("to delete", s.Plan.ToDelete.Cardinality(), cyan)
			row("to upload", s.Plan.ToUpload.Cardinality(), cyan)
			row("to replace", s.Plan.ToReplace.Cardinality(), cyan)
		} else {
			row("deleted", s.Deleted, green)
			printReport(row, "uploaded", s.Uploads)
			printReport(row, "replaced", s.Replacements)
		}
		row("unchanged", s.Plan.Unchanged.Cardinality(), lightGray)
	}

	if failed := s.Failed(); failed > 0 {
		row("failed", failed, red)
	}
	if s.Elapsed > 0 {
		row("took", s.Elapsed.Round(10*time.Millisecond), lightGray)
	}
}

func printReport(row func(string, any, lipgloss.Style), label string, r *syncer.Report) {
	if r == nil {
		row(label, "skipped", gray)
		return
	}
	row(label, len(r.Succeeded), green)
}

func logConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "%s %s\n", gray.Render("CONFIG"), cfg.Path)
	fmt.Fprintf(w, "%s %s\n", gray.Render("FOLDER"), cfg.PhotoFolder)
	fmt.Fprintf(w, "%s %s\n", gray.Render("APIKEY"), utils.MaskSecret(cfg.APIKey))
	if cfg.UserID != "" {
		fmt.Fprintf(w, "%s %s\n", gray.Render("USERID"), cfg.UserID)
	}
}
