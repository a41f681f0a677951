package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/openmined/flickrsync/internal/history"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newHistoryCmd())
}

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent remote operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			journal := history.NewJournal(historyPath(configPath(cmd)))
			if err := journal.Open(); err != nil {
				return err
			}
			defer journal.Close()

			entries, err := journal.Recent(limit)
			if err != nil {
				return err
			}
			total, err := journal.Count()
			if err != nil {
				return err
			}

			printHistory(cmd.OutOrStdout(), entries, total)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	return cmd
}

func printHistory(w io.Writer, entries []*history.Entry, total int) {
	if len(entries) == 0 {
		fmt.Fprintln(w, gray.Render("no operations recorded yet"))
		return
	}

	for _, e := range entries {
		status := green.Render(e.Status)
		if e.Status != history.StatusOK {
			status = red.Render(e.Status)
		}

		line := fmt.Sprintf("%-14s %-8s %-7s %s", humanize.Time(e.CreatedAt), e.Op, status, e.Name)
		if e.PhotoID != "" {
			line += gray.Render(" #" + e.PhotoID)
		}
		if e.Error != "" {
			line += " " + red.Render(e.Error)
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w, lightGray.Render(fmt.Sprintf("showing %d of %s entries", len(entries), humanize.Comma(int64(total)))))
}
