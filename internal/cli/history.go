// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jeranaias/triage-tui/internal/analysis"
	"github.com/jeranaias/triage-tui/internal/storage"
	"github.com/jeranaias/triage-tui/internal/util"
)

var errHistoryDisabled = errors.New("history is disabled (storage.enabled = false)")

func newHistoryCommand(e *env) *cobra.Command {
	var (
		limit int
		clearAll bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded analyses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := e.mustOpenHistory()
			if err != nil {
				return err
			}
			defer h.Close()

			out := cmd.OutOrStdout()
			if clearAll {
				n, err := h.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Deleted %d analyses.\n", n)
				return nil
			}

			entries, err := h.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No analyses recorded yet.")
				return nil
			}

			noteWidth := max(TerminalWidth()-40, 20)
			fmt.Fprintf(out, "%-5s  %-16s  %-12s  %s\n", "ID", "WHEN", "SESSION", "NOTE")
			for _, en := range entries {
				fmt.Fprintf(out, "%-5d  %-16s  %s  %s\n",
					en.ID,
					en.CreatedAt.Local().Format("2006-01-02 15:04"),
					util.PadRight(util.Truncate(en.SessionID, 12), 12),
					util.Truncate(util.FirstLine(en.Note), noteWidth))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of analyses to list")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "delete every recorded analysis")

	cmd.AddCommand(&cobra.Command{
		Use:   "show ID",
		Short: "Print a recorded analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			h, err := e.mustOpenHistory()
			if err != nil {
				return err
			}
			defer h.Close()

			en, err := h.Get(cmd.Context(), id)
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("no analysis with id %d", id)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Recorded %s\n", en.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "Note: %s\n\n", en.Note)
			fmt.Fprintln(out, analysis.FormatReply(&en.Result))
			return nil
		},
	})
	return cmd
}

func (e *env) mustOpenHistory() (*storage.History, error) {
	h, err := e.openHistory()
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, errHistoryDisabled
	}
	return h, nil
}
