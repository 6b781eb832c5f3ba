// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - one-shot analysis.
//
// Examples:
//
//	triage ask "sharp headache behind the eyes since yesterday"
//	echo "fever and chills" | triage ask
//	triage ask --json "persistent cough"
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/triage-tui/internal/analysis"
)

type askOptions struct {
	instant   bool
	jsonOut   bool
	noHistory bool
}

func newAskCommand(e *env) *cobra.Command {
	var opts askOptions
	cmd := &cobra.Command{
		Use:   "ask [NOTE...]",
		Short: "Analyze one symptom note",
		Long: "Analyze one symptom note and type the reply to stdout.\n" +
			"With no arguments the note is read from stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, e, args, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.instant, "instant", false, "print the reply at once")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the raw analysis as JSON")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "do not record the analysis")
	return cmd
}

func runAsk(cmd *cobra.Command, e *env, args []string, opts askOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	note := strings.TrimSpace(strings.Join(args, " "))
	if note == "" {
		data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), 64<<10))
		if err != nil {
			return fmt.Errorf("failed to read note: %w", err)
		}
		note = strings.TrimSpace(string(data))
	}
	if note == "" {
		return errors.New("no symptoms given; pass a note or pipe one on stdin")
	}

	res, err := e.newAnalyzer(e.cfg, e.log).Analyze(ctx, note)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), analysis.FailureReply(err))
		return fmt.Errorf("analysis failed: %w", err)
	}

	if !opts.noHistory {
		e.recordAnalysis(cmd, note, res)
	}

	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	animate := !opts.instant && out == io.Writer(os.Stdout) && IsStdoutTTY()
	return typeReply(ctx, out, analysis.FormatReply(res), e.cfg.Reveal.ChatInterval.Duration, animate, e.log)
}

// recordAnalysis saves res to history. Failures are logged, never fatal.
func (e *env) recordAnalysis(cmd *cobra.Command, note string, res *analysis.Result) {
	if res == nil {
		return
	}
	h, err := e.openHistory()
	if err != nil {
		e.log.Warn("history unavailable", zap.Error(err))
		return
	}
	if h == nil {
		return
	}
	defer h.Close()

	if _, err := h.Record(cmd.Context(), note, *res); err != nil {
		e.log.Warn("failed to record analysis", zap.Error(err))
	}
}
