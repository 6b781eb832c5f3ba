// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - plain-terminal consultation REPL.
//
// Each line is sent for analysis and the reply is typed out. Slash commands:
//
//	/clear            start over
//	/export [json|md] write the consultation to the working directory
//	/help             list commands
//	/quit             leave
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/triage-tui/internal/analysis"
	"github.com/jeranaias/triage-tui/internal/config"
	"github.com/jeranaias/triage-tui/internal/export"
	"github.com/jeranaias/triage-tui/internal/model"
)

const chatPrompt = "you> "

// prompter reads lines. *liner.State satisfies it.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func newChatCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Consult interactively without the full-screen interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !IsTTY() {
				return errors.New("chat needs an interactive terminal; use 'triage ask' for piped input")
			}
			line := liner.NewLiner()
			line.SetCtrlCAborts(true)

			histPath := chatHistoryPath()
			if f, err := os.Open(histPath); err == nil {
				_, _ = line.ReadHistory(f)
				f.Close()
			}
			defer func() {
				if f, err := os.OpenFile(histPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600); err == nil {
					_, _ = line.WriteHistory(f)
					f.Close()
				}
				line.Close()
			}()

			s := &chatSession{
				env:      e,
				in:       line,
				out:      cmd.OutOrStdout(),
				analyzer: e.newAnalyzer(e.cfg, e.log),
				conv:     model.NewConversation(),
				animate:  IsStdoutTTY(),
				dir:      ".",
			}
			return s.run(cmd.Context())
		},
	}
}

func chatHistoryPath() string {
	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	_ = os.MkdirAll(dir, 0o700)
	return filepath.Join(dir, "chat_history")
}

// chatSession is one REPL run.
type chatSession struct {
	env      *env
	in       prompter
	out      io.Writer
	analyzer analysis.Analyzer
	conv     *model.Conversation
	animate  bool
	dir      string
	now      func() time.Time
}

func (s *chatSession) run(ctx context.Context) error {
	fmt.Fprintln(s.out, s.conv.Last().Content)
	fmt.Fprintln(s.out, "Type /help for commands.")

	for {
		input, err := s.in.Prompt(chatPrompt)
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			fmt.Fprintln(s.out)
			return nil
		}
		if err != nil {
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		s.in.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if quit := s.command(input); quit {
				return nil
			}
			continue
		}

		if err := s.send(ctx, input); err != nil {
			return err
		}
	}
}

// send analyzes one message. Analysis failures are reported in the
// conversation; only a cancelled context ends the session.
func (s *chatSession) send(ctx context.Context, text string) error {
	s.conv.AddUser(text)
	fmt.Fprintln(s.out, "Analyzing your symptoms...")

	res, err := s.analyzer.Analyze(ctx, text)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		reply := analysis.FailureReply(err)
		s.conv.AddError(reply)
		fmt.Fprintln(s.out, reply)
		return nil
	}

	reply := analysis.FormatReply(res)
	if err := typeReply(ctx, s.out, reply, s.env.cfg.Reveal.ChatInterval.Duration, s.animate, s.env.log); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.env.log.Warn("typing interrupted", zap.Error(err))
	}
	s.conv.AddReply(reply, res)
	return nil
}

func (s *chatSession) command(input string) (quit bool) {
	fields := strings.Fields(input)
	switch fields[0] {
	case "/quit", "/exit":
		return true
	case "/clear":
		s.conv.Clear()
		fmt.Fprintln(s.out, s.conv.Last().Content)
	case "/export":
		format := ""
		if len(fields) > 1 {
			format = fields[1]
		}
		s.export(format)
	case "/help":
		fmt.Fprintln(s.out, "/clear             start a new consultation")
		fmt.Fprintln(s.out, "/export [json|md]  save the consultation")
		fmt.Fprintln(s.out, "/quit              leave")
	default:
		fmt.Fprintf(s.out, "Unknown command %s. Type /help.\n", fields[0])
	}
	return false
}

func (s *chatSession) export(format string) {
	exporter, err := export.ForFormat(format)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	opts := &export.Options{OutputDir: s.dir, Now: s.now}
	path, err := export.ToFile(s.conv, exporter, opts)
	if err != nil {
		fmt.Fprintln(s.out, "Export failed:", err)
		return
	}
	fmt.Fprintln(s.out, "Consultation exported to", path)
}
