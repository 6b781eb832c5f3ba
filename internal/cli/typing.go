// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/triage-tui/internal/reveal"
)

// typeReply writes text to w one character per interval. With animate off
// the text is written at once. The written text always ends with a newline.
func typeReply(ctx context.Context, w io.Writer, text string, interval time.Duration, animate bool, log *zap.Logger) error {
	if !animate {
		_, err := fmt.Fprintln(w, text)
		return err
	}

	s := reveal.NewScheduler(interval, log)
	h := s.Start(reveal.TextSections(text))

	// Explanation only grows, so the unwritten part is always a suffix.
	written := 0
	var werr error
	err := reveal.Play(ctx, s, h, func(st reveal.State) {
		if werr != nil || len(st.Explanation) <= written {
			return
		}
		_, werr = io.WriteString(w, st.Explanation[written:])
		written = len(st.Explanation)
	})
	fmt.Fprintln(w)
	if err != nil {
		return err
	}
	return werr
}
