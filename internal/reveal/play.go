// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reveal

import (
	"context"
	"errors"
	"time"
)

// ErrNotActive is returned by Play when the handle does not own the scheduler,
// either up front or because another caller cancelled it mid-run.
var ErrNotActive = errors.New("reveal: handle is not active")

// Play drives the activation owned by h on the calling goroutine, calling
// publish with the revealed state after every tick. It returns nil when the
// reveal completes and ctx.Err() after cancelling the activation when ctx is
// done.
func Play(ctx context.Context, s *Scheduler, h Handle, publish func(State)) error {
	if !s.Owns(h) {
		return ErrNotActive
	}

	ticker := time.NewTicker(s.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Cancel(h)
			return ctx.Err()
		case <-ticker.C:
			if ctx.Err() != nil {
				s.Cancel(h)
				return ctx.Err()
			}
			res, err := s.Tick(h)
			if err != nil {
				return err
			}
			switch res {
			case TickStale:
				return ErrNotActive
			case TickDone:
				return nil
			case TickAdvanced:
				if publish != nil {
					publish(s.State())
				}
			}
		}
	}
}
