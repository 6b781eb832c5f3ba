// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/triage-tui/internal/ui/styles"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// ToastKind represents the type of toast notification.
type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastSuccess
	ToastError
)

// String returns the kind name.
func (k ToastKind) String() string {
	switch k {
	case ToastSuccess:
		return "success"
	case ToastError:
		return "error"
	default:
		return "info"
	}
}

// ToastDuration is how long a toast stays visible.
const ToastDuration = 5 * time.Second

// Toast is a non-blocking notification that auto-dismisses.
type Toast struct {
	ID        int64
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

var toastIDs atomic.Int64

// NewToast creates a toast of kind with the default duration.
func NewToast(kind ToastKind, message string) Toast {
	return Toast{
		ID:        toastIDs.Add(1),
		Message:   message,
		Kind:      kind,
		CreatedAt: time.Now(),
		Duration:  ToastDuration,
	}
}

// ExpiredAt reports whether the toast should be gone at now.
func (t Toast) ExpiredAt(now time.Time) bool {
	return now.Sub(t.CreatedAt) >= t.Duration
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// ToastManager keeps the visible toasts, newest first.
type ToastManager struct {
	mu        sync.Mutex
	toasts    []Toast
	maxToasts int
}

// NewToastManager creates a manager showing at most three toasts.
func NewToastManager() *ToastManager {
	return &ToastManager{maxToasts: 3}
}

// Add shows a toast and returns its id.
func (m *ToastManager) Add(kind ToastKind, message string) int64 {
	t := NewToast(kind, message)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.toasts = append([]Toast{t}, m.toasts...)
	if len(m.toasts) > m.maxToasts {
		m.toasts = m.toasts[:m.maxToasts]
	}
	return t.ID
}

// Success shows a success toast.
func (m *ToastManager) Success(message string) int64 { return m.Add(ToastSuccess, message) }

// Error shows an error toast.
func (m *ToastManager) Error(message string) int64 { return m.Add(ToastError, message) }

// Info shows an info toast.
func (m *ToastManager) Info(message string) int64 { return m.Add(ToastInfo, message) }

// Dismiss removes the toast with id.
func (m *ToastManager) Dismiss(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, t := range m.toasts {
		if t.ID == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

// DismissAll removes every toast.
func (m *ToastManager) DismissAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toasts = nil
}

// Expire drops toasts expired at now and reports whether any remain.
func (m *ToastManager) Expire(now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	active := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.ExpiredAt(now) {
			active = append(active, t)
		}
	}
	m.toasts = active
	return len(m.toasts) > 0
}

// Toasts returns a copy of the visible toasts.
func (m *ToastManager) Toasts() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Toast(nil), m.toasts...)
}

// Len returns the number of visible toasts.
func (m *ToastManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.toasts)
}

// =============================================================================
// TOAST MESSAGES
// =============================================================================

// ToastTickMsg drives toast expiry.
type ToastTickMsg struct {
	Time time.Time
}

// ToastTickCmd schedules the next expiry check.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}

// ShowToastMsg asks the app to show a toast.
type ShowToastMsg struct {
	Kind    ToastKind
	Message string
}

// ShowToast returns a command emitting ShowToastMsg.
func ShowToast(kind ToastKind, message string) tea.Cmd {
	return func() tea.Msg {
		return ShowToastMsg{Kind: kind, Message: message}
	}
}

// =============================================================================
// TOAST RENDERING
// =============================================================================

// RenderToast renders a single toast.
func RenderToast(theme *styles.Theme, t Toast, width int) string {
	maxWidth := 60
	if width > 0 && width-4 < maxWidth {
		maxWidth = width - 4
	}
	if maxWidth < 24 {
		maxWidth = 24
	}

	var (
		style lipgloss.Style
		icon  string
	)
	switch t.Kind {
	case ToastSuccess:
		style, icon = theme.ToastSuccess, styles.StatusIndicators.Success
	case ToastError:
		style, icon = theme.ToastError, styles.StatusIndicators.Error
	default:
		style, icon = theme.ToastInfo, styles.StatusIndicators.Info
	}

	body := lipgloss.NewStyle().Width(maxWidth - 4).Render(icon + " " + t.Message)
	return style.Render(body)
}

// RenderToastStack renders toasts stacked and right-aligned to width.
func RenderToastStack(theme *styles.Theme, toasts []Toast, width int) string {
	if len(toasts) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		rendered = append(rendered, RenderToast(theme, t, width))
	}
	stack := lipgloss.JoinVertical(lipgloss.Right, rendered...)
	if width <= 0 {
		return stack
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, strings.TrimRight(stack, "\n"))
}
