// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme modes accepted by NewTheme.
const (
	ModeAuto  = "auto"
	ModeDark  = "dark"
	ModeLight = "light"
)

// Theme holds the styled components for the application.
type Theme struct {
	// Terminal capabilities
	Mode         string
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER AND TABS
	// ==========================================================================

	App            lipgloss.Style
	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	Tab            lipgloss.Style
	TabActive      lipgloss.Style

	// ==========================================================================
	// CHAT
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	ErrorBubble     lipgloss.Style
	RoleLabel       lipgloss.Style
	Timestamp       lipgloss.Style
	TypingCursor    lipgloss.Style
	ThinkingText    lipgloss.Style
	InputContainer  lipgloss.Style
	QuickAction     lipgloss.Style
	QuickActionKey  lipgloss.Style

	// ==========================================================================
	// ANALYSIS PANEL
	// ==========================================================================

	Panel           lipgloss.Style
	PanelTitle      lipgloss.Style
	StatusIdle      lipgloss.Style
	StatusAnalyzing lipgloss.Style
	StatusComplete  lipgloss.Style
	StatusError     lipgloss.Style
	Accuracy        lipgloss.Style
	SectionHeading  lipgloss.Style
	SectionBody     lipgloss.Style
	ListNumber      lipgloss.Style
	FieldName       lipgloss.Style
	Placeholder     lipgloss.Style

	// ==========================================================================
	// INTAKE FORM
	// ==========================================================================

	FormLabel      lipgloss.Style
	FormLabelFocus lipgloss.Style
	FormRequired   lipgloss.Style
	FormHint       lipgloss.Style
	Option         lipgloss.Style
	OptionSelected lipgloss.Style
	Button         lipgloss.Style
	ButtonFocus    lipgloss.Style

	// ==========================================================================
	// OVERLAYS
	// ==========================================================================

	ToastSuccess lipgloss.Style
	ToastError   lipgloss.Style
	ToastInfo    lipgloss.Style
	Modal        lipgloss.Style
	ModalTitle   lipgloss.Style

	// ==========================================================================
	// STATUS BAR
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
}

// NewTheme creates a theme. mode is "dark", "light" or "auto"; auto asks the
// terminal for its background.
func NewTheme(mode string) *Theme {
	t := &Theme{ColorProfile: termenv.ColorProfile()}
	t.SetMode(mode)
	return t
}

// SetMode switches the theme in place so every model holding it picks up the
// new palette on its next render. It reports whether anything changed.
func (t *Theme) SetMode(mode string) bool {
	mode = strings.ToLower(strings.TrimSpace(mode))

	var isDark bool
	switch mode {
	case ModeDark:
		isDark = true
	case ModeLight:
		isDark = false
	default:
		mode = ModeAuto
		isDark = termenv.HasDarkBackground()
	}
	if t.Mode == mode && t.IsDark == isDark {
		return false
	}
	lipgloss.SetHasDarkBackground(isDark)

	t.Mode = mode
	t.IsDark = isDark
	t.initStyles()
	return true
}

// GlamourStyle names the glamour standard style matching the background.
func (t *Theme) GlamourStyle() string {
	if t.ColorProfile == termenv.Ascii {
		return "notty"
	}
	if t.IsDark {
		return "dark"
	}
	return "light"
}

func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Teal).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.Tab = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 2)

	t.TabActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Teal).
		Padding(0, 2)

	// Chat
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1).
		MarginLeft(4)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 1).
		MarginRight(4)

	t.ErrorBubble = lipgloss.NewStyle().
		Foreground(ErrorBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Padding(0, 1).
		MarginRight(4)

	t.RoleLabel = lipgloss.NewStyle().Bold(true).Foreground(TextSecondary)
	t.Timestamp = lipgloss.NewStyle().Foreground(TextMuted)
	t.TypingCursor = lipgloss.NewStyle().Foreground(Violet).Blink(true)
	t.ThinkingText = lipgloss.NewStyle().Foreground(Amber).Italic(true)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay)

	t.QuickAction = lipgloss.NewStyle().Foreground(TextSecondary)
	t.QuickActionKey = lipgloss.NewStyle().Bold(true).Foreground(Teal)

	// Analysis panel
	t.Panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.PanelTitle = lipgloss.NewStyle().Bold(true).Foreground(Teal)
	t.StatusIdle = lipgloss.NewStyle().Foreground(TextSecondary)
	t.StatusAnalyzing = lipgloss.NewStyle().Foreground(Amber).Bold(true)
	t.StatusComplete = lipgloss.NewStyle().Foreground(Emerald).Bold(true)
	t.StatusError = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	t.Accuracy = lipgloss.NewStyle().Foreground(Emerald).Bold(true)

	t.SectionHeading = lipgloss.NewStyle().
		Bold(true).
		Foreground(Violet).
		MarginTop(1)

	t.SectionBody = lipgloss.NewStyle().Foreground(TextPrimary)
	t.ListNumber = lipgloss.NewStyle().Foreground(Violet).Bold(true)
	t.FieldName = lipgloss.NewStyle().Foreground(TextSecondary).Bold(true)
	t.Placeholder = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	// Intake form
	t.FormLabel = lipgloss.NewStyle().Foreground(TextSecondary)
	t.FormLabelFocus = lipgloss.NewStyle().Foreground(Teal).Bold(true)
	t.FormRequired = lipgloss.NewStyle().Foreground(Rose)
	t.FormHint = lipgloss.NewStyle().Foreground(TextMuted)
	t.Option = lipgloss.NewStyle().Foreground(TextSecondary)
	t.OptionSelected = lipgloss.NewStyle().Foreground(Teal).Bold(true)

	t.Button = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Overlay).
		Padding(0, 2)

	t.ButtonFocus = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Teal).
		Padding(0, 2)

	// Overlays
	toast := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		Padding(0, 1)

	t.ToastSuccess = toast.BorderForeground(Emerald).Foreground(Emerald)
	t.ToastError = toast.BorderForeground(Rose).Foreground(Rose)
	t.ToastInfo = toast.BorderForeground(Blue).Foreground(Blue)

	t.Modal = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(RoseDeep).
		Padding(1, 3)

	t.ModalTitle = lipgloss.NewStyle().Bold(true).Foreground(Rose)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().Bold(true).Foreground(Teal)
	t.ShortcutDesc = lipgloss.NewStyle().Foreground(TextMuted)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// ContentWidth is the usable width inside the app padding, never below 20.
func (t *Theme) ContentWidth() int {
	w := t.Width - 4
	if w < 20 {
		return 20
	}
	return w
}
