package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// ANSI 256 palette for broad terminal compatibility.
var (
	colorSuccess   = lipgloss.Color("10")
	colorWarning   = lipgloss.Color("11")
	colorError     = lipgloss.Color("9")
	colorMuted     = lipgloss.Color("8")
	colorHighlight = lipgloss.Color("14")
	colorWhite     = lipgloss.Color("15")
)

var (
	styleError   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	styleWarning = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	styleSuccess = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	styleHelp    = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	styleInfo    = lipgloss.NewStyle().Foreground(colorHighlight)
	styleCode    = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	styleDim     = lipgloss.NewStyle().Foreground(colorMuted)
	styleHeader  = lipgloss.NewStyle().Bold(true)
)

// Badge styles for status indicators.
var (
	badgeOK = lipgloss.NewStyle().
		Background(colorSuccess).
		Foreground(lipgloss.Color("0")).
		Padding(0, 1).
		Bold(true)

	badgeWarn = lipgloss.NewStyle().
			Background(colorWarning).
			Foreground(lipgloss.Color("0")).
			Padding(0, 1).
			Bold(true)

	badgeFail = lipgloss.NewStyle().
			Background(colorError).
			Foreground(colorWhite).
			Padding(0, 1).
			Bold(true)
)

// Panel styles for boxed summaries.
var (
	panelSuccess = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSuccess).
			Padding(1, 2)

	panelError = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorError).
			Padding(1, 2)
)

// Error returns text styled as an error label.
func Error(s string) string {
	if !EnableColors() {
		return s
	}
	return styleError.Render(s)
}

// Warning returns text styled as a warning label.
func Warning(s string) string {
	if !EnableColors() {
		return s
	}
	return styleWarning.Render(s)
}

// Success returns text styled as a success message.
func Success(s string) string {
	if !EnableColors() {
		return s
	}
	return styleSuccess.Render(s)
}

// Help returns text styled as a help hint.
func Help(s string) string {
	if !EnableColors() {
		return s
	}
	return styleHelp.Render(s)
}

// Info returns text styled as informational text.
func Info(s string) string {
	if !EnableColors() {
		return s
	}
	return styleInfo.Render(s)
}

// Code returns text styled as an error code (e.g. E3001).
func Code(s string) string {
	if !EnableColors() {
		return s
	}
	return styleCode.Render(s)
}

// Dim returns de-emphasized text.
func Dim(s string) string {
	if !EnableColors() {
		return s
	}
	return styleDim.Render(s)
}

// Header returns bold header text.
func Header(s string) string {
	if !EnableColors() {
		return s
	}
	return styleHeader.Render(s)
}

// OKBadge renders a success status badge.
func OKBadge(text string) string {
	return renderBadge(text, badgeOK)
}

// WarnBadge renders a warning status badge.
func WarnBadge(text string) string {
	return renderBadge(text, badgeWarn)
}

// FailBadge renders a failure status badge.
func FailBadge(text string) string {
	return renderBadge(text, badgeFail)
}

func renderBadge(text string, style lipgloss.Style) string {
	if !EnableColors() {
		return "[" + text + "]"
	}
	return style.Render(text)
}

// SuccessPanel renders a titled success summary.
func SuccessPanel(title, content string) string {
	if !EnableColors() {
		return fmt.Sprintf("✓ %s\n%s", title, content)
	}
	t := lipgloss.NewStyle().Bold(true).Foreground(colorSuccess).Render("✓ " + title)
	return panelSuccess.Render(t + "\n\n" + content)
}

// ErrorPanel renders a titled failure summary.
func ErrorPanel(title, content string) string {
	if !EnableColors() {
		return fmt.Sprintf("✗ %s\n%s", title, content)
	}
	t := lipgloss.NewStyle().Bold(true).Foreground(colorError).Render("✗ " + title)
	return panelError.Render(t + "\n\n" + content)
}
