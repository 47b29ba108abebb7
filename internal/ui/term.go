package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Clock times: cyan
	colorTime = color.New(color.FgCyan)

	// Recurring tasks: yellow tag
	colorRepeat = color.New(color.FgYellow)

	// Completed checklists and secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)

	// Counts and positive confirmations
	colorStats = color.New(color.FgGreen)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatTime formats a clock time.
func formatTime(s string) string {
	return colorTime.Sprint(s)
}

// formatRepeat formats a recurrence tag.
func formatRepeat(s string) string {
	return colorRepeat.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

// formatStats formats text for counts and confirmations.
func formatStats(s string) string {
	return colorStats.Sprint(s)
}
