// Package tui renders calculation results as styled terminal output and
// an interactive shipment browser.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// OutputMode selects how results are rendered to the terminal.
type OutputMode int

const (
	// OutputModePlain renders unstyled text, safe for pipes and files.
	OutputModePlain OutputMode = iota
	// OutputModeStyled renders static styled output.
	OutputModeStyled
	// OutputModeInteractive runs the full-screen browser.
	OutputModeInteractive
)

// defaultTerminalWidth is assumed when the real width is unavailable.
const defaultTerminalWidth = 80

// DetectOutputMode picks the rendering mode for the current terminal.
// plain forces unstyled output, noColor disables styling (as does the
// NO_COLOR convention), and interactive requests the full-screen
// browser. Anything but plain output requires a terminal on stdout.
func DetectOutputMode(plain, noColor, interactive bool) OutputMode {
	if plain {
		return OutputModePlain
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return OutputModePlain
	}
	if interactive {
		return OutputModeInteractive
	}
	if noColor || os.Getenv("NO_COLOR") != "" {
		return OutputModePlain
	}
	return OutputModeStyled
}

// TerminalWidth returns the current terminal width, or a conventional
// default when stdout is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultTerminalWidth
	}
	return width
}

// Styles shared by the summary box, the detail view, and the table.
//
//nolint:gochecknoglobals // Lip Gloss styles are package-level by convention.
var (
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	LabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	ValueStyle   = lipgloss.NewStyle().Bold(true)
	SubtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	InfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	BoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

	TableHeaderStyle = lipgloss.NewStyle().Bold(true).
				BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)
	TableSelectedStyle = lipgloss.NewStyle().Bold(true).
				Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
)
