package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme bundles styles, status marks and the panel border.
// All UI helpers pull from `current`.
type Theme struct {
	Name string

	Title, Success, Pending, Accent, Muted, Error lipgloss.Style
	Selected, Done, Cancelled, Help               lipgloss.Style

	Border      lipgloss.Border
	BorderColor lipgloss.Color

	SymOK, SymFail                    string
	SymOpen, SymSettled, SymCancelled string
	BarFull, BarEmpty                 string
}

var current = classic()

var asciiBorder = lipgloss.Border{
	Top: "-", Bottom: "-", Left: "|", Right: "|",
	TopLeft: "+", TopRight: "+", BottomLeft: "+", BottomRight: "+",
}

func classic() Theme {
	return Theme{
		Name:        "classic",
		Title:       lipgloss.NewStyle().Bold(true),
		Success:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Pending:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Accent:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Muted:       lipgloss.NewStyle().Faint(true),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Selected:    lipgloss.NewStyle().Bold(true).Reverse(true),
		Done:        lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Cancelled:   lipgloss.NewStyle().Faint(true).Italic(true),
		Help:        lipgloss.NewStyle().Faint(true),
		Border:      lipgloss.RoundedBorder(),
		BorderColor: lipgloss.Color("8"),
		SymOK:       "✔", SymFail: "✖",
		SymOpen: "☐", SymSettled: "☑", SymCancelled: "☒",
		BarFull: "█", BarEmpty: "░",
	}
}

// SetTheme switches the palette. Unknown names fall back to classic.
func SetTheme(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "neon":
		t := classic()
		t.Name = "neon"
		t.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
		t.Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
		t.Pending = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
		t.BorderColor = lipgloss.Color("13")
		t.SymOpen, t.SymSettled, t.SymCancelled = "◻", "◼", "◇"
		current = t
	case "mono":
		plain := lipgloss.NewStyle()
		current = Theme{
			Name:  "mono",
			Title: plain, Success: plain, Pending: plain, Accent: plain, Muted: plain, Error: plain,
			Selected: plain, Done: plain, Cancelled: plain, Help: plain,
			Border: asciiBorder,
			SymOK:  "ok", SymFail: "error:",
			SymOpen: "[ ]", SymSettled: "[x]", SymCancelled: "[-]",
			BarFull: "#", BarEmpty: ".",
		}
	default:
		current = classic()
	}
}

// Current returns the active theme.
func Current() Theme { return current }

// SetColor forces color on or off regardless of what the terminal reports.
// Neither flag set leaves detection to lipgloss.
func SetColor(force, disable bool) {
	switch {
	case disable:
		lipgloss.SetColorProfile(termenv.Ascii)
	case force:
		lipgloss.SetColorProfile(termenv.ANSI256)
	}
}
