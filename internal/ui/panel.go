package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes user-facing output. Results go to Out, failures to Err.
type Printer struct {
	Out io.Writer
	Err io.Writer
}

// NewPrinter returns a printer on the given writers, defaulting to stdout/stderr.
func NewPrinter(out, errOut io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &Printer{Out: out, Err: errOut}
}

func (p *Printer) OK(msg string) {
	t := Current()
	fmt.Fprintln(p.Out, t.Success.Render(t.SymOK+" "+msg))
}

func (p *Printer) Fail(msg string) {
	t := Current()
	fmt.Fprintln(p.Err, t.Error.Render(t.SymFail+" "+msg))
}

func (p *Printer) Println(a ...any) { fmt.Fprintln(p.Out, a...) }

func (p *Printer) Printf(format string, a ...any) { fmt.Fprintf(p.Out, format, a...) }

// Panel prints lines inside a framed box.
func (p *Printer) Panel(lines []string) {
	fmt.Fprintln(p.Out, PanelString(strings.Join(lines, "\n")))
}

// PanelString frames inner with the theme border.
func PanelString(inner string) string {
	t := Current()
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1).
		Render(inner)
}

// ProgressBar renders "[███░░] done/total".
func ProgressBar(done, total, width int) string {
	t := Current()
	if width <= 0 {
		width = 28
	}
	filled := 0
	if total > 0 {
		filled = int(float64(done) / float64(total) * float64(width))
	}
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat(t.BarFull, filled) + strings.Repeat(t.BarEmpty, width-filled) + fmt.Sprintf("] %d/%d", done, total)
}
