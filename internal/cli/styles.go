package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/setevik/miniutils/internal/text"
)

type styles struct {
	Title lipgloss.Style
	Label lipgloss.Style
	Faint lipgloss.Style
	Warn  lipgloss.Style
}

func defaultStyles() styles {
	base := lipgloss.NewStyle()
	return styles{
		Title: base.Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		Label: base.Foreground(lipgloss.Color("#A3A3A3")),
		Faint: base.Faint(true),
		Warn:  base.Foreground(lipgloss.Color("#F59E0B")),
	}
}

// printer writes to a command's output, styling it only when that output
// is a terminal.
type printer struct {
	w      io.Writer
	styled bool
	st     styles
}

func newPrinter(w io.Writer) *printer {
	p := &printer{w: w, st: defaultStyles()}
	if f, ok := w.(*os.File); ok {
		p.styled = term.IsTerminal(int(f.Fd()))
	}
	return p
}

func (p *printer) render(style lipgloss.Style, s string) string {
	if !p.styled {
		return s
	}
	return style.Render(s)
}

func (p *printer) title(s string) {
	fmt.Fprintln(p.w, p.render(p.st.Title, s))
}

// field prints an aligned "label: value" line.
func (p *printer) field(label string, value any) {
	fmt.Fprintf(p.w, "%s %s\n", p.render(p.st.Label, fmt.Sprintf("%-10s", label+":")), text.Display(value))
}

func (p *printer) line(a ...any) {
	fmt.Fprintln(p.w, a...)
}

func (p *printer) faint(s string) {
	fmt.Fprintln(p.w, p.render(p.st.Faint, s))
}

func (p *printer) warn(s string) {
	fmt.Fprintln(p.w, p.render(p.st.Warn, s))
}
