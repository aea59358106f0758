// Package console prints the wrapper's own status lines between lines of
// build output.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Console writes build output verbatim and status lines in colour.
type Console struct {
	out   io.Writer
	theme Theme
}

// New returns a console writing to out. Colours are dropped when noColor is
// set or when out is not a terminal.
func New(out io.Writer, noColor bool) *Console {
	if out == nil {
		out = os.Stdout
	}
	theme := MonoTheme()
	if !noColor {
		theme = DefaultTheme(lipgloss.NewRenderer(out))
	}
	return &Console{out: out, theme: theme}
}

// WithTheme returns a console using theme instead of the detected one.
func WithTheme(out io.Writer, theme Theme) *Console {
	return &Console{out: out, theme: theme}
}

// Writer returns the underlying writer.
func (c *Console) Writer() io.Writer {
	return c.out
}

// Echo writes a line of child output unmodified.
func (c *Console) Echo(line string) {
	_, _ = fmt.Fprintln(c.out, line)
}

// Info prints a command about to run or a skip notice.
func (c *Console) Info(msg string) {
	c.print(c.theme.Info, msg)
}

// Success prints a completion line.
func (c *Console) Success(msg string) {
	c.print(c.theme.Success, msg)
}

// Warning prints a non-fatal problem.
func (c *Console) Warning(msg string) {
	c.print(c.theme.Warning, msg)
}

// Error prints a failure.
func (c *Console) Error(msg string) {
	c.print(c.theme.Error, msg)
}

// Muted prints secondary detail.
func (c *Console) Muted(msg string) {
	c.print(c.theme.Muted, msg)
}

func (c *Console) print(style lipgloss.Style, msg string) {
	_, _ = fmt.Fprintln(c.out, style.Render(msg))
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w any) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// NoColorFromEnv reports whether NIN_NO_COLOR or NO_COLOR asks for plain output.
func NoColorFromEnv() bool {
	for _, key := range []string{"NIN_NO_COLOR", "NO_COLOR"} {
		if os.Getenv(key) != "" {
			return true
		}
	}
	return false
}
