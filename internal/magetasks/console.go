package magetasks

import (
	"fmt"
	"os"
	"strings"

	"github.com/dkoosis/nin/internal/console"
)

var out = console.New(os.Stdout, console.NoColorFromEnv() || !console.IsTerminal(os.Stdout))

// PrintH1Header prints a top-level header with decoration.
func PrintH1Header(title string) {
	width := 80
	fmt.Fprintln(out.Writer())
	out.Info(strings.Repeat("=", width))
	padding := max((width-len(title))/2, 0)
	out.Info(strings.Repeat(" ", padding) + title)
	out.Info(strings.Repeat("=", width))
	fmt.Fprintln(out.Writer())
}

// PrintH2Header prints a section header.
func PrintH2Header(title string) {
	fmt.Fprintln(out.Writer())
	out.Info(fmt.Sprintf("=== %s ===", title))
	fmt.Fprintln(out.Writer())
}

// PrintSuccess prints a success message.
func PrintSuccess(msg string) {
	out.Success("✅ " + msg)
}

// PrintWarning prints a warning message.
func PrintWarning(msg string) {
	out.Warning("⚠️  " + msg)
}

// PrintError prints an error message.
func PrintError(msg string) {
	out.Error("❌ " + msg)
}

// PrintInfo prints an info message.
func PrintInfo(msg string) {
	out.Muted("ℹ️  " + msg)
}
