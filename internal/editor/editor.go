// Package editor opens a diagnostic's location in an external editor.
package editor

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// DefaultGotoArgs puts VS Code in "open at location, reuse window" mode.
var DefaultGotoArgs = []string{"--reuse-window", "--goto"}

// DefaultCommand returns the editor used when none is configured.
func DefaultCommand() string {
	if runtime.GOOS == "windows" {
		return "code.cmd"
	}
	return "code"
}

// Editor launches an editor at a file location without waiting for it.
type Editor struct {
	editorCmd string   // Editor command, may carry its own arguments
	gotoArgs  []string // Flags placed before the locator
	logger    hclog.Logger

	// Dir is the editor's working directory, so relative locators resolve the
	// same way they did for the path check.
	Dir string
}

// New returns an Editor. An empty editorCmd falls back to DefaultCommand and
// nil gotoArgs to DefaultGotoArgs.
func New(editorCmd string, gotoArgs []string, logger hclog.Logger) *Editor {
	if strings.TrimSpace(editorCmd) == "" {
		editorCmd = DefaultCommand()
	}
	if gotoArgs == nil {
		gotoArgs = DefaultGotoArgs
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Editor{editorCmd: editorCmd, gotoArgs: gotoArgs, logger: logger}
}

// Command returns the editor command being used.
func (e *Editor) Command() string {
	return e.editorCmd
}

// Argv returns the full command line Open would run for locator.
func (e *Editor) Argv(locator string) []string {
	parts := strings.Fields(e.editorCmd)
	argv := make([]string, 0, len(parts)+len(e.gotoArgs)+1)
	argv = append(argv, parts...)
	argv = append(argv, e.gotoArgs...)
	return append(argv, locator)
}

// Open starts the editor at locator, e.g. "src/a.c:10:3:". The locator is
// passed through untouched; the editor parses the line and column itself.
// The process is detached and reaped in the background; only a failure to
// start it is reported.
func (e *Editor) Open(locator string) error {
	argv := e.Argv(locator)
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = e.Dir
	detach(cmd)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting editor %q: %w", argv[0], err)
	}
	e.logger.Debug("editor started", "argv", argv, "pid", cmd.Process.Pid)

	go func() {
		if err := cmd.Wait(); err != nil {
			e.logger.Debug("editor exited", "error", err)
		}
	}()
	return nil
}
