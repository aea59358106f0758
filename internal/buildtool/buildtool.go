// Package buildtool knows the command lines of the wrapped build tools.
package buildtool

import (
	"strings"

	"github.com/dkoosis/nin/internal/session"
)

// Tool describes how to invoke a build tool for a target.
type Tool interface {
	// Build returns the main build invocation, whose stdout is scanned.
	Build(target string) session.Command
	// Clean returns the invocation run before the build when cleaning.
	Clean(target string) session.Command
	// WorkDir is the directory the tool's diagnostic paths are relative to.
	WorkDir() string
}

// command splits exe so a configured executable may carry leading
// arguments, like a wrapper script and its flags.
func command(exe string, args ...string) session.Command {
	parts := strings.Fields(exe)
	if len(parts) == 0 {
		return session.Command{Name: exe, Args: args}
	}
	return session.Command{Name: parts[0], Args: append(parts[1:len(parts):len(parts)], args...)}
}

// CBuild wraps the CMSIS cbuild project builder.
type CBuild struct {
	Exe string
}

// NewCBuild returns a CBuild using exe, or "cbuild" when empty.
func NewCBuild(exe string) *CBuild {
	if exe == "" {
		exe = "cbuild"
	}
	return &CBuild{Exe: exe}
}

func (c *CBuild) Build(project string) session.Command {
	return command(c.Exe, project, "--context-set", "--packs")
}

func (c *CBuild) Clean(project string) session.Command {
	return command(c.Exe, project, "--clean")
}

// WorkDir is the current directory; cbuild reports paths from there.
func (c *CBuild) WorkDir() string {
	return ""
}
