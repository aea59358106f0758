package buildtool

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/dkoosis/nin/internal/session"
)

// ErrNoTargets is returned when ninja lists no targets.
var ErrNoTargets = errors.New("ninja found no targets")

// Ninja wraps the ninja build runner. Commands run with -C BuildDir.
type Ninja struct {
	Exe      string
	BuildDir string
}

// NewNinja returns a Ninja for buildDir using exe, or "ninja" when empty.
func NewNinja(exe, buildDir string) *Ninja {
	if exe == "" {
		exe = "ninja"
	}
	return &Ninja{Exe: exe, BuildDir: buildDir}
}

func (n *Ninja) Build(target string) session.Command {
	return command(n.Exe, "-C", n.BuildDir, target)
}

func (n *Ninja) Clean(string) session.Command {
	return command(n.Exe, "-C", n.BuildDir, "clean")
}

// WorkDir is the build directory; ninja runs compilers from there.
func (n *Ninja) WorkDir() string {
	return n.BuildDir
}

// Targets lists the targets ninja knows in BuildDir.
func (n *Ninja) Targets(ctx context.Context) ([]string, error) {
	c := command(n.Exe, "-C", n.BuildDir, "-t", "targets")
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("listing ninja targets in %s: %w: %s", n.BuildDir, err, msg)
		}
		return nil, fmt.Errorf("listing ninja targets in %s: %w", n.BuildDir, err)
	}
	targets := ParseTargets(bytes.NewReader(out))
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w in directory %s", ErrNoTargets, n.BuildDir)
	}
	return targets, nil
}

// ParseTargets reads `ninja -t targets` output ("name: rule" per line) and
// returns the names in order.
func ParseTargets(r io.Reader) []string {
	var targets []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		name, _, _ := strings.Cut(scanner.Text(), ":")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		targets = append(targets, name)
	}
	return targets
}
