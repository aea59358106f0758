// Package session runs a build tool, echoes its output and stops it at the
// first diagnostic past the skip budget, opening that location in an editor.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hashicorp/go-hclog"

	"github.com/dkoosis/nin/internal/console"
	"github.com/dkoosis/nin/internal/diag"
)

// WaitDelay bounds how long Wait blocks on output pipes after the child exits
// or is killed.
const WaitDelay = 2 * time.Second

// Exit codes reported in Result.ExitCode besides the child's own.
const (
	ExitTerminated  = 1
	ExitNotFound    = 127
	ExitInterrupted = 130
)

var (
	// ErrStart is returned when the build tool cannot be started.
	ErrStart = errors.New("failed to start build tool")

	// ErrNonZeroExit is returned by RunStep when the command exits non-zero.
	ErrNonZeroExit = errors.New("command exited with non-zero code")

	// ErrAlreadyRun is returned when Run is called on a used session.
	ErrAlreadyRun = errors.New("session already run")
)

// ExitCodeError wraps an exit code for programmatic access.
type ExitCodeError struct {
	Code int
}

func (e ExitCodeError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// Command is a build tool invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
}

// String returns the command line as shown in status lines.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Opener jumps to a diagnostic location. editor.Editor implements it.
type Opener interface {
	Open(locator string) error
}

// State is a session's lifecycle position.
type State int

const (
	Idle State = iota
	Running
	Completed
	Terminated
	Cancelled
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Terminated:
		return "terminated"
	case Cancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

// Config configures a Session.
type Config struct {
	Command  Command
	Severity diag.Severity

	// SkipIssues is the number of matching diagnostics to ignore. The session
	// acts on diagnostic SkipIssues+1; zero acts on the first.
	SkipIssues int

	Resolver diag.Resolver // defaults to a PrefixResolver in Command.Dir
	Opener   Opener        // nil disables the editor jump
	Console  *console.Console
	Logger   hclog.Logger
	Stderr   io.Writer // child stderr, defaults to os.Stderr
}

// Result describes how a session ended.
type Result struct {
	State    State
	Issues   int
	Elapsed  time.Duration
	ExitCode int

	// Location is the diagnostic token handed to the editor, if any.
	Location string
}

// Session is a single run of the build tool.
type Session struct {
	cfg   Config
	state State
}

// New returns an idle session.
func New(cfg Config) *Session {
	return &Session{cfg: normalizeConfig(cfg)}
}

// State returns the session's current state.
func (s *Session) State() State {
	return s.state
}

// Run starts the build tool and streams its stdout line by line. Each line is
// echoed before it is scanned. The session ends in one of three ways:
//
//   - Terminated: a diagnostic exceeded the skip budget. The child's process
//     group is killed without draining its output; ExitCode is 1.
//   - Completed: stdout reached EOF. ExitCode is the child's exit code.
//   - Cancelled: ctx ended. The child is killed; ExitCode is 130 and the
//     context error is returned.
//
// A tool that cannot be started yields an error wrapping ErrStart.
func (s *Session) Run(ctx context.Context) (*Result, error) {
	if s.state != Idle {
		return nil, ErrAlreadyRun
	}
	cfg := s.cfg
	res := &Result{State: Idle}

	cmd := exec.CommandContext(ctx, cfg.Command.Name, cfg.Command.Args...)
	cmd.Dir = cfg.Command.Dir
	cmd.Stderr = cfg.Stderr
	cmd.WaitDelay = WaitDelay
	setProcessGroup(cmd)
	cmd.Cancel = func() error { return killProcessGroup(cmd) }

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		res.ExitCode = ExitTerminated
		return res, fmt.Errorf("creating stdout pipe: %w", err)
	}

	cfg.Console.Info(cfg.Command.String())
	start := time.Now()
	if err := cmd.Start(); err != nil {
		res.ExitCode = startExitCode(err)
		return res, fmt.Errorf("%w %q: %w", ErrStart, cfg.Command.Name, err)
	}
	s.state = Running
	cfg.Logger.Debug("build started", "cmd", cfg.Command.String(), "pid", cmd.Process.Pid)

	reader := bufio.NewReader(stdout)
	for {
		line, readErr := reader.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			if m, act := s.handleLine(line, res); act {
				s.terminate(cmd, m, res)
				res.Elapsed = time.Since(start)
				return res, nil
			}
		}
		if readErr != nil {
			if !errors.Is(readErr, io.EOF) {
				cfg.Logger.Debug("stdout read ended", "error", readErr)
			}
			break
		}
	}

	waitErr := cmd.Wait()
	res.Elapsed = time.Since(start)

	if ctxErr := ctx.Err(); ctxErr != nil {
		s.state = Cancelled
		res.State = Cancelled
		res.ExitCode = ExitInterrupted
		return res, ctxErr
	}

	res.ExitCode = exitCode(waitErr)
	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		s.state = Completed
		res.State = Completed
		return res, fmt.Errorf("waiting for %s: %w", cfg.Command.Name, waitErr)
	}

	s.state = Completed
	res.State = Completed
	cfg.Console.Success(fmt.Sprintf("Finished in %s", res.Elapsed.Round(time.Millisecond)))
	return res, nil
}

// handleLine echoes and scans one line. It reports the match and whether the
// session should act on it.
func (s *Session) handleLine(line string, res *Result) (diag.Match, bool) {
	cfg := s.cfg
	cfg.Console.Echo(line)

	if !utf8.ValidString(line) {
		cfg.Logger.Debug("skipping scan of non-UTF-8 line")
		return diag.Match{}, false
	}
	m, ok := diag.Scan(line, cfg.Severity)
	if !ok {
		return diag.Match{}, false
	}

	res.Issues++
	if res.Issues <= cfg.SkipIssues {
		cfg.Console.Info(fmt.Sprintf("Skipping %s %d of %d", cfg.Severity, res.Issues, cfg.SkipIssues))
		return m, false
	}
	return m, true
}

// terminate jumps to the diagnostic, then kills and reaps the child.
func (s *Session) terminate(cmd *exec.Cmd, m diag.Match, res *Result) {
	cfg := s.cfg
	s.jump(m, res)

	if err := killProcessGroup(cmd); err != nil {
		cfg.Logger.Debug("kill failed", "error", err)
	}
	_ = cmd.Wait()

	s.state = Terminated
	res.State = Terminated
	res.ExitCode = ExitTerminated
	cfg.Logger.Debug("build terminated", "issues", res.Issues)
}

// jump resolves the token and hands it to the editor. Failures are logged
// and never change the outcome of the session.
func (s *Session) jump(m diag.Match, res *Result) {
	cfg := s.cfg
	path, ok := cfg.Resolver.Resolve(m.Token)
	if !ok {
		cfg.Logger.Debug("no existing path prefix", "token", m.Token)
		return
	}
	cfg.Logger.Debug("resolved diagnostic path", "token", m.Token, "path", path)
	if cfg.Opener == nil {
		return
	}
	if err := cfg.Opener.Open(m.Token); err != nil {
		cfg.Logger.Warn("editor jump failed", "error", err)
		cfg.Console.Warning(fmt.Sprintf("Could not open editor: %v", err))
		return
	}
	res.Location = m.Token
}

// RunStep runs a preliminary command such as a clean with inherited output
// and waits for it. A non-zero exit wraps ErrNonZeroExit and ExitCodeError.
func RunStep(ctx context.Context, c Command, con *console.Console, stderr io.Writer) error {
	if stderr == nil {
		stderr = os.Stderr
	}
	con.Info(c.String())

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdout = con.Writer()
	cmd.Stderr = stderr
	cmd.WaitDelay = WaitDelay
	setProcessGroup(cmd)
	cmd.Cancel = func() error { return killProcessGroup(cmd) }

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w %q: %w", ErrStart, c.Name, err)
	}
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: %w", ErrNonZeroExit, ExitCodeError{Code: exitCode(err)})
		}
		return err
	}
	return nil
}

func normalizeConfig(cfg Config) Config {
	normalized := cfg
	if normalized.Resolver == nil {
		normalized.Resolver = diag.NewPrefixResolver(cfg.Command.Dir)
	}
	if normalized.Console == nil {
		normalized.Console = console.New(os.Stdout, console.NoColorFromEnv())
	}
	if normalized.Logger == nil {
		normalized.Logger = hclog.NewNullLogger()
	}
	if normalized.Stderr == nil {
		normalized.Stderr = os.Stderr
	}
	if normalized.SkipIssues < 0 {
		normalized.SkipIssues = 0
	}
	return normalized
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code, ok := getExitCodeFromError(exitErr); ok && code >= 0 {
			return code
		}
	}
	return 1
}

func startExitCode(err error) int {
	if isCommandNotFoundError(err) {
		return ExitNotFound
	}
	return 1
}

// isCommandNotFoundError checks if the error indicates the command was not found.
func isCommandNotFoundError(err error) bool {
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}
	errStr := err.Error()
	if strings.Contains(errStr, "executable file not found") {
		return true
	}
	if runtime.GOOS != "windows" && strings.Contains(errStr, "no such file or directory") {
		return true
	}
	return false
}

// IsCommandNotFound reports whether err came from a missing executable.
func IsCommandNotFound(err error) bool {
	return err != nil && isCommandNotFoundError(err)
}
