// Package cli builds the nin and cb commands. Both resolve a target, run an
// optional clean, then hand the build to a session that stops at the first
// diagnostic past the skip budget.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dkoosis/nin/internal/buildtool"
	"github.com/dkoosis/nin/internal/cache"
	"github.com/dkoosis/nin/internal/config"
	"github.com/dkoosis/nin/internal/console"
	"github.com/dkoosis/nin/internal/diag"
	"github.com/dkoosis/nin/internal/editor"
	"github.com/dkoosis/nin/internal/logging"
	"github.com/dkoosis/nin/internal/picker"
	"github.com/dkoosis/nin/internal/session"
	"github.com/dkoosis/nin/internal/version"
)

// Exit codes besides those reported by the build session.
const (
	ExitOK    = 0
	ExitFail  = 1
	ExitUsage = 2
)

// Env is what a command talks to.
type Env struct {
	Stdout io.Writer
	Stderr io.Writer

	// Interactive reports whether a terminal is attached for the picker.
	Interactive bool

	// Select presents targets and returns the chosen one.
	Select func(ctx context.Context, title string, targets []string) (string, error)
}

// DefaultEnv uses the process's standard streams and the bubbletea picker.
func DefaultEnv() Env {
	return Env{
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Interactive: console.IsTerminal(os.Stdin) && console.IsTerminal(os.Stdout),
		Select: func(ctx context.Context, title string, targets []string) (string, error) {
			return picker.Select(ctx, title, targets)
		},
	}
}

// exitError carries an exit code out of cobra. Its message has already been
// shown to the user.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit code %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func exitWith(code int, err error) error {
	return &exitError{code: code, err: err}
}

// Execute runs cmd with args and returns the process exit code.
func Execute(ctx context.Context, cmd *cobra.Command, args []string) int {
	if args == nil {
		// cobra falls back to os.Args for a nil slice
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}

	// Anything else comes from argument parsing.
	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "%s: %v\n", cmd.Name(), err)
	fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", cmd.Name())
	return ExitUsage
}

// options holds the flags shared by nin and cb.
type options struct {
	cacheDir         string
	clean            bool
	warningsAsErrors bool
	skip             int
	editor           string
	noColor          bool
	debug            bool
	buildDir         string // nin only
}

func (o *options) addCommonFlags(fs *pflag.FlagSet, cacheHelp string) {
	fs.StringVar(&o.cacheDir, "cache_dir", "", cacheHelp)
	fs.BoolVarP(&o.clean, "clean", "c", false, "Clean out the build directory before building")
	fs.BoolVarP(&o.warningsAsErrors, "warnings-as-errors", "w", false, "Treat warnings as errors")
	fs.IntVarP(&o.skip, "skip", "s", 0, "Skip the first N detected issues")
	fs.StringVar(&o.editor, "editor", "", "Editor command used to jump to the issue (default \"code\")")
	fs.BoolVar(&o.noColor, "no-color", false, "Disable coloured status lines")
	fs.BoolVar(&o.debug, "debug", false, "Enable debug logging on stderr")
}

// cliFlags converts the flags the user actually gave.
func (o *options) cliFlags(fs *pflag.FlagSet) config.CliFlags {
	var f config.CliFlags
	if fs.Changed("editor") {
		f.Editor = &o.editor
	}
	if fs.Changed("build-dir") {
		f.BuildDir = &o.buildDir
	}
	if fs.Changed("cache_dir") {
		f.CacheDir = &o.cacheDir
	}
	if fs.Changed("skip") {
		f.Skip = &o.skip
	}
	if fs.Changed("warnings-as-errors") {
		f.WarningsAsErrors = &o.warningsAsErrors
	}
	if fs.Changed("no-color") {
		f.NoColor = &o.noColor
	}
	f.Debug = o.debug
	return f
}

// newRoot applies the settings both commands share.
func newRoot(cmd *cobra.Command, env Env) *cobra.Command {
	cmd.Version = version.String()
	cmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetOut(env.Stdout)
	cmd.SetErr(env.Stderr)
	return cmd
}

// app is one invocation's resolved configuration and outputs.
type app struct {
	env    Env
	cfg    *config.Config
	con    *console.Console
	logger hclog.Logger
}

func newApp(cmd *cobra.Command, env Env, opts *options) (*app, error) {
	cfg, err := config.Resolve(opts.cliFlags(cmd.Flags()))
	if err != nil {
		con := console.New(env.Stdout, true)
		con.Error(err.Error())
		return nil, exitWith(ExitUsage, err)
	}

	noColor := cfg.NoColor || !console.IsTerminal(env.Stdout)
	logger := logging.New(logging.Options{
		Name:   cmd.Name(),
		Level:  cfg.LogLevel,
		Debug:  cfg.Debug,
		Output: env.Stderr,
		Color:  !noColor && console.IsTerminal(env.Stderr),
	})
	logger.Debug("configuration resolved",
		"path", cfg.Path,
		"editor", cfg.Editor, "editor_source", cfg.SourceOf("editor"),
		"skip", cfg.Skip, "skip_source", cfg.SourceOf("skip"))

	return &app{
		env:    env,
		cfg:    cfg,
		con:    console.New(env.Stdout, noColor),
		logger: logger,
	}, nil
}

// rememberTarget stores an explicit target or loads the cached one.
func (a *app) rememberTarget(c *cache.Cache, target, missingMsg string) (string, error) {
	resolved, err := c.Update(target)
	if errors.Is(err, cache.ErrNoTarget) {
		a.con.Error(missingMsg)
		return "", exitWith(ExitFail, err)
	}
	if err != nil {
		a.con.Error(err.Error())
		return "", exitWith(ExitFail, err)
	}
	a.logger.Debug("target resolved", "target", resolved, "cache", c.Path())
	return resolved, nil
}

// build runs the optional clean step and then the build session.
func (a *app) build(ctx context.Context, tool buildtool.Tool, target string, clean bool) error {
	if clean {
		err := session.RunStep(ctx, tool.Clean(target), a.con, a.env.Stderr)
		switch {
		case errors.Is(err, session.ErrStart):
			a.con.Error(err.Error())
			return exitWith(startExitCode(err), err)
		case err != nil:
			a.logger.Warn("clean failed", "error", err)
			a.con.Warning(fmt.Sprintf("Clean failed: %v", err))
		}
	}

	sev := diag.SeverityFor(a.cfg.WarningsAsErrors)
	ed := editor.New(a.cfg.Editor, a.cfg.EditorArgs, a.logger.Named("editor"))
	ed.Dir = tool.WorkDir()

	s := session.New(session.Config{
		Command:    tool.Build(target),
		Severity:   sev,
		SkipIssues: a.cfg.Skip,
		Resolver:   diag.NewPrefixResolver(tool.WorkDir()),
		Opener:     ed,
		Console:    a.con,
		Logger:     a.logger.Named("session"),
		Stderr:     a.env.Stderr,
	})

	res, err := s.Run(ctx)
	if err != nil {
		code := ExitFail
		if res != nil {
			code = res.ExitCode
		}
		if ctx.Err() != nil {
			a.con.Error("Interrupted")
		} else {
			a.con.Error(err.Error())
		}
		return exitWith(code, err)
	}

	a.logger.Debug("build finished",
		"state", res.State.String(), "issues", res.Issues,
		"exit_code", res.ExitCode, "elapsed", res.Elapsed)

	if res.State == session.Terminated {
		a.con.Error(fmt.Sprintf("%s found, build stopped", sev.Title()))
	}
	if res.ExitCode != ExitOK {
		return exitWith(res.ExitCode, nil)
	}
	return nil
}

func startExitCode(err error) int {
	if session.IsCommandNotFound(err) {
		return session.ExitNotFound
	}
	return ExitFail
}
