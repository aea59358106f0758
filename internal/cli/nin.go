package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dkoosis/nin/internal/buildtool"
	"github.com/dkoosis/nin/internal/cache"
	"github.com/dkoosis/nin/internal/picker"
)

const ninMissingTarget = "No target specified and no cache found. " +
	"Use -t, --target or -i, --interactive-target-selection"

type ninOptions struct {
	options
	target      string
	interactive bool
}

// NewNinCommand returns the nin root command, a ninja wrapper.
func NewNinCommand(env Env) *cobra.Command {
	opts := &ninOptions{}
	cmd := newRoot(&cobra.Command{
		Use:   "nin",
		Short: "Run ninja and jump to the first compiler error",
		Long: `nin runs ninja, echoes its output and stops at the first compiler error,
opening its location in the editor. The target is remembered for the next run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runNin(cmd, env, opts)
		},
	}, env)

	fs := cmd.Flags()
	opts.addCommonFlags(fs, "Cache root; state is kept in <DIR>/.nin/ (default: the build directory)")
	fs.StringVarP(&opts.buildDir, "build-dir", "b", "build", "Directory where ninja build files are located")
	fs.StringVarP(&opts.target, "target", "t", "", "Target to build (default: the last target built)")
	fs.BoolVarP(&opts.interactive, "interactive-target-selection", "i", false,
		"Select a target to build from the list of available targets")
	cmd.MarkFlagsMutuallyExclusive("target", "interactive-target-selection")
	return cmd
}

func runNin(cmd *cobra.Command, env Env, opts *ninOptions) error {
	a, err := newApp(cmd, env, &opts.options)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	ninja := buildtool.NewNinja(a.cfg.Ninja, a.cfg.BuildDir)

	target := opts.target
	if opts.interactive {
		var done bool
		target, done, err = a.selectTarget(cmd, ninja)
		if done || err != nil {
			return err
		}
	}

	cacheRoot := a.cfg.CacheDir
	if cacheRoot == "" {
		cacheRoot = a.cfg.BuildDir
	}
	c := cache.New(cacheRoot, ".nin", "last_target", a.logger.Named("cache"))
	target, err = a.rememberTarget(c, target, ninMissingTarget)
	if err != nil {
		return err
	}

	return a.build(ctx, ninja, target, opts.clean)
}

// selectTarget lists ninja's targets and lets the user pick one. done is set
// when there is nothing to build and the command should end successfully.
func (a *app) selectTarget(cmd *cobra.Command, ninja *buildtool.Ninja) (string, bool, error) {
	if !a.env.Interactive || a.env.Select == nil {
		err := errors.New("interactive target selection needs a terminal")
		a.con.Error(err.Error())
		return "", false, exitWith(ExitUsage, err)
	}

	targets, err := ninja.Targets(cmd.Context())
	switch {
	case errors.Is(err, buildtool.ErrNoTargets):
		a.con.Error(fmt.Sprintf("ninja found no targets in directory %s", ninja.BuildDir))
		return "", true, nil
	case err != nil:
		a.con.Error(err.Error())
		return "", false, exitWith(startExitCode(err), err)
	}

	target, err := a.env.Select(cmd.Context(), "Select a target to build", targets)
	switch {
	case errors.Is(err, picker.ErrNoSelection):
		a.con.Error("No target selected")
		return "", true, nil
	case err != nil:
		a.con.Error(err.Error())
		return "", false, exitWith(ExitFail, err)
	}
	return target, false, nil
}
