package cli

import (
	"github.com/spf13/cobra"

	"github.com/dkoosis/nin/internal/buildtool"
	"github.com/dkoosis/nin/internal/cache"
)

// DefaultCBCacheRoot is where cb keeps state unless --cache_dir says otherwise.
const DefaultCBCacheRoot = ".devlocal"

const cbMissingProject = "No project file specified and no cache found. " +
	"Pass the path to a .csolution.yml file"

// NewCBCommand returns the cb root command, a cbuild wrapper.
func NewCBCommand(env Env) *cobra.Command {
	opts := &options{}
	cmd := newRoot(&cobra.Command{
		Use:   "cb [csolution.yml]",
		Short: "Run cbuild and jump to the first compiler error",
		Long: `cb runs cbuild on a CMSIS solution, echoes its output and stops at the first
compiler error, opening its location in the editor. Without a project file the
last one built is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCB(cmd, env, opts, args)
		},
	}, env)

	opts.addCommonFlags(cmd.Flags(), "Cache root; state is kept in <PATH>/.cb/ (default \".devlocal\")")
	return cmd
}

func runCB(cmd *cobra.Command, env Env, opts *options, args []string) error {
	a, err := newApp(cmd, env, opts)
	if err != nil {
		return err
	}

	var project string
	if len(args) > 0 {
		project = args[0]
	}

	cacheRoot := a.cfg.CacheDir
	if cacheRoot == "" {
		cacheRoot = DefaultCBCacheRoot
	}
	c := cache.New(cacheRoot, ".cb", "last_csolution_yml", a.logger.Named("cache"))
	project, err = a.rememberTarget(c, project, cbMissingProject)
	if err != nil {
		return err
	}

	return a.build(cmd.Context(), buildtool.NewCBuild(a.cfg.CBuild), project, opts.clean)
}
