// Package cli contains the command line interface for themeforge.
package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/themeforge/themeforge/cli/cmd"
	"github.com/themeforge/themeforge/pkg"
)

// CLI is the top-level command-line interface for themeforge.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit."`

	Build cmd.Build `cmd:"" default:"withargs" help:"Compile a theme descriptor into a theme archive"`
}

// Run executes the themeforge CLI with the given context and arguments.
// The exit function is called with the appropriate exit code when kong
// handles termination itself (e.g. --help).
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags so the logger is configured before parsing,
	// regardless of flag position. TextUnmarshaler on logFormat/logLevel
	// covers those flags during normal parsing, but boolean flags like
	// --log-pretty only apply through this early scan.
	cli.Log.scan(args)

	vars := kong.Vars{"version": pkg.Version}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact: true,
				Summary: true,
			}),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start()

	// [pprofConfig.start] is a no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start()()

	return ktx.Run()
}
