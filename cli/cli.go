package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/atx/cli/cmd"
	"github.com/ardnew/atx/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config"

// CLI is the top-level command-line interface for atx.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit"`

	Init   cmd.Init   `cmd:"" help:"Initialize configuration file"`
	Render cmd.Render `cmd:"" help:"Render a template"                       default:"withargs"`
	Eval   cmd.Eval   `cmd:"" help:"Evaluate a single expression"`
	AST    cmd.AST    `cmd:"" help:"Print the syntax tree of an expression" name:"ast"`
	Funcs  cmd.Funcs  `cmd:"" help:"List builtin functions"`
	REPL   cmd.REPL   `cmd:"" help:"Start an interactive session"            name:"repl"`
}

// Run executes the atx CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := pkg.MkdirAll()
	if err != nil {
		return err
	}

	configFilePath := pkg.ConfigPath(baseConfig)

	vars := kong.Vars{
		"version":            pkg.Name + " " + pkg.Version,
		cmd.ConfigIdentifier: configFilePath + ".yaml",
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags so that errors raised while parsing are
	// logged with the requested settings.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(groups(cli.Log.group(), cli.Pprof.group())),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(ctx), configFilePath+".yaml"),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(&cli)
}

// groups drops the groups of disabled option sets.
func groups(gs ...kong.Group) []kong.Group {
	out := make([]kong.Group, 0, len(gs))

	for _, g := range gs {
		if g.Key != "" {
			out = append(out, g)
		}
	}

	return out
}
