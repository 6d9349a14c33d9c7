// Package cli provides the cobra commands shared by the llama binary and
// application mains: serve, routes, resolve, migrate and config.
//
// An application builds its root command from a factory that wires its
// modules:
//
//	root := cli.New(func(o cli.Options) (*llama.App, error) {
//	    return llama.New(
//	        llama.WithEnvironment(o.Environment),
//	        llama.WithConfigFile(o.ConfigFile),
//	        llama.WithModule("blog", blog.Module()),
//	    ), nil
//	})
//	if err := root.ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/llama"
	"github.com/dmitrymomot/llama/pkg/config"
)

// Default flag values.
const (
	DefaultConfigFile = "config/application.ini"
	envVariable       = "LLAMA_ENV"
)

// ErrNoFactory is returned when a command runs without an application factory.
var ErrNoFactory = errors.New("cli: no application factory")

// Options are the global flags handed to the factory.
type Options struct {
	Environment string
	ConfigFile  string
}

// Factory builds the application a command works on.
type Factory func(Options) (*llama.App, error)

// Option configures the root command.
type Option func(*cobra.Command)

// WithName sets the root command name. Default: "llama".
func WithName(name string) Option {
	return func(c *cobra.Command) {
		if name != "" {
			c.Use = name
		}
	}
}

// WithCommands adds application specific commands.
func WithCommands(cmds ...*cobra.Command) Option {
	return func(c *cobra.Command) {
		c.AddCommand(cmds...)
	}
}

// New returns the root command. Subcommands call factory with the values
// of the --env and --config flags.
func New(factory Factory, opts ...Option) *cobra.Command {
	o := &Options{}

	root := &cobra.Command{
		Use:           "llama",
		Short:         "Run and inspect a llama application",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	env := os.Getenv(envVariable)
	if env == "" {
		env = llama.DefaultEnvironment
	}
	root.PersistentFlags().StringVarP(&o.Environment, "env", "e", env, "Configuration section to load (env "+envVariable+")")
	root.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", DefaultConfigFile, "Path to the INI configuration file")

	load := func(cmd *cobra.Command) (*llama.App, error) {
		if factory == nil {
			return nil, ErrNoFactory
		}
		app, err := factory(*o)
		if err != nil {
			return nil, err
		}
		if err := app.Init(cmd.Context()); err != nil {
			return nil, err
		}
		return app, nil
	}

	root.AddCommand(
		newServeCmd(o, factory),
		newRoutesCmd(load),
		newResolveCmd(load),
		newMigrateCmd(load),
		newConfigCmd(o),
	)

	for _, opt := range opts {
		opt(root)
	}
	return root
}

type loader func(cmd *cobra.Command) (*llama.App, error)

// ConfigOnly is a Factory for tools that know no modules. Every module
// listed in resources.modules is registered with an empty bootstrap, so
// configured routes load but no controller can be dispatched.
func ConfigOnly(o Options) (*llama.App, error) {
	n, err := config.LoadINI(o.ConfigFile, o.Environment)
	if err != nil {
		return nil, err
	}

	opts := []llama.Option{
		llama.WithEnvironment(o.Environment),
		llama.WithConfig(n),
	}
	noop := llama.ModuleFunc(func(*llama.Bootstrap) error { return nil })
	for _, name := range n.Child("resources").Strings("modules") {
		opts = append(opts, llama.WithModule(name, noop))
	}
	return llama.New(opts...), nil
}

func closeApp(cmd *cobra.Command, app *llama.App) {
	if err := app.Close(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "close: %v\n", err)
	}
}
