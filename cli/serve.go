package cli

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/llama"
)

type serveOptions struct {
	address string
}

func newServeCmd(o *Options, factory Factory) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long:  `Start the HTTP server and block until SIGINT or SIGTERM. The address defaults to settings.address.`,
		Example: `  # Serve the production section
  llama serve

  # Serve the development section on another port
  llama serve -e development --addr :3000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if factory == nil {
				return ErrNoFactory
			}
			app, err := factory(*o)
			if err != nil {
				return err
			}
			return app.Run(opts.address, llama.WithContext(cmd.Context()))
		},
	}

	cmd.Flags().StringVar(&opts.address, "addr", "", "Listen address (overrides settings.address)")

	return cmd
}
