package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/llama"
)

// ErrNoMatch is returned by resolve when no route matches the URI.
var ErrNoMatch = errors.New("cli: no route matches")

type resolutionView struct {
	Params     map[string]string `json:"params" yaml:"params"`
	URI        string            `json:"uri" yaml:"uri"`
	Controller string            `json:"controller" yaml:"controller"`
	Action     string            `json:"action" yaml:"action"`
	Dispatch   string            `json:"dispatch,omitempty" yaml:"dispatch,omitempty"`
}

type resolveOptions struct {
	output string
}

func newResolveCmd(load loader) *cobra.Command {
	opts := &resolveOptions{}

	cmd := &cobra.Command{
		Use:   "resolve <uri>",
		Short: "Show which controller and action a URI dispatches to",
		Example: `  llama resolve /post/12
  llama resolve "/post/12?preview=1" -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := load(cmd)
			if err != nil {
				return err
			}
			defer closeApp(cmd, app)

			res, err := app.Resolve(args[0])
			if err != nil && !errors.Is(err, llama.ErrControllerNotFound) && !errors.Is(err, llama.ErrActionNotFound) {
				return err
			}
			if !res.Matched {
				return fmt.Errorf("%w: %q", ErrNoMatch, args[0])
			}

			view := resolutionView{
				Params:     res.Params,
				URI:        res.URI,
				Controller: res.Controller,
				Action:     res.Action,
			}
			if err != nil {
				view.Dispatch = err.Error()
			}
			return printResolution(cmd.OutOrStdout(), view, opts.output)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", FormatTable, "Output format (table, json, yaml)")

	return cmd
}

func printResolution(w io.Writer, v resolutionView, format string) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, v)
	case FormatYAML:
		return yaml.NewEncoder(w).Encode(v)
	case FormatTable, "":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	_, _ = fmt.Fprintf(w, "uri:        %s\n", v.URI)
	_, _ = fmt.Fprintf(w, "controller: %s\n", v.Controller)
	_, _ = fmt.Fprintf(w, "action:     %s\n", v.Action)
	_, _ = fmt.Fprintf(w, "params:     %s\n", formatParams(v.Params))
	if v.Dispatch != "" {
		_, err := fmt.Fprintf(w, "dispatch:   %s\n", v.Dispatch)
		return err
	}
	return nil
}
