package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// ErrUnknownFormat is returned for an unsupported --output value.
var ErrUnknownFormat = errors.New("cli: unknown output format")

type routeView struct {
	Params     map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	Name       string            `json:"name" yaml:"name"`
	Rule       string            `json:"rule" yaml:"rule"`
	Controller string            `json:"controller" yaml:"controller"`
	Action     string            `json:"action" yaml:"action"`
}

type routesOptions struct {
	output string
}

func newRoutesCmd(load loader) *cobra.Command {
	opts := &routesOptions{}

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the route table",
		Long:  `List the routes in match order: configured routes first, then those added by the module.`,
		Example: `  # List routes as a table
  llama routes

  # List routes as JSON
  llama routes -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := load(cmd)
			if err != nil {
				return err
			}
			defer closeApp(cmd, app)

			routes := app.Routes()
			views := make([]routeView, 0, len(routes))
			for _, r := range routes {
				views = append(views, routeView{
					Params:     r.Params,
					Name:       r.Name,
					Rule:       r.Rule,
					Controller: r.Controller,
					Action:     r.Action,
				})
			}
			return printRoutes(cmd.OutOrStdout(), views, opts.output)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", FormatTable, "Output format (table, json, yaml)")

	return cmd
}

func printRoutes(w io.Writer, routes []routeView, format string) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, routes)
	case FormatYAML:
		return yaml.NewEncoder(w).Encode(routes)
	case FormatTable, "":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if len(routes) == 0 {
		_, err := fmt.Fprintln(w, "No routes defined.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tRULE\tCONTROLLER\tACTION\tPARAMS")
	for _, r := range routes {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.Name, r.Rule, orDash(r.Controller), orDash(r.Action), formatParams(r.Params))
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatParams(params map[string]string) string {
	if len(params) == 0 {
		return "-"
	}
	pairs := make([]string, 0, len(params))
	for _, k := range slices.Sorted(maps.Keys(params)) {
		pairs = append(pairs, k+"="+params[k])
	}
	return strings.Join(pairs, ",")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
