package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/llama/pkg/config"
)

// ErrKeyNotFound is returned by config when the requested key is absent.
var ErrKeyNotFound = errors.New("cli: configuration key not found")

type configOptions struct {
	output string
}

func newConfigCmd(o *Options) *cobra.Command {
	opts := &configOptions{}

	cmd := &cobra.Command{
		Use:   "config [key]",
		Short: "Print the resolved configuration of an environment",
		Long: `Print the configuration section selected by --env with inherited
sections merged in. A dotted key limits the output to one value or subtree.`,
		Example: `  llama config -e development
  llama config database.dsn
  llama config routes -o yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := config.LoadINI(o.ConfigFile, o.Environment)
			if err != nil {
				return err
			}

			var value any = n
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
				value = n.Lookup(prefix, nil)
				if value == nil {
					return fmt.Errorf("%w: %q", ErrKeyNotFound, prefix)
				}
			}
			return printConfig(cmd.OutOrStdout(), prefix, value, opts.output)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "ini", "Output format (ini, json, yaml)")

	return cmd
}

func printConfig(w io.Writer, prefix string, value any, format string) error {
	plain := value
	if n, ok := value.(*config.Node); ok {
		plain = n.ToMap()
	}

	switch format {
	case FormatJSON:
		return writeJSON(w, plain)
	case FormatYAML:
		return yaml.NewEncoder(w).Encode(plain)
	case "ini", "":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	n, ok := value.(*config.Node)
	if !ok {
		return writeScalar(w, prefix, value)
	}
	return writeNode(w, prefix, n)
}

// writeNode prints n as dotted "key = value" lines in configuration order.
func writeNode(w io.Writer, prefix string, n *config.Node) error {
	for key, v := range n.All() {
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}
		var err error
		if child, ok := v.(*config.Node); ok {
			err = writeNode(w, name, child)
		} else {
			err = writeScalar(w, name, v)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func writeScalar(w io.Writer, name string, v any) error {
	if list, ok := v.([]string); ok {
		for _, item := range list {
			if _, err := fmt.Fprintf(w, "%s[] = %s\n", name, item); err != nil {
				return err
			}
		}
		return nil
	}
	if name == "" {
		_, err := fmt.Fprintln(w, cast.ToString(v))
		return err
	}
	_, err := fmt.Fprintf(w, "%s = %s\n", name, cast.ToString(v))
	return err
}
