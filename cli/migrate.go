package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/llama"
	"github.com/dmitrymomot/llama/pkg/config"
	"github.com/dmitrymomot/llama/pkg/db"
)

type migrateOptions struct {
	dir   string
	table string
}

func newMigrateCmd(load loader) *cobra.Command {
	opts := &migrateOptions{}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Long: `Apply pending goose migrations to the database of the [database] section.
The directory and version table default to database.migrations_path and
database.migrations_table.`,
		Example: `  llama migrate -e development
  llama migrate --dir db/migrations`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := load(cmd)
			if err != nil {
				return err
			}
			defer closeApp(cmd, app)

			adapter := app.Database()
			if adapter == nil {
				return llama.ErrNoDatabase
			}

			var cfg db.Config
			if err := config.Decode(app.Config().Child("database"), &cfg, db.DefaultConfig()); err != nil {
				return err
			}
			if opts.dir != "" {
				cfg.MigrationsPath = opts.dir
			}
			if opts.table != "" {
				cfg.MigrationsTable = opts.table
			}

			if err := db.Migrate(cmd.Context(), adapter.DB(), adapter.Dialect(), os.DirFS(cfg.MigrationsPath), cfg.MigrationsTable, app.Logger()); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "migrations in %s applied\n", cfg.MigrationsPath)
			return err
		},
	}

	cmd.Flags().StringVar(&opts.dir, "dir", "", "Migrations directory (overrides database.migrations_path)")
	cmd.Flags().StringVar(&opts.table, "table", "", "Version table (overrides database.migrations_table)")

	return cmd
}
