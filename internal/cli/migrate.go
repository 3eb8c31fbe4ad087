package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mcoot/studentdesk/internal/config"
	"github.com/mcoot/studentdesk/internal/storage/postgres"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database schema migrations (postgres only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				cfg, err := opts.loadConfig()
				if err != nil {
					return err
				}
				if cfg.StorageType != config.StorageTypePostgres {
					return errors.New("migrate requires STORAGE_TYPE=postgres or --database-url")
				}
				databaseURL = cfg.DatabaseURL
			}

			store, err := postgres.New(cmd.Context(), databaseURL)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}

			NewOutput(opts.output, cmd.OutOrStdout()).PrintMessage("migrations applied")
			return nil
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", "", "Postgres DSN (overrides DATABASE_URL)")

	return cmd
}
