package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/agency-pulse/internal/cli"
	"github.com/Veraticus/agency-pulse/internal/config"
	"github.com/Veraticus/agency-pulse/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

Every other command migrates on start, so this is only needed to set up
a database ahead of time or to check its schema version.`,
		RunE: runMigrate,
	}

	cmd.Flags().Bool("status", false, "Show current migration status without applying changes")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	status, _ := cmd.Flags().GetBool("status")
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	dbPath := config.ExpandPath(viper.GetString("database.path"))

	if status {
		store, err := storage.NewSQLiteStorage(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() { _ = store.Close() }()

		current, err := store.SchemaVersion(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, cli.RenderKeyValues([][2]string{
			{"Database", dbPath},
			{"Current version", fmt.Sprint(current)},
			{"Latest version", fmt.Sprint(storage.ExpectedSchemaVersion)},
		}))
		if current < storage.ExpectedSchemaVersion {
			fmt.Fprintln(out, cli.FormatInfo("Run `pulse migrate` to upgrade."))
		}
		return nil
	}

	slog.Info("Running database migrations", "database", dbPath)
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	fmt.Fprintln(out, cli.FormatSuccess("Database is at schema version "+fmt.Sprint(storage.ExpectedSchemaVersion)))
	return nil
}
