package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/tdm-calculator/internal/cli"
	"github.com/Veraticus/tdm-calculator/internal/config"
	"github.com/Veraticus/tdm-calculator/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Create or update the project and FAQ tables.

Every command migrates on startup, so this is only needed to prepare a
database ahead of time or to inspect its schema version.`,
		RunE: runMigrate,
	}

	cmd.Flags().Bool("status", false, "Show the schema version and pending migrations without applying them")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	status, _ := cmd.Flags().GetBool("status")

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	slog.Debug("opening database for migration", "database", cfg.DatabasePath, "status_only", status)

	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	current, err := store.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	pending := storage.Pending(current)

	if status {
		fmt.Fprintf(out, "Database: %s\n", cfg.DatabasePath)
		fmt.Fprintf(out, "Current version: %d\n", current)
		fmt.Fprintf(out, "Latest version: %d\n", storage.ExpectedSchemaVersion)
		if len(pending) > 0 {
			rows := make([][]string, len(pending))
			for i, m := range pending {
				rows[i] = []string{strconv.Itoa(m.Version), m.Description}
			}
			fmt.Fprintln(out, cli.RenderTable([]string{"Pending", "Description"}, rows))
		}
		return nil
	}

	if len(pending) == 0 {
		fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Database is already at version %d", current)))
		return nil
	}
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Applied %d migrations, database at version %d", len(pending), storage.ExpectedSchemaVersion)))
	return nil
}
