package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/household-finance/internal/store/sqlite"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Bring the database schema up to date",
		Long: `Apply every pending schema migration. Existing records are kept;
the database is never dropped and recreated.`,
		Args: cobra.NoArgs,
		RunE: runMigrate,
	}
	cmd.Flags().Bool("status", false, "show the schema version without applying changes")
	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	status, _ := cmd.Flags().GetBool("status")

	db, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	before, err := db.Version(ctx)
	if err != nil {
		return err
	}
	out := newPrinter(cmd.OutOrStdout())
	if status {
		out.Info(fmt.Sprintf("%s: schema version %d of %d", db.Path(), before, sqlite.SchemaVersion))
		return nil
	}

	if err := db.Migrate(ctx); err != nil {
		return err
	}
	if before == sqlite.SchemaVersion {
		out.Info("schema already up to date")
		return nil
	}
	out.Success(fmt.Sprintf("migrated %s from version %d to %d", db.Path(), before, sqlite.SchemaVersion))
	return nil
}
