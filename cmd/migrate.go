package cmd

import (
	"fmt"
	"strings"

	"github.com/killallgit/autocut/internal/database"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the job database schema",
		Long: `Create the jobs and cut_records tables, or add missing columns and
indexes to them. serve migrates on startup too; this command lets the
schema be prepared ahead of time.`,
		Args: cobra.NoArgs,
		RunE: runMigrate,
	}
	cmd.Flags().Bool("dry-run", false, "list missing tables without changing the database")
	return cmd
}

func runMigrate(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	out := cmd.OutOrStdout()

	db, err := database.Initialize(appConfig.Database.Path, appConfig.Database.Verbose)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	pending := db.PendingMigrations()
	if len(pending) == 0 {
		fmt.Fprintln(out, "All tables exist")
	} else {
		fmt.Fprintf(out, "Missing tables: %s\n", strings.Join(pending, ", "))
	}

	if dryRun {
		fmt.Fprintln(out, "Dry run mode - no changes made")
		return nil
	}

	if err := db.Migrate(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Migrated %s\n", appConfig.Database.Path)
	return nil
}
