package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vytor/ezexam/internal/logger"
	"github.com/vytor/ezexam/internal/repository/sqlite"
	"github.com/vytor/ezexam/internal/services"
)

func newReconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute lesson progress from the attempt ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			concurrency, _ := cmd.Flags().GetInt("concurrency")
			repairXP, _ := cmd.Flags().GetBool("repair-xp")

			database, err := openDB(cfg, log)
			if err != nil {
				return err
			}
			defer database.Close()

			progress := services.NewProgressService(
				sqlite.NewProgressRepository(database.DB),
				sqlite.NewAttemptLedger(database.DB),
				sqlite.NewUserRepository(database.DB),
				nil,
			)
			ctx := logger.NewContext(cmd.Context(), log)
			report, err := progress.ReconcileAll(ctx, services.ReconcileOptions{Concurrency: concurrency, RepairXP: repairXP})
			if err != nil {
				return fmt.Errorf("reconcile: %w", err)
			}
			if err := printJSON(cmd, report); err != nil {
				return err
			}
			if report.Failed > 0 {
				return fmt.Errorf("%d progress rows failed to recompute", report.Failed)
			}
			return nil
		},
	}
	cmd.Flags().Int("concurrency", 4, "Parallel recomputes")
	cmd.Flags().Bool("repair-xp", false, "Also reset every user's total XP to the ledger sum")
	return cmd
}
