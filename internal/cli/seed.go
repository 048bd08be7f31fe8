package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vytor/ezexam/internal/catalog"
	"github.com/vytor/ezexam/internal/logger"
	"github.com/vytor/ezexam/internal/repository/sqlite"
)

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the lesson catalog and demo user into the database",
		Long: "Load a YAML lesson catalog (SEED_FILE or --file, the built-in catalog otherwise).\n" +
			"Lessons whose title is already stored are skipped, so seeding twice is safe.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if f, _ := cmd.Flags().GetString("file"); f != "" {
				cfg.SeedFile = f
			}

			c, err := catalog.Load(cfg.SeedFile)
			if err != nil {
				return err
			}
			database, err := openDB(cfg, log)
			if err != nil {
				return err
			}
			defer database.Close()

			ctx := logger.NewContext(cmd.Context(), log)
			report, err := catalog.Seed(ctx, sqlite.NewLessonRepository(database.DB), sqlite.NewUserRepository(database.DB), c, cfg.DemoUserID)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			return printJSON(cmd, report)
		},
	}
	cmd.Flags().String("file", "", "Catalog YAML file (overrides SEED_FILE)")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
