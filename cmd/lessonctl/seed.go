package main

import (
	"errors"
	"fmt"

	"lessonview/internal/bootstrap"
	"lessonview/internal/catalog"
	"lessonview/internal/repository/filesystem"
	"lessonview/internal/service/workspace"

	"github.com/spf13/cobra"
)

func newSeedCmd(env *cliEnv) *cobra.Command {
	var (
		dir        string
		clearFirst bool
	)

	cmd := &cobra.Command{
		Use:   "seed --dir <lessons>",
		Short: "Copy catalog files from a directory into the Postgres lesson table",
		Long: `Reads every catalog path from --dir and upserts it into the
<prefix>lesson_files table in a single transaction. Files the directory
does not contain are skipped and listed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := env.cfg

			if clearFirst && cfg.Environment == "prod" {
				return errors.New("refusing to run --clear in the prod environment")
			}

			cat, err := catalog.Load(cfg.CatalogPath)
			if err != nil {
				return err
			}

			lessons, txManager, closeDB, err := bootstrap.OpenLessonRepository(ctx, cfg, env.logger)
			if err != nil {
				return err
			}
			defer closeDB()

			seeder := workspace.NewSeeder(filesystem.NewSource(dir), lessons, txManager, env.logger)
			report, err := seeder.Seed(ctx, cat.Paths(), workspace.SeedOptions{Clear: clearFirst})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "seeded %d lesson files into %s\n", report.Upserted, lessons.Name())
			for _, path := range report.Missing {
				fmt.Fprintf(out, "  missing: %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "directory holding the lesson files")
	cmd.Flags().BoolVar(&clearFirst, "clear", false, "delete all stored lessons first")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}
