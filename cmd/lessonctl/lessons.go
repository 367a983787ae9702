package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"lessonview/internal/bootstrap"
	"lessonview/internal/catalog"
	models "lessonview/internal/domain/models/workspace"

	"github.com/spf13/cobra"
)

func newLessonsCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "lessons",
		Short: "List lesson files stored in Postgres",
		Long: `Prints every row of the <prefix>lesson_files table and marks catalog
paths that have not been seeded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cat, err := catalog.Load(env.cfg.CatalogPath)
			if err != nil {
				return err
			}

			lessons, _, closeDB, err := bootstrap.OpenLessonRepository(ctx, env.cfg, env.logger)
			if err != nil {
				return err
			}
			defer closeDB()

			files, err := lessons.List(ctx)
			if err != nil {
				return err
			}
			return writeLessonTable(cmd.OutOrStdout(), files, cat.Paths())
		},
	}
}

// writeLessonTable prints stored files, then catalog paths with no stored row
func writeLessonTable(w io.Writer, files []models.LessonFile, catalogPaths []string) error {
	stored := make(map[string]bool, len(files))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tLINES\tBYTES\tUPDATED")
	for _, f := range files {
		stored[f.Path] = true
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", f.Path, lineCount(f.Content), len(f.Content), f.UpdatedAt.Format(time.RFC3339))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, path := range catalogPaths {
		if !stored[path] {
			fmt.Fprintf(w, "  not seeded: %s\n", path)
		}
	}
	return nil
}

func lineCount(content string) int {
	if content == "" {
		return 0
	}
	return strings.Count(strings.TrimSuffix(content, "\n"), "\n") + 1
}
