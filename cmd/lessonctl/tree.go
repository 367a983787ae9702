package main

import (
	"fmt"

	"lessonview/internal/bootstrap"
	"lessonview/internal/catalog"
	"lessonview/internal/config"
	svc "lessonview/internal/domain/services/workspace"
	"lessonview/internal/service/workspace"

	"github.com/spf13/cobra"
)

func newTreeCmd(env *cliEnv) *cobra.Command {
	var (
		root     string
		noCounts bool
	)

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Load the catalog from the configured source and print the lesson tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := env.cfg
			if root != "" {
				cfg.ContentSource = config.SourceFilesystem
				cfg.ContentRoot = root
			}

			cat, err := catalog.Load(cfg.CatalogPath)
			if err != nil {
				return err
			}

			content, err := bootstrap.OpenContent(ctx, cfg, env.logger)
			if err != nil {
				return err
			}
			defer content.Close()

			sorter, err := workspace.NewTreeSorter(cfg.Locale)
			if err != nil {
				return err
			}

			store := workspace.NewStore(workspace.WithStoreLogger(env.logger))
			defer store.Close()

			loader := workspace.NewLoader(workspace.LoaderConfig{
				Paths:       cat.Paths(),
				Concurrency: cfg.FetchConcurrency,
			}, content.Source, nil, store, sorter, env.logger)

			report, err := loader.Load(ctx, svc.LoadOptions{})
			if err != nil {
				return err
			}
			state, err := store.Snapshot(ctx)
			if err != nil {
				return err
			}

			renderer := workspace.NewTreeRenderer(workspace.RenderOptions{LineCounts: !noCounts})
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderer.Render(state.Tree))
			if len(report.Failed) > 0 {
				fmt.Fprintf(out, "\n%d of %d files failed to load:\n", len(report.Failed), report.Files)
				for _, path := range report.Failed {
					fmt.Fprintf(out, "  %s\n", path)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "read lessons from this directory instead of the configured source")
	cmd.Flags().BoolVar(&noCounts, "no-counts", false, "omit line counts")
	return cmd
}
