package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"lessonview/internal/bootstrap"
	"lessonview/internal/repository/sqlite"

	"github.com/spf13/cobra"
)

func newDraftsCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "Inspect or discard persisted editor drafts",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List persisted drafts",
			RunE: func(cmd *cobra.Command, args []string) error {
				drafts, err := openDrafts(env)
				if err != nil {
					return err
				}
				defer drafts.Close()

				list, err := drafts.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(list) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no drafts")
					return nil
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "PATH\tBYTES\tUPDATED")
				for _, d := range list {
					fmt.Fprintf(tw, "%s\t%d\t%s\n", d.Path, len(d.Content), d.UpdatedAt.Format(time.RFC3339))
				}
				return tw.Flush()
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete every persisted draft",
			RunE: func(cmd *cobra.Command, args []string) error {
				drafts, err := openDrafts(env)
				if err != nil {
					return err
				}
				defer drafts.Close()

				if err := drafts.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "drafts cleared")
				return nil
			},
		},
	)
	return cmd
}

func openDrafts(env *cliEnv) (*sqlite.DraftStore, error) {
	drafts, err := bootstrap.OpenDrafts(env.cfg, env.logger)
	if err != nil {
		return nil, err
	}
	if drafts == nil {
		return nil, errors.New("draft persistence is disabled (DRAFTS_DB_PATH=off)")
	}
	return drafts, nil
}
