package main

import (
	"io"
	"log/slog"

	"lessonview/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// cliEnv is the configuration and logger every subcommand runs with
type cliEnv struct {
	cfg       *config.Config
	logger    *slog.Logger
	logCloser io.Closer
}

func newRootCmd() *cobra.Command {
	env := &cliEnv{}
	var verbose bool

	root := &cobra.Command{
		Use:           "lessonctl",
		Short:         "Inspect and manage lesson content",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			env.cfg = config.Load()

			logger, closer, err := config.NewLogger(env.cfg, "lessonctl")
			if err != nil {
				return err
			}
			if !verbose {
				// Keep stdout for command output; only warnings and up go to stderr
				logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
			}
			env.logger = logger
			env.logCloser = closer
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if env.logCloser != nil {
				return env.logCloser.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at the configured level instead of warnings only")

	root.AddCommand(
		newTreeCmd(env),
		newSeedCmd(env),
		newDraftsCmd(env),
		newLessonsCmd(env),
	)
	return root
}
