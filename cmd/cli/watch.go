package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/v0rails/v0rails/internal/converter"
	"github.com/v0rails/v0rails/internal/watcher"
	"github.com/v0rails/v0rails/pkg/model"
)

func watchCmd() *cobra.Command {
	var (
		debounce time.Duration
		initial  bool
	)

	cmd := &cobra.Command{
		Use:   "watch <input-glob>...",
		Short: "Re-convert components whenever their source changes",
		Long: `Watches the directories of the input globs and converts every matching
file that is created or modified. Runs until interrupted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts := converter.FromConfig(cfg)
			opts.Out = cmd.OutOrStdout()
			conv := converter.New(log.Logger, opts)
			out := cmd.OutOrStdout()

			if initial {
				result, err := conv.Convert(ctx, args, nil)
				var discErr *converter.DiscoveryError
				switch {
				case errors.As(err, &discErr):
					log.Info().Msg("no files yet, waiting for changes")
				case err != nil:
					log.Error().Err(err).Msg("initial conversion failed")
				default:
					printSummary(out, result)
				}
			}

			return conv.Watch(ctx, args, debounce, func(result *model.BatchResult) {
				printSummary(out, result)
			})
		},
	}

	conversionFlags(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", watcher.DefaultDebounce, "Quiet period before converting changed files")
	cmd.Flags().BoolVar(&initial, "initial", true, "Convert all matching files before watching")

	return cmd
}
