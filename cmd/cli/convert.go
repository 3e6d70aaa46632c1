package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/v0rails/v0rails/internal/config"
	"github.com/v0rails/v0rails/internal/converter"
	"github.com/v0rails/v0rails/pkg/model"
)

func convertCmd() *cobra.Command {
	var (
		printConfig bool
		saveConfig  bool
		quiet       bool
	)

	cmd := &cobra.Command{
		Use:   "convert <input-glob>...",
		Short: "Convert JSX/TSX components to ViewComponents",
		Long: `Converts the React components matching the input globs into ViewComponent
classes and ERB templates.

Existing files are never overwritten unless --update is given; new content
is written beside them as <file>.new instead.

Exit codes: 0 on success, 10 when any component failed, 1 otherwise.

Example:
  v0-rails convert 'src/components/**/*.jsx' -n Ui --stimulus`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !printConfig && !saveConfig {
				return errors.New("input glob pattern is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if printConfig || saveConfig {
				return writeConfig(out, cfg, saveConfig)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts := converter.FromConfig(cfg)
			opts.Out = out
			conv := converter.New(log.Logger, opts)

			var bar *progressBar
			if !quiet && !cfg.Verbose && !cfg.DryRun {
				bar = newProgressBar(cmd.ErrOrStderr())
			}

			result, err := conv.Convert(ctx, args, bar.update)
			bar.finish()

			var strictErr *converter.StrictError
			switch {
			case errors.As(err, &strictErr):
				printSummary(out, result)
				return err
			case err != nil:
				return err
			}

			printSummary(out, result)
			if result.ErrorCount > 0 {
				return errFileErrors
			}
			return nil
		},
	}

	conversionFlags(cmd)
	cmd.Flags().String("ir", "", "Dump the intermediate representation to a .json, .yaml or .yml file")
	cmd.Flags().Bool("dry-run", false, "Print the IR instead of writing files")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Hide the progress bar")
	cmd.Flags().BoolVar(&printConfig, "print-config", false, "Print the resolved configuration as YAML and exit")
	cmd.Flags().BoolVar(&saveConfig, "save-config", false, "Write the resolved configuration to "+config.FileName+" and exit")

	return cmd
}

func writeConfig(out io.Writer, cfg *config.Config, save bool) error {
	if save {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		if err := config.Save(wd, cfg); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s\n", config.FileName)
		return nil
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

func printSummary(out io.Writer, result *model.BatchResult) {
	if result == nil {
		return
	}
	fmt.Fprintf(out, "✅ Successfully processed %d components\n", result.SuccessCount)
	if result.WarningCount > 0 {
		fmt.Fprintf(out, "⚠️  %d warnings in %d components\n", result.WarningCount, len(result.Warnings))
		for _, fw := range result.Warnings {
			fmt.Fprintf(out, "   %s\n", fw.FilePath)
			for _, w := range fw.Warnings {
				fmt.Fprintf(out, "     - %s\n", w)
			}
		}
	}
	if result.ErrorCount > 0 {
		fmt.Fprintf(out, "❌ Failed to process %d components\n", result.ErrorCount)
		for _, fe := range result.Errors {
			fmt.Fprintf(out, "   %s: %s\n", fe.FilePath, fe.Error)
		}
	}

	conflicts := 0
	for _, a := range result.Artifacts {
		if a.Status == model.StatusConflict {
			conflicts++
		}
	}
	if conflicts > 0 {
		fmt.Fprintf(out, "📝 %d existing files kept; new versions written as .new (use --update to overwrite)\n", conflicts)
	}
}
