package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/v0rails/v0rails/internal/converter"
)

func inspectCmd() *cobra.Command {
	var (
		format    string
		artifacts bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print the intermediate representation of a component",
		Long: `Parses one component file and prints its IR without writing anything.
With --artifacts the generated files are printed as well.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			source, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}

			conv := converter.New(log.Logger, converter.FromConfig(cfg))
			res, err := conv.NewSession().ConvertSource(context.Background(), args[0], source)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "yaml":
				data, err := yaml.Marshal(res.IR)
				if err != nil {
					return err
				}
				fmt.Fprint(out, string(data))
			case "json":
				data, err := json.MarshalIndent(res.IR, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
			default:
				return fmt.Errorf("unknown format %q (want json or yaml)", format)
			}

			if artifacts {
				for _, a := range res.Artifacts {
					fmt.Fprintf(out, "\n==> %s (%s)\n%s", a.Path, a.Kind, a.Content)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json, yaml)")
	cmd.Flags().BoolVar(&artifacts, "artifacts", false, "Also print the generated files")
	cmd.Flags().StringP("namespace", "n", "Ui", "Ruby module namespace")
	cmd.Flags().BoolP("stimulus", "s", false, "Generate Stimulus controllers when needed")
	cmd.Flags().Bool("slots", false, "Map slot-like props to ViewComponent slots")
	cmd.Flags().Bool("enhanced-erb", false, "Use Rails tag helpers in templates")
	cmd.Flags().BoolP("verbose", "v", false, "Verbose logging")

	return cmd
}
