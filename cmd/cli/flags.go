package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/v0rails/v0rails/internal/config"
)

// conversionFlags registers the flags shared by convert and watch. Defaults
// shown in help are the built-in ones; only flags the user sets override the
// project file and environment.
func conversionFlags(cmd *cobra.Command) {
	d := config.Default()
	f := cmd.Flags()

	f.StringP("dest", "d", d.Dest, "Destination root for components")
	f.StringP("namespace", "n", d.Namespace, "Ruby module namespace")
	f.String("root", "", "Host project root for controllers, specs and helpers (default: git worktree root)")
	f.BoolP("stimulus", "s", d.Stimulus, "Generate Stimulus controllers when needed")
	f.BoolP("update", "u", d.Update, "Overwrite existing files, keeping a .bak copy")
	f.Bool("strict", d.Strict, "Stop at the first component that fails to convert")
	f.Bool("no-tests", !d.Tests, "Skip spec generation")
	f.Bool("helpers", d.Helpers, "Generate view helper modules")
	f.Bool("previews", d.Previews, "Generate ViewComponent previews")
	f.Bool("enhanced-erb", d.EnhancedERB, "Use Rails tag helpers in templates")
	f.Bool("slots", d.Slots, "Map slot-like props to ViewComponent slots")
	f.Bool("preserve-hierarchy", d.PreserveHierarchy, "Mirror the source directory layout in the output")
	f.Int("jobs", d.Jobs, "Number of files converted in parallel")
	f.StringSlice("ignore", d.Ignore, "Glob patterns of paths to skip")
	f.BoolP("verbose", "v", false, "Verbose logging")
}

// flagKeys maps flag names to configuration keys
var flagKeys = map[string]string{
	"dest":               "dest",
	"namespace":          "namespace",
	"root":               "root",
	"stimulus":           "stimulus",
	"update":             "update",
	"strict":             "strict",
	"helpers":            "helpers",
	"previews":           "previews",
	"enhanced-erb":       "enhanced_erb",
	"slots":              "slots",
	"preserve-hierarchy": "preserve_hierarchy",
	"jobs":               "jobs",
	"ignore":             "ignore",
	"verbose":            "verbose",
	"ir":                 "ir",
	"dry-run":            "dry_run",
}

// loadConfig resolves the configuration for cmd from the project file in
// the working directory, the environment and the flags the user set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	loader := config.NewLoader(wd)
	var flagErr error
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if flagErr != nil {
			return
		}
		if f.Name == "no-tests" {
			noTests, err := cmd.Flags().GetBool("no-tests")
			flagErr = err
			loader.Set("tests", !noTests)
			return
		}
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		value, err := flagValue(cmd.Flags(), f)
		flagErr = err
		loader.Set(key, value)
	})
	if flagErr != nil {
		return nil, flagErr
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	return cfg, nil
}

func flagValue(fs *pflag.FlagSet, f *pflag.Flag) (any, error) {
	switch f.Value.Type() {
	case "bool":
		return fs.GetBool(f.Name)
	case "int":
		return fs.GetInt(f.Name)
	case "stringSlice":
		return fs.GetStringSlice(f.Name)
	default:
		return f.Value.String(), nil
	}
}
