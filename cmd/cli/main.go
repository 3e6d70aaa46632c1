package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var version = "dev"

// Exit codes
const (
	exitOK         = 0
	exitFailure    = 1
	exitFileErrors = 10
)

// errFileErrors signals that a batch finished but some files failed
var errFileErrors = errors.New("some components failed to convert")

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errFileErrors) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return exitCode(err)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errFileErrors):
		return exitFileErrors
	default:
		return exitFailure
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "v0-rails",
		Short: "Convert React/JSX components to Rails ViewComponents",
		Long: `v0-rails converts React/JSX + Tailwind UI components into Rails
ViewComponent classes and ERB templates, with optional Stimulus controllers,
RSpec specs, previews and helpers.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(convertCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(inspectCmd())
	rootCmd.AddCommand(emittersCmd())

	return rootCmd
}
