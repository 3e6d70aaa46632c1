// Package converter drives the conversion pipeline: it parses a source file,
// extracts the component, builds its IR, renders the artifacts and hands
// them to the writer.
package converter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/v0rails/v0rails/internal/config"
	"github.com/v0rails/v0rails/internal/discovery"
	"github.com/v0rails/v0rails/internal/emitter"
	"github.com/v0rails/v0rails/internal/extractor"
	"github.com/v0rails/v0rails/internal/generator"
	"github.com/v0rails/v0rails/internal/parser"
	"github.com/v0rails/v0rails/internal/writer"
	"github.com/v0rails/v0rails/pkg/model"
)

// Options configures a conversion run
type Options struct {
	Emit emitter.Options

	Update            bool
	DryRun            bool
	Strict            bool
	PreserveHierarchy bool

	// IR is the path of the IR dump, empty for none.
	IR     string
	Jobs   int
	Ignore []string

	// Out receives the IR of each component on a dry run. Defaults to stdout.
	Out io.Writer
}

// FromConfig maps a resolved configuration onto converter options
func FromConfig(cfg *config.Config) Options {
	return Options{
		Emit: emitter.Options{
			Dest:        cfg.Dest,
			Root:        ResolveRoot(cfg.Root),
			Namespace:   cfg.Namespace,
			Stimulus:    cfg.Stimulus,
			Tests:       cfg.Tests,
			Helpers:     cfg.Helpers,
			Previews:    cfg.Previews,
			EnhancedERB: cfg.EnhancedERB,
			Slots:       cfg.Slots,
		},
		Update:            cfg.Update,
		DryRun:            cfg.DryRun,
		Strict:            cfg.Strict,
		PreserveHierarchy: cfg.PreserveHierarchy,
		IR:                cfg.IR,
		Jobs:              cfg.Jobs,
		Ignore:            cfg.Ignore,
	}
}

// ResolveRoot returns root, or when it is empty the git worktree root of
// the working directory expressed relative to it ("." outside a repository).
func ResolveRoot(root string) string {
	if root != "" {
		return root
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	rel, err := filepath.Rel(wd, discovery.ProjectRoot(wd))
	if err != nil {
		return "."
	}
	return rel
}

// ErrUnsupportedLanguage is returned for source whose file extension is not
// a supported dialect
var ErrUnsupportedLanguage = errors.New("unsupported language")

// FileResult is the outcome of converting one source file
type FileResult struct {
	Path      string
	IR        *model.IR
	Artifacts []model.Artifact
}

// Converter converts component source files
type Converter struct {
	logger   zerolog.Logger
	opts     Options
	registry *emitter.Registry
	writer   *writer.Writer
}

// New creates a converter
func New(logger zerolog.Logger, opts Options) *Converter {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}
	return &Converter{
		logger:   logger,
		opts:     opts,
		registry: emitter.NewRegistry(),
		writer:   writer.New(logger, writer.Options{Update: opts.Update, DryRun: opts.DryRun}),
	}
}

// Options returns the options the converter runs with
func (c *Converter) Options() Options {
	return c.opts
}

// Registry returns the artifact emitters
func (c *Converter) Registry() *emitter.Registry {
	return c.registry
}

// Session converts files one at a time with a parser it owns. A Session
// must not be used from more than one goroutine.
type Session struct {
	c      *Converter
	parser *parser.Parser
}

// NewSession creates a conversion session
func (c *Converter) NewSession() *Session {
	return &Session{c: c, parser: parser.NewParser()}
}

// ConvertFile reads, converts and writes one file. rel is the directory of
// the file below its pattern base; it only affects output paths when the
// source hierarchy is preserved.
func (s *Session) ConvertFile(ctx context.Context, path, rel string) (*FileResult, error) {
	parsed, err := s.parser.ParseFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return s.convert(parsed, rel, true)
}

// ConvertSource converts in-memory source without writing anything. The
// returned artifacts carry their content and intended paths.
func (s *Session) ConvertSource(ctx context.Context, filename string, source []byte) (*FileResult, error) {
	lang := parser.DetectLanguage(filename)
	if lang == parser.LanguageUnknown {
		return nil, fmt.Errorf("%w for file: %s", ErrUnsupportedLanguage, filename)
	}
	parsed, err := s.parser.ParseContent(ctx, filename, source, lang)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return s.convert(parsed, "", false)
}

func (s *Session) convert(parsed *parser.ParsedFile, rel string, write bool) (*FileResult, error) {
	info, err := s.extract(parsed)
	if err != nil {
		return nil, err
	}

	c := s.c
	ir := generator.New(c.logger, generator.Options{DetectSlots: c.opts.Emit.Slots}).Generate(info)

	emitOpts := c.opts.Emit
	if c.opts.PreserveHierarchy {
		emitOpts.Rel = rel
	}

	artifacts, err := c.registry.EmitAll(ir, emitOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s: %w", ir.Name, err)
	}

	res := &FileResult{Path: parsed.Path, IR: ir, Artifacts: artifacts}
	if !write {
		return res, nil
	}

	written, err := c.writer.WriteAll(artifacts)
	res.Artifacts = written
	return res, err
}

// extract closes the syntax tree once the component has been lowered
func (s *Session) extract(parsed *parser.ParsedFile) (*extractor.ComponentInfo, error) {
	defer parsed.Close()
	return extractor.New(s.c.logger).Extract(parsed)
}
