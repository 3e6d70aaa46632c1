package converter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/v0rails/v0rails/internal/discovery"
	"github.com/v0rails/v0rails/internal/worker"
	"github.com/v0rails/v0rails/pkg/model"
)

// DiscoveryError is returned when the input patterns match no files
type DiscoveryError struct {
	Patterns []string
	Err      error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("no files matching pattern: %s", strings.Join(e.Patterns, ", "))
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// StrictError is returned when strict mode stops a batch at a failed file
type StrictError struct {
	Path string
	Err  error
}

func (e *StrictError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *StrictError) Unwrap() error { return e.Err }

// Progress is called after each file with the number of files handled so
// far and the total.
type Progress func(done, total int)

// Convert discovers the files matching patterns and converts them in
// discovery order. Per-file failures are recorded in the result; in strict
// mode the first one stops the batch and is returned as a *StrictError
// along with the partial result.
func (c *Converter) Convert(ctx context.Context, patterns []string, progress Progress) (*model.BatchResult, error) {
	finder, err := discovery.New(patterns, c.opts.Ignore)
	if err != nil {
		return nil, err
	}
	matches, err := finder.Find()
	if err != nil {
		return nil, &DiscoveryError{Patterns: patterns, Err: err}
	}

	c.logger.Debug().Int("files", len(matches)).Strs("patterns", patterns).Msg("found files to process")

	result := model.NewBatchResult()
	var stopErr error

	newFunc := func() worker.Func[discovery.Match, *FileResult] {
		s := c.NewSession()
		return func(ctx context.Context, m discovery.Match) (*FileResult, error) {
			c.logger.Debug().Str("file", m.Path).Msg("processing")
			return s.ConvertFile(ctx, m.Path, m.Rel)
		}
	}

	emit := func(r worker.Result[*FileResult]) bool {
		path := matches[r.Index].Path
		if progress != nil {
			defer progress(r.Index+1, len(matches))
		}

		c.record(result, path, r.Value, r.Err)
		if r.Err != nil && c.opts.Strict {
			stopErr = &StrictError{Path: path, Err: r.Err}
			return false
		}
		return true
	}

	err = worker.Run(ctx, worker.Config{Workers: c.opts.Jobs, Logger: c.logger}, matches, newFunc, emit)
	if err != nil {
		return result, err
	}

	if c.opts.IR != "" && len(result.IRs) > 0 {
		if err := WriteIR(c.opts.IR, result.IRs); err != nil {
			return result, err
		}
		c.logger.Debug().Str("path", c.opts.IR).Int("components", len(result.IRs)).Msg("wrote IR")
	}

	return result, stopErr
}

// record adds the outcome of one file to result
func (c *Converter) record(result *model.BatchResult, path string, res *FileResult, err error) {
	if res != nil {
		result.Artifacts = append(result.Artifacts, res.Artifacts...)
	}
	if err != nil {
		result.ErrorCount++
		result.Errors = append(result.Errors, model.FileError{FilePath: path, Error: err.Error()})
		c.logger.Error().Err(err).Str("file", path).Msg("failed to process file")
		return
	}

	ir := res.IR
	result.SuccessCount++
	result.IRs = append(result.IRs, ir)

	if c.opts.DryRun {
		if data, err := json.MarshalIndent(ir, "", "  "); err == nil {
			fmt.Fprintln(c.opts.Out, string(data))
		}
	}

	if len(ir.Warnings) == 0 {
		return
	}
	result.WarningCount += len(ir.Warnings)
	result.Warnings = append(result.Warnings, model.FileWarnings{FilePath: path, Warnings: ir.Warnings})
	c.logger.Warn().
		Str("file", path).
		Str("component", ir.Name).
		Strs("warnings", ir.Warnings).
		Msg("converted with warnings")
}

// WriteIR dumps IRs to path as YAML when the extension is .yaml or .yml
// and as indented JSON otherwise. A single IR is written as an object, more
// than one as a list.
func WriteIR(path string, irs []*model.IR) error {
	var v any = irs
	if len(irs) == 1 {
		v = irs[0]
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(v)
	default:
		data, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode IR: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create IR directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write IR: %w", err)
	}
	return nil
}
