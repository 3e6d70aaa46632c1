package writer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/v0rails/v0rails/pkg/model"
)

const (
	backupSuffix   = ".bak"
	conflictSuffix = ".new"
)

// WriteError is returned when an artifact could not be persisted
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write file %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Options controls how existing files are treated
type Options struct {
	// Update replaces existing files after copying them to <path>.bak.
	// Without it an existing file is left alone and the new content goes
	// to <path>.new.
	Update bool
	// DryRun reports every artifact as skipped without touching disk.
	DryRun bool
}

// Writer persists generated artifacts
type Writer struct {
	logger zerolog.Logger
	opts   Options
}

// New creates a writer
func New(logger zerolog.Logger, opts Options) *Writer {
	return &Writer{logger: logger, opts: opts}
}

// Write persists one artifact and returns it with Status, WrittenTo and
// Backup filled in.
func (w *Writer) Write(a model.Artifact) (model.Artifact, error) {
	if w.opts.DryRun {
		a.Status = model.StatusSkipped
		return a, nil
	}

	if err := os.MkdirAll(filepath.Dir(a.Path), 0755); err != nil {
		return a, &WriteError{Path: a.Path, Err: err}
	}

	exists, err := fileExists(a.Path)
	if err != nil {
		return a, &WriteError{Path: a.Path, Err: err}
	}

	switch {
	case !exists:
		a.Status = model.StatusCreated
		a.WrittenTo = a.Path
	case w.opts.Update:
		backup := a.Path + backupSuffix
		if err := copyFile(a.Path, backup); err != nil {
			return a, &WriteError{Path: a.Path, Err: fmt.Errorf("backup: %w", err)}
		}
		a.Status = model.StatusUpdated
		a.WrittenTo = a.Path
		a.Backup = backup
	default:
		a.Status = model.StatusConflict
		a.WrittenTo = a.Path + conflictSuffix
	}

	if err := writeAtomic(a.WrittenTo, []byte(a.Content)); err != nil {
		return a, &WriteError{Path: a.WrittenTo, Err: err}
	}

	w.logger.Debug().
		Str("artifact", a.Kind).
		Str("path", a.WrittenTo).
		Str("status", string(a.Status)).
		Msg("wrote artifact")
	return a, nil
}

// WriteAll writes artifacts in order and stops at the first failure. The
// returned slice holds every artifact attempted so far.
func (w *Writer) WriteAll(artifacts []model.Artifact) ([]model.Artifact, error) {
	out := make([]model.Artifact, 0, len(artifacts))
	for _, a := range artifacts {
		written, err := w.Write(a)
		out = append(out, written)
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if info.IsDir() {
		return false, fmt.Errorf("%s is a directory", path)
	}
	return true, nil
}

// writeAtomic writes data to a temp file in the target directory and
// renames it into place.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return writeAtomic(dst, data)
}
