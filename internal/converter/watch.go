package converter

import (
	"context"
	"time"

	"github.com/v0rails/v0rails/internal/discovery"
	"github.com/v0rails/v0rails/internal/watcher"
	"github.com/v0rails/v0rails/pkg/model"
)

// Report receives the result of each re-conversion
type Report func(result *model.BatchResult)

// Watch re-converts the files matching patterns whenever they are created
// or modified, until ctx is cancelled. Failures are reported, never fatal.
func (c *Converter) Watch(ctx context.Context, patterns []string, debounce time.Duration, report Report) error {
	finder, err := discovery.New(patterns, c.opts.Ignore)
	if err != nil {
		return err
	}
	roots := finder.Roots()
	if len(roots) == 0 {
		return &DiscoveryError{Patterns: patterns, Err: discovery.ErrNoFiles}
	}

	w, err := watcher.New(c.logger, roots, watcher.Options{
		Debounce: debounce,
		Filter: func(path string) bool {
			_, ok := finder.Lookup(path)
			return ok
		},
		Skip: finder.SkipDir,
	})
	if err != nil {
		return err
	}

	c.logger.Info().Strs("dirs", roots).Msg("watching for changes")

	session := c.NewSession()
	return w.Run(ctx, func(ctx context.Context, files []string) {
		result := model.NewBatchResult()
		for _, f := range files {
			m, ok := finder.Lookup(f)
			if !ok {
				continue
			}
			c.logger.Debug().Str("file", m.Path).Msg("changed")
			res, err := session.ConvertFile(ctx, m.Path, m.Rel)
			c.record(result, m.Path, res, err)
		}
		if report != nil {
			report(result)
		}
	})
}
