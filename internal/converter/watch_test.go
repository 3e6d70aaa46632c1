package converter

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0rails/v0rails/pkg/model"
)

func TestWatch_ConvertsChangedFiles(t *testing.T) {
	src, opts := fixture(t)
	c := New(zerolog.Nop(), opts)

	ctx, cancel := context.WithCancel(context.Background())
	reports := make(chan *model.BatchResult, 4)
	done := make(chan error, 1)
	go func() {
		done <- c.Watch(ctx, []string{filepath.Join(src, "**", "*.jsx")}, 50*time.Millisecond,
			func(r *model.BatchResult) { reports <- r })
	}()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})

	// let the watch register before writing
	time.Sleep(200 * time.Millisecond)
	writeSource(t, src, "Badge.jsx", badgeSource)
	writeSource(t, src, "notes.txt", "ignored")

	select {
	case r := <-reports:
		assert.Equal(t, 1, r.SuccessCount)
		assert.Equal(t, 0, r.ErrorCount)
		require.Len(t, r.IRs, 1)
		assert.Equal(t, "Badge", r.IRs[0].Name)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for conversion")
	}

	assert.FileExists(t, filepath.Join(opts.Emit.Dest, "ui", "badge_component.rb"))
}

func TestWatch_NoDirectories(t *testing.T) {
	src, opts := fixture(t)
	err := New(zerolog.Nop(), opts).Watch(context.Background(), []string{filepath.Join(src, "missing", "*.jsx")}, 0, nil)

	var discErr *DiscoveryError
	assert.ErrorAs(t, err, &discErr)
}
