package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A camera-upload burst must come out as one debounced batch without
// panicking or dropping paths; run with -race.
func TestWatcherEmitsDebouncedBurst(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	files, _, err := StartWatcher(ctx, WatchConfig{
		Roots:    []string{dir},
		Debounce: 5 * time.Millisecond,
	}, nil)
	require.NoError(t, err)

	const n = 40
	got := make(map[string]struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range files {
			got[p] = struct{}{}
			if len(got) == n {
				cancel()
			}
		}
	}()

	for i := 0; i < n; i++ {
		path := filepath.Join(dir, fmt.Sprintf("policy_%02d.jpg", i))
		require.NoError(t, os.WriteFile(path, []byte("img"), 0o644))
	}

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatalf("timed out; received %d of %d paths", len(got), n)
	}
	assert.Len(t, got, n)
}

func TestWatcherIgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	files, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{dir}}, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scan.jpg"), []byte("img"), 0o644))

	select {
	case p := <-files:
		// Events are delivered in order, so by the time the jpg arrives the
		// txt has already been filtered out.
		assert.Equal(t, filepath.Join(dir, "scan.jpg"), p)
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for scan.jpg")
	}
}
