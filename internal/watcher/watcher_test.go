package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wifimon/internal/logger"
)

func TestWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "com.apple.airport.preferences.plist")
	other := filepath.Join(dir, "unrelated.plist")
	require.NoError(t, os.WriteFile(target, []byte("v0"), 0644))

	var calls atomic.Int32
	changed := make(chan string, 4)
	w := New([]string{target}, func(path string) {
		calls.Add(1)
		changed <- path
	}, logger.NewTestLogger()).WithDebounce(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	// give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(other, []byte("x"), 0644))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(target, []byte("v"), 0644))
	}

	select {
	case path := <-changed:
		assert.Equal(t, target, path)
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "writes within the debounce window coalesce")

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcherNothingToWatch(t *testing.T) {
	w := New([]string{"/nonexistent/dir/file.plist"}, func(string) {}, logger.NewTestLogger())
	err := w.Watch(context.Background())
	assert.ErrorIs(t, err, ErrNothingToWatch)
}
