package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcher_shouldNotify(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "request.bin")

	fw, err := NewFileWatcher(zerolog.Nop(), func(string) {})
	require.NoError(t, err)
	defer fw.Close()
	require.NoError(t, fw.AddFile(watched))

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{
			name:  "write to watched file",
			event: fsnotify.Event{Name: watched, Op: fsnotify.Write},
			want:  true,
		},
		{
			name:  "watched file recreated",
			event: fsnotify.Event{Name: watched, Op: fsnotify.Create},
			want:  true,
		},
		{
			name:  "watched file removed",
			event: fsnotify.Event{Name: watched, Op: fsnotify.Remove},
			want:  false,
		},
		{
			name:  "chmod only",
			event: fsnotify.Event{Name: watched, Op: fsnotify.Chmod},
			want:  false,
		},
		{
			name:  "sibling file",
			event: fsnotify.Event{Name: filepath.Join(dir, "other.bin"), Op: fsnotify.Write},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fw.shouldNotify(tt.event))
		})
	}
}

func TestFileWatcher_AddFileMissingDirectory(t *testing.T) {
	fw, err := NewFileWatcher(zerolog.Nop(), func(string) {})
	require.NoError(t, err)
	defer fw.Close()

	err = fw.AddFile(filepath.Join(t.TempDir(), "missing", "request.bin"))
	assert.Error(t, err)
}

func TestFileWatcher_Integration(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "request.bin")
	require.NoError(t, os.WriteFile(watched, []byte("v1"), 0644))

	var mu sync.Mutex
	var changed []string
	fw, err := NewFileWatcher(zerolog.Nop(), func(path string) {
		mu.Lock()
		defer mu.Unlock()
		changed = append(changed, path)
	})
	require.NoError(t, err)
	defer fw.Close()
	require.NoError(t, fw.AddFile(watched))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- fw.Start(ctx)
	}()

	// Give the watcher time to start
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(watched, []byte("v2"), 0644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(changed) > 0
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	mu.Lock()
	defer mu.Unlock()
	for _, path := range changed {
		assert.Equal(t, "request.bin", filepath.Base(path))
	}
}
