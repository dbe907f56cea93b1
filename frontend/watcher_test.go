package frontend

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeHash(t *testing.T) {
	h1 := ComputeHash([]byte("class A {};"))
	h2 := ComputeHash([]byte("class A {};"))
	h3 := ComputeHash([]byte("class B {};"))

	assert.Equal(t, h1, h2, "hashing must be deterministic")
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 16, "hash is the first 8 bytes hex-encoded")
}

func waitEvent(t *testing.T, events <-chan WatchEvent) WatchEvent {
	t.Helper()
	select {
	case event, ok := <-events:
		require.True(t, ok, "event channel closed unexpectedly")
		return event
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a watch event")
		return WatchEvent{}
	}
}

func TestWatcherLifecycle(t *testing.T) {
	dir := t.TempDir()
	ix := newTestIndexer(t)

	w, err := NewWatcher(ix, WatcherConfig{
		Root:          dir,
		DebounceDelay: 20 * time.Millisecond,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	defer func() {
		cancel()
		time.Sleep(50 * time.Millisecond)
		_ = w.Stop()
	}()

	path := filepath.Join(dir, "a.mock")

	t.Run("create", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("Widget\n"), 0644))

		event := waitEvent(t, w.Events())
		assert.Equal(t, OpCreate, event.Operation)
		assert.Equal(t, "a.mock", event.Path)
		require.NotNil(t, event.Document)
		assert.Equal(t, 1, event.Document.GlobalNamespace().MemberCount())
		assert.Equal(t, 1, ix.DocumentCount())
	})

	t.Run("modify", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("Widget\nGadget\n"), 0644))

		event := waitEvent(t, w.Events())
		assert.Equal(t, OpModify, event.Operation)
		require.NotNil(t, event.Document)
		assert.Equal(t, 2, event.Document.GlobalNamespace().MemberCount())
	})

	t.Run("non-target files are ignored", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644))

		// The next observed event must be the delete below, not the txt file.
		require.NoError(t, os.Remove(path))

		event := waitEvent(t, w.Events())
		assert.Equal(t, OpDelete, event.Operation)
		assert.Equal(t, "a.mock", event.Path)
		assert.Nil(t, event.Document)
		assert.Equal(t, 0, ix.DocumentCount())
	})
}

func TestWatcherPicksUpNewDirectories(t *testing.T) {
	dir := t.TempDir()
	ix := newTestIndexer(t)

	w, err := NewWatcher(ix, WatcherConfig{
		Root:          dir,
		DebounceDelay: 20 * time.Millisecond,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	defer func() {
		cancel()
		time.Sleep(50 * time.Millisecond)
		_ = w.Stop()
	}()

	sub := filepath.Join(dir, "src")
	require.NoError(t, os.Mkdir(sub, 0755))
	// Give the watcher a moment to register the new directory
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(sub, "b.mock"), []byte("B\n"), 0644))

	event := waitEvent(t, w.Events())
	assert.Equal(t, OpCreate, event.Operation)
	assert.Equal(t, filepath.Join("src", "b.mock"), event.Path)
}
