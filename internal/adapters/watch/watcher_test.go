package watch_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evanschultz/kanboard/internal/adapters/watch"
)

func startWatcher(t *testing.T, path string) *watch.Watcher {
	t.Helper()
	w, err := watch.Start(watch.Config{Path: path, Debounce: 50 * time.Millisecond})
	require.NoError(t, err, "failed to start watcher")
	t.Cleanup(func() { _ = w.Stop() })
	return w
}

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	w := startWatcher(t, path)

	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(`{"n":%d}`, i)), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case at := <-w.Changes():
		assert.False(t, at.IsZero())
	case <-time.After(time.Second):
		t.Fatal("expected notification but got timeout")
	}
	select {
	case <-w.Changes():
		t.Fatal("unexpected second notification")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_SeesAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.yaml")
	require.NoError(t, os.WriteFile(path, []byte("columns: []\n"), 0o644))
	w := startWatcher(t, path)

	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte("columns:\n  - name: A\n"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case <-w.Changes():
	case <-time.After(time.Second):
		t.Fatal("expected notification for rename into place")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.json")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(other, []byte("initial"), 0o644))
	w := startWatcher(t, path)

	require.NoError(t, os.WriteFile(other, []byte("changed"), 0o644))
	select {
	case <-w.Changes():
		t.Fatal("should not notify for unrelated files")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_StartFailsForMissingDirectory(t *testing.T) {
	_, err := watch.Start(watch.Config{Path: filepath.Join(t.TempDir(), "absent", "board.json")})
	require.Error(t, err)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")
	w, err := watch.Start(watch.Config{Path: path})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		assert.NoError(t, w.Stop())
		assert.NoError(t, w.Stop())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop() timed out")
	}

	select {
	case <-w.Done():
	default:
		t.Fatal("expected Done to be closed after Stop")
	}
	select {
	case _, ok := <-w.Changes():
		assert.False(t, ok, "expected Changes to be closed after Stop")
	case <-time.After(time.Second):
		t.Fatal("Changes was not closed after Stop")
	}
}
