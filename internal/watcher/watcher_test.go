package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{0, "NONE"},
		{OpCreate, "CREATE"},
		{OpWrite | OpCreate, "CREATE|WRITE"},
		{OpRemove | OpRename | OpChmod, "REMOVE|RENAME|CHMOD"},
		{Op(1 << 10), "UNKNOWN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.op.String())
	}
	assert.True(t, (OpCreate | OpWrite).Has(OpWrite))
	assert.False(t, OpCreate.Has(OpWrite))
}

func TestConvertOp(t *testing.T) {
	assert.Equal(t, OpCreate|OpWrite, convertOp(fsnotify.Create|fsnotify.Write))
	assert.Equal(t, OpRemove|OpRename|OpChmod, convertOp(fsnotify.Remove|fsnotify.Rename|fsnotify.Chmod))
	assert.Equal(t, Op(0), convertOp(0))
}

func TestNewErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := New(filepath.Join(dir, "missing.lua"))
	assert.ErrorIs(t, err, ErrPathNotExist)

	_, err = New(dir)
	assert.ErrorIs(t, err, ErrIsDirectory)
}

func TestAcceptFiltersPathAndOp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.lua")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	w, err := New(path)
	require.NoError(t, err)

	_, ok := w.accept(fsnotify.Event{Name: path, Op: fsnotify.Write})
	assert.True(t, ok)
	_, ok = w.accept(fsnotify.Event{Name: filepath.Join(dir, "other.lua"), Op: fsnotify.Write})
	assert.False(t, ok)
	_, ok = w.accept(fsnotify.Event{Name: path, Op: fsnotify.Chmod})
	assert.False(t, ok)

	w, err = New(path, WithOps(OpChmod))
	require.NoError(t, err)
	_, ok = w.accept(fsnotify.Event{Name: path, Op: fsnotify.Chmod})
	assert.True(t, ok)
}

func TestRunDeliversChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.lua")
	require.NoError(t, os.WriteFile(path, []byte("-- v1"), 0o644))

	w, err := New(path, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Event, 10)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(ev Event) { got <- ev })
	}()

	// Give the backend time to register the directory.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.lua"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("-- v2"), 0o644))

	select {
	case ev := <-got:
		assert.Equal(t, w.Path(), ev.Path)
		assert.True(t, ev.Op&(OpCreate|OpWrite) != 0)
	case <-time.After(2 * time.Second):
		t.Fatal("no change delivered")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	stats := w.Stats()
	assert.GreaterOrEqual(t, stats.Events, int64(1))
	assert.GreaterOrEqual(t, stats.Deliveries, int64(1))
}

func TestRunNilHandler(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.lua")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	w, err := New(path)
	require.NoError(t, err)
	assert.ErrorIs(t, w.Run(context.Background(), nil), ErrNilHandler)
}
