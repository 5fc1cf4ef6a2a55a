package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katemewow/arraylist/internal/config"
	luahost "github.com/katemewow/arraylist/internal/plugin/lua"
)

func newTestRunner(t *testing.T, cfg *config.Config) (*Runner, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var logs, out bytes.Buffer
	log := zerolog.New(&logs)
	return NewRunner(cfg, log, WithScriptOutput(&out)), &logs, &out
}

func TestRunnerRunString(t *testing.T) {
	r, logs, out := newTestRunner(t, nil)

	res, err := r.RunString(context.Background(), "inline", `
		local l = list.of(3, 1, 2)
		l:add(4)
		print(#l)
		result = l
	`)
	require.NoError(t, err)

	_, err = uuid.Parse(res.RunID)
	assert.NoError(t, err)
	assert.Equal(t, "inline", res.Script)
	assert.Equal(t, []any{int64(3), int64(1), int64(2), int64(4)}, res.Value)
	assert.Equal(t, "4\n", out.String())
	assert.Contains(t, logs.String(), res.RunID)
	assert.Contains(t, logs.String(), "script finished")

	s := r.Metrics().Snapshot()
	assert.Equal(t, uint64(1), s.Runs)
	assert.Zero(t, s.Failures)
}

func TestRunnerArgs(t *testing.T) {
	r, _, _ := newTestRunner(t, nil)
	res, err := r.RunString(context.Background(), "args", `result = #args .. args[1]`, "x", "y")
	require.NoError(t, err)
	assert.Equal(t, "2x", res.Value)
}

func TestRunnerUsesListConfig(t *testing.T) {
	cfg := config.Default()
	cfg.List.InitialCapacity = 2
	cfg.List.MaxCapacity = 3

	r, _, _ := newTestRunner(t, cfg)
	res, err := r.RunString(context.Background(), "cap", `result = list.new():capacity()`)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Value)

	_, err = r.RunString(context.Background(), "full", `
		local l = list.new()
		for i = 1, 4 do l:add(i) end
	`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrScriptFailed)
}

func TestRunnerScriptError(t *testing.T) {
	r, logs, _ := newTestRunner(t, nil)
	_, err := r.RunString(context.Background(), "bad", `list.of(1):get(5)`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrScriptFailed)

	var opErr *OperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "run", opErr.Op)
	assert.Equal(t, "bad", opErr.Target)
	assert.NotEmpty(t, opErr.Context)
	assert.Contains(t, logs.String(), "script failed")
	assert.Equal(t, uint64(1), r.Metrics().Snapshot().Failures)
}

func TestRunnerTimeout(t *testing.T) {
	cfg := config.Default()
	cfg.Script.Timeout = config.Duration{Duration: 50 * time.Millisecond}

	r, _, _ := newTestRunner(t, cfg)
	_, err := r.RunString(context.Background(), "spin", `while true do end`)
	require.Error(t, err)
	assert.ErrorIs(t, err, luahost.ErrExecutionTimeout)
	assert.NotErrorIs(t, err, ErrScriptFailed)
}

func TestRunnerRunFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.lua")
	require.NoError(t, os.WriteFile(path, []byte(`result = list.of("a", "b"):size()`), 0o644))

	cfg := config.Default()
	cfg.Script.AllowedPaths = []string{dir}
	r, _, _ := newTestRunner(t, cfg)

	res, err := r.Run(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Value)
	assert.Equal(t, path, res.Script)

	other := filepath.Join(t.TempDir(), "other.lua")
	require.NoError(t, os.WriteFile(other, []byte(`result = 1`), 0o644))
	_, err = r.Run(context.Background(), other)
	assert.ErrorIs(t, err, luahost.ErrPathNotAllowed)
}

func TestRunnerFreshStatePerRun(t *testing.T) {
	r, _, _ := newTestRunner(t, nil)
	_, err := r.RunString(context.Background(), "one", `leaked = 1`)
	require.NoError(t, err)

	res, err := r.RunString(context.Background(), "two", `result = leaked == nil`)
	require.NoError(t, err)
	assert.Equal(t, true, res.Value)
}

func TestRunnerSelfReferencingResult(t *testing.T) {
	tests := []struct {
		name string
		code string
		want any
	}{
		{"list holds itself", `local l = list.new(); l:add(1); l:add(l); result = l`, []any{int64(1), nil}},
		{"table holds itself", `local t = {}; t[1] = t; result = t`, []any{nil}},
		{"list and table", `local l = list.new(); local t = {l}; l:add(t); result = t`, []any{[]any{nil}}},
		{"two lists", `local a, b = list.new(), list.new(); a:add(b); b:add(a); result = a`, []any{[]any{nil}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTestRunner(t, nil)
			res, err := r.RunString(context.Background(), "cycle", tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Value)
		})
	}
}

func TestOperationError(t *testing.T) {
	err := NewOperationError("run", "x.lua", ErrScriptFailed).WithContext("id")
	assert.Equal(t, "run x.lua (id): script failed", err.Error())
	assert.ErrorIs(t, err, ErrScriptFailed)

	var nilErr *OperationError
	assert.Nil(t, nilErr.WithContext("c"))
	assert.Empty(t, nilErr.Error())
}
