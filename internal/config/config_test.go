package config

import (
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katemewow/arraylist/internal/config/loader"
	"github.com/katemewow/arraylist/internal/engine/arraylist"
	"github.com/katemewow/arraylist/internal/engine/store"
)

type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	s, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(s), nil
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, arraylist.DefaultCapacity, cfg.List.InitialCapacity)
	assert.InDelta(t, store.DefaultGrowthFactor, cfg.List.GrowthFactor, 1e-9)
	assert.Equal(t, 5*time.Second, cfg.Script.Timeout.Duration)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadFSTOML(t *testing.T) {
	fsys := memFS{"/a.toml": `
[list]
initialCapacity = 4
growthFactor = 2.0

[script]
timeout = "750ms"
allowedPaths = ["/scripts"]

[log]
level = "debug"
format = "json"

[watch]
debounce = "1s"
`}
	cfg, err := LoadFS(fsys, "/a.toml")
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.List.InitialCapacity)
	assert.InDelta(t, 2.0, cfg.List.GrowthFactor, 1e-9)
	assert.Equal(t, store.MaxCapacity, cfg.List.MaxCapacity)
	assert.Equal(t, 750*time.Millisecond, cfg.Script.Timeout.Duration)
	assert.Equal(t, []string{"/scripts"}, cfg.Script.AllowedPaths)
	assert.Equal(t, 256, cfg.Script.CallStack)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, time.Second, cfg.Watch.Debounce.Duration)
}

func TestLoadFSYAML(t *testing.T) {
	fsys := memFS{"/a.yaml": `
list:
  maxCapacity: 100
script:
  timeout: 2s
log:
  level: warn
`}
	cfg, err := LoadFS(fsys, "/a.yaml")
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.List.MaxCapacity)
	assert.Equal(t, 2*time.Second, cfg.Script.Timeout.Duration)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadFSMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFS(memFS{}, "/none.toml")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = LoadFS(memFS{}, "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFSParseError(t *testing.T) {
	_, err := LoadFS(memFS{"/a.toml": "[list\n"}, "/a.toml")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "/a.toml", perr.Path)
}

func TestLoadFSUnsupportedExtension(t *testing.T) {
	_, err := LoadFS(memFS{"/a.json": "{}"}, "/a.json")
	assert.ErrorIs(t, err, loader.ErrUnsupportedFormat)
}

func TestLoadFSValidation(t *testing.T) {
	_, err := LoadFS(memFS{"/a.toml": "[list]\ngrowthFactor = 1.0\n"}, "/a.toml")
	assert.ErrorIs(t, err, ErrValidationFailed)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "list.growthFactor", verr.Path)
}

func TestLoadFSEnvOverrides(t *testing.T) {
	t.Setenv("ARRAYLIST_LIST_GROWTH_FACTOR", "3")
	t.Setenv("ARRAYLIST_LOG_LEVEL", "error")
	t.Setenv("ARRAYLIST_SCRIPT_ALLOWED_PATHS", "a, b")

	cfg, err := LoadFS(memFS{"/a.toml": "[list]\ngrowthFactor = 2.0\n"}, "/a.toml")
	require.NoError(t, err)
	assert.InDelta(t, 3.0, cfg.List.GrowthFactor, 1e-9)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, []string{"a", "b"}, cfg.Script.AllowedPaths)
}

func TestLoadFSBadEnv(t *testing.T) {
	t.Setenv("ARRAYLIST_WATCH_DEBOUNCE", "soon")
	_, err := LoadFS(memFS{}, "")
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, err.Error(), "ARRAYLIST_WATCH_DEBOUNCE")

	t.Setenv("ARRAYLIST_WATCH_DEBOUNCE", "1ms")
	t.Setenv("ARRAYLIST_NOPE_KEY", "1")
	_, err = LoadFS(memFS{}, "")
	assert.ErrorIs(t, err, ErrSettingNotFound)
}

func TestSet(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Set("list.initialCapacity", "3"))
	require.NoError(t, cfg.Set("list.maxCapacity", "30"))
	require.NoError(t, cfg.Set("script.callStack", "64"))
	require.NoError(t, cfg.Set("script.timeout", "1m"))
	require.NoError(t, cfg.Set("log.format", "json"))

	assert.Equal(t, 3, cfg.List.InitialCapacity)
	assert.Equal(t, 30, cfg.List.MaxCapacity)
	assert.Equal(t, 64, cfg.Script.CallStack)
	assert.Equal(t, time.Minute, cfg.Script.Timeout.Duration)
	assert.Equal(t, "json", cfg.Log.Format)

	assert.ErrorIs(t, cfg.Set("list.initialCapacity", "x"), ErrValidationFailed)
	assert.ErrorIs(t, cfg.Set("list.size", "1"), ErrSettingNotFound)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"negative capacity", func(c *Config) { c.List.InitialCapacity = -1 }, "list.initialCapacity"},
		{"factor one", func(c *Config) { c.List.GrowthFactor = 1 }, "list.growthFactor"},
		{"zero max", func(c *Config) { c.List.MaxCapacity = 0 }, "list.maxCapacity"},
		{"max too large", func(c *Config) { c.List.MaxCapacity = store.MaxCapacity + 1 }, "list.maxCapacity"},
		{"initial above max", func(c *Config) { c.List.MaxCapacity = 5; c.List.InitialCapacity = 6 }, "list.initialCapacity"},
		{"negative timeout", func(c *Config) { c.Script.Timeout.Duration = -time.Second }, "script.timeout"},
		{"zero stack", func(c *Config) { c.Script.CallStack = 0 }, "script.callStack"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"negative debounce", func(c *Config) { c.Watch.Debounce.Duration = -1 }, "watch.debounce"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.path, verr.Path)
		})
	}
}

func TestListOptions(t *testing.T) {
	cfg := Default()
	cfg.List.GrowthFactor = 2
	cfg.List.MaxCapacity = 8

	l, err := arraylist.NewWithCapacity[int](2, cfg.ListOptions()...)
	require.NoError(t, err)
	for i := 0; i < 8; i++ {
		require.NoError(t, l.Add(i))
	}
	assert.Equal(t, 8, l.Cap())
	assert.ErrorIs(t, l.Add(8), arraylist.ErrCapacityExhausted)
}
