package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/katemewow/arraylist/internal/config/loader"
	"github.com/katemewow/arraylist/internal/engine/arraylist"
	"github.com/katemewow/arraylist/internal/engine/store"
)

// EnvPrefix is the prefix of environment variables read by ApplyEnv.
const EnvPrefix = "ARRAYLIST_"

// Config is the complete configuration of the arraylist tool.
type Config struct {
	List   ListConfig   `toml:"list" yaml:"list"`
	Script ScriptConfig `toml:"script" yaml:"script"`
	Log    LogConfig    `toml:"log" yaml:"log"`
	Watch  WatchConfig  `toml:"watch" yaml:"watch"`
}

// ListConfig holds the defaults for lists created by scripts.
type ListConfig struct {
	// InitialCapacity is used by list.new() when no capacity is given.
	InitialCapacity int `toml:"initialCapacity" yaml:"initialCapacity"`
	// GrowthFactor multiplies the capacity on growth. Must be > 1.
	GrowthFactor float64 `toml:"growthFactor" yaml:"growthFactor"`
	// MaxCapacity bounds the capacity of every list.
	MaxCapacity int `toml:"maxCapacity" yaml:"maxCapacity"`
}

// ScriptConfig controls the Lua script host.
type ScriptConfig struct {
	Timeout      Duration `toml:"timeout" yaml:"timeout"`
	CallStack    int      `toml:"callStack" yaml:"callStack"`
	AllowedPaths []string `toml:"allowedPaths" yaml:"allowedPaths"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// WatchConfig controls the script file watcher.
type WatchConfig struct {
	Debounce Duration `toml:"debounce" yaml:"debounce"`
}

// Duration is a time.Duration that decodes from strings such as "250ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		List: ListConfig{
			InitialCapacity: arraylist.DefaultCapacity,
			GrowthFactor:    store.DefaultGrowthFactor,
			MaxCapacity:     store.MaxCapacity,
		},
		Script: ScriptConfig{
			Timeout:   Duration{5 * time.Second},
			CallStack: 256,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Watch: WatchConfig{
			Debounce: Duration{200 * time.Millisecond},
		},
	}
}

// Load builds a configuration from the defaults, the file at path, and the
// environment, in that order, and validates the result.
// An empty path or a missing file leaves the defaults in place.
func Load(path string) (*Config, error) {
	return LoadFS(loader.DefaultFS(), path)
}

// LoadFS is Load with an explicit file system.
func LoadFS(fsys loader.FileSystem, path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := loader.Load(fsys, path, cfg); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	if err := cfg.ApplyEnv(EnvPrefix); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from environment variables that start with
// prefix, e.g. ARRAYLIST_LIST_GROWTH_FACTOR=2 sets list.growthFactor.
func (c *Config) ApplyEnv(prefix string) error {
	return c.applyOverrides(loader.NewEnvLoader(prefix).Load())
}

func (c *Config) applyOverrides(overrides []loader.Override) error {
	for _, o := range overrides {
		if err := c.Set(o.Path, o.Value); err != nil {
			return fmt.Errorf("env %s: %w", o.Env, err)
		}
	}
	return nil
}

// Set assigns a setting from its string form. Paths use the file keys,
// e.g. "list.growthFactor" or "log.level".
func (c *Config) Set(path, value string) error {
	var err error
	switch path {
	case "list.initialCapacity":
		c.List.InitialCapacity, err = strconv.Atoi(value)
	case "list.growthFactor":
		c.List.GrowthFactor, err = strconv.ParseFloat(value, 64)
	case "list.maxCapacity":
		c.List.MaxCapacity, err = strconv.Atoi(value)
	case "script.timeout":
		err = c.Script.Timeout.UnmarshalText([]byte(value))
	case "script.callStack":
		c.Script.CallStack, err = strconv.Atoi(value)
	case "script.allowedPaths":
		c.Script.AllowedPaths = splitList(value)
	case "log.level":
		c.Log.Level = value
	case "log.format":
		c.Log.Format = value
	case "watch.debounce":
		err = c.Watch.Debounce.UnmarshalText([]byte(value))
	default:
		return fmt.Errorf("%q: %w", path, ErrSettingNotFound)
	}
	if err != nil {
		return &ValidationError{Path: path, Value: value, Message: err.Error()}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var (
	logLevels  = []string{"trace", "debug", "info", "warn", "error", "disabled"}
	logFormats = []string{"console", "json"}
)

// Validate checks every setting and returns the first violation.
func (c *Config) Validate() error {
	switch {
	case c.List.InitialCapacity < 0:
		return &ValidationError{Path: "list.initialCapacity", Value: c.List.InitialCapacity, Message: "must not be negative"}
	case c.List.GrowthFactor <= 1:
		return &ValidationError{Path: "list.growthFactor", Value: c.List.GrowthFactor, Message: "must be greater than 1"}
	case c.List.MaxCapacity <= 0 || c.List.MaxCapacity > store.MaxCapacity:
		return &ValidationError{Path: "list.maxCapacity", Value: c.List.MaxCapacity, Message: fmt.Sprintf("must be in [1, %d]", store.MaxCapacity)}
	case c.List.InitialCapacity > c.List.MaxCapacity:
		return &ValidationError{Path: "list.initialCapacity", Value: c.List.InitialCapacity, Message: "exceeds list.maxCapacity"}
	case c.Script.Timeout.Duration < 0:
		return &ValidationError{Path: "script.timeout", Value: c.Script.Timeout.String(), Message: "must not be negative"}
	case c.Script.CallStack <= 0:
		return &ValidationError{Path: "script.callStack", Value: c.Script.CallStack, Message: "must be positive"}
	case !contains(logLevels, c.Log.Level):
		return &ValidationError{Path: "log.level", Value: c.Log.Level, Message: "must be one of " + strings.Join(logLevels, ", ")}
	case !contains(logFormats, c.Log.Format):
		return &ValidationError{Path: "log.format", Value: c.Log.Format, Message: "must be one of " + strings.Join(logFormats, ", ")}
	case c.Watch.Debounce.Duration < 0:
		return &ValidationError{Path: "watch.debounce", Value: c.Watch.Debounce.String(), Message: "must not be negative"}
	}
	return nil
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// Policy returns the growth policy described by the list section.
func (c *Config) Policy() store.GrowthPolicy {
	return store.GrowthPolicy{
		Factor: c.List.GrowthFactor,
		Max:    c.List.MaxCapacity,
	}
}

// ListOptions converts the list section into list construction options.
func (c *Config) ListOptions() []arraylist.Option {
	return []arraylist.Option{arraylist.WithPolicy(c.Policy())}
}
