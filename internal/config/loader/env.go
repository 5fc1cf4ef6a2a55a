package loader

import (
	"os"
	"sort"
	"strings"
)

// EnvLoader collects configuration overrides from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "ARRAYLIST_")
	mapping map[string]string // Env var -> config path
	lookup  func(string) (string, bool)
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "ARRAYLIST_").
func NewEnvLoader(prefix string) *EnvLoader {
	return NewEnvLoaderWithMapping(prefix, nil)
}

// NewEnvLoaderWithMapping creates a loader with explicit variable mappings.
// Mapped variables take precedence over the derived name of the same variable.
func NewEnvLoaderWithMapping(prefix string, mapping map[string]string) *EnvLoader {
	if mapping == nil {
		mapping = make(map[string]string)
	}
	return &EnvLoader{
		prefix:  prefix,
		mapping: mapping,
		lookup:  os.LookupEnv,
		environ: os.Environ,
	}
}

// Override is one environment value destined for a config path.
type Override struct {
	Env   string
	Path  string
	Value string
}

// Load returns the overrides found in the environment, sorted by path.
// Empty values are kept; an empty string is a valid setting.
func (l *EnvLoader) Load() []Override {
	var out []Override
	seen := make(map[string]bool)

	for env, path := range l.mapping {
		if val, ok := l.lookup(env); ok {
			out = append(out, Override{Env: env, Path: path, Value: val})
			seen[env] = true
		}
	}

	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) || seen[name] {
			continue
		}
		if _, mapped := l.mapping[name]; mapped {
			continue
		}
		out = append(out, Override{Env: name, Path: l.envToPath(name), Value: value})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	l.mapping[envVar] = configPath
}

// envToPath converts ARRAYLIST_LIST_GROWTH_FACTOR to list.growthFactor.
// The first segment is the section; the rest form a camelCase key.
func (l *EnvLoader) envToPath(env string) string {
	parts := strings.Split(strings.TrimPrefix(env, l.prefix), "_")

	section := strings.ToLower(parts[0])
	if len(parts) == 1 {
		return section
	}
	key := strings.ToLower(parts[1])
	for _, part := range parts[2:] {
		if part != "" {
			key += strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
		}
	}
	return section + "." + key
}
