package api

import (
	"fmt"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"

	luahost "github.com/katemewow/arraylist/internal/plugin/lua"
)

// Module is a Lua API module exposed to scripts.
type Module interface {
	// Name returns the module name, used both for require and as the global.
	Name() string

	// Loader builds the module table and pushes it. It follows the
	// lua.LGFunction contract and returns 1.
	Loader(L *lua.LState) int
}

// Registry manages API modules and their installation.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Module
}

// NewRegistry creates a new API registry.
func NewRegistry() *Registry {
	return &Registry{
		modules: make(map[string]Module),
	}
}

// Register adds a module to the registry.
func (r *Registry) Register(mod Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[mod.Name()]; exists {
		return fmt.Errorf("module %q already registered", mod.Name())
	}
	r.modules[mod.Name()] = mod
	return nil
}

// Get returns a module by name.
func (r *Registry) Get(name string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mod, ok := r.modules[name]
	return mod, ok
}

// Names returns all registered module names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InstallAll preloads every module into the state.
func (r *Registry) InstallAll(state *luahost.State) error {
	for _, name := range r.Names() {
		mod, _ := r.Get(name)
		if err := state.PreloadModule(name, mod.Loader); err != nil {
			return fmt.Errorf("install module %s: %w", name, err)
		}
	}
	return nil
}
