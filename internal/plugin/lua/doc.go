// Package lua hosts the Lua runtime that list scripts run in.
//
// This package wraps the gopher-lua library to provide:
//   - Sandboxed Lua state management
//   - Go-Lua type conversion bridge
//   - Execution timeouts bound to a context
//
// # State
//
//	state, err := lua.NewState(
//	    lua.WithExecutionTimeout(2 * time.Second),
//	    lua.WithAllowedPaths("./scripts"),
//	)
//	if err != nil {
//	    return err
//	}
//	defer state.Close()
//
//	if err := state.DoFile(ctx, "scripts/fill.lua"); err != nil {
//	    return err
//	}
//
// # Sandbox
//
// Only the base, package, table, string and math libraries are opened.
// dofile, loadfile, load and loadstring are removed, module search paths are
// cleared, and require only loads the safe libraries and modules registered
// with PreloadModule. print writes to the writer given by WithOutput.
//
// # Bridge
//
// The Bridge converts between Go and Lua values:
//
//	bridge := lua.NewBridge(state.LuaState())
//	goVal := bridge.ToGoValue(state.GetGlobal("result"))
package lua
