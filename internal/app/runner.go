package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/katemewow/arraylist/internal/config"
	"github.com/katemewow/arraylist/internal/plugin/api"
	luahost "github.com/katemewow/arraylist/internal/plugin/lua"
)

// ResultGlobal is the Lua global read back after a script finishes.
const ResultGlobal = "result"

// ArgsGlobal is the Lua global holding the script arguments.
const ArgsGlobal = "args"

// Result describes one finished script run.
type Result struct {
	RunID    string
	Script   string
	Duration time.Duration
	// Value is the Go form of the script's "result" global, nil if unset.
	Value any
}

// Runner executes list scripts with a fresh Lua state per run.
type Runner struct {
	cfg     *config.Config
	log     zerolog.Logger
	out     io.Writer
	metrics *Metrics
	newID   func() string
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithScriptOutput sets where Lua print writes. Defaults to os.Stdout.
func WithScriptOutput(w io.Writer) RunnerOption {
	return func(r *Runner) {
		r.out = w
	}
}

// WithMetrics shares a metrics tracker between runners.
func WithMetrics(m *Metrics) RunnerOption {
	return func(r *Runner) {
		r.metrics = m
	}
}

// NewRunner creates a runner. A nil cfg uses config.Default().
func NewRunner(cfg *config.Config, log zerolog.Logger, opts ...RunnerOption) *Runner {
	if cfg == nil {
		cfg = config.Default()
	}
	r := &Runner{
		cfg:   cfg,
		log:   WithComponent(log, "runner"),
		out:   os.Stdout,
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.metrics == nil {
		r.metrics = NewMetrics()
	}
	return r
}

// Metrics returns the runner's metrics tracker.
func (r *Runner) Metrics() *Metrics {
	return r.metrics
}

// Run executes the script at path.
func (r *Runner) Run(ctx context.Context, path string, args ...string) (*Result, error) {
	return r.execute(ctx, path, args, func(s *luahost.State) error {
		return s.DoFile(ctx, path)
	})
}

// RunString executes code. name identifies the chunk in logs and results.
func (r *Runner) RunString(ctx context.Context, name, code string, args ...string) (*Result, error) {
	return r.execute(ctx, name, args, func(s *luahost.State) error {
		return s.DoString(ctx, code)
	})
}

func (r *Runner) execute(ctx context.Context, script string, args []string, do func(*luahost.State) error) (*Result, error) {
	runID := r.newID()
	log := r.log.With().Str("run_id", runID).Str("script", script).Logger()

	state, err := r.newState()
	if err != nil {
		return nil, NewOperationError("init", script, errors.Join(ErrInitialization, err)).WithContext(runID)
	}
	defer state.Close()

	bridge := luahost.NewBridge(state.LuaState())
	argv := make([]any, len(args))
	for i, a := range args {
		argv[i] = a
	}
	state.SetGlobal(ArgsGlobal, bridge.ToLuaValue(argv))

	log.Debug().Int("args", len(args)).Msg("script started")
	start := time.Now()
	err = do(state)
	elapsed := time.Since(start)
	r.metrics.RecordRun(elapsed, err != nil)

	if err != nil {
		log.Error().Err(err).Dur("duration", elapsed).Msg("script failed")
		if errors.Is(err, luahost.ErrExecutionTimeout) || errors.Is(err, context.Canceled) {
			return nil, NewOperationError("run", script, err).WithContext(runID)
		}
		return nil, NewOperationError("run", script, fmt.Errorf("%w: %w", ErrScriptFailed, err)).WithContext(runID)
	}

	res := &Result{
		RunID:    runID,
		Script:   script,
		Duration: elapsed,
		Value:    bridge.ToGoValue(state.GetGlobal(ResultGlobal)),
	}
	log.Info().Dur("duration", elapsed).Msg("script finished")
	return res, nil
}

func (r *Runner) newState() (*luahost.State, error) {
	sc := r.cfg.Script
	opts := []luahost.StateOption{
		luahost.WithExecutionTimeout(sc.Timeout.Duration),
		luahost.WithOutput(r.out),
	}
	if sc.CallStack > 0 {
		opts = append(opts, luahost.WithCallStackSize(sc.CallStack))
	}
	if len(sc.AllowedPaths) > 0 {
		opts = append(opts, luahost.WithAllowedPaths(sc.AllowedPaths...))
	}

	state, err := luahost.NewState(opts...)
	if err != nil {
		return nil, err
	}

	reg := api.NewRegistry()
	if err := reg.Register(api.NewListModule(r.cfg.List.InitialCapacity, r.cfg.ListOptions()...)); err != nil {
		_ = state.Close()
		return nil, err
	}
	if err := reg.InstallAll(state); err != nil {
		_ = state.Close()
		return nil, err
	}
	return state, nil
}
