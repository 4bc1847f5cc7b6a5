package engine

import (
	"context"
	"sort"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/ownership"
	"github.com/wippyai/ownership/errors"
)

// Config holds configuration for engine creation
type Config struct {
	// MemoryLimitPages sets the maximum memory per instance in pages (64KB each).
	// 0 means default (65536 pages = 4GB).
	MemoryLimitPages uint32

	// Interpreter selects wazero's interpreter instead of the compiler.
	Interpreter bool
}

// Engine is a wazero runtime plus a cache of compiled modules keyed by name.
// It is destroyed through ownership: Drop runs once, when the last owner
// releases.
type Engine struct {
	runtime  wazero.Runtime
	modules  map[string]wazero.CompiledModule
	closeErr error
	mu       sync.Mutex
	closed   atomic.Bool
}

// New creates a runtime and returns its first owner.
func New(ctx context.Context, cfg *Config) ownership.Shared[Engine] {
	runtimeCfg := wazero.NewRuntimeConfig()

	if cfg != nil {
		if cfg.Interpreter {
			runtimeCfg = wazero.NewRuntimeConfigInterpreter()
		}
		if cfg.MemoryLimitPages > 0 {
			runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
		}
	}

	return ownership.New(&Engine{
		runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		modules: make(map[string]wazero.CompiledModule),
	})
}

// Compile compiles wasm and caches it under name, replacing any module
// previously cached under that name.
func (e *Engine) Compile(ctx context.Context, name string, wasm []byte) error {
	if name == "" {
		return errors.InvalidInput(errors.PhaseEngine, "module name is empty")
	}
	if e.closed.Load() {
		return errors.Closed(errors.PhaseEngine, "engine")
	}

	compiled, err := e.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return errors.New(errors.PhaseEngine, errors.KindInvalidInput).
			Type("module").
			Cause(err).
			Detail("compile %q", name).
			Build()
	}

	e.mu.Lock()
	if e.closed.Load() {
		e.mu.Unlock()
		_ = compiled.Close(ctx)
		return errors.Closed(errors.PhaseEngine, "engine")
	}
	old := e.modules[name]
	e.modules[name] = compiled
	e.mu.Unlock()

	if old != nil {
		if err := old.Close(ctx); err != nil {
			Logger().Warn("close replaced module", zap.String("module", name), zap.Error(err))
		}
	}
	return nil
}

// Instantiate creates an anonymous instance of the module cached under
// name. The caller closes the instance.
func (e *Engine) Instantiate(ctx context.Context, name string) (api.Module, error) {
	if e.closed.Load() {
		return nil, errors.Closed(errors.PhaseEngine, "engine")
	}

	e.mu.Lock()
	compiled, ok := e.modules[name]
	e.mu.Unlock()
	if !ok {
		return nil, errors.NotFound(errors.PhaseEngine, "module", name)
	}

	mod, err := e.runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		return nil, errors.New(errors.PhaseEngine, errors.KindInvalidInput).
			Type("module").
			Cause(err).
			Detail("instantiate %q", name).
			Build()
	}
	return mod, nil
}

// Modules returns the names of cached modules in sorted order.
func (e *Engine) Modules() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	names := make([]string, 0, len(e.modules))
	for name := range e.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Closed reports whether the runtime has been closed.
func (e *Engine) Closed() bool {
	return e.closed.Load()
}

// Drop closes every compiled module and the runtime. Called by the last
// owner's release.
func (e *Engine) Drop() {
	if !e.closed.CompareAndSwap(false, true) {
		return
	}
	ctx := context.Background()

	e.mu.Lock()
	defer e.mu.Unlock()

	var err error
	for name, compiled := range e.modules {
		if cerr := compiled.Close(ctx); cerr != nil {
			err = multierr.Append(err, errors.CloseFailed(errors.PhaseEngine, "module "+name, cerr))
		}
	}
	n := len(e.modules)
	e.modules = nil

	if cerr := e.runtime.Close(ctx); cerr != nil {
		err = multierr.Append(err, errors.CloseFailed(errors.PhaseEngine, "runtime", cerr))
	}
	e.closeErr = err

	if err != nil {
		Logger().Error("engine closed with errors", zap.Int("modules", n), zap.Error(err))
		return
	}
	Logger().Debug("engine closed", zap.Int("modules", n))
}
