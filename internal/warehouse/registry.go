package warehouse

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/kenmck3772/welltegra-ml-api/internal/config"
)

// Factory constructs an Executor for a backend type.
type Factory func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Executor, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds a backend factory to the registry.
// Called by backend implementations in their init() functions.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// New creates an Executor for the backend named in cfg.Warehouse.Type.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Executor, error) {
	name := cfg.Warehouse.Type
	if name == "" {
		return nil, fmt.Errorf("warehouse type not specified")
	}

	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, &UnknownBackendError{Type: name, Available: ListBackends()}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return factory(ctx, cfg, logger)
}

// ListBackends returns all registered backend names (sorted).
func ListBackends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownBackendError is returned when an unregistered backend is requested.
type UnknownBackendError struct {
	Type      string
	Available []string
}

func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown warehouse type %q (available: %v)", e.Type, e.Available)
}
