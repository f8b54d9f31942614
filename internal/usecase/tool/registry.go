// Package tool holds the registry of capabilities the agent can route to.
package tool

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	domtool "github.com/kailas-cloud/tripagent/internal/domain/tool"
)

// Registry maps tool names to descriptors. Safe for concurrent use;
// reads dominate, registration normally happens once at startup.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]domtool.Descriptor
	logger *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{tools: make(map[string]domtool.Descriptor), logger: logger}
}

// Register stores desc under its name, replacing any previous descriptor.
func (r *Registry) Register(desc domtool.Descriptor) error {
	if err := desc.Validate(); err != nil {
		return fmt.Errorf("register tool: %w", err)
	}

	r.mu.Lock()
	_, replaced := r.tools[desc.Name]
	r.tools[desc.Name] = desc
	r.mu.Unlock()

	if replaced {
		r.logger.Warn("Tool replaced", zap.String("tool", desc.Name))
	} else {
		r.logger.Debug("Tool registered", zap.String("tool", desc.Name))
	}
	return nil
}

// Get returns the descriptor registered under name.
func (r *Registry) Get(name string) (domtool.Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.tools[name]
	return d, ok
}

// List returns a snapshot of all descriptors sorted by name.
func (r *Registry) List() []domtool.Descriptor {
	r.mu.RLock()
	out := make([]domtool.Descriptor, 0, len(r.tools))
	for _, d := range r.tools {
		out = append(out, d)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}
