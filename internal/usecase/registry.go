package usecase

import (
	"log/slog"
	"sort"
	"sync"

	"foundry/internal/domain"
)

// AgentFactory constructs one agent instance from a config mapping.
type AgentFactory func(cfg map[string]any) (domain.Agent, error)

// Registration binds a type key to a concrete agent constructor together
// with its introspection metadata.
type Registration struct {
	TypeKey      string
	Description  string
	InputShape   string // e.g. "code_input", "query_input"
	Capabilities []domain.Capability
	New          AgentFactory
}

// TypeDescriptor is the read-only projection of a registration.
type TypeDescriptor struct {
	TypeKey      string              `json:"type_key"`
	Description  string              `json:"description"`
	InputShape   string              `json:"input_shape"`
	Capabilities []domain.Capability `json:"capabilities"`
}

// Registry maps type keys to agent constructors. It is built explicitly and
// passed by reference; the expected lifecycle is register everything during
// process init, then read-only lookups from any goroutine. The RWMutex makes
// the read paths safe under that lifecycle; interleaving Register with
// concurrent Create calls is not supported.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Registration
	logger  *slog.Logger
}

// NewRegistry creates an empty agent registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		entries: make(map[string]Registration),
		logger:  logger,
	}
}

// Register stores reg under its type key. Re-registering an existing key
// overwrites it, last writer wins, with a warning log; tests rely on this
// for hot-swapping implementations.
func (r *Registry) Register(reg Registration) error {
	if reg.TypeKey == "" {
		return domain.NewDomainError("Registry.Register", domain.ErrInvalidInput, "empty type key")
	}
	if reg.New == nil {
		return domain.NewDomainError("Registry.Register", domain.ErrInvalidInput, "nil factory for "+reg.TypeKey)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[reg.TypeKey]; exists {
		r.logger.Warn("re-registering agent type, previous registration replaced", "type_key", reg.TypeKey)
	} else {
		r.logger.Info("agent type registered", "type_key", reg.TypeKey, "input_shape", reg.InputShape)
	}
	r.entries[reg.TypeKey] = reg
	return nil
}

// Create instantiates the agent registered under typeKey with the given
// config. Unknown keys fail with ErrNotFound.
func (r *Registry) Create(typeKey string, cfg map[string]any) (domain.Agent, error) {
	r.mu.RLock()
	reg, ok := r.entries[typeKey]
	r.mu.RUnlock()

	if !ok {
		return nil, domain.NewDomainError("Registry.Create", domain.ErrNotFound, typeKey)
	}
	return reg.New(cfg)
}

// CreateAllWith instantiates one agent per registered type whose default
// capabilities include capability, keyed by type key. It fails with
// ErrNotFound when no registered type claims the capability.
func (r *Registry) CreateAllWith(capability domain.Capability, cfg map[string]any) (map[string]domain.Agent, error) {
	r.mu.RLock()
	var matched []Registration
	for _, reg := range r.entries {
		for _, c := range reg.Capabilities {
			if c == capability {
				matched = append(matched, reg)
				break
			}
		}
	}
	r.mu.RUnlock()

	if len(matched) == 0 {
		return nil, domain.NewDomainError("Registry.CreateAllWith", domain.ErrNotFound, capability.String())
	}

	agents := make(map[string]domain.Agent, len(matched))
	for _, reg := range matched {
		a, err := reg.New(cfg)
		if err != nil {
			return nil, err
		}
		agents[reg.TypeKey] = a
	}
	return agents, nil
}

// List returns every registered type key, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.entries))
	for key := range r.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Describe returns the introspection projection of every registration.
func (r *Registry) Describe() map[string]TypeDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]TypeDescriptor, len(r.entries))
	for key, reg := range r.entries {
		out[key] = TypeDescriptor{
			TypeKey:      reg.TypeKey,
			Description:  reg.Description,
			InputShape:   reg.InputShape,
			Capabilities: reg.Capabilities,
		}
	}
	return out
}
