package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"foundry/internal/domain"
	"foundry/internal/infra/tracer"
)

// Executor is the one abstract operation a concrete agent implements.
// From the registry's perspective it is a black box.
type Executor interface {
	Execute(ctx context.Context, input domain.TaskInput) (*domain.ExecutionResponse, error)
}

// InputValidator is an optional hook a concrete agent may implement to
// reject malformed input before Execute runs. The default accepts everything.
type InputValidator interface {
	ValidateInput(input domain.TaskInput) error
}

// OutputValidator is an optional hook to reject a malformed result after
// Execute returns. The default accepts everything.
type OutputValidator interface {
	ValidateOutput(resp *domain.ExecutionResponse) error
}

// AgentSpec describes a BaseAgent under construction.
type AgentSpec struct {
	Name         string
	TypeKey      string
	Capabilities []domain.Capability
	Config       map[string]any
	// RequiredConfig lists config keys the concrete agent cannot run without.
	// Construction fails fast when any is absent.
	RequiredConfig []string
}

// BaseAgent carries identity, config, and running counters for a concrete
// agent, and provides the non-throwing SafeExecute wrapper around it.
//
// An instance lives for one logical task or one process and holds no
// persistent state; counters are plain ints because a single instance is
// not meant to be driven from multiple goroutines at once.
type BaseAgent struct {
	id           string
	name         string
	typeKey      string
	capabilities []domain.Capability
	config       map[string]any
	impl         Executor
	logger       *slog.Logger

	totalExecutions      int64
	successfulExecutions int64
	createdAt            time.Time
}

// NewBaseAgent validates spec.Config against spec.RequiredConfig and builds
// the lifecycle wrapper around impl. The display name falls back to the type
// key when the config carries no "name" entry and spec.Name is empty.
func NewBaseAgent(spec AgentSpec, impl Executor, logger *slog.Logger) (*BaseAgent, error) {
	if impl == nil {
		return nil, domain.NewDomainError("NewBaseAgent", domain.ErrInvalidInput, "nil executor")
	}
	for _, key := range spec.RequiredConfig {
		if _, ok := spec.Config[key]; !ok {
			return nil, domain.NewDomainError("NewBaseAgent", domain.ErrMissingConfig,
				fmt.Sprintf("%s agent: %q", spec.TypeKey, key))
		}
	}

	name := spec.Name
	if name == "" {
		if n, ok := spec.Config["name"].(string); ok && n != "" {
			name = n
		} else {
			name = spec.TypeKey
		}
	}

	now := time.Now()
	return &BaseAgent{
		id:           generateULID(now),
		name:         name,
		typeKey:      spec.TypeKey,
		capabilities: spec.Capabilities,
		config:       spec.Config,
		impl:         impl,
		logger:       logger,
		createdAt:    now,
	}, nil
}

func generateULID(t time.Time) string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

func (a *BaseAgent) ID() string                        { return a.id }
func (a *BaseAgent) Name() string                      { return a.name }
func (a *BaseAgent) TypeKey() string                   { return a.typeKey }
func (a *BaseAgent) Capabilities() []domain.Capability { return a.capabilities }

// ConfigValue returns the raw config entry for key.
func (a *BaseAgent) ConfigValue(key string) (any, bool) {
	v, ok := a.config[key]
	return v, ok
}

// ConfigString returns the config entry for key as a string, or "" when
// absent or not a string.
func (a *BaseAgent) ConfigString(key string) string {
	if s, ok := a.config[key].(string); ok {
		return s
	}
	return ""
}

// SafeExecute runs the validate-execute-validate cycle and turns every
// failure mode, including a panicking implementation, into a failed
// ExecutionResponse. It never returns nil. Elapsed time and counters are
// stamped here so timing and stats stay uniform across implementations.
func (a *BaseAgent) SafeExecute(ctx context.Context, input domain.TaskInput) (resp *domain.ExecutionResponse) {
	ctx, span := tracer.StartSpan(ctx, "agent.safe_execute")
	span.SetAttributes(
		tracer.StringAttr("agent.type", a.typeKey),
		tracer.StringAttr("agent.id", a.id),
	)
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			resp = a.failure(fmt.Sprintf("panic in execute: %v", r), input)
		}
		a.totalExecutions++
		if resp.Success {
			a.successfulExecutions++
			tracer.SetOK(span)
		} else {
			tracer.RecordError(span, fmt.Errorf("%s", resp.Error))
		}
		resp.ElapsedSeconds = time.Since(start).Seconds()
		span.End()
	}()

	if v, ok := a.impl.(InputValidator); ok {
		if err := v.ValidateInput(input); err != nil {
			return a.failure(fmt.Sprintf("input validation: %v", err), input)
		}
	}

	out, err := a.impl.Execute(ctx, input)
	if err != nil {
		return a.failure(err.Error(), input)
	}
	if out == nil {
		return a.failure("execute returned no response", input)
	}

	if v, ok := a.impl.(OutputValidator); ok {
		if err := v.ValidateOutput(out); err != nil {
			return a.failure(fmt.Sprintf("output validation: %v", err), input)
		}
	}

	return out
}

func (a *BaseAgent) failure(msg string, input domain.TaskInput) *domain.ExecutionResponse {
	a.logger.Warn("agent execution failed",
		"agent_type", a.typeKey,
		"agent_id", a.id,
		"error", msg,
	)
	resp := domain.NewErrorResponse(a.typeKey, msg)
	resp.Metadata = map[string]any{"input": input}
	return resp
}

// Stats returns a read-only snapshot of the accumulated counters.
func (a *BaseAgent) Stats() domain.AgentStats {
	rate := 0.0
	if a.totalExecutions > 0 {
		rate = float64(a.successfulExecutions) / float64(a.totalExecutions) * 100
	}
	return domain.AgentStats{
		ID:                   a.id,
		Name:                 a.name,
		TypeKey:              a.typeKey,
		Capabilities:         a.capabilities,
		TotalExecutions:      a.totalExecutions,
		SuccessfulExecutions: a.successfulExecutions,
		SuccessRate:          rate,
		UptimeSeconds:        time.Since(a.createdAt).Seconds(),
		CreatedAt:            a.createdAt,
	}
}
