package domain

import (
	"context"
	"time"
)

// TaskInput is the uniform task-shaped input every agent accepts.
type TaskInput map[string]any

// Agent is a unit that accepts a task-shaped input and returns a
// success/failure response, typically by delegating to a hosted LLM.
// Execute is a black box to the registry; callers that must not crash on a
// misbehaving implementation go through SafeExecute instead.
type Agent interface {
	// Execute performs one unit of work. May return an error or even panic;
	// SafeExecute absorbs both.
	Execute(ctx context.Context, input TaskInput) (*ExecutionResponse, error)
	// SafeExecute wraps Execute with input/output validation and stats
	// tracking. It never returns an error and never panics.
	SafeExecute(ctx context.Context, input TaskInput) *ExecutionResponse

	ID() string
	Name() string
	TypeKey() string
	Capabilities() []Capability
	Stats() AgentStats
}

// ExecutionResponse is the one sanctioned outcome shape for an execute call.
// Produced exactly once per call and not mutated afterwards. ElapsedSeconds
// is stamped by SafeExecute, never by the agent itself, so timing stays
// consistent across implementations.
type ExecutionResponse struct {
	Success        bool           `json:"success"`
	Result         any            `json:"result,omitempty"`
	AgentType      string         `json:"agent_type"`
	Timestamp      string         `json:"timestamp"`
	ElapsedSeconds float64        `json:"elapsed_seconds,omitempty"`
	Error          string         `json:"error,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// NewSuccessResponse builds a successful response for the given agent type.
func NewSuccessResponse(agentType string, result any) *ExecutionResponse {
	return &ExecutionResponse{
		Success:   true,
		Result:    result,
		AgentType: agentType,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// NewErrorResponse builds a failed response carrying a human-readable error.
func NewErrorResponse(agentType, errMsg string) *ExecutionResponse {
	return &ExecutionResponse{
		Success:   false,
		AgentType: agentType,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Error:     errMsg,
	}
}

// AgentStats is a read-only snapshot of an agent's accumulated counters.
type AgentStats struct {
	ID                   string       `json:"id"`
	Name                 string       `json:"name"`
	TypeKey              string       `json:"type_key"`
	Capabilities         []Capability `json:"capabilities"`
	TotalExecutions      int64        `json:"total_executions"`
	SuccessfulExecutions int64        `json:"successful_executions"`
	SuccessRate          float64      `json:"success_rate"`
	UptimeSeconds        float64      `json:"uptime_seconds"`
	CreatedAt            time.Time    `json:"created_at"`
}
