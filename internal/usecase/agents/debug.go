package agents

import (
	"context"
	"fmt"
	"log/slog"

	"foundry/internal/domain"
	"foundry/internal/usecase"
)

const debugSystemPrompt = `You are a debugging assistant. Given source code and
the error it produced, identify the root cause and propose a minimal fix.
Answer with the diagnosis first, then the corrected code.`

// DebugAgent diagnoses an error message against the code that produced it.
type DebugAgent struct {
	*usecase.BaseAgent
	provider domain.LLMProvider
	model    string
	budget   int
}

// NewDebugAgent builds a debug agent from its config. The config must carry
// a "model" entry.
func NewDebugAgent(cfg map[string]any, provider domain.LLMProvider, logger *slog.Logger) (domain.Agent, error) {
	a := &DebugAgent{provider: provider, budget: promptBudget(cfg)}
	base, err := usecase.NewBaseAgent(usecase.AgentSpec{
		TypeKey:        "debug",
		Capabilities:   []domain.Capability{domain.CapCodeDebugging, domain.CapCodeRepair},
		Config:         cfg,
		RequiredConfig: []string{keyModel},
	}, a, logger)
	if err != nil {
		return nil, err
	}
	a.BaseAgent = base
	a.model = base.ConfigString(keyModel)
	return a, nil
}

// ValidateInput requires both "code" and "error" fields.
func (a *DebugAgent) ValidateInput(input domain.TaskInput) error {
	code, err := inputString(input, "code")
	if err != nil {
		return err
	}
	if _, err := inputString(input, "error"); err != nil {
		return err
	}
	return checkBudget(a.model, code, a.budget)
}

func (a *DebugAgent) Execute(ctx context.Context, input domain.TaskInput) (*domain.ExecutionResponse, error) {
	code, err := inputString(input, "code")
	if err != nil {
		return nil, err
	}
	errMsg, err := inputString(input, "error")
	if err != nil {
		return nil, err
	}

	resp, err := a.provider.Chat(ctx, domain.ChatRequest{
		Model: a.model,
		Messages: []domain.Message{
			{Role: domain.RoleSystem, Content: debugSystemPrompt},
			{Role: domain.RoleUser, Content: fmt.Sprintf("Error:\n%s\n\nCode:\n```\n%s\n```", errMsg, code)},
		},
	})
	if err != nil {
		return nil, err
	}
	return domain.NewSuccessResponse(a.TypeKey(), map[string]any{
		"diagnosis": resp.Message.Content,
		"model":     resp.Model,
	}), nil
}
