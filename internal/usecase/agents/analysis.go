package agents

import (
	"context"
	"fmt"
	"log/slog"

	"foundry/internal/domain"
	"foundry/internal/usecase"
)

const analysisSystemPrompt = `You are a senior software engineer reviewing code.
Report structure, likely bugs, and concrete improvements. Be specific and cite
line-level evidence from the code you are given.`

// CodeAnalysisAgent reviews a piece of source code and reports findings.
type CodeAnalysisAgent struct {
	*usecase.BaseAgent
	provider domain.LLMProvider
	model    string
	budget   int
}

// NewCodeAnalysisAgent builds a code analysis agent from its config. The
// config must carry a "model" entry naming the model to call.
func NewCodeAnalysisAgent(cfg map[string]any, provider domain.LLMProvider, logger *slog.Logger) (domain.Agent, error) {
	a := &CodeAnalysisAgent{provider: provider, budget: promptBudget(cfg)}
	base, err := usecase.NewBaseAgent(usecase.AgentSpec{
		TypeKey:        "code_analysis",
		Capabilities:   []domain.Capability{domain.CapCodeAnalysis, domain.CapDocumentation},
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

// ValidateInput requires a non-empty "code" field within the token budget.
func (a *CodeAnalysisAgent) ValidateInput(input domain.TaskInput) error {
	code, err := inputString(input, "code")
	if err != nil {
		return err
	}
	return checkBudget(a.model, code, a.budget)
}

func (a *CodeAnalysisAgent) Execute(ctx context.Context, input domain.TaskInput) (*domain.ExecutionResponse, error) {
	code, err := inputString(input, "code")
	if err != nil {
		return nil, err
	}
	task := "Analyze this code."
	if t, ok := input["task"].(string); ok && t != "" {
		task = t
	}

	resp, err := a.provider.Chat(ctx, domain.ChatRequest{
		Model: a.model,
		Messages: []domain.Message{
			{Role: domain.RoleSystem, Content: analysisSystemPrompt},
			{Role: domain.RoleUser, Content: fmt.Sprintf("%s\n\n```\n%s\n```", task, code)},
		},
	})
	if err != nil {
		return nil, err
	}
	return domain.NewSuccessResponse(a.TypeKey(), map[string]any{
		"analysis": resp.Message.Content,
		"model":    resp.Model,
	}), nil
}
