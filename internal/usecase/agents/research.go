package agents

import (
	"context"
	"log/slog"

	"foundry/internal/domain"
	"foundry/internal/usecase"
)

const researchSystemPrompt = `You are a research assistant. Answer the question
thoroughly, state your assumptions, and note where your knowledge may be
incomplete or out of date.`

// ResearchAgent answers open-ended research and planning questions.
type ResearchAgent struct {
	*usecase.BaseAgent
	provider domain.LLMProvider
	model    string
	budget   int
}

// NewResearchAgent builds a research agent from its config. The config must
// carry a "model" entry.
func NewResearchAgent(cfg map[string]any, provider domain.LLMProvider, logger *slog.Logger) (domain.Agent, error) {
	a := &ResearchAgent{provider: provider, budget: promptBudget(cfg)}
	base, err := usecase.NewBaseAgent(usecase.AgentSpec{
		TypeKey:        "research",
		Capabilities:   []domain.Capability{domain.CapResearch, domain.CapStrategicPlanning},
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

// ValidateInput requires a non-empty "query" field within the token budget.
func (a *ResearchAgent) ValidateInput(input domain.TaskInput) error {
	query, err := inputString(input, "query")
	if err != nil {
		return err
	}
	return checkBudget(a.model, query, a.budget)
}

func (a *ResearchAgent) Execute(ctx context.Context, input domain.TaskInput) (*domain.ExecutionResponse, error) {
	query, err := inputString(input, "query")
	if err != nil {
		return nil, err
	}

	resp, err := a.provider.Chat(ctx, domain.ChatRequest{
		Model: a.model,
		Messages: []domain.Message{
			{Role: domain.RoleSystem, Content: researchSystemPrompt},
			{Role: domain.RoleUser, Content: query},
		},
	})
	if err != nil {
		return nil, err
	}
	return domain.NewSuccessResponse(a.TypeKey(), map[string]any{
		"answer": resp.Message.Content,
		"model":  resp.Model,
	}), nil
}
