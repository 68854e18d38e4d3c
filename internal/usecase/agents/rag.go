package agents

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"foundry/internal/domain"
	"foundry/internal/usecase"
)

const ragSystemPrompt = `You answer questions using only the context documents
provided. If the context does not contain the answer, say so instead of
guessing. Cite the document number for every claim.`

// RAGAgent answers a query grounded on caller-supplied documents.
type RAGAgent struct {
	*usecase.BaseAgent
	provider domain.LLMProvider
	model    string
	budget   int
}

// NewRAGAgent builds a retrieval-augmented agent from its config. The config
// must carry a "model" entry.
func NewRAGAgent(cfg map[string]any, provider domain.LLMProvider, logger *slog.Logger) (domain.Agent, error) {
	a := &RAGAgent{provider: provider, budget: promptBudget(cfg)}
	base, err := usecase.NewBaseAgent(usecase.AgentSpec{
		TypeKey:        "rag",
		Capabilities:   []domain.Capability{domain.CapRAGProcessing, domain.CapResearch},
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

// ValidateInput requires a non-empty "query" and, when present, documents as
// a list of strings. The assembled prompt must fit the token budget.
func (a *RAGAgent) ValidateInput(input domain.TaskInput) error {
	query, err := inputString(input, "query")
	if err != nil {
		return err
	}
	docs, err := documents(input)
	if err != nil {
		return err
	}
	return checkBudget(a.model, query+"\n"+strings.Join(docs, "\n"), a.budget)
}

func (a *RAGAgent) Execute(ctx context.Context, input domain.TaskInput) (*domain.ExecutionResponse, error) {
	query, err := inputString(input, "query")
	if err != nil {
		return nil, err
	}
	docs, err := documents(input)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	for i, doc := range docs {
		fmt.Fprintf(&sb, "[Document %d]\n%s\n\n", i+1, doc)
	}
	fmt.Fprintf(&sb, "Question: %s", query)

	resp, err := a.provider.Chat(ctx, domain.ChatRequest{
		Model: a.model,
		Messages: []domain.Message{
			{Role: domain.RoleSystem, Content: ragSystemPrompt},
			{Role: domain.RoleUser, Content: sb.String()},
		},
	})
	if err != nil {
		return nil, err
	}
	return domain.NewSuccessResponse(a.TypeKey(), map[string]any{
		"answer":         resp.Message.Content,
		"model":          resp.Model,
		"document_count": len(docs),
	}), nil
}

// documents extracts the optional "documents" field as a string slice. Both
// []string and []any of strings are accepted since the input often arrives
// through JSON decoding.
func documents(input domain.TaskInput) ([]string, error) {
	v, ok := input["documents"]
	if !ok {
		return nil, nil
	}
	switch docs := v.(type) {
	case []string:
		return docs, nil
	case []any:
		out := make([]string, 0, len(docs))
		for _, d := range docs {
			s, ok := d.(string)
			if !ok {
				return nil, fmt.Errorf("%w: documents must be strings", domain.ErrInvalidInput)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: documents must be a list of strings", domain.ErrInvalidInput)
	}
}
