// Package agents provides the built-in agent implementations and their
// registry wiring. Every agent here does exactly one unit of work: format a
// prompt from the task input, call a hosted model once, and wrap the text
// result in a response.
package agents

import (
	"fmt"
	"log/slog"

	"foundry/internal/domain"
	"foundry/internal/usecase"
)

// Config keys shared by the built-in agents.
const (
	keyModel           = "model"
	keyMaxPromptTokens = "max_prompt_tokens"
)

// defaultMaxPromptTokens caps prompt size when the config does not say.
const defaultMaxPromptTokens = 8192

// Registrations returns the registry entries for every built-in agent,
// all backed by the given provider.
func Registrations(provider domain.LLMProvider, logger *slog.Logger) []usecase.Registration {
	return []usecase.Registration{
		{
			TypeKey:      "code_analysis",
			Description:  "analyzes source code for structure, bugs, and improvements",
			InputShape:   "code_input",
			Capabilities: []domain.Capability{domain.CapCodeAnalysis, domain.CapDocumentation},
			New: func(cfg map[string]any) (domain.Agent, error) {
				return NewCodeAnalysisAgent(cfg, provider, logger)
			},
		},
		{
			TypeKey:      "debug",
			Description:  "diagnoses an error against the code that produced it",
			InputShape:   "code_error_input",
			Capabilities: []domain.Capability{domain.CapCodeDebugging, domain.CapCodeRepair},
			New: func(cfg map[string]any) (domain.Agent, error) {
				return NewDebugAgent(cfg, provider, logger)
			},
		},
		{
			TypeKey:      "research",
			Description:  "answers open-ended research and planning questions",
			InputShape:   "query_input",
			Capabilities: []domain.Capability{domain.CapResearch, domain.CapStrategicPlanning},
			New: func(cfg map[string]any) (domain.Agent, error) {
				return NewResearchAgent(cfg, provider, logger)
			},
		},
		{
			TypeKey:      "rag",
			Description:  "answers a query grounded on supplied documents",
			InputShape:   "query_documents_input",
			Capabilities: []domain.Capability{domain.CapRAGProcessing, domain.CapResearch},
			New: func(cfg map[string]any) (domain.Agent, error) {
				return NewRAGAgent(cfg, provider, logger)
			},
		},
	}
}

// RegisterAll registers every built-in agent on r.
func RegisterAll(r *usecase.Registry, provider domain.LLMProvider, logger *slog.Logger) error {
	for _, reg := range Registrations(provider, logger) {
		if err := r.Register(reg); err != nil {
			return err
		}
	}
	return nil
}

// inputString extracts a required non-empty string field from input.
func inputString(input domain.TaskInput, key string) (string, error) {
	v, ok := input[key]
	if !ok {
		return "", fmt.Errorf("%w: missing %q", domain.ErrInvalidInput, key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%w: %q must be a non-empty string", domain.ErrInvalidInput, key)
	}
	return s, nil
}

// promptBudget reads the agent's prompt token budget from its config.
func promptBudget(cfg map[string]any) int {
	if v, ok := cfg[keyMaxPromptTokens].(int); ok && v > 0 {
		return v
	}
	return defaultMaxPromptTokens
}

// checkBudget rejects prompts exceeding the agent's token budget.
func checkBudget(model, prompt string, budget int) error {
	if !usecase.WithinTokenBudget(model, prompt, budget) {
		return fmt.Errorf("%w: prompt exceeds %d token budget", domain.ErrInvalidInput, budget)
	}
	return nil
}
