package llm

import (
	"log/slog"

	"foundry/internal/domain"
	"foundry/internal/infra/config"
)

// NewProvider constructs the provider for one named model entry based on its
// provider type. Unknown types fail with ErrNotFound.
func NewProvider(name string, mc config.ModelConfig, logger *slog.Logger) (domain.LLMProvider, error) {
	switch mc.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIProvider(name, mc, logger), nil
	case config.ProviderAnthropic:
		return NewAnthropicProvider(name, mc, logger), nil
	case config.ProviderGemini:
		return NewGeminiProvider(name, mc, logger), nil
	case config.ProviderOllama:
		return NewOllamaProvider(name, mc, logger), nil
	default:
		return nil, domain.NewDomainError("llm.NewProvider", domain.ErrNotFound, "provider type "+mc.Provider)
	}
}

// NewResilientProvider builds the provider for a model entry and wraps it
// with the rate limiter and circuit breaker, outermost first. This is the
// constructor callers outside tests should use.
func NewResilientProvider(name string, mc config.ModelConfig, logger *slog.Logger) (domain.LLMProvider, error) {
	inner, err := NewProvider(name, mc, logger)
	if err != nil {
		return nil, err
	}
	limited := NewRateLimitedProvider(inner, RateLimitConfig{}, logger)
	return NewCircuitBreakerProvider(limited, CircuitBreakerConfig{}, logger), nil
}
