package llm

import (
	"log/slog"
	"strings"
	"time"

	"foundry/internal/domain"
	"foundry/internal/infra/config"
)

var _ domain.LLMProvider = (*OllamaProvider)(nil)

// Ollama timeout default: long response window to cover model loading.
const ollamaDefaultTimeout = 300 * time.Second

// OllamaProvider wraps OpenAIProvider to work with a local Ollama server.
// Ollama exposes an OpenAI-compatible endpoint at /v1, so chat is delegated
// to the inner OpenAI provider; no API key is needed.
type OllamaProvider struct {
	*OpenAIProvider
}

// NewOllamaProvider creates an Ollama provider delegating to the
// OpenAI-compatible /v1 endpoint.
func NewOllamaProvider(name string, mc config.ModelConfig, logger *slog.Logger) *OllamaProvider {
	baseURL := strings.TrimRight(mc.BaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if mc.Timeout == 0 {
		mc.Timeout = ollamaDefaultTimeout
	}

	return &OllamaProvider{
		OpenAIProvider: &OpenAIProvider{
			name:    name,
			model:   mc.Model,
			apiKey:  "",
			baseURL: baseURL + "/v1",
			client:  NewHTTPClient(mc),
			logger:  logger,
		},
	}
}
