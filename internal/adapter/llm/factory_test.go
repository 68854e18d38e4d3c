package llm

import (
	"testing"

	"foundry/internal/domain"
	"foundry/internal/infra/config"
)

func TestNewProviderByType(t *testing.T) {
	tests := []struct {
		provider string
		wantType any
	}{
		{config.ProviderOpenAI, (*OpenAIProvider)(nil)},
		{config.ProviderAnthropic, (*AnthropicProvider)(nil)},
		{config.ProviderGemini, (*GeminiProvider)(nil)},
		{config.ProviderOllama, (*OllamaProvider)(nil)},
	}

	for _, tt := range tests {
		p, err := NewProvider("entry", config.ModelConfig{
			Provider: tt.provider,
			Model:    "m",
			APIKey:   "k",
		}, newTestLogger())
		if err != nil {
			t.Fatalf("NewProvider(%s): %v", tt.provider, err)
		}
		if p.Name() != "entry" {
			t.Errorf("Name = %q, want entry", p.Name())
		}
		switch tt.provider {
		case config.ProviderOpenAI:
			if _, ok := p.(*OpenAIProvider); !ok {
				t.Errorf("%s: wrong concrete type %T", tt.provider, p)
			}
		case config.ProviderAnthropic:
			if _, ok := p.(*AnthropicProvider); !ok {
				t.Errorf("%s: wrong concrete type %T", tt.provider, p)
			}
		case config.ProviderGemini:
			if _, ok := p.(*GeminiProvider); !ok {
				t.Errorf("%s: wrong concrete type %T", tt.provider, p)
			}
		case config.ProviderOllama:
			if _, ok := p.(*OllamaProvider); !ok {
				t.Errorf("%s: wrong concrete type %T", tt.provider, p)
			}
		}
	}
}

func TestNewProviderUnknownType(t *testing.T) {
	_, err := NewProvider("entry", config.ModelConfig{Provider: "mystery"}, newTestLogger())
	if !domain.IsNotFound(err) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestNewResilientProviderWrapping(t *testing.T) {
	p, err := NewResilientProvider("entry", config.ModelConfig{
		Provider: config.ProviderOpenAI,
		Model:    "m",
		APIKey:   "k",
	}, newTestLogger())
	if err != nil {
		t.Fatalf("NewResilientProvider: %v", err)
	}
	if _, ok := p.(*CircuitBreakerProvider); !ok {
		t.Errorf("outermost wrapper = %T, want CircuitBreakerProvider", p)
	}
}
