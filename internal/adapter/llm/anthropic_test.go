package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"foundry/internal/domain"
	"foundry/internal/infra/config"
)

func TestAnthropicProviderChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("unexpected api key header: %s", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Error("missing anthropic-version header")
		}

		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.System != "be terse" {
			t.Errorf("system = %q, want system message lifted out", req.System)
		}
		if req.MaxTokens == 0 {
			t.Error("max_tokens not defaulted")
		}
		for _, m := range req.Messages {
			if m.Role == domain.RoleSystem {
				t.Error("system role left in messages list")
			}
		}

		json.NewEncoder(w).Encode(anthropicResponse{
			ID:    "msg-1",
			Model: "claude-sonnet",
			Content: []anthropicContent{
				{Type: "text", Text: "Done."},
			},
			Usage: anthropicUsage{InputTokens: 12, OutputTokens: 4},
		})
	}))
	defer server.Close()

	provider := NewAnthropicProvider("claude", config.ModelConfig{
		Provider: config.ProviderAnthropic,
		Model:    "claude-sonnet",
		APIKey:   "test-key",
		BaseURL:  server.URL,
	}, newTestLogger())

	resp, err := provider.Chat(context.Background(), domain.ChatRequest{
		Messages: []domain.Message{
			{Role: domain.RoleSystem, Content: "be terse"},
			{Role: domain.RoleUser, Content: "Go?"},
		},
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if resp.Message.Content != "Done." {
		t.Errorf("Content = %q", resp.Message.Content)
	}
	if resp.Usage.TotalTokens != 16 {
		t.Errorf("TotalTokens = %d, want input+output", resp.Usage.TotalTokens)
	}
}
