package llm

import (
	"context"
	"testing"
	"time"

	"foundry/internal/domain"
)

func TestRateLimitedProviderPassesThrough(t *testing.T) {
	stub := &stubProvider{}
	p := NewRateLimitedProvider(stub, RateLimitConfig{RequestsPerSecond: 100, Burst: 10}, newTestLogger())

	resp, err := p.Chat(context.Background(), domain.ChatRequest{})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if resp.Message.Content != "ok" {
		t.Errorf("Content = %q", resp.Message.Content)
	}
	if p.Name() != "stub" {
		t.Errorf("Name = %q", p.Name())
	}
}

func TestRateLimitedProviderHonorsContext(t *testing.T) {
	stub := &stubProvider{}
	// One call per 10s with burst 1: the second call must wait.
	p := NewRateLimitedProvider(stub, RateLimitConfig{RequestsPerSecond: 0.1, Burst: 1}, newTestLogger())

	if _, err := p.Chat(context.Background(), domain.ChatRequest{}); err != nil {
		t.Fatalf("first call: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := p.Chat(ctx, domain.ChatRequest{})
	if err == nil {
		t.Fatal("expected context deadline while waiting on limiter")
	}
	if stub.calls != 1 {
		t.Errorf("calls = %d, want 1", stub.calls)
	}
}
