package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"foundry/internal/domain"
)

// stubProvider fails or succeeds on demand.
type stubProvider struct {
	err   error
	calls int
}

func (s *stubProvider) Chat(context.Context, domain.ChatRequest) (*domain.ChatResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &domain.ChatResponse{Message: domain.Message{Content: "ok"}}, nil
}

func (s *stubProvider) Name() string { return "stub" }

func TestCircuitBreakerOpensAfterFailures(t *testing.T) {
	stub := &stubProvider{err: fmt.Errorf("connection refused")}
	p := NewCircuitBreakerProvider(stub, CircuitBreakerConfig{MaxFailures: 3}, newTestLogger())

	for i := 0; i < 3; i++ {
		if _, err := p.Chat(context.Background(), domain.ChatRequest{}); err == nil {
			t.Fatal("expected failure")
		}
	}

	// Circuit is open now; the provider must not be reached.
	before := stub.calls
	_, err := p.Chat(context.Background(), domain.ChatRequest{})
	if !errors.Is(err, domain.ErrProviderError) {
		t.Errorf("err = %v, want ErrProviderError fail-fast", err)
	}
	if stub.calls != before {
		t.Error("open circuit still reached the provider")
	}
}

func TestCircuitBreakerIgnoresCallerMistakes(t *testing.T) {
	stub := &stubProvider{err: fmt.Errorf("%w: bad key", domain.ErrAuthInvalid)}
	p := NewCircuitBreakerProvider(stub, CircuitBreakerConfig{MaxFailures: 2}, newTestLogger())

	for i := 0; i < 5; i++ {
		p.Chat(context.Background(), domain.ChatRequest{})
	}

	// Auth errors do not trip the breaker, so calls keep flowing.
	before := stub.calls
	p.Chat(context.Background(), domain.ChatRequest{})
	if stub.calls != before+1 {
		t.Error("auth failures opened the circuit")
	}
}

func TestCircuitBreakerRecovers(t *testing.T) {
	stub := &stubProvider{err: fmt.Errorf("down")}
	p := NewCircuitBreakerProvider(stub, CircuitBreakerConfig{
		MaxFailures: 1,
		Timeout:     10 * time.Millisecond,
	}, newTestLogger())

	p.Chat(context.Background(), domain.ChatRequest{})
	time.Sleep(20 * time.Millisecond)

	stub.err = nil
	resp, err := p.Chat(context.Background(), domain.ChatRequest{})
	if err != nil {
		t.Fatalf("half-open probe failed: %v", err)
	}
	if resp.Message.Content != "ok" {
		t.Errorf("Content = %q", resp.Message.Content)
	}
}
