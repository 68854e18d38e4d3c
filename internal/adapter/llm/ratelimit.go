package llm

import (
	"context"
	"log/slog"

	"golang.org/x/time/rate"

	"foundry/internal/domain"
)

// Default request rate against a hosted API: 2 rps with small bursts.
const (
	defaultRateLimit = 2.0
	defaultRateBurst = 5
)

// RateLimitConfig configures the per-provider request rate.
type RateLimitConfig struct {
	// RequestsPerSecond caps the sustained call rate. Zero means default.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	// Burst is the number of calls allowed above the sustained rate.
	Burst int `yaml:"burst"`
}

// RateLimitedProvider wraps an LLMProvider with a token-bucket limiter.
// Chat blocks until the limiter admits the call or the context is done.
type RateLimitedProvider struct {
	inner   domain.LLMProvider
	limiter *rate.Limiter
	logger  *slog.Logger
}

var _ domain.LLMProvider = (*RateLimitedProvider)(nil)

// NewRateLimitedProvider wraps inner with a request rate limiter.
func NewRateLimitedProvider(inner domain.LLMProvider, cfg RateLimitConfig, logger *slog.Logger) *RateLimitedProvider {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRateLimit
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = defaultRateBurst
	}

	return &RateLimitedProvider{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:  logger,
	}
}

// Chat implements domain.LLMProvider behind the limiter.
func (p *RateLimitedProvider) Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return p.inner.Chat(ctx, req)
}

// Name implements domain.LLMProvider.
func (p *RateLimitedProvider) Name() string { return p.inner.Name() }
