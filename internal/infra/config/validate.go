package config

import (
	"fmt"
	"strings"
)

// ValidationError accumulates config validation problems.
type ValidationError struct {
	Problems []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Problems, "\n  - ")
}

// HasProblems reports whether any validation problems have been recorded.
func (v *ValidationError) HasProblems() bool {
	return len(v.Problems) > 0
}

// Add records a formatted validation problem.
func (v *ValidationError) Add(format string, args ...any) {
	v.Problems = append(v.Problems, fmt.Sprintf(format, args...))
}

// Validate checks cfg against the configuration invariants and returns every
// violation as a human-readable string. It never rejects a config outright:
// an empty slice means clean, and the decision to treat violations as fatal
// belongs to the caller.
func Validate(cfg *Config) []string {
	ve := &ValidationError{}
	validateEnvironment(cfg, ve)
	validateModels(cfg, ve)
	validateBehavior(cfg, ve)
	validateRetrieval(cfg, ve)
	validateAnalytics(cfg, ve)
	return ve.Problems
}

var validEnvironments = map[string]bool{
	EnvDevelopment: true,
	EnvTesting:     true,
	EnvProduction:  true,
}

func validateEnvironment(cfg *Config, ve *ValidationError) {
	if !validEnvironments[cfg.Environment] {
		ve.Add("environment %q is invalid (want: development, testing, production)", cfg.Environment)
	}
}

var validProviders = map[string]bool{
	ProviderOpenAI:    true,
	ProviderAnthropic: true,
	ProviderGemini:    true,
	ProviderOllama:    true,
}

func validateModels(cfg *Config, ve *ValidationError) {
	for name, mc := range cfg.Models {
		if mc.Provider == "" {
			ve.Add("models.%s: provider must not be empty", name)
			continue
		}
		if !validProviders[mc.Provider] {
			ve.Add("models.%s: provider %q is invalid (want: openai, anthropic, gemini, ollama)", name, mc.Provider)
		}
		if mc.Model == "" {
			ve.Add("models.%s: model must not be empty", name)
		}
		// Local ollama endpoints are the only entries allowed without credentials.
		if mc.Provider != ProviderOllama && mc.APIKey == "" {
			ve.Add("models.%s (%s): api_key is empty", name, mc.Provider)
		}
		if mc.MaxTokens <= 0 {
			ve.Add("models.%s: max_tokens must be > 0", name)
		}
	}
}

func validateBehavior(cfg *Config, ve *ValidationError) {
	if cfg.Agents.MaxExecutionTime <= 0 {
		ve.Add("agents.max_execution_time must be > 0")
	}
	if cfg.Agents.MaxConcurrent <= 0 {
		ve.Add("agents.max_concurrent must be > 0")
	}
	if cfg.Agents.DefaultModel == "" {
		ve.Add("agents.default_model must not be empty")
	} else if _, ok := cfg.Models[cfg.Agents.DefaultModel]; !ok {
		ve.Add("agents.default_model %q does not match any model entry", cfg.Agents.DefaultModel)
	}
}

func validateRetrieval(cfg *Config, ve *ValidationError) {
	r := cfg.Retrieval
	if r.ChunkSize <= 0 {
		ve.Add("retrieval.chunk_size must be > 0")
	}
	if r.ChunkOverlap < 0 || (r.ChunkSize > 0 && r.ChunkOverlap >= r.ChunkSize) {
		ve.Add("retrieval.chunk_overlap must be in [0, chunk_size)")
	}
	if r.SimilarityThreshold < 0 || r.SimilarityThreshold > 1 {
		ve.Add("retrieval.similarity_threshold must be in [0, 1], got %v", r.SimilarityThreshold)
	}
	if r.MaxResults <= 0 {
		ve.Add("retrieval.max_results must be > 0")
	}
}

func validateAnalytics(cfg *Config, ve *ValidationError) {
	if !cfg.Analytics.Enabled {
		return
	}
	if cfg.Analytics.ReportingInterval <= 0 {
		ve.Add("analytics.reporting_interval must be > 0 when analytics is enabled")
	}
	if cfg.Analytics.RetentionDays <= 0 {
		ve.Add("analytics.retention_days must be > 0 when analytics is enabled")
	}
}
