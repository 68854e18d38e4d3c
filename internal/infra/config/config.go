package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment tags. Anything else fails validation.
const (
	EnvDevelopment = "development"
	EnvTesting     = "testing"
	EnvProduction  = "production"
)

// Hosted and local provider types a model entry may claim.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderOllama    = "ollama"
)

// ModelConfig describes one named model entry.
type ModelConfig struct {
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"api_key,omitempty"`
	BaseURL     string        `yaml:"base_url,omitempty"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxRetries  int           `yaml:"max_retries"`
}

// BehaviorConfig holds agent behavior limits.
type BehaviorConfig struct {
	DefaultModel      string        `yaml:"default_model"`
	FastModel         string        `yaml:"fast_model"`
	MultimodalModel   string        `yaml:"multimodal_model"`
	MaxExecutionTime  time.Duration `yaml:"max_execution_time"`
	MaxConcurrent     int           `yaml:"max_concurrent"`
	SandboxEnabled    bool          `yaml:"sandbox_enabled"`
	MonitoringEnabled bool          `yaml:"monitoring_enabled"`
}

// RetrievalConfig holds RAG tuning knobs.
type RetrievalConfig struct {
	EmbeddingModel      string  `yaml:"embedding_model"`
	ChunkSize           int     `yaml:"chunk_size"`
	ChunkOverlap        int     `yaml:"chunk_overlap"`
	MaxResults          int     `yaml:"max_results"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
}

// AnalyticsConfig holds usage analytics settings.
type AnalyticsConfig struct {
	Enabled           bool          `yaml:"enabled"`
	ReportingInterval time.Duration `yaml:"reporting_interval"`
	RetentionDays     int           `yaml:"retention_days"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
	Output string `yaml:"output"` // "stdout", "stderr", or a file path
}

// TracerConfig holds tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"` // "noop" or "stdout"
}

// Config is the top-level configuration tree.
type Config struct {
	Environment   string                 `yaml:"environment"`
	Debug         bool                   `yaml:"debug"`
	WorkspacePath string                 `yaml:"workspace_path"`
	Models        map[string]ModelConfig `yaml:"models"`
	Agents        BehaviorConfig         `yaml:"agents"`
	Retrieval     RetrievalConfig        `yaml:"retrieval"`
	Analytics     AnalyticsConfig        `yaml:"analytics"`
	Logger        LoggerConfig           `yaml:"logger"`
	Tracer        TracerConfig           `yaml:"tracer"`
}

// Defaults returns the compiled-in configuration, the lowest-precedence layer.
func Defaults() *Config {
	return &Config{
		Environment:   EnvDevelopment,
		Debug:         false,
		WorkspacePath: ".",
		Models: map[string]ModelConfig{
			"default": {
				Provider:    ProviderOpenAI,
				Model:       "gpt-4o",
				MaxTokens:   4096,
				Temperature: 0.7,
				Timeout:     60 * time.Second,
				MaxRetries:  3,
			},
			"fast": {
				Provider:    ProviderOpenAI,
				Model:       "gpt-4o-mini",
				MaxTokens:   4096,
				Temperature: 0.7,
				Timeout:     30 * time.Second,
				MaxRetries:  3,
			},
			"multimodal": {
				Provider:    ProviderOpenAI,
				Model:       "gpt-4o",
				MaxTokens:   4096,
				Temperature: 0.5,
				Timeout:     90 * time.Second,
				MaxRetries:  3,
			},
			"embedding": {
				Provider:    ProviderOpenAI,
				Model:       "text-embedding-3-small",
				MaxTokens:   8191,
				Temperature: 0,
				Timeout:     30 * time.Second,
				MaxRetries:  3,
			},
		},
		Agents: BehaviorConfig{
			DefaultModel:      "default",
			FastModel:         "fast",
			MultimodalModel:   "multimodal",
			MaxExecutionTime:  5 * time.Minute,
			MaxConcurrent:     10,
			SandboxEnabled:    true,
			MonitoringEnabled: true,
		},
		Retrieval: RetrievalConfig{
			EmbeddingModel:      "embedding",
			ChunkSize:           1000,
			ChunkOverlap:        200,
			MaxResults:          10,
			SimilarityThreshold: 0.7,
		},
		Analytics: AnalyticsConfig{
			Enabled:           true,
			ReportingInterval: time.Hour,
			RetentionDays:     30,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Tracer: TracerConfig{
			Enabled:  false,
			Exporter: "noop",
		},
	}
}

// ToMap returns the dictionary projection of the configuration, used by
// persistence and HTTP-serialization layers.
func (c *Config) ToMap() (map[string]any, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal config map: %w", err)
	}
	return m, nil
}

// FromMap rebuilds a Config from its dictionary projection.
// ToMap followed by FromMap is lossless for every field.
func FromMap(m map[string]any) (*Config, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal config map: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Models = make(map[string]ModelConfig, len(c.Models))
	for name, mc := range c.Models {
		clone.Models[name] = mc
	}
	return &clone
}
