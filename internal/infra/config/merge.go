package config

import "time"

// Overlay mirrors Config with optional leaves. Profile and environment
// override files parse into an Overlay, so only keys actually present in the
// file overwrite the layer below. Each sub-overlay applies itself onto its
// own sub-config, keeping precedence rules in the type system instead of in
// untyped map recursion.
type Overlay struct {
	Environment   *string                 `yaml:"environment"`
	Debug         *bool                   `yaml:"debug"`
	WorkspacePath *string                 `yaml:"workspace_path"`
	Models        map[string]ModelOverlay `yaml:"models"`
	Agents        *BehaviorOverlay        `yaml:"agents"`
	Retrieval     *RetrievalOverlay       `yaml:"retrieval"`
	Analytics     *AnalyticsOverlay       `yaml:"analytics"`
	Logger        *LoggerOverlay          `yaml:"logger"`
	Tracer        *TracerOverlay          `yaml:"tracer"`
}

// ModelOverlay holds optional overrides for one model entry.
type ModelOverlay struct {
	Provider    *string        `yaml:"provider"`
	Model       *string        `yaml:"model"`
	APIKey      *string        `yaml:"api_key"`
	BaseURL     *string        `yaml:"base_url"`
	MaxTokens   *int           `yaml:"max_tokens"`
	Temperature *float64       `yaml:"temperature"`
	Timeout     *time.Duration `yaml:"timeout"`
	MaxRetries  *int           `yaml:"max_retries"`
}

// BehaviorOverlay holds optional overrides for agent behavior limits.
type BehaviorOverlay struct {
	DefaultModel      *string        `yaml:"default_model"`
	FastModel         *string        `yaml:"fast_model"`
	MultimodalModel   *string        `yaml:"multimodal_model"`
	MaxExecutionTime  *time.Duration `yaml:"max_execution_time"`
	MaxConcurrent     *int           `yaml:"max_concurrent"`
	SandboxEnabled    *bool          `yaml:"sandbox_enabled"`
	MonitoringEnabled *bool          `yaml:"monitoring_enabled"`
}

// RetrievalOverlay holds optional overrides for RAG tuning knobs.
type RetrievalOverlay struct {
	EmbeddingModel      *string  `yaml:"embedding_model"`
	ChunkSize           *int     `yaml:"chunk_size"`
	ChunkOverlap        *int     `yaml:"chunk_overlap"`
	MaxResults          *int     `yaml:"max_results"`
	SimilarityThreshold *float64 `yaml:"similarity_threshold"`
}

// AnalyticsOverlay holds optional overrides for analytics settings.
type AnalyticsOverlay struct {
	Enabled           *bool          `yaml:"enabled"`
	ReportingInterval *time.Duration `yaml:"reporting_interval"`
	RetentionDays     *int           `yaml:"retention_days"`
}

// LoggerOverlay holds optional overrides for logging settings.
type LoggerOverlay struct {
	Level  *string `yaml:"level"`
	Format *string `yaml:"format"`
	Output *string `yaml:"output"`
}

// TracerOverlay holds optional overrides for tracing settings.
type TracerOverlay struct {
	Enabled  *bool   `yaml:"enabled"`
	Exporter *string `yaml:"exporter"`
}

// Apply merges the overlay onto cfg. Set leaves overwrite; absent leaves
// keep the value below. Model entries merge key by key: an entry name new
// to cfg is created from its overlay alone.
func (o *Overlay) Apply(cfg *Config) {
	setString(&cfg.Environment, o.Environment)
	setBool(&cfg.Debug, o.Debug)
	setString(&cfg.WorkspacePath, o.WorkspacePath)
	for name, mo := range o.Models {
		mc := cfg.Models[name]
		mo.apply(&mc)
		if cfg.Models == nil {
			cfg.Models = make(map[string]ModelConfig)
		}
		cfg.Models[name] = mc
	}
	if o.Agents != nil {
		o.Agents.apply(&cfg.Agents)
	}
	if o.Retrieval != nil {
		o.Retrieval.apply(&cfg.Retrieval)
	}
	if o.Analytics != nil {
		o.Analytics.apply(&cfg.Analytics)
	}
	if o.Logger != nil {
		o.Logger.apply(&cfg.Logger)
	}
	if o.Tracer != nil {
		o.Tracer.apply(&cfg.Tracer)
	}
}

func (o ModelOverlay) apply(mc *ModelConfig) {
	setString(&mc.Provider, o.Provider)
	setString(&mc.Model, o.Model)
	setString(&mc.APIKey, o.APIKey)
	setString(&mc.BaseURL, o.BaseURL)
	setInt(&mc.MaxTokens, o.MaxTokens)
	setFloat(&mc.Temperature, o.Temperature)
	setDuration(&mc.Timeout, o.Timeout)
	setInt(&mc.MaxRetries, o.MaxRetries)
}

func (o BehaviorOverlay) apply(bc *BehaviorConfig) {
	setString(&bc.DefaultModel, o.DefaultModel)
	setString(&bc.FastModel, o.FastModel)
	setString(&bc.MultimodalModel, o.MultimodalModel)
	setDuration(&bc.MaxExecutionTime, o.MaxExecutionTime)
	setInt(&bc.MaxConcurrent, o.MaxConcurrent)
	setBool(&bc.SandboxEnabled, o.SandboxEnabled)
	setBool(&bc.MonitoringEnabled, o.MonitoringEnabled)
}

func (o RetrievalOverlay) apply(rc *RetrievalConfig) {
	setString(&rc.EmbeddingModel, o.EmbeddingModel)
	setInt(&rc.ChunkSize, o.ChunkSize)
	setInt(&rc.ChunkOverlap, o.ChunkOverlap)
	setInt(&rc.MaxResults, o.MaxResults)
	setFloat(&rc.SimilarityThreshold, o.SimilarityThreshold)
}

func (o AnalyticsOverlay) apply(ac *AnalyticsConfig) {
	setBool(&ac.Enabled, o.Enabled)
	setDuration(&ac.ReportingInterval, o.ReportingInterval)
	setInt(&ac.RetentionDays, o.RetentionDays)
}

func (o LoggerOverlay) apply(lc *LoggerConfig) {
	setString(&lc.Level, o.Level)
	setString(&lc.Format, o.Format)
	setString(&lc.Output, o.Output)
}

func (o TracerOverlay) apply(tc *TracerConfig) {
	setBool(&tc.Enabled, o.Enabled)
	setString(&tc.Exporter, o.Exporter)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *time.Duration) {
	if src != nil {
		*dst = *src
	}
}
