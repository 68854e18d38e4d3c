package config

import (
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func parseOverlay(t *testing.T, doc string) *Overlay {
	t.Helper()
	var o Overlay
	if err := yaml.Unmarshal([]byte(doc), &o); err != nil {
		t.Fatalf("parse overlay: %v", err)
	}
	return &o
}

func TestOverlayLeafOverwrite(t *testing.T) {
	cfg := Defaults()
	o := parseOverlay(t, `
retrieval:
  chunk_size: 500
`)
	o.Apply(cfg)

	if cfg.Retrieval.ChunkSize != 500 {
		t.Errorf("ChunkSize = %d, want 500", cfg.Retrieval.ChunkSize)
	}
	// Absent leaves keep the layer below.
	if cfg.Retrieval.ChunkOverlap != 200 {
		t.Errorf("ChunkOverlap = %d, want 200", cfg.Retrieval.ChunkOverlap)
	}
	if cfg.Retrieval.SimilarityThreshold != 0.7 {
		t.Errorf("SimilarityThreshold = %v, want 0.7", cfg.Retrieval.SimilarityThreshold)
	}
}

func TestOverlayFalseOverridesTrue(t *testing.T) {
	cfg := Defaults()
	o := parseOverlay(t, `
agents:
  sandbox_enabled: false
analytics:
  enabled: false
`)
	o.Apply(cfg)

	if cfg.Agents.SandboxEnabled {
		t.Error("SandboxEnabled still true after explicit false override")
	}
	if cfg.Analytics.Enabled {
		t.Error("Analytics.Enabled still true after explicit false override")
	}
}

func TestOverlayModelMergeKeyByKey(t *testing.T) {
	cfg := Defaults()
	o := parseOverlay(t, `
models:
  default:
    model: gpt-4-turbo
  local:
    provider: ollama
    model: llama3
    base_url: http://localhost:11434
    max_tokens: 2048
    timeout: 120s
`)
	o.Apply(cfg)

	// Partially overridden entry keeps its untouched fields.
	def := cfg.Models["default"]
	if def.Model != "gpt-4-turbo" {
		t.Errorf("default.model = %q, want gpt-4-turbo", def.Model)
	}
	if def.Provider != ProviderOpenAI {
		t.Errorf("default.provider = %q, want openai", def.Provider)
	}
	if def.MaxTokens != 4096 {
		t.Errorf("default.max_tokens = %d, want 4096", def.MaxTokens)
	}

	// Entries absent from the overlay survive untouched.
	if _, ok := cfg.Models["fast"]; !ok {
		t.Error("fast entry dropped by merge")
	}

	// Brand-new entries come from the overlay alone.
	local := cfg.Models["local"]
	if local.Provider != ProviderOllama || local.Timeout != 120*time.Second {
		t.Errorf("local entry = %+v", local)
	}
}

func TestOverlayEmptyIsNoop(t *testing.T) {
	cfg := Defaults()
	want := Defaults()
	o := parseOverlay(t, ``)
	o.Apply(cfg)

	m1, _ := cfg.ToMap()
	m2, _ := want.ToMap()
	got, _ := yaml.Marshal(m1)
	expected, _ := yaml.Marshal(m2)
	if string(got) != string(expected) {
		t.Errorf("empty overlay changed config:\n%s\nvs\n%s", got, expected)
	}
}
