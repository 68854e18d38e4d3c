package config

import (
	"reflect"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Environment != EnvDevelopment {
		t.Errorf("Environment = %q, want %q", cfg.Environment, EnvDevelopment)
	}
	if len(cfg.Models) != 4 {
		t.Errorf("len(Models) = %d, want 4", len(cfg.Models))
	}
	for _, name := range []string{"default", "fast", "multimodal", "embedding"} {
		mc, ok := cfg.Models[name]
		if !ok {
			t.Errorf("missing model entry %q", name)
			continue
		}
		if mc.Provider != ProviderOpenAI {
			t.Errorf("models.%s.provider = %q, want openai", name, mc.Provider)
		}
	}
	if cfg.Retrieval.ChunkSize != 1000 {
		t.Errorf("ChunkSize = %d, want 1000", cfg.Retrieval.ChunkSize)
	}
	if cfg.Agents.MaxExecutionTime != 5*time.Minute {
		t.Errorf("MaxExecutionTime = %v, want 5m", cfg.Agents.MaxExecutionTime)
	}
}

func TestMapRoundTrip(t *testing.T) {
	cfg := Defaults()
	cfg.Debug = true
	cfg.Retrieval.SimilarityThreshold = 0.42
	mc := cfg.Models["default"]
	mc.BaseURL = "https://example.test/v1"
	cfg.Models["default"] = mc

	m, err := cfg.ToMap()
	if err != nil {
		t.Fatalf("ToMap: %v", err)
	}
	got, err := FromMap(m)
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	if !reflect.DeepEqual(cfg, got) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestClone(t *testing.T) {
	cfg := Defaults()
	clone := cfg.Clone()

	mc := clone.Models["default"]
	mc.APIKey = "sk-leak"
	clone.Models["default"] = mc

	if cfg.Models["default"].APIKey != "" {
		t.Error("mutating clone leaked into original")
	}
}
