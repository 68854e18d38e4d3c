package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testLogger() *slog.Logger { return slog.Default() }

func writeProfile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadMissingFilesYieldsDefaults(t *testing.T) {
	m := NewManager(t.TempDir(), testLogger())
	cfg, err := m.Load("default", EnvTesting)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Retrieval.ChunkSize != 1000 {
		t.Errorf("ChunkSize = %d, want default 1000", cfg.Retrieval.ChunkSize)
	}
	if cfg.Environment != EnvTesting {
		t.Errorf("Environment = %q, want testing", cfg.Environment)
	}
}

func TestLoadEnvironmentOverridePrecedence(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "default.yaml", `
retrieval:
  chunk_size: 1000
  max_results: 25
`)
	writeProfile(t, dir, "default.production.yaml", `
retrieval:
  chunk_size: 500
`)

	m := NewManager(dir, testLogger())

	prod, err := m.Load("default", EnvProduction)
	if err != nil {
		t.Fatalf("Load production: %v", err)
	}
	if prod.Retrieval.ChunkSize != 500 {
		t.Errorf("production ChunkSize = %d, want 500", prod.Retrieval.ChunkSize)
	}
	if prod.Retrieval.MaxResults != 25 {
		t.Errorf("production MaxResults = %d, want 25 from base profile", prod.Retrieval.MaxResults)
	}

	dev, err := m.Load("default", EnvDevelopment)
	if err != nil {
		t.Fatalf("Load development: %v", err)
	}
	if dev.Retrieval.ChunkSize != 1000 {
		t.Errorf("development ChunkSize = %d, want 1000 without override file", dev.Retrieval.ChunkSize)
	}
}

func TestLoadCacheIdentity(t *testing.T) {
	m := NewManager(t.TempDir(), testLogger())

	first, err := m.Load("default", EnvTesting)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	second, err := m.Load("default", EnvTesting)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if first != second {
		t.Error("sequential loads of the same key returned distinct objects")
	}

	other, err := m.Load("default", EnvProduction)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if other == first {
		t.Error("distinct environments share one cached object")
	}
}

func TestLoadInvalidConfigDoesNotFail(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "default.yaml", `
retrieval:
  similarity_threshold: 1.5
`)

	m := NewManager(dir, testLogger())
	cfg, err := m.Load("default", EnvTesting)
	if err != nil {
		t.Fatalf("Load rejected invalid config: %v", err)
	}
	problems := Validate(cfg)
	if !hasProblem(problems, "similarity_threshold") {
		t.Errorf("expected threshold problem, got: %v", problems)
	}
}

func TestCredentialFanOut(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")

	dir := t.TempDir()
	writeProfile(t, dir, "default.yaml", `
models:
  pinned:
    provider: openai
    model: gpt-4o
    api_key: sk-explicit
    max_tokens: 1024
`)

	m := NewManager(dir, testLogger())
	cfg, err := m.Load("default", EnvTesting)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Entries without an explicit key pick up the env credential.
	if got := cfg.Models["default"].APIKey; got != "sk-env" {
		t.Errorf("default APIKey = %q, want sk-env", got)
	}
	// Explicit keys are never overwritten.
	if got := cfg.Models["pinned"].APIKey; got != "sk-explicit" {
		t.Errorf("pinned APIKey = %q, want sk-explicit", got)
	}
}

func TestScalarEnvOverrides(t *testing.T) {
	t.Setenv("FOUNDRY_DEBUG", "true")
	t.Setenv("FOUNDRY_LOG_LEVEL", "debug")
	t.Setenv("FOUNDRY_WORKSPACE", "/srv/foundry")

	m := NewManager(t.TempDir(), testLogger())
	cfg, err := m.Load("default", EnvTesting)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Debug {
		t.Error("Debug not overridden by FOUNDRY_DEBUG")
	}
	if cfg.Logger.Level != "debug" {
		t.Errorf("Logger.Level = %q, want debug", cfg.Logger.Level)
	}
	if cfg.WorkspacePath != "/srv/foundry" {
		t.Errorf("WorkspacePath = %q", cfg.WorkspacePath)
	}
}

func TestSaveScrubsCredentials(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir, testLogger())

	cfg := Defaults()
	mc := cfg.Models["default"]
	mc.APIKey = "sk-secret"
	cfg.Models["default"] = mc

	if err := m.Save(cfg, "default"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "default.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "sk-secret") {
		t.Error("credential written to disk")
	}
	// The in-memory config keeps its key.
	if cfg.Models["default"].APIKey != "sk-secret" {
		t.Error("Save mutated the caller's config")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir, testLogger())

	cfg := Defaults()
	cfg.Retrieval.ChunkSize = 1234
	cfg.Agents.MaxConcurrent = 3

	if err := m.Save(cfg, "tuned"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := m.Load("tuned", EnvDevelopment)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Retrieval.ChunkSize != 1234 {
		t.Errorf("ChunkSize = %d, want 1234", loaded.Retrieval.ChunkSize)
	}
	if loaded.Agents.MaxConcurrent != 3 {
		t.Errorf("MaxConcurrent = %d, want 3", loaded.Agents.MaxConcurrent)
	}
}
