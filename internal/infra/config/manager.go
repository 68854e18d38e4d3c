package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manager loads, caches, and saves named configuration profiles.
//
// Precedence, ascending: compiled-in defaults, then <profile>.yaml, then
// <profile>.<environment>.yaml, then process environment variables.
//
// The cache is a plain map with last-writer-wins semantics. Callers needing
// thread safety must serialize Load themselves; the expected lifecycle is a
// single-writer initialization phase before any concurrent execution begins.
type Manager struct {
	dir    string
	cache  map[string]*Config
	logger *slog.Logger
}

// NewManager creates a Manager reading profiles from dir.
func NewManager(dir string, logger *slog.Logger) *Manager {
	return &Manager{
		dir:    dir,
		cache:  make(map[string]*Config),
		logger: logger,
	}
}

// Load returns the configuration for the given profile and environment.
// An empty environment falls back to FOUNDRY_ENV, then to "development".
// Validation problems never abort a load; use Validate to inspect them.
func (m *Manager) Load(profile, environment string) (*Config, error) {
	if environment == "" {
		environment = os.Getenv("FOUNDRY_ENV")
	}
	if environment == "" {
		environment = EnvDevelopment
	}

	key := profile + ":" + environment
	if cfg, ok := m.cache[key]; ok {
		return cfg, nil
	}

	cfg := Defaults()
	cfg.Environment = environment

	base := filepath.Join(m.dir, profile+".yaml")
	if err := applyFile(cfg, base); err != nil {
		return nil, err
	}

	envFile := filepath.Join(m.dir, profile+"."+environment+".yaml")
	if err := applyFile(cfg, envFile); err != nil {
		return nil, err
	}

	ApplyEnvOverrides(cfg)

	if problems := Validate(cfg); len(problems) > 0 {
		m.logger.Warn("config loaded with validation problems",
			"profile", profile,
			"environment", environment,
			"count", len(problems),
		)
	}

	m.cache[key] = cfg
	return cfg, nil
}

// Save serializes cfg to <dir>/<profile>.yaml. Credentials are stripped
// before writing: API keys are read from the environment at load time and
// never reach disk.
func (m *Manager) Save(cfg *Config, profile string) error {
	scrubbed := cfg.Clone()
	for name, mc := range scrubbed.Models {
		mc.APIKey = ""
		scrubbed.Models[name] = mc
	}

	data, err := yaml.Marshal(scrubbed)
	if err != nil {
		return fmt.Errorf("marshal profile %q: %w", profile, err)
	}

	if err := os.MkdirAll(m.dir, 0o750); err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}

	path := filepath.Join(m.dir, profile+".yaml")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write profile %q: %w", profile, err)
	}
	return nil
}

// applyFile parses path as an Overlay and applies it onto cfg.
// A missing file is not an error; the layer below stands.
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var overlay Overlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	overlay.Apply(cfg)
	return nil
}

// ApplyEnvOverrides maps process environment variables onto cfg. Provider
// credential variables fan out to every same-provider model entry that has
// no explicit key; the FOUNDRY_* variables overwrite single fields.
func ApplyEnvOverrides(cfg *Config) {
	applyCredential(cfg, ProviderOpenAI, os.Getenv("OPENAI_API_KEY"))
	applyCredential(cfg, ProviderAnthropic, os.Getenv("ANTHROPIC_API_KEY"))
	applyCredential(cfg, ProviderGemini, os.Getenv("GEMINI_API_KEY"))

	if v := os.Getenv("FOUNDRY_ENV"); v != "" {
		cfg.Environment = v
	}
	if v := os.Getenv("FOUNDRY_DEBUG"); v != "" {
		cfg.Debug = strings.EqualFold(v, "true") || v == "1"
	}
	if v := os.Getenv("FOUNDRY_LOG_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("FOUNDRY_WORKSPACE"); v != "" {
		cfg.WorkspacePath = v
	}
}

func applyCredential(cfg *Config, provider, key string) {
	if key == "" {
		return
	}
	for name, mc := range cfg.Models {
		if mc.Provider == provider && mc.APIKey == "" {
			mc.APIKey = key
			cfg.Models[name] = mc
		}
	}
}
