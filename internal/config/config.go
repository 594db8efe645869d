package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type PipelineConfig struct {
	RuleConfidenceThreshold float64 `toml:"rule_confidence_threshold"`
	// Window is "sentence" (default) or "token"; token windows also honor
	// TokenWindow, the max token distance between mentions.
	Window      string `toml:"window"`
	TokenWindow int    `toml:"token_window"`
}

// ExtractionConfig extends the built-in vocabulary with deployment-specific
// exact terms per concept category.
type ExtractionConfig struct {
	Conditions   []string `toml:"conditions"`
	Medications  []string `toml:"medications"`
	Measurements []string `toml:"measurements"`
	Actions      []string `toml:"actions"`
}

type ScenarioConfig struct {
	Dir string `toml:"dir"`
}

// MemgraphConfig enables the optional graph export sink when URI is set.
type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type ServerConfig struct {
	Port string `toml:"port"`
	Mode string `toml:"mode"` // log/gin mode: "dev" or "prod"
}

type ConcurrencyConfig struct {
	BatchValidate int `toml:"batch_validate"`
}

type Config struct {
	Pipeline    PipelineConfig    `toml:"pipeline"`
	Extraction  ExtractionConfig  `toml:"extraction"`
	Scenarios   ScenarioConfig    `toml:"scenarios"`
	Memgraph    MemgraphConfig    `toml:"memgraph"`
	Server      ServerConfig      `toml:"server"`
	Concurrency ConcurrencyConfig `toml:"concurrency"`
}

func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			RuleConfidenceThreshold: 0.6,
			Window:                  "sentence",
			TokenWindow:             20,
		},
		Scenarios:   ScenarioConfig{Dir: "scenarios"},
		Server:      ServerConfig{Port: "8080", Mode: "dev"},
		Concurrency: ConcurrencyConfig{BatchValidate: 4},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// LoadOrDefault loads the file when present and falls back to defaults
// (plus env overrides) when it is not.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		cfg.ApplyEnv()
		return cfg, nil
	}
	return Load(path)
}

// ApplyEnv overrides file values with environment variables when present.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("SCENARIO_DIR"); v != "" {
		c.Scenarios.Dir = v
	}
	if v := os.Getenv("MEMGRAPH_URI"); v != "" {
		c.Memgraph.URI = v
	}
	if v := os.Getenv("MEMGRAPH_USER"); v != "" {
		c.Memgraph.User = v
	}
	if v := os.Getenv("MEMGRAPH_PASSWORD"); v != "" {
		c.Memgraph.Password = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("SERVER_MODE"); v != "" {
		c.Server.Mode = v
	}
}
