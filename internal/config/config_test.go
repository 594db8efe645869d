package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTOML = `
[pipeline]
rule_confidence_threshold = 0.75
window = "token"
token_window = 12

[extraction]
medications = ["dapagliflozin"]

[scenarios]
dir = "fixtures"

[server]
port = "9090"
mode = "prod"

[concurrency]
batch_validate = 8
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleTOML), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.75, cfg.Pipeline.RuleConfidenceThreshold)
	assert.Equal(t, "token", cfg.Pipeline.Window)
	assert.Equal(t, 12, cfg.Pipeline.TokenWindow)
	assert.Equal(t, []string{"dapagliflozin"}, cfg.Extraction.Medications)
	assert.Equal(t, "fixtures", cfg.Scenarios.Dir)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 8, cfg.Concurrency.BatchValidate)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nport = \"9999\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, 0.6, cfg.Pipeline.RuleConfidenceThreshold)
	assert.Equal(t, "scenarios", cfg.Scenarios.Dir)
}

func TestLoad_BadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SCENARIO_DIR", "/srv/scenarios")
	t.Setenv("MEMGRAPH_URI", "bolt://memgraph:7687")
	t.Setenv("PORT", "7000")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, "/srv/scenarios", cfg.Scenarios.Dir)
	assert.Equal(t, "bolt://memgraph:7687", cfg.Memgraph.URI)
	assert.Equal(t, "7000", cfg.Server.Port)
}
