package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuzzy-rank/core/fuzzy"
	"fuzzy-rank/internal/errors"
)

func TestDefaultMatchesReferenceBehavior(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 5, cfg.Engine.TopN)
	assert.Equal(t, fuzzy.DefaultDomain, cfg.Domain())
	assert.Equal(t, "id Pelanggan", cfg.Input.IDColumn)
	assert.Equal(t, "Pelayanan", cfg.Input.ServiceColumn)
	assert.Equal(t, "harga", cfg.Input.PriceColumn)
	assert.Equal(t, "peringkat.xlsx", cfg.Output.Path)
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	for _, name := range []string{"missing.json", "missing.hcl"} {
		cfg, err := Load(filepath.Join(t.TempDir(), name))
		require.NoError(t, err)
		assert.Equal(t, Default().Engine, cfg.Engine)
	}
}

func TestSaveAndLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := Default()
	cfg.Engine.TopN = 10
	cfg.Storage.Backend = "sqlite"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10, loaded.Engine.TopN)
	assert.Equal(t, "sqlite", loaded.Storage.Backend)
}

func TestLoadHCLMergesOntoDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fuzzy-rank.hcl")
	src := `
engine {
  top_n = 3
  step  = 0.5
}

input {
  sheet = "Data"
}

storage {
  backend = "file"
  path    = "/tmp/rankings"
}

logging {
  level = "debug"
}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Engine.TopN)
	assert.Equal(t, 0.5, cfg.Domain().Step)
	assert.Equal(t, "Data", cfg.Input.Sheet)
	assert.Equal(t, "Pelayanan", cfg.Input.ServiceColumn)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadHCLKeepsExplicitZeros(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zeros.hcl")
	src := `
engine {
  top_n = 0
}

output {
  show_trace = false
}

server {
  rate_limit = 0
}

logging {
  development = false
}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	base := Default()
	base.Output.ShowTrace = true
	base.Logging.Development = true
	require.NoError(t, loadHCL(path, base))

	assert.Equal(t, 0, base.Engine.TopN)
	assert.Equal(t, 0.0, base.Server.RateLimit)
	assert.False(t, base.Output.ShowTrace)
	assert.False(t, base.Logging.Development)
	assert.Equal(t, 40, base.Server.Burst)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Engine.TopN)
	assert.Equal(t, 0.0, cfg.Server.RateLimit)
}

func TestLoadInvalidHCL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.hcl")
	require.NoError(t, os.WriteFile(path, []byte("engine {\n  top_n = \n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestValidateRejectsBadSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative workers", func(c *Config) { c.Engine.Workers = -1 }},
		{"negative top n", func(c *Config) { c.Engine.TopN = -2 }},
		{"step too large", func(c *Config) { c.Engine.Step = 500 }},
		{"unknown format", func(c *Config) { c.Output.Format = "yaml" }},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "redis" }},
		{"postgres without dsn", func(c *Config) { c.Storage.Backend = "postgres" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.TypeConfig))
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvDatabaseURL, "postgres://localhost/fuzzy")
	t.Setenv(EnvAddr, ":9090")
	t.Setenv(EnvWorkers, "3")

	cfg := Default()
	cfg.ApplyEnv()
	assert.Equal(t, "postgres", cfg.Storage.Backend)
	assert.Equal(t, "postgres://localhost/fuzzy", cfg.Storage.DSN)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 3, cfg.Engine.Workers)
	require.NoError(t, cfg.Validate())
}
