package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, BackendNeo4j, cfg.Backend)
	assert.Equal(t, 50, cfg.Neo4j.MaxConnectionPoolSize)
	assert.Equal(t, 30*time.Second, cfg.Neo4j.ConnectionTimeout)
	assert.Equal(t, "graph.db", cfg.SQLite.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRate)
	assert.Equal(t, "graphfacade", cfg.Tracing.ServiceName)
}

func TestLoadLegacyEnv(t *testing.T) {
	t.Setenv("NEO4J_URI", "bolt://localhost:7687")
	t.Setenv("NEO4J_USER", "neo4j")
	t.Setenv("NEO4J_PASSWORD", "password")

	cfg, err := Load("")
	require.NoError(t, err)

	if cfg.Neo4j.URI != "bolt://localhost:7687" {
		t.Errorf("expected Neo4j URI to be 'bolt://localhost:7687', got '%s'", cfg.Neo4j.URI)
	}
	if cfg.Neo4j.User != "neo4j" {
		t.Errorf("expected Neo4j user to be 'neo4j', got '%s'", cfg.Neo4j.User)
	}
	if cfg.Neo4j.Password != "password" {
		t.Errorf("expected Neo4j password to be 'password', got '%s'", cfg.Neo4j.Password)
	}
	require.NoError(t, cfg.Validate())
}

func TestLoadPrefixedEnvWins(t *testing.T) {
	t.Setenv("NEO4J_URI", "bolt://legacy:7687")
	t.Setenv("GRAPHFACADE_NEO4J_URI", "bolt://prefixed:7687")
	t.Setenv("GRAPHFACADE_BACKEND", "memory")
	t.Setenv("GRAPHFACADE_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "bolt://prefixed:7687", cfg.Neo4j.URI)
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graphfacade.yaml")
	content := `
backend: sqlite
sqlite:
  path: /tmp/facade.db
neo4j:
  connection_timeout: 5s
metrics:
  addr: ":9100"
tracing:
  enabled: true
  endpoint: collector:4318
  insecure: true
  sample_rate: 0.25
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, "/tmp/facade.db", cfg.SQLite.Path)
	assert.Equal(t, 5*time.Second, cfg.Neo4j.ConnectionTimeout)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "collector:4318", cfg.Tracing.Endpoint)
	assert.True(t, cfg.Tracing.Insecure)
	assert.Equal(t, 0.25, cfg.Tracing.SampleRate)
	require.NoError(t, cfg.Validate())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{
		Backend: BackendNeo4j,
		Neo4j: Neo4jConfig{
			URI:                     "bolt://localhost:7687",
			MaxConnectionPoolSize:   50,
			ConnectionTimeout:       time.Second,
			MaxTransactionRetryTime: time.Second,
		},
	}
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing uri", func(c *Config) { c.Neo4j.URI = "" }},
		{"zero pool", func(c *Config) { c.Neo4j.MaxConnectionPoolSize = 0 }},
		{"zero timeout", func(c *Config) { c.Neo4j.ConnectionTimeout = 0 }},
		{"negative retry", func(c *Config) { c.Neo4j.MaxTransactionRetryTime = -time.Second }},
		{"sqlite without path", func(c *Config) { c.Backend = BackendSQLite }},
		{"unknown backend", func(c *Config) { c.Backend = "janus" }},
		{"tracing without endpoint", func(c *Config) { c.Tracing.Enabled = true }},
		{"sample rate above one", func(c *Config) {
			c.Tracing = TracingConfig{Enabled: true, Endpoint: "localhost:4318", SampleRate: 2}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Config{Backend: BackendMemory}.Validate())
}

func TestLoadEnv(t *testing.T) {
	// Create a temporary directory
	tempDir := t.TempDir()

	// Create a .env file in the temp directory
	envContent := "TEST_ENV_VAR=loaded_successfully"
	envFile := filepath.Join(tempDir, ".env")
	if err := os.WriteFile(envFile, []byte(envContent), 0644); err != nil {
		t.Fatalf("Failed to create .env file: %v", err)
	}

	// Create a subdirectory
	subDir := filepath.Join(tempDir, "subdir", "deep", "nested")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatalf("Failed to create subdirectory: %v", err)
	}

	t.Chdir(subDir)

	if err := LoadEnv(); err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}

	if val := os.Getenv("TEST_ENV_VAR"); val != "loaded_successfully" {
		t.Errorf("Expected TEST_ENV_VAR to be 'loaded_successfully', got '%s'", val)
	}

	os.Unsetenv("TEST_ENV_VAR")
}
