package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Backend names accepted in the "backend" key.
const (
	BackendNeo4j  = "neo4j"
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Config holds the configuration for the graph facade.
type Config struct {
	Backend string        `mapstructure:"backend"`
	Neo4j   Neo4jConfig   `mapstructure:"neo4j"`
	SQLite  SQLiteConfig  `mapstructure:"sqlite"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

// Neo4jConfig holds the Neo4j connection settings.
type Neo4jConfig struct {
	URI                     string        `mapstructure:"uri"`
	User                    string        `mapstructure:"user"`
	Password                string        `mapstructure:"password"`
	Database                string        `mapstructure:"database"`
	MaxConnectionPoolSize   int           `mapstructure:"max_connection_pool_size"`
	ConnectionTimeout       time.Duration `mapstructure:"connection_timeout"`
	MaxTransactionRetryTime time.Duration `mapstructure:"max_transaction_retry_time"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig enables a Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// TracingConfig controls span export over OTLP/HTTP. With Enabled false no
// tracer provider is installed and spans are dropped.
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRate  float64 `mapstructure:"sample_rate"`
	ServiceName string  `mapstructure:"service_name"`
}

// legacyEnv keeps the plain NEO4J_* variables working next to the
// GRAPHFACADE_* ones.
var legacyEnv = map[string]string{
	"neo4j.uri":      "NEO4J_URI",
	"neo4j.user":     "NEO4J_USER",
	"neo4j.password": "NEO4J_PASSWORD",
	"neo4j.database": "NEO4J_DATABASE",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend", BackendNeo4j)
	v.SetDefault("neo4j.uri", "")
	v.SetDefault("neo4j.user", "neo4j")
	v.SetDefault("neo4j.password", "")
	v.SetDefault("neo4j.database", "")
	v.SetDefault("neo4j.max_connection_pool_size", 50)
	v.SetDefault("neo4j.connection_timeout", 30*time.Second)
	v.SetDefault("neo4j.max_transaction_retry_time", 30*time.Second)
	v.SetDefault("sqlite.path", "graph.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("metrics.addr", "")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4318")
	v.SetDefault("tracing.insecure", false)
	v.SetDefault("tracing.sample_rate", 1.0)
	v.SetDefault("tracing.service_name", "graphfacade")
}

// Load reads the configuration from defaults, the optional YAML file at path,
// and the environment, in increasing order of precedence.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("GRAPHFACADE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		prefixed := "GRAPHFACADE_" + strings.ToUpper(strings.NewReplacer(".", "_").Replace(key))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return Config{}, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings the selected backend and tracing need.
func (c Config) Validate() error {
	if c.Tracing.Enabled {
		if c.Tracing.Endpoint == "" {
			return fmt.Errorf("tracing.endpoint is required when tracing is enabled")
		}
		if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
			return fmt.Errorf("tracing.sample_rate must be between 0 and 1, got %v", c.Tracing.SampleRate)
		}
	}

	switch c.Backend {
	case BackendNeo4j:
		if c.Neo4j.URI == "" {
			return fmt.Errorf("neo4j.uri is required for the neo4j backend (set NEO4J_URI)")
		}
		if c.Neo4j.MaxConnectionPoolSize <= 0 {
			return fmt.Errorf("neo4j.max_connection_pool_size must be positive")
		}
		if c.Neo4j.ConnectionTimeout <= 0 {
			return fmt.Errorf("neo4j.connection_timeout must be positive")
		}
		if c.Neo4j.MaxTransactionRetryTime <= 0 {
			return fmt.Errorf("neo4j.max_transaction_retry_time must be positive")
		}
	case BackendSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("sqlite.path is required for the sqlite backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q (want %s, %s or %s)", c.Backend, BackendNeo4j, BackendSQLite, BackendMemory)
	}
	return nil
}

// LoadEnv loads environment variables from a .env file, searching up the directory tree.
func LoadEnv() error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}

	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			return godotenv.Load(envPath)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	// Not found is fine
	return nil
}
