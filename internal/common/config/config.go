// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

// EngineConfig holds the matching and network discovery settings.
type EngineConfig struct {
	// MaxLimit bounds page sizes on every public operation. Limits above it
	// are caller errors, never clamped.
	MaxLimit int `mapstructure:"max_limit"`

	// MaxDepth is the default BFS hop bound for indirect connections. The
	// hard cap of 3 is not configurable.
	MaxDepth int `mapstructure:"max_depth"`

	// DefaultMinOverlapMonths applies when a colleague query leaves the
	// threshold unset.
	DefaultMinOverlapMonths int `mapstructure:"default_min_overlap_months"`

	// Concurrency bounds parallel candidate scoring and frontier expansion.
	// Zero means runtime.NumCPU.
	Concurrency int `mapstructure:"concurrency"`

	// CacheTTL is the candidate profile cache lifetime in seconds.
	CacheTTL int `mapstructure:"cache_ttl"`

	// Prefilter selects the QueryCandidates backend: postgres | elasticsearch.
	Prefilter string `mapstructure:"prefilter"`

	Weights WeightsConfig `mapstructure:"weights"`
}

// WeightsConfig holds the default scoring weights, overridable per request.
type WeightsConfig struct {
	Skills     float64 `mapstructure:"skills"`
	Experience float64 `mapstructure:"experience"`
	Company    float64 `mapstructure:"company"`
	Department float64 `mapstructure:"department"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
