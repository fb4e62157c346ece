// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App            AppConfig               `mapstructure:"app"`
	Camunda        CamundaConfig           `mapstructure:"camunda"`
	Database       DatabaseConfig          `mapstructure:"database"`
	Workers        map[string]WorkerConfig `mapstructure:"workers"`
	Model          ModelConfig             `mapstructure:"model"`
	Recommendation RecommendationConfig    `mapstructure:"recommendation"`
	Logging        LoggingConfig           `mapstructure:"logging"`
	Server         ServerConfig            `mapstructure:"server"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
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

// GetDSN returns the PostgreSQL connection string
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

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// ModelConfig locates the predictive model artifact and tunes how it is called.
type ModelConfig struct {
	ArtifactPath       string `mapstructure:"artifact_path"`
	Timeout            int    `mapstructure:"timeout"` // milliseconds, remote models only
	NormalizePredicted bool   `mapstructure:"normalize_predicted"`
	Breaker            struct {
		MaxRequests      uint32 `mapstructure:"max_requests"`
		Interval         int    `mapstructure:"interval"` // milliseconds
		OpenTimeout      int    `mapstructure:"open_timeout"`
		FailureThreshold uint32 `mapstructure:"failure_threshold"`
	} `mapstructure:"breaker"`
}

// SeedPlaceConfig is one orderable seed attraction and its rank weight.
type SeedPlaceConfig struct {
	ID     string  `mapstructure:"id"`
	Weight float64 `mapstructure:"weight"`
}

// RecommendationConfig holds the fusion settings of the combined-recommendation worker.
type RecommendationConfig struct {
	SeedPlaces    []SeedPlaceConfig `mapstructure:"seed_places"`
	CategoryBoost *float64          `mapstructure:"category_boost"`
	MaxItems      int               `mapstructure:"max_items"`
	CacheTTL      int               `mapstructure:"cache_ttl"` // seconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ServerConfig holds the health/metrics listener.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}
