// internal/common/config/config.go
package config

import "fmt"

type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Workers       map[string]WorkerConfig `mapstructure:"workers" validate:"dive"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Matching      MatchingConfig          `mapstructure:"matching"`
	Catalog       CatalogConfig           `mapstructure:"catalog"`
	ReferenceData ReferenceDataConfig     `mapstructure:"reference_data"`
	Server        ServerConfig            `mapstructure:"server"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment" validate:"omitempty,oneof=development staging production test"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address" validate:"required"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active" validate:"gte=1"`
	Timeout        int    `mapstructure:"timeout" validate:"gte=0"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout" validate:"gte=0"` // milliseconds
	UsePlaintext   bool   `mapstructure:"use_plaintext"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"gte=0,lte=65535"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections" validate:"gte=1"`
	MaxIdle        int    `mapstructure:"max_idle" validate:"gte=0"`
	SSLMode        string `mapstructure:"sslmode" validate:"omitempty,oneof=disable require verify-ca verify-full"`
}

func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}

type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active" validate:"gte=1"`
	Timeout       int  `mapstructure:"timeout" validate:"gte=1"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries" validate:"gte=0"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
	Output string `mapstructure:"output"`
}

// MatchingConfig tunes the ranking engine and its result cache.
type MatchingConfig struct {
	DefaultLimit     int     `mapstructure:"default_limit" validate:"gte=1"`
	MaxLimit         int     `mapstructure:"max_limit" validate:"gtefield=DefaultLimit"`
	Concurrency      int     `mapstructure:"concurrency" validate:"gte=0"`
	EligibilityFloor float64 `mapstructure:"eligibility_floor" validate:"gte=0,lt=100"`
	CacheEnabled     bool    `mapstructure:"cache_enabled"`
	CacheTTL         int     `mapstructure:"cache_ttl"` // seconds
	CacheKeyPrefix   string  `mapstructure:"cache_key_prefix"`
}

// CatalogConfig selects where festivals are loaded from.
type CatalogConfig struct {
	Source          string `mapstructure:"source" validate:"oneof=file postgres redis http"`
	FilePath        string `mapstructure:"file_path"`
	URL             string `mapstructure:"url"`
	RedisKey        string `mapstructure:"redis_key"`
	Table           string `mapstructure:"table"`
	RefreshInterval int    `mapstructure:"refresh_interval" validate:"gte=0"` // milliseconds, 0 disables
}

type ReferenceDataConfig struct {
	Path string `mapstructure:"path"`
}

type ServerConfig struct {
	Address string `mapstructure:"address" validate:"required"`
}
