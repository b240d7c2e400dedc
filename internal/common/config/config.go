// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig               `mapstructure:"app"`
	Server   ServerConfig            `mapstructure:"server"`
	Database DatabaseConfig          `mapstructure:"database"`
	DevOps   DevOpsConfig            `mapstructure:"devops"`
	APIs     APIsConfig              `mapstructure:"apis"`
	Router   RouterConfig            `mapstructure:"router"`
	Memory   MemoryConfig            `mapstructure:"memory"`
	Intents  map[string]IntentConfig `mapstructure:"intents"`
	Logging  LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address        string `mapstructure:"address"`
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
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

type ElasticsearchConfig struct {
	Addresses    []string `mapstructure:"addresses"`
	Username     string   `mapstructure:"username"`
	Password     string   `mapstructure:"password"`
	ProjectIndex string   `mapstructure:"project_index"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// DevOpsConfig holds settings for the work-item data source.
type DevOpsConfig struct {
	// Mode selects the data-source backend: "rest" or "postgres".
	Mode           string `mapstructure:"mode"`
	BaseURL        string `mapstructure:"base_url"`
	Organization   string `mapstructure:"organization"`
	DefaultProject string `mapstructure:"default_project"`
	PAT            string `mapstructure:"pat"`
	Timeout        int    `mapstructure:"timeout"`     // milliseconds
	MaxRetries     int    `mapstructure:"max_retries"` // transient failures only
}

// APIsConfig holds settings for external API integrations.
type APIsConfig struct {
	GenAI struct {
		BaseURL    string `mapstructure:"base_url"`
		APIKey     string `mapstructure:"api_key"`
		Timeout    int    `mapstructure:"timeout"` // milliseconds
		MaxRetries int    `mapstructure:"max_retries"`
	} `mapstructure:"genai"`
}

// RouterConfig holds classification settings.
type RouterConfig struct {
	// ConfidenceThreshold below which classification falls back to the
	// default intent.
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	// RecentTurns is how many prior turns are shown to the classifier.
	RecentTurns int `mapstructure:"recent_turns"`
}

// MemoryConfig holds conversation store settings.
type MemoryConfig struct {
	// Backend selects the store: "inmemory" or "redis".
	Backend  string `mapstructure:"backend"`
	TTLHours int    `mapstructure:"ttl_hours"`
}

// IntentConfig holds the core settings applicable to every intent.
type IntentConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
