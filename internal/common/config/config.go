// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Demo     DemoConfig     `mapstructure:"demo"`
	Refresh  RefreshConfig  `mapstructure:"refresh"`
	Chat     ChatConfig     `mapstructure:"chat"`
	Alerts   AlertsConfig   `mapstructure:"alerts"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
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
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// --- Domain Configuration Sections ---

// DemoConfig controls the synthetic data seeded when the database is empty.
type DemoConfig struct {
	Employees   int   `mapstructure:"employees"`
	Seed        int64 `mapstructure:"seed"`
	SeedOnEmpty bool  `mapstructure:"seed_on_empty"`
}

// RefreshConfig controls the snapshot refresh loop.
type RefreshConfig struct {
	Interval int `mapstructure:"interval"` // milliseconds
}

// ChatConfig holds settings for the wellness chatbot.
type ChatConfig struct {
	CacheTTL    int `mapstructure:"cache_ttl"`    // milliseconds
	MaxSessions int `mapstructure:"max_sessions"` // server-side session cap
}

// AlertsConfig holds settings for high-stress notifications.
type AlertsConfig struct {
	Enabled         bool     `mapstructure:"enabled"`
	StressThreshold float64  `mapstructure:"stress_threshold"`
	SMSThreshold    float64  `mapstructure:"sms_threshold"`
	Interval        int      `mapstructure:"interval"` // milliseconds between sweeps
	Cooldown        int      `mapstructure:"cooldown"` // milliseconds per department
	AWSRegion       string   `mapstructure:"aws_region"`
	FromEmail       string   `mapstructure:"from_email"`
	EmailRecipients []string `mapstructure:"email_recipients"`
	SMSRecipients   []string `mapstructure:"sms_recipients"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
