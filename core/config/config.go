package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// WhatsAppConfig holds transport settings shared by every deployment of the bot.
type WhatsAppConfig struct {
	// AdminJID is the chat identity that receives submission forwards and whose
	// reactions drive user notifications.
	AdminJID string `yaml:"admin_jid" envconfig:"WA_ADMIN_JID"`
	// DeviceStoreDSN is the Postgres DSN backing the pairing credential store.
	DeviceStoreDSN string `yaml:"device_store_dsn" envconfig:"WA_DEVICE_STORE_DSN"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	DebugSample string `yaml:"debug_sample"`
	Dir         string `yaml:"dir"`
	BotFile     string `yaml:"bot_file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile"`
}

// SenderConfig controls the outbound send queue.
type SenderConfig struct {
	QueueSize      int `yaml:"queue_size" envconfig:"SENDER_QUEUE_SIZE"`
	Workers        int `yaml:"workers" envconfig:"SENDER_WORKERS"`
	MaxRetries     int `yaml:"max_retries" envconfig:"SENDER_MAX_RETRIES"`
	RetryBackoffMS int `yaml:"retry_backoff_ms" envconfig:"SENDER_RETRY_BACKOFF_MS"`
	MaxDurationMS  int `yaml:"max_duration_ms" envconfig:"SENDER_MAX_DURATION_MS"`
}

// WorkflowConfig tunes conversation behaviour.
type WorkflowConfig struct {
	// MenuRedisplayDelayMS is how long after a successful submission the
	// welcome menu is sent again; 0 -> default 2000.
	MenuRedisplayDelayMS int `yaml:"menu_redisplay_delay_ms" envconfig:"MENU_REDISPLAY_DELAY_MS"`
}

// RetentionConfig bounds the lifetime of in-memory state.
// A zero TTL keeps entries for the whole process lifetime.
type RetentionConfig struct {
	SessionTTLHours      int `yaml:"session_ttl_hours" envconfig:"SESSION_TTL_HOURS"`
	CorrelationTTLHours  int `yaml:"correlation_ttl_hours" envconfig:"CORRELATION_TTL_HOURS"`
	SweepIntervalMinutes int `yaml:"sweep_interval_minutes" envconfig:"SWEEP_INTERVAL_MINUTES"`
}

// Config aggregates the configuration that belongs to the reusable core.
type Config struct {
	WhatsApp  WhatsAppConfig  `yaml:"whatsapp"`
	Logging   LoggingConfig   `yaml:"logging"`
	Sender    SenderConfig    `yaml:"sender"`
	Workflow  WorkflowConfig  `yaml:"workflow"`
	Retention RetentionConfig `yaml:"retention"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if strings.TrimSpace(cfg.WhatsApp.AdminJID) == "" {
		return fmt.Errorf("whatsapp.admin_jid is required")
	}
	if strings.TrimSpace(cfg.WhatsApp.DeviceStoreDSN) == "" {
		return fmt.Errorf("whatsapp.device_store_dsn is required")
	}
	cfg.WhatsApp.AdminJID = strings.TrimSpace(cfg.WhatsApp.AdminJID)

	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Level)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid logging.level %q; allowed: debug, info, warn, error", cfg.Logging.Level)
	}

	if cfg.Sender.QueueSize < 0 {
		return fmt.Errorf("sender.queue_size must be >= 0")
	}
	if cfg.Sender.Workers < 0 {
		return fmt.Errorf("sender.workers must be >= 0")
	}
	if cfg.Sender.MaxRetries < 0 {
		return fmt.Errorf("sender.max_retries must be >= 0")
	}

	if cfg.Workflow.MenuRedisplayDelayMS < 0 {
		return fmt.Errorf("workflow.menu_redisplay_delay_ms must be >= 0")
	}
	if cfg.Workflow.MenuRedisplayDelayMS == 0 {
		cfg.Workflow.MenuRedisplayDelayMS = 2000
	}

	if cfg.Retention.SessionTTLHours < 0 || cfg.Retention.CorrelationTTLHours < 0 {
		return fmt.Errorf("retention TTLs must be >= 0")
	}
	if cfg.Retention.SweepIntervalMinutes <= 0 {
		cfg.Retention.SweepIntervalMinutes = 60
	}

	return nil
}
