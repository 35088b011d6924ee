package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Platform   PlatformConfig   `yaml:"platform"`
	AWS        AWSConfig        `yaml:"aws"`
	Manifest   ManifestConfig   `yaml:"manifest"`
	Checkpoint CheckpointConfig `yaml:"checkpoint"`
	FailureLog FailureLogConfig `yaml:"failure_log"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	RabbitMQ   RabbitMQConfig   `yaml:"rabbitmq"`
	LogLevel   string           `yaml:"log_level"`
}

type PlatformConfig struct {
	AccountID     string        `yaml:"account_id"`
	ClientID      string        `yaml:"client_id"`
	ClientSecret  string        `yaml:"client_secret"`
	OAuthURL      string        `yaml:"oauth_url"`
	CMSBaseURL    string        `yaml:"cms_base_url"`
	IngestBaseURL string        `yaml:"ingest_base_url"`
	Timeout       time.Duration `yaml:"timeout"`
}

type AWSConfig struct {
	Profile   string `yaml:"profile"`
	Region    string `yaml:"region"`
	URLExpiry int    `yaml:"url_expiry"` // seconds
}

type ManifestConfig struct {
	Path string `yaml:"path"`
}

type CheckpointConfig struct {
	Backend    string         `yaml:"backend"` // "file" or "postgres"
	Path       string         `yaml:"path"`
	ManifestID string         `yaml:"manifest_id"`
	Database   DatabaseConfig `yaml:"database"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

type FailureLogConfig struct {
	Dir string `yaml:"dir"`
}

type RateLimitConfig struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

type RabbitMQConfig struct {
	URL        string `yaml:"url"` // empty disables event publishing
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Platform.OAuthURL == "" {
		c.Platform.OAuthURL = "https://oauth.brightcove.com/v4/access_token"
	}
	if c.Platform.CMSBaseURL == "" {
		c.Platform.CMSBaseURL = "https://cms.api.brightcove.com/v1"
	}
	if c.Platform.IngestBaseURL == "" {
		c.Platform.IngestBaseURL = "https://ingest.api.brightcove.com/v1"
	}
	if c.Platform.Timeout == 0 {
		c.Platform.Timeout = 30 * time.Second
	}
	if c.AWS.Region == "" {
		c.AWS.Region = "ap-southeast-2"
	}
	if c.AWS.URLExpiry == 0 {
		c.AWS.URLExpiry = 1800
	}
	if c.Checkpoint.Backend == "" {
		c.Checkpoint.Backend = "file"
	}
	if c.Checkpoint.Path == "" {
		c.Checkpoint.Path = "last_processed_id.txt"
	}
	if c.Checkpoint.ManifestID == "" {
		c.Checkpoint.ManifestID = "default"
	}
	if c.FailureLog.Dir == "" {
		c.FailureLog.Dir = "logs"
	}
	if c.RateLimit.Requests == 0 {
		c.RateLimit.Requests = 150
	}
	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = 60 * time.Second
	}
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "video_ingestor"
	}
	if c.RabbitMQ.RoutingKey == "" {
		c.RabbitMQ.RoutingKey = "ingests"
	}
	if c.RabbitMQ.QueueName == "" {
		c.RabbitMQ.QueueName = "cms_ingests"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) validate() error {
	if c.Platform.AccountID == "" {
		return fmt.Errorf("platform.account_id is required")
	}
	if c.Platform.ClientID == "" || c.Platform.ClientSecret == "" {
		return fmt.Errorf("platform.client_id and platform.client_secret are required")
	}
	if c.Manifest.Path == "" {
		return fmt.Errorf("manifest.path is required")
	}
	switch c.Checkpoint.Backend {
	case "file", "postgres":
	default:
		return fmt.Errorf("checkpoint.backend must be \"file\" or \"postgres\", got %q", c.Checkpoint.Backend)
	}
	return nil
}
