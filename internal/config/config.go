package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"newsletter_client/internal/domain"
)

type Config struct {
	API      APIConfig      `yaml:"api"`
	Preview  PreviewConfig  `yaml:"preview"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Composer ComposerConfig `yaml:"composer"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	LogLevel string         `yaml:"log_level"`
}

type APIConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit float64       `yaml:"rate_limit"`
	RateBurst int           `yaml:"rate_burst"`
}

type PreviewConfig struct {
	Limit int `yaml:"limit"`
}

type CatalogConfig struct {
	Fallback []domain.Topic `yaml:"fallback"`
}

type ComposerConfig struct {
	DefaultTopics []string `yaml:"default_topics"`
}

// RabbitMQConfig configures the activity publisher. An empty URL disables it.
type RabbitMQConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultFallbackTopics is used when the catalog request fails and no
// fallback is configured.
func DefaultFallbackTopics() []domain.Topic {
	return []domain.Topic{
		{ID: "tech", Label: "Tech", Description: "Technology developments and trends"},
		{ID: "ai", Label: "AI", Description: "Artificial intelligence advances"},
	}
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return Parse(data)
}

// Parse expands environment variables in data and decodes it.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = "http://localhost:8080"
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = 10 * time.Second
	}
	if c.API.RateLimit == 0 {
		c.API.RateLimit = 10
	}
	if c.API.RateBurst == 0 {
		c.API.RateBurst = 5
	}
	if c.Preview.Limit == 0 {
		c.Preview.Limit = 3
	}
	if len(c.Catalog.Fallback) == 0 {
		c.Catalog.Fallback = DefaultFallbackTopics()
	}
	for i := range c.Catalog.Fallback {
		if c.Catalog.Fallback[i].Label == "" {
			c.Catalog.Fallback[i].Label = c.Catalog.Fallback[i].ID
		}
	}
	if c.RabbitMQ.URL != "" {
		if c.RabbitMQ.Exchange == "" {
			c.RabbitMQ.Exchange = "newsletter_client"
		}
		if c.RabbitMQ.RoutingKey == "" {
			c.RabbitMQ.RoutingKey = "subscriptions"
		}
		if c.RabbitMQ.QueueName == "" {
			c.RabbitMQ.QueueName = "subscription_events"
		}
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) validate() error {
	if c.Preview.Limit < 0 {
		return fmt.Errorf("preview.limit must be positive, got %d", c.Preview.Limit)
	}
	for _, t := range c.Catalog.Fallback {
		if t.ID == "" {
			return fmt.Errorf("catalog.fallback contains a topic without id")
		}
	}
	return nil
}
