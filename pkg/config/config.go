package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is built once at startup and injected read-only into every
// component; nothing mutates it afterwards.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Google  GoogleConfig  `mapstructure:"google"`
	Retail  RetailConfig  `mapstructure:"retail"`
	Agent   AgentConfig   `mapstructure:"agent"`
	Safety  SafetyConfig  `mapstructure:"safety"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	MetricsPort int    `mapstructure:"metrics_port"`
}

// GoogleConfig identifies the cloud tenant the managed services live in.
type GoogleConfig struct {
	ProjectID   string `mapstructure:"project_id"`
	Location    string `mapstructure:"location"`
	AccessToken string `mapstructure:"access_token"`
}

type RetailConfig struct {
	ServingConfig string `mapstructure:"serving_config"`
	Branch        string `mapstructure:"branch"`
	PageSize      int    `mapstructure:"page_size"`
}

type AgentConfig struct {
	Provider    string                 `mapstructure:"provider"`
	Model       string                 `mapstructure:"model"`
	APIKey      string                 `mapstructure:"api_key"`
	MaxTokens   int                    `mapstructure:"max_tokens"`
	Temperature float64                `mapstructure:"temperature"`
	SessionTTL  int                    `mapstructure:"session_ttl_minutes"`
	Options     map[string]interface{} `mapstructure:"options"`
}

// SafetyConfig configures the prompt-safety gate. When Enabled is false, or
// TemplateID cannot be resolved and Required is false, the gate runs in
// pass-through mode and the agent keeps serving traffic. Required makes a
// missing safety configuration fatal at startup.
type SafetyConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Required   bool   `mapstructure:"required"`
	TemplateID string `mapstructure:"template_id"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

var ErrSafetyConfigMissing = errors.New("safety gate is required but project, location or template id is missing")

func Load(configPath string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No file is fine; environment variables cover everything.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.metrics_port", 9090)
	viper.SetDefault("google.project_id", "")
	viper.SetDefault("google.location", "us-central1")
	viper.SetDefault("google.access_token", "")
	viper.SetDefault("retail.serving_config", "default_search")
	viper.SetDefault("retail.branch", "0")
	viper.SetDefault("retail.page_size", 10)
	viper.SetDefault("agent.provider", "google")
	viper.SetDefault("agent.model", "gemini-2.0-flash")
	viper.SetDefault("agent.api_key", "")
	viper.SetDefault("agent.max_tokens", 1024)
	viper.SetDefault("agent.session_ttl_minutes", 60)
	viper.SetDefault("safety.enabled", true)
	viper.SetDefault("safety.required", false)
	viper.SetDefault("safety.template_id", "model-armor-demo")
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("metrics.enabled", true)
}

// Validate enforces the startup-time invariants. The only fatal safety
// condition is a deployment that requires the gate without the configuration
// to build it; an optional gate degrades to pass-through instead.
func (c *Config) Validate() error {
	if c.Google.ProjectID == "" {
		return fmt.Errorf("google.project_id is required")
	}
	if c.Safety.Required && !c.SafetyConfigured() {
		return ErrSafetyConfigMissing
	}
	return nil
}

// SafetyConfigured reports whether the gate has everything it needs to call
// the classifier.
func (c *Config) SafetyConfigured() bool {
	return c.Safety.Enabled &&
		c.Google.ProjectID != "" &&
		c.Google.Location != "" &&
		c.Safety.TemplateID != ""
}
