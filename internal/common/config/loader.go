// internal/common/config/loader.go
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

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like OPENAI_API_KEY
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment overlay, ignored if not found
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig()

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile tries .env from the locations the binary and tests run from.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// overrideEmptyConfig applies well-known environment variables for values
// still empty after expansion.
func overrideEmptyConfig(cfg *Config) {
	if cfg.OpenAI.APIKey == "" {
		if val := os.Getenv("OPENAI_API_KEY"); val != "" {
			cfg.OpenAI.APIKey = val
		}
	}

	if cfg.Recaptcha.SecretKey == "" {
		if val := os.Getenv("RECAPTCHA_SECRET_KEY"); val != "" {
			cfg.Recaptcha.SecretKey = val
		}
	}
	if cfg.Recaptcha.SiteKey == "" {
		if val := os.Getenv("NEXT_PUBLIC_RECAPTCHA_SITE_KEY"); val != "" {
			cfg.Recaptcha.SiteKey = val
		}
	}

	if cfg.Slack.WebhookURL == "" {
		if val := os.Getenv("SLACK_WEBHOOK_URL"); val != "" {
			cfg.Slack.WebhookURL = val
		}
	}

	if cfg.Redis.Address == "" {
		if val := os.Getenv("REDIS_ADDRESS"); val != "" {
			cfg.Redis.Address = val
		}
	}
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 120000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10000
	}

	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-4o-mini"
	}
	if cfg.OpenAI.Timeout == 0 {
		cfg.OpenAI.Timeout = 60000
	}

	if cfg.Recaptcha.VerifyURL == "" {
		cfg.Recaptcha.VerifyURL = "https://www.google.com/recaptcha/api/siteverify"
	}
	if cfg.Recaptcha.ScoreThreshold == 0 {
		cfg.Recaptcha.ScoreThreshold = 0.5
	}
	if cfg.Recaptcha.Timeout == 0 {
		cfg.Recaptcha.Timeout = 10000
	}

	if cfg.Slack.Timeout == 0 {
		cfg.Slack.Timeout = 10000
	}

	if cfg.Quota.DailyLimit == 0 {
		cfg.Quota.DailyLimit = 5
	}
	if cfg.Quota.Backend == "" {
		cfg.Quota.Backend = "memory"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	for key, ep := range cfg.Endpoints {
		if ep.Timeout == 0 {
			ep.Timeout = 90000
		}
		cfg.Endpoints[key] = ep
	}
}

// validateConfig validates critical configuration fields. Provider credentials
// and the webhook URL are deliberately not required here: their absence is a
// per-request 500, not a startup failure.
func validateConfig(cfg *Config) error {
	if cfg.Server.Address == "" {
		return fmt.Errorf("server.address is required")
	}

	if cfg.Quota.Backend != "memory" && cfg.Quota.Backend != "redis" {
		return fmt.Errorf("quota.backend must be \"memory\" or \"redis\"")
	}
	if cfg.Quota.Backend == "redis" && cfg.Quota.Enabled && cfg.Redis.Address == "" {
		return fmt.Errorf("redis.address is required when quota.backend is redis")
	}

	if cfg.Recaptcha.ScoreThreshold < 0 || cfg.Recaptcha.ScoreThreshold > 1 {
		return fmt.Errorf("recaptcha.score_threshold must be in [0,1]")
	}

	if cfg.Email.Enabled {
		if cfg.Email.FromEmail == "" || cfg.Email.ToEmail == "" {
			return fmt.Errorf("email.from_email and email.to_email are required when email is enabled")
		}
		if cfg.Email.AWSRegion == "" {
			return fmt.Errorf("email.aws_region is required when email is enabled")
		}
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetEndpointConfig retrieves per-route configuration with fallback to defaults.
func GetEndpointConfig(cfg *Config, name string) EndpointConfig {
	if ep, exists := cfg.Endpoints[name]; exists {
		return ep
	}

	return EndpointConfig{
		Enabled:   true,
		Recaptcha: name != "demo",
		Quota:     false,
		Timeout:   90000,
	}
}

// IsEndpointEnabled checks if a specific endpoint is enabled.
func IsEndpointEnabled(cfg *Config, name string) bool {
	if ep, exists := cfg.Endpoints[name]; exists {
		return ep.Enabled
	}
	return true
}
