// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig                 `mapstructure:"app"`
	Server     ServerConfig              `mapstructure:"server"`
	OpenAI     OpenAIConfig              `mapstructure:"openai"`
	Recaptcha  RecaptchaConfig           `mapstructure:"recaptcha"`
	Slack      SlackConfig               `mapstructure:"slack"`
	Email      EmailConfig               `mapstructure:"email"`
	Quota      QuotaConfig               `mapstructure:"quota"`
	Redis      RedisConfig               `mapstructure:"redis"`
	Endpoints  map[string]EndpointConfig `mapstructure:"endpoints"`
	Validation ValidationConfig          `mapstructure:"validation"`
	Logging    LoggingConfig             `mapstructure:"logging"`
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

// --- External Service Config ---

// OpenAIConfig holds settings for the completion provider. An empty APIKey is
// not a startup error: it surfaces as a per-request configuration error.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

type RecaptchaConfig struct {
	SecretKey      string  `mapstructure:"secret_key"`
	SiteKey        string  `mapstructure:"site_key"`
	VerifyURL      string  `mapstructure:"verify_url"`
	ScoreThreshold float64 `mapstructure:"score_threshold"`
	Timeout        int     `mapstructure:"timeout"` // milliseconds
}

type SlackConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
	Timeout    int    `mapstructure:"timeout"` // milliseconds
}

// EmailConfig holds settings for the optional SES copy of contact submissions.
type EmailConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	FromEmail string `mapstructure:"from_email"`
	ToEmail   string `mapstructure:"to_email"`
	AWSRegion string `mapstructure:"aws_region"`
}

// --- Quota Config ---

type QuotaConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	DailyLimit int    `mapstructure:"daily_limit"`
	Backend    string `mapstructure:"backend"` // "memory" or "redis"
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// EndpointConfig holds per-route settings applied by the router.
type EndpointConfig struct {
	Enabled   bool `mapstructure:"enabled"`
	Recaptcha bool `mapstructure:"recaptcha"`
	Quota     bool `mapstructure:"quota"`
	Timeout   int  `mapstructure:"timeout"` // milliseconds
}

// ValidationConfig controls optional schema validation of provider responses.
// Off by default: the observed contract relays provider JSON verbatim.
type ValidationConfig struct {
	ProviderResponses bool `mapstructure:"provider_responses"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
