package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration required by the platform processes.
// All values must come from env (or env-file loaded by the process runner).
// No business logic should depend on raw environment variables.
type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	Auth    AuthConfig
	Storage StorageConfig
	SMTP    SMTPConfig
	Notify  NotifyConfig
}

type AppConfig struct {
	Env  string
	Port int
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string

	// SSLMode is kept explicit for managed-Postgres posture.
	// Accepts: disable, require, verify-ca, verify-full
	SSLMode string
}

type RedisConfig struct {
	Host string
	Port int
}

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	TokenTTL    time.Duration
}

// StorageConfig configures the S3-compatible object store used for
// user file uploads. Endpoint/PathStyle support MinIO in local dev.
type StorageConfig struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	PathStyle bool
}

type SMTPConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string

	// AdminEmail receives account-activity copies when set.
	AdminEmail string
}

// NotifyConfig configures notification fan-out: one webhook URL per role
// channel, a shared secret for the inbound relay endpoint, and feature flags.
type NotifyConfig struct {
	Enabled bool

	SendPipelineSuccess bool
	SendPipelineFailure bool
	SendUserEvents      bool

	WebhookToken string

	AdminWebhookURL       string
	DeveloperWebhookURL   string
	StakeholderWebhookURL string

	// DisabledChannels turns individual role channels off without removing
	// their URLs from the environment.
	DisabledChannels []string

	// DeliveryTimeout bounds each outbound delivery attempt.
	DeliveryTimeout time.Duration
}

// Load reads configuration for the API process.
func Load() (Config, error) {
	c, errs := loadCommon()

	c.DB.Host = strings.TrimSpace(os.Getenv("DB_HOST"))
	{
		n, err := mustInt("DB_PORT")
		n, errs = appendParseErr(errs, n, err)
		c.DB.Port = n
	}
	c.DB.User = strings.TrimSpace(os.Getenv("DB_USER"))
	c.DB.Password = os.Getenv("DB_PASSWORD")
	c.DB.Name = strings.TrimSpace(os.Getenv("DB_NAME"))
	c.DB.SSLMode = strings.TrimSpace(os.Getenv("DB_SSLMODE"))

	c.Redis.Host = strings.TrimSpace(os.Getenv("REDIS_HOST"))
	{
		n, err := mustInt("REDIS_PORT")
		n, errs = appendParseErr(errs, n, err)
		c.Redis.Port = n
	}

	c.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	c.Auth.JWTIssuer = strings.TrimSpace(os.Getenv("JWT_ISSUER"))
	c.Auth.JWTAudience = strings.TrimSpace(os.Getenv("JWT_AUDIENCE"))
	c.Auth.TokenTTL = envDuration("JWT_TOKEN_TTL")

	c.Storage.Endpoint = strings.TrimSpace(os.Getenv("S3_ENDPOINT"))
	c.Storage.Region = strings.TrimSpace(os.Getenv("S3_REGION"))
	c.Storage.Bucket = strings.TrimSpace(os.Getenv("S3_BUCKET"))
	c.Storage.AccessKey = os.Getenv("S3_ACCESS_KEY")
	c.Storage.SecretKey = os.Getenv("S3_SECRET_KEY")
	c.Storage.PathStyle = envBool("S3_PATH_STYLE")

	c.SMTP.Enabled = envBool("EMAIL_ENABLED")
	c.SMTP.Host = strings.TrimSpace(os.Getenv("SMTP_HOST"))
	if v := strings.TrimSpace(os.Getenv("SMTP_PORT")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("SMTP_PORT must be an integer, got %q", v))
		}
		c.SMTP.Port = n
	}
	c.SMTP.User = strings.TrimSpace(os.Getenv("SMTP_USER"))
	c.SMTP.Password = os.Getenv("SMTP_PASS")
	c.SMTP.From = strings.TrimSpace(os.Getenv("EMAIL_FROM"))
	c.SMTP.FromName = strings.TrimSpace(os.Getenv("EMAIL_FROM_NAME"))
	c.SMTP.AdminEmail = strings.TrimSpace(os.Getenv("ADMIN_NOTIFICATION_EMAIL"))

	if err := joinErrors(errs); err != nil {
		return Config{}, err
	}
	if err := c.validateAPI(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadNotifier reads configuration for the notifier relay process.
// It deliberately skips DB/Redis/Storage/SMTP; the relay is stateless.
func LoadNotifier() (Config, error) {
	c, errs := loadCommon()

	if err := joinErrors(errs); err != nil {
		return Config{}, err
	}
	if err := c.validateNotifier(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func loadCommon() (Config, []error) {
	c := Config{}
	var errs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	{
		n, err := mustInt("APP_PORT")
		n, errs = appendParseErr(errs, n, err)
		c.App.Port = n
	}

	c.Notify.Enabled = envBool("NOTIFY_ENABLED")
	c.Notify.SendPipelineSuccess = envBool("SEND_PIPELINE_SUCCESS")
	c.Notify.SendPipelineFailure = envBool("SEND_PIPELINE_FAILURE")
	c.Notify.SendUserEvents = envBool("SEND_USER_EVENTS")
	c.Notify.WebhookToken = os.Getenv("WEBHOOK_TOKEN")
	c.Notify.AdminWebhookURL = strings.TrimSpace(os.Getenv("WEBHOOK_URL_ADMIN"))
	c.Notify.DeveloperWebhookURL = strings.TrimSpace(os.Getenv("WEBHOOK_URL_DEVELOPER"))
	c.Notify.StakeholderWebhookURL = strings.TrimSpace(os.Getenv("WEBHOOK_URL_STAKEHOLDER"))
	if v := strings.TrimSpace(os.Getenv("WEBHOOK_DISABLED_CHANNELS")); v != "" {
		for _, ch := range strings.Split(v, ",") {
			if ch = strings.TrimSpace(ch); ch != "" {
				c.Notify.DisabledChannels = append(c.Notify.DisabledChannels, ch)
			}
		}
	}
	c.Notify.DeliveryTimeout = envDuration("NOTIFY_DELIVERY_TIMEOUT")
	if c.Notify.DeliveryTimeout <= 0 {
		c.Notify.DeliveryTimeout = 10 * time.Second
	}

	return c, errs
}

func (c *Config) validateAPI() error {
	var errs []error

	errs = append(errs, c.validateApp()...)

	if c.DB.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.DB.Port <= 0 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Errorf("DB_PORT must be a valid port, got %d", c.DB.Port))
	}
	if c.DB.User == "" {
		errs = append(errs, errors.New("DB_USER is required"))
	}
	if c.DB.Name == "" {
		errs = append(errs, errors.New("DB_NAME is required"))
	}
	if strings.TrimSpace(c.DB.SSLMode) == "" {
		if c.IsProduction() {
			errs = append(errs, errors.New("DB_SSLMODE is required in production"))
		} else {
			// Local-friendly default; production must be explicit.
			c.DB.SSLMode = "disable"
		}
	}
	if c.DB.SSLMode != "" && !isValidSSLMode(c.DB.SSLMode) {
		errs = append(errs, fmt.Errorf("DB_SSLMODE must be one of disable, require, verify-ca, verify-full, got %q", c.DB.SSLMode))
	}

	if c.Redis.Host == "" {
		errs = append(errs, errors.New("REDIS_HOST is required"))
	}
	if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Errorf("REDIS_PORT must be a valid port, got %d", c.Redis.Port))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.IsProduction() {
		if c.Auth.JWTIssuer == "" {
			errs = append(errs, errors.New("JWT_ISSUER is required in production"))
		}
		if c.Auth.JWTAudience == "" {
			errs = append(errs, errors.New("JWT_AUDIENCE is required in production"))
		}
	}
	if c.Auth.TokenTTL <= 0 {
		// Default: short-lived session tokens.
		c.Auth.TokenTTL = time.Hour
	}

	if c.Storage.Bucket == "" {
		errs = append(errs, errors.New("S3_BUCKET is required"))
	}
	if c.Storage.Region == "" {
		errs = append(errs, errors.New("S3_REGION is required"))
	}

	if c.SMTP.Enabled {
		if c.SMTP.Host == "" {
			errs = append(errs, errors.New("SMTP_HOST is required when EMAIL_ENABLED=true"))
		}
		if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
			errs = append(errs, fmt.Errorf("SMTP_PORT must be a valid port, got %d", c.SMTP.Port))
		}
		if c.SMTP.From == "" && c.SMTP.User == "" {
			errs = append(errs, errors.New("EMAIL_FROM or SMTP_USER is required when EMAIL_ENABLED=true"))
		}
	}

	return joinErrors(errs)
}

func (c *Config) validateNotifier() error {
	var errs []error

	errs = append(errs, c.validateApp()...)

	// The relay is exposed publicly; the shared secret is not optional.
	if c.Notify.WebhookToken == "" {
		errs = append(errs, errors.New("WEBHOOK_TOKEN is required"))
	}

	return joinErrors(errs)
}

func (c *Config) validateApp() []error {
	var errs []error
	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}
	return errs
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func (c Config) PostgresDSN() string {
	// Avoid logging this string; it contains secrets.
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.SSLMode,
	)
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func mustInt(key string) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func envDuration(key string) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}

func envBool(key string) bool {
	return strings.TrimSpace(os.Getenv(key)) == "true"
}

func appendParseErr(errs []error, n int, err error) (int, []error) {
	if err != nil {
		errs = append(errs, err)
	}
	return n, errs
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func isValidSSLMode(v string) bool {
	switch v {
	case "disable", "require", "verify-ca", "verify-full":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
