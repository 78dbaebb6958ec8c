package config

import (
	"testing"
	"time"
)

func validAPIConfig() Config {
	return Config{
		App:     AppConfig{Env: "local", Port: 8080},
		DB:      DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "platform", SSLMode: ""},
		Redis:   RedisConfig{Host: "localhost", Port: 6379},
		Auth:    AuthConfig{JWTSecret: "secret"},
		Storage: StorageConfig{Region: "us-east-1", Bucket: "uploads"},
	}
}

func TestValidateAPI_ReportsMissingRequired(t *testing.T) {
	c := Config{}
	if err := c.validateAPI(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidateAPI_ProductionRequiresSSLMode(t *testing.T) {
	c := validAPIConfig()
	c.App.Env = "production"
	c.Auth.JWTIssuer = "iss"
	c.Auth.JWTAudience = "aud"
	if err := c.validateAPI(); err == nil {
		t.Fatalf("expected error for production without DB_SSLMODE")
	}
}

func TestValidateAPI_LocalDefaultsSSLMode(t *testing.T) {
	c := validAPIConfig()
	if err := c.validateAPI(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.DB.SSLMode != "disable" {
		t.Fatalf("expected sslmode disable default, got %q", c.DB.SSLMode)
	}
	if c.Auth.TokenTTL != time.Hour {
		t.Fatalf("expected 1h token TTL default, got %v", c.Auth.TokenTTL)
	}
}

func TestValidateAPI_SMTPRequiredWhenEnabled(t *testing.T) {
	c := validAPIConfig()
	c.SMTP.Enabled = true
	if err := c.validateAPI(); err == nil {
		t.Fatalf("expected error for enabled SMTP without host")
	}
}

func TestValidateNotifier_RequiresWebhookToken(t *testing.T) {
	c := Config{App: AppConfig{Env: "local", Port: 3001}}
	if err := c.validateNotifier(); err == nil {
		t.Fatalf("expected error for missing WEBHOOK_TOKEN")
	}

	c.Notify.WebhookToken = "s3cret"
	if err := c.validateNotifier(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
