package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Port              string
	DataFile          string
	LogLevel          string
	JWTSecret         string
	AdminPasswordHash string
	SMTPHost          string
	SMTPPort          string
	SMTPUsername      string
	SMTPPassword      string
	SenderEmail       string
	BackupSchedule    string
	BackupDir         string
	BackupFormat      string
}

// AuthEnabled reports whether mutating routes require a bearer token
func (c *Config) AuthEnabled() bool {
	return c.AdminPasswordHash != ""
}

// MailEnabled reports whether acknowledgement emails are sent
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.SenderEmail != ""
}

// defaultJWTSecret is only accepted while authentication is disabled
const defaultJWTSecret = "secret"

// NewConfig loads configuration from environment variables and an optional config.yaml
// found in the given search paths
func NewConfig(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATA_FILE", "database.csv")
	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("ADMIN_PASSWORD_HASH", "")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", "587")
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SENDER_EMAIL", "")
	v.SetDefault("BACKUP_SCHEDULE", "")
	v.SetDefault("BACKUP_DIR", "backups")
	v.SetDefault("BACKUP_FORMAT", "csv")
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if len(paths) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := &Config{
		Port:              v.GetString("PORT"),
		DataFile:          v.GetString("DATA_FILE"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		AdminPasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
		SMTPHost:          v.GetString("SMTP_HOST"),
		SMTPPort:          v.GetString("SMTP_PORT"),
		SMTPUsername:      v.GetString("SMTP_USERNAME"),
		SMTPPassword:      v.GetString("SMTP_PASSWORD"),
		SenderEmail:       v.GetString("SENDER_EMAIL"),
		BackupSchedule:    v.GetString("BACKUP_SCHEDULE"),
		BackupDir:         v.GetString("BACKUP_DIR"),
		BackupFormat:      strings.ToLower(v.GetString("BACKUP_FORMAT")),
	}

	if cfg.DataFile == "" {
		return nil, fmt.Errorf("DATA_FILE is required")
	}
	if cfg.AuthEnabled() && (cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret) {
		return nil, fmt.Errorf("JWT_SECRET must be set to a non-default value when ADMIN_PASSWORD_HASH is set")
	}
	if cfg.BackupSchedule != "" {
		if _, err := cron.ParseStandard(cfg.BackupSchedule); err != nil {
			return nil, fmt.Errorf("invalid BACKUP_SCHEDULE: %w", err)
		}
	}

	return cfg, nil
}
