package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("Defaults when nothing is set", func(t *testing.T) {
		cfg, err := NewConfig()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "database.csv", cfg.DataFile)
		assert.Equal(t, "INFO", cfg.LogLevel)
		assert.Equal(t, "csv", cfg.BackupFormat)
		assert.False(t, cfg.AuthEnabled())
		assert.False(t, cfg.MailEnabled())
	})

	t.Run("Environment overrides defaults", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("DATA_FILE", "/tmp/loans.csv")
		t.Setenv("SMTP_HOST", "smtp.example.com")
		t.Setenv("SENDER_EMAIL", "loans@example.com")
		t.Setenv("BACKUP_FORMAT", "XLSX")

		cfg, err := NewConfig()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, "/tmp/loans.csv", cfg.DataFile)
		assert.Equal(t, "xlsx", cfg.BackupFormat)
		assert.True(t, cfg.MailEnabled())
	})

	t.Run("Config file is read from search path", func(t *testing.T) {
		dir := t.TempDir()
		content := []byte("DATA_FILE: records.csv\nBACKUP_SCHEDULE: \"0 3 * * *\"\n")
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644))

		cfg, err := NewConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "records.csv", cfg.DataFile)
		assert.Equal(t, "0 3 * * *", cfg.BackupSchedule)
	})

	t.Run("Missing config file is not an error", func(t *testing.T) {
		_, err := NewConfig(t.TempDir())
		assert.NoError(t, err)
	})

	t.Run("Invalid backup schedule", func(t *testing.T) {
		t.Setenv("BACKUP_SCHEDULE", "every day")
		_, err := NewConfig()
		assert.Error(t, err)
	})

	t.Run("Auth requires a JWT secret", func(t *testing.T) {
		t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")
		t.Setenv("JWT_SECRET", "")
		_, err := NewConfig()
		assert.Error(t, err)
	})

	t.Run("Auth rejects the default JWT secret", func(t *testing.T) {
		t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")
		_, err := NewConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")

		t.Setenv("JWT_SECRET", "secret")
		_, err = NewConfig()
		assert.Error(t, err)
	})

	t.Run("Auth accepts a custom JWT secret", func(t *testing.T) {
		t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")
		t.Setenv("JWT_SECRET", "a-long-random-signing-key")
		cfg, err := NewConfig()
		require.NoError(t, err)
		assert.True(t, cfg.AuthEnabled())
		assert.Equal(t, "a-long-random-signing-key", cfg.JWTSecret)
	})
}
