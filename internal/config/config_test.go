package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg := Load()
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 24, cfg.JWT.ExpirationHours)
	assert.Equal(t, "asset-backend", cfg.JWT.Issuer)
	assert.Equal(t, "test-secret", cfg.JWT.Secret)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "asset_db", cfg.Database.Name)
	assert.Equal(t, 587, cfg.SMTP.Port)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "assets_prod")
	t.Setenv("SMTP_HOST", "mail.internal")
	t.Setenv("SMTP_FROM_EMAIL", "assets@example.com")
	t.Setenv("STORAGE_BUCKET", "asset-files")

	cfg := Load()
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "assets_prod", cfg.Database.Name)
	assert.Equal(t, "mail.internal", cfg.SMTP.Host)
	assert.Equal(t, "assets@example.com", cfg.SMTP.FromEmail)
	assert.Equal(t, "asset-files", cfg.Storage.Bucket)
}
