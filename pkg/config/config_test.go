package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var envKeys = []string{
	"PORT", "ADMIN_USERNAME", "ADMIN_PASSWORD", "DATA_DIR", "PUBLIC_DIR",
	"LOG_LEVEL", "LOG_FORMAT", "GIN_MODE", "CORS_ALLOWED_ORIGINS", "SHUTDOWN_TIMEOUT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	c := Load()

	assert.Equal(t, "3000", c.Port)
	assert.Equal(t, DefaultAdminUsername, c.AdminUsername)
	assert.Equal(t, DefaultAdminPassword, c.AdminPassword)
	assert.Equal(t, "data", c.DataDir)
	assert.Equal(t, "public", c.PublicDir)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "json", c.LogFormat)
	assert.Equal(t, "release", c.GinMode)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.Equal(t, 5*time.Second, c.ShutdownTimeout)
	assert.True(t, c.UsesDefaultCredentials())
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ADMIN_USERNAME", "root")
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	t.Setenv("DATA_DIR", "/var/lib/giftcards")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("SHUTDOWN_TIMEOUT", "12")

	c := Load()
	assert.Equal(t, "9090", c.Port)
	assert.Equal(t, "root", c.AdminUsername)
	assert.Equal(t, "s3cret", c.AdminPassword)
	assert.Equal(t, "/var/lib/giftcards", c.DataDir)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.AllowedOrigins)
	assert.Equal(t, 12*time.Second, c.ShutdownTimeout)
	assert.False(t, c.UsesDefaultCredentials())
}

func TestLoadInvalidTimeoutFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")
	assert.Equal(t, 5*time.Second, Load().ShutdownTimeout)

	t.Setenv("SHUTDOWN_TIMEOUT", "-3")
	assert.Equal(t, 5*time.Second, Load().ShutdownTimeout)
}

func TestLoadDropsInvalidOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", "shop.example,https://shop.example,https://*.example,ftp://files.example")
	assert.Equal(t, []string{"https://shop.example"}, Load().AllowedOrigins)

	t.Setenv("CORS_ALLOWED_ORIGINS", "shop.example")
	assert.Equal(t, []string{"*"}, Load().AllowedOrigins)
}
