// Package config loads service settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

type Config struct {
	Port            string
	AdminUsername   string
	AdminPassword   string
	DataDir         string
	PublicDir       string
	LogLevel        string
	LogFormat       string
	GinMode         string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using system environment variables")
	}

	return Config{
		Port:            getenv("PORT", "3000"),
		AdminUsername:   getenv("ADMIN_USERNAME", DefaultAdminUsername),
		AdminPassword:   getenv("ADMIN_PASSWORD", DefaultAdminPassword),
		DataDir:         getenv("DATA_DIR", "data"),
		PublicDir:       getenv("PUBLIC_DIR", "public"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		LogFormat:       getenv("LOG_FORMAT", "json"),
		GinMode:         getenv("GIN_MODE", "release"),
		AllowedOrigins:  validOrigins(splitList(getenv("CORS_ALLOWED_ORIGINS", "*"))),
		ShutdownTimeout: time.Duration(atoienv("SHUTDOWN_TIMEOUT", 5)) * time.Second,
	}
}

// UsesDefaultCredentials reports whether the built-in admin credentials are active.
func (c Config) UsesDefaultCredentials() bool {
	return c.AdminUsername == DefaultAdminUsername && c.AdminPassword == DefaultAdminPassword
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// validOrigins keeps "*" and absolute http(s) origins. Anything else would make
// the CORS middleware panic at startup, so it is dropped with a warning.
func validOrigins(origins []string) []string {
	var out []string
	for _, o := range origins {
		if o == "*" {
			out = append(out, o)
			continue
		}
		if (strings.HasPrefix(o, "http://") || strings.HasPrefix(o, "https://")) && !strings.Contains(o, "*") {
			out = append(out, o)
			continue
		}
		logrus.WithField("origin", o).Warn("Ignoring invalid CORS origin, expected http:// or https:// scheme")
	}
	if len(out) == 0 {
		logrus.Warn("No valid CORS origins configured, allowing all origins")
		return []string{"*"}
	}
	return out
}
