package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "coursebridge", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "coursebridge", cfg.Database.DBName)
	assert.Equal(t, 12*time.Hour, cfg.Nonce.Lifetime)
	assert.Equal(t, "administrator", cfg.Catalog.AdminRole)
	assert.Equal(t, "en", cfg.Catalog.Locale)
	assert.Equal(t, "", cfg.Redis.Host)
	assert.Equal(t, 0, cfg.Redis.Port)
	assert.Equal(t, 3, cfg.Course.MaxRetries)
	assert.Equal(t, "coursebridge", cfg.Telemetry.ServiceName)
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("CB_APP_PORT", "9000")
	t.Setenv("CB_DATABASE_DRIVER", "sqlite")
	t.Setenv("CB_DATABASE_SQLITE_PATH", "/tmp/cb.db")
	t.Setenv("CB_REDIS_HOST", "cache.local")
	t.Setenv("CB_NONCE_LIFETIME", "30m")
	t.Setenv("CB_COURSE_WEBHOOK_URL", "https://lms.example.com/hooks/products")

	cfg, err := loadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/cb.db", cfg.Database.SQLitePath)
	assert.Equal(t, "cache.local:6379", cfg.Redis.Addr())
	assert.Equal(t, 30*time.Minute, cfg.Nonce.Lifetime)
	assert.Equal(t, "https://lms.example.com/hooks/products", cfg.Course.WebhookURL)
}

func TestLoad_FromTOML(t *testing.T) {
	v := viper.New()
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
[app]
name = "bridge"
base_url = "https://shop.example.com"

[http]
cors_allow_origins = ["https://shop.example.com"]

[course]
rate_limit = 2.5
`)))

	cfg, err := loadFrom(v)
	require.NoError(t, err)

	assert.Equal(t, "bridge", cfg.App.Name)
	assert.Equal(t, "https://shop.example.com", cfg.App.BaseURL)
	assert.Equal(t, []string{"https://shop.example.com"}, cfg.HTTP.CORSAllowOrigins)
	assert.Equal(t, 2.5, cfg.Course.RateLimit)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}
	production := func() *Config {
		cfg := valid()
		cfg.App.Env = "production"
		cfg.JWT.Secret = strings.Repeat("j", 32)
		cfg.Nonce.Secret = strings.Repeat("n", 32)
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func() *Config
		wantErr string
	}{
		{"defaults are valid", valid, ""},
		{"production ok", production, ""},
		{"unknown driver", func() *Config { c := valid(); c.Database.Driver = "mysql"; return c }, "database.driver"},
		{"idle above open", func() *Config { c := valid(); c.Database.MaxIdleConns = 100; return c }, "max_idle_conns"},
		{"sampling ratio", func() *Config { c := valid(); c.Telemetry.SamplingRatio = 2; return c }, "sampling_ratio"},
		{"short jwt secret", func() *Config { c := production(); c.JWT.Secret = "short"; return c }, "jwt.secret"},
		{"shared secrets", func() *Config { c := production(); c.Nonce.Secret = c.JWT.Secret; return c }, "must differ"},
		{"sqlite in production", func() *Config { c := production(); c.Database.Driver = "sqlite"; return c }, "postgres in production"},
		{"wildcard cors", func() *Config { c := production(); c.HTTP.CORSAllowOrigins = []string{"*"}; return c }, "cors_allow_origins"},
		{"swagger in production", func() *Config { c := production(); c.Swagger.Enabled = true; return c }, "swagger"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mutate().validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "cb",
		Password: "p@ss:word",
		DBName:   "coursebridge",
		SSLMode:  "disable",
	}

	assert.Equal(t, "postgres://cb:p%40ss%3Aword@db:5432/coursebridge?sslmode=disable", d.DSN())
}
