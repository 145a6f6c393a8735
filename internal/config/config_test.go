package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:             "development",
		Port:            "8080",
		JWTSecret:       "secure-secret-at-least-32-chars-long",
		DBPassword:      "secure-password",
		DBSSLMode:       "require",
		UploadMaxSizeMB: 10,
		StorageDriver:   "local",
		StorageDir:      "./data/uploads",
		MailDriver:      "log",
	}
}

func TestConfig_ValidateSSLMode(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		sslMode     string
		expectError bool
	}{
		{"Production with empty SSL mode", "production", "", true},
		{"Production with disable SSL mode", "production", "disable", true},
		{"Production with require SSL mode", "production", "require", false},
		{"Prod with verify-full SSL mode", "prod", "verify-full", false},
		{"Development with disable SSL mode", "development", "disable", false},
		{"Test with empty SSL mode", "test", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			c.Env = tt.env
			c.DBSSLMode = tt.sslMode

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateDrivers(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"s3 without credentials", func(c *Config) { c.StorageDriver = "s3" }, "S3_ENDPOINT"},
		{"s3 with credentials", func(c *Config) {
			c.StorageDriver = "s3"
			c.S3Endpoint = "minio:9000"
			c.S3AccessKey = "key"
			c.S3SecretKey = "secret"
		}, ""},
		{"unknown storage driver", func(c *Config) { c.StorageDriver = "ftp" }, "STORAGE_DRIVER"},
		{"local without dir", func(c *Config) { c.StorageDir = "" }, "STORAGE_DIR"},
		{"resend without key", func(c *Config) { c.MailDriver = "resend" }, "RESEND_API_KEY"},
		{"unknown mail driver", func(c *Config) { c.MailDriver = "pigeon" }, "MAIL_DRIVER"},
		{"zero upload size", func(c *Config) { c.UploadMaxSizeMB = 0 }, "UPLOAD_MAX_SIZE_MB"},
		{"default secret in production", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = defaultJWTSecret
		}, "JWT_SECRET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadConfig_Normalization(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")
	t.Setenv("SITE_URL", "https://harbourhomes.example/")
	t.Setenv("STORAGE_DRIVER", " LOCAL ")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "development", c.Env)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, "https://harbourhomes.example", c.SiteURL)
	assert.Equal(t, "local", c.StorageDriver)
	assert.Equal(t, "/media", c.StoragePublicURL)
	assert.Equal(t, 10, c.UploadMaxSizeMB)
}

func TestIsProduction(t *testing.T) {
	assert.True(t, (&Config{Env: "production"}).IsProduction())
	assert.True(t, (&Config{Env: "prod"}).IsProduction())
	assert.False(t, (&Config{Env: "staging"}).IsProduction())
}
