package config

import (
	"strings"
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "CORS_ORIGIN", "MAX_UPLOAD_MB", "PRIVATE_URL_TTL_SEC", "S3_BUCKET", "PUBLIC_MEDIA_BASE_URL", "STORAGE_DRIVER"} {
		t.Setenv(key, "")
	}

	cfg := New()
	if cfg.Port != "8787" {
		t.Errorf("Port = %q, want 8787", cfg.Port)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.CORSOrigins)
	}
	if cfg.PrivateURLTTL != 900*time.Second {
		t.Errorf("PrivateURLTTL = %v, want 15m", cfg.PrivateURLTTL)
	}
	if cfg.MaxUploadBytes() != 250*1024*1024 {
		t.Errorf("MaxUploadBytes = %d", cfg.MaxUploadBytes())
	}
	if cfg.PublicMediaBaseURL != "https://storage.yandexcloud.net/bucket" {
		t.Errorf("PublicMediaBaseURL = %q", cfg.PublicMediaBaseURL)
	}
	if cfg.StorageDriver != "s3" {
		t.Errorf("StorageDriver = %q", cfg.StorageDriver)
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("CORS_ORIGIN", "https://a.example, https://b.example ,")
	t.Setenv("PRIVATE_URL_TTL_SEC", "60")
	t.Setenv("S3_FORCE_PATH_STYLE", "yes")
	t.Setenv("S3_BUCKET", "media")
	t.Setenv("PUBLIC_MEDIA_BASE_URL", "")

	cfg := New()
	if got := strings.Join(cfg.CORSOrigins, "|"); got != "https://a.example|https://b.example" {
		t.Errorf("CORSOrigins = %q", got)
	}
	if cfg.PrivateURLTTL != time.Minute {
		t.Errorf("PrivateURLTTL = %v", cfg.PrivateURLTTL)
	}
	if !cfg.S3ForcePathStyle {
		t.Error("S3ForcePathStyle = false, want true")
	}
	if cfg.PublicMediaBaseURL != "https://storage.yandexcloud.net/media" {
		t.Errorf("PublicMediaBaseURL = %q", cfg.PublicMediaBaseURL)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		DatabaseURL:       "postgres://localhost/db",
		AdminAPIKey:       "secret",
		S3Bucket:          "media",
		S3AccessKeyID:     "key",
		S3SecretAccessKey: "secret",
		StorageDriver:     "s3",
		MaxUploadMB:       250,
		MaxPhotoFiles:     20,
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "placeholder admin key", mutate: func(c *Config) { c.AdminAPIKey = InsecureAdminKey }, wantErr: "ADMIN_API_KEY"},
		{name: "empty admin key", mutate: func(c *Config) { c.AdminAPIKey = "" }, wantErr: "ADMIN_API_KEY"},
		{name: "missing database", mutate: func(c *Config) { c.DatabaseURL = "" }, wantErr: "DATABASE_URL"},
		{name: "missing bucket", mutate: func(c *Config) { c.S3Bucket = "" }, wantErr: "S3_BUCKET"},
		{name: "zero upload limit", mutate: func(c *Config) { c.MaxUploadMB = 0 }, wantErr: "MAX_UPLOAD_MB"},
		{name: "negative photo limit", mutate: func(c *Config) { c.MaxPhotoFiles = -1 }, wantErr: "MAX_PHOTO_FILES"},
		{name: "unknown driver", mutate: func(c *Config) { c.StorageDriver = "gcs" }, wantErr: "STORAGE_DRIVER"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
