package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// InsecureAdminKey is the development placeholder the API refuses to start with.
const InsecureAdminKey = "dev-insecure-change-me"

type Config struct {
	// Server
	Port     string
	Env      string
	LogLevel string

	// Database
	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxIdleTime time.Duration

	// Admin
	AdminAPIKey string

	// CORS
	CORSOrigins []string

	// Uploads
	MaxUploadMB   int
	MaxPhotoFiles int

	// Playback
	PrivateURLTTL time.Duration
	BcryptCost    int

	// Object storage
	StorageDriver      string // "s3" | "minio"
	S3Endpoint         string
	S3Region           string
	S3Bucket           string
	S3AccessKeyID      string
	S3SecretAccessKey  string
	S3ForcePathStyle   bool
	PublicMediaBaseURL string

	// Yandex Disk
	YaDiskAPIURL  string
	YaDiskTimeout time.Duration

	// Redis list cache (disabled when RedisAddr is empty)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	ListCacheTTL  time.Duration
}

func New() *Config {
	bucket := getEnv("S3_BUCKET", "")
	publicBucket := bucket
	if publicBucket == "" {
		publicBucket = "bucket"
	}

	return &Config{
		// Server
		Port:     getEnv("PORT", "8787"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Database
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		DBMaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		DBConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", "30s"),

		// Admin
		AdminAPIKey: getEnv("ADMIN_API_KEY", InsecureAdminKey),

		// CORS
		CORSOrigins: getEnvAsSlice("CORS_ORIGIN", []string{"*"}),

		// Uploads
		MaxUploadMB:   getEnvAsInt("MAX_UPLOAD_MB", 250),
		MaxPhotoFiles: getEnvAsInt("MAX_PHOTO_FILES", 20),

		// Playback
		PrivateURLTTL: time.Duration(getEnvAsInt("PRIVATE_URL_TTL_SEC", 900)) * time.Second,
		BcryptCost:    getEnvAsInt("BCRYPT_COST", 12),

		// Object storage
		StorageDriver:      strings.ToLower(getEnv("STORAGE_DRIVER", "s3")),
		S3Endpoint:         getEnv("S3_ENDPOINT", "https://storage.yandexcloud.net"),
		S3Region:           getEnv("S3_REGION", "ru-central1"),
		S3Bucket:           bucket,
		S3AccessKeyID:      getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey:  getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3ForcePathStyle:   getEnvAsBool("S3_FORCE_PATH_STYLE", false),
		PublicMediaBaseURL: getEnv("PUBLIC_MEDIA_BASE_URL", "https://storage.yandexcloud.net/"+publicBucket),

		// Yandex Disk
		YaDiskAPIURL:  getEnv("YADISK_API_URL", "https://cloud-api.yandex.net"),
		YaDiskTimeout: getEnvAsDuration("YADISK_TIMEOUT", "15s"),

		// Redis
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		ListCacheTTL:  getEnvAsDuration("LIST_CACHE_TTL", "60s"),
	}
}

// Validate reports every missing or unsafe required setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("missing required environment variable: DATABASE_URL"))
	}
	if c.AdminAPIKey == "" || c.AdminAPIKey == InsecureAdminKey {
		errs = append(errs, errors.New("set ADMIN_API_KEY in environment before starting API"))
	}
	if c.S3Bucket == "" {
		errs = append(errs, errors.New("missing required environment variable: S3_BUCKET"))
	}
	if c.S3AccessKeyID == "" {
		errs = append(errs, errors.New("missing required environment variable: S3_ACCESS_KEY_ID"))
	}
	if c.S3SecretAccessKey == "" {
		errs = append(errs, errors.New("missing required environment variable: S3_SECRET_ACCESS_KEY"))
	}
	if c.MaxUploadMB <= 0 {
		errs = append(errs, fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB))
	}
	if c.MaxPhotoFiles <= 0 {
		errs = append(errs, fmt.Errorf("MAX_PHOTO_FILES must be positive, got %d", c.MaxPhotoFiles))
	}
	if c.StorageDriver != "s3" && c.StorageDriver != "minio" {
		errs = append(errs, fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver))
	}
	return errors.Join(errs...)
}

// MaxUploadBytes is the per-file upload limit.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) * 1024 * 1024
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := strings.ToLower(getEnv(key, ""))
	if valueStr == "" {
		return defaultValue
	}
	switch valueStr {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	if duration, err := time.ParseDuration(defaultValue); err == nil {
		return duration
	}
	return time.Minute
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
