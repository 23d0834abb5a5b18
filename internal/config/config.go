// Package config loads application configuration from .env files and environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration for the service.
type Config struct {
	Port      string
	AppEnv    string
	LogLevel  string
	StaticDir string

	Storage StorageConfig
	Upload  UploadConfig
	Notify  NotifyConfig
	Redis   RedisConfig
}

// StorageConfig describes the S3-compatible bucket images are written to.
type StorageConfig struct {
	Driver     string // "minio" or "aws"
	Endpoint   string
	Region     string
	Bucket     string
	AccessKey  string
	SecretKey  string
	UseSSL     bool
	PublicBase string // browser-accessible base URL; derived from bucket and region when empty
	Timeout    time.Duration
}

// UploadConfig bounds the multipart upload path.
type UploadConfig struct {
	FieldName string
	MaxBytes  int64
}

// NotifyConfig tunes the real-time channel.
type NotifyConfig struct {
	SendBuffer int
}

// RedisConfig enables cross-process fan-out of listing updates.
type RedisConfig struct {
	Enabled  bool
	URL      string
	Host     string
	Port     string
	Password string
	DB       int
	Channel  string
}

// Load reads configuration from a .env file (if present) and environment variables.
// A fresh viper instance is used per call so tests can override the environment.
func Load() *Config {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Port:      v.GetString("SERVER_PORT"),
		AppEnv:    v.GetString("APP_ENV"),
		LogLevel:  v.GetString("LOG_LEVEL"),
		StaticDir: v.GetString("STATIC_DIR"),

		Storage: StorageConfig{
			Driver:     strings.ToLower(v.GetString("STORAGE_DRIVER")),
			Endpoint:   v.GetString("STORAGE_ENDPOINT"),
			Region:     firstNonEmpty(v.GetString("STORAGE_REGION"), v.GetString("AWS_REGION")),
			Bucket:     firstNonEmpty(v.GetString("STORAGE_BUCKET"), v.GetString("S3_BUCKET_NAME")),
			AccessKey:  firstNonEmpty(v.GetString("STORAGE_ACCESS_KEY"), v.GetString("AWS_ACCESS_KEY_ID")),
			SecretKey:  firstNonEmpty(v.GetString("STORAGE_SECRET_KEY"), v.GetString("AWS_SECRET_ACCESS_KEY")),
			UseSSL:     v.GetBool("STORAGE_USE_SSL"),
			PublicBase: v.GetString("STORAGE_PUBLIC_BASE"),
			Timeout:    v.GetDuration("STORAGE_TIMEOUT"),
		},
		Upload: UploadConfig{
			FieldName: v.GetString("UPLOAD_FIELD"),
			MaxBytes:  v.GetInt64("UPLOAD_MAX_BYTES"),
		},
		Notify: NotifyConfig{
			SendBuffer: v.GetInt("WS_SEND_BUFFER"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			URL:      v.GetString("REDIS_URL"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			Channel:  v.GetString("REDIS_CHANNEL"),
		},
	}

	if cfg.Storage.PublicBase == "" {
		cfg.Storage.PublicBase = AWSPublicBase(cfg.Storage.Bucket, cfg.Storage.Region)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STATIC_DIR", "./public")

	v.SetDefault("STORAGE_DRIVER", "minio")
	v.SetDefault("STORAGE_ENDPOINT", "s3.amazonaws.com")
	v.SetDefault("AWS_REGION", "us-east-2")
	v.SetDefault("S3_BUCKET_NAME", "pixboard-images")
	v.SetDefault("STORAGE_USE_SSL", true)
	v.SetDefault("STORAGE_TIMEOUT", 10*time.Second)

	v.SetDefault("UPLOAD_FIELD", "image")
	v.SetDefault("UPLOAD_MAX_BYTES", 50<<20)

	v.SetDefault("WS_SEND_BUFFER", 16)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_CHANNEL", "pixboard:images")
}

// AWSPublicBase returns the virtual-hosted-style base URL of an AWS S3 bucket,
// e.g. "https://bucket.s3.us-east-2.amazonaws.com".
func AWSPublicBase(bucket, region string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
}

// IsProduction returns true when the app is running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
