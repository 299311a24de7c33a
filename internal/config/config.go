package config

import (
	"errors"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// Config holds all process-wide settings. It is built once at startup and
// passed by reference; nothing mutates it afterwards.
type Config struct {
	DatabaseURL   string `yaml:"database_url"`
	JWTSecret     string `yaml:"jwt_secret"`
	Port          string `yaml:"port"`
	UploadDir     string `yaml:"upload_dir"`
	PublicBaseURL string `yaml:"public_base_url"`

	// S3 group. When Bucket is set, attachments go to S3/MinIO instead of
	// the local upload dir.
	S3Bucket    string `yaml:"s3_bucket"`
	S3Region    string `yaml:"s3_region"`
	S3Endpoint  string `yaml:"s3_endpoint"`
	S3AccessKey string `yaml:"s3_access_key"`
	S3SecretKey string `yaml:"s3_secret_key"`
}

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")
	ErrMissingJWTSecret   = errors.New("JWT_SECRET is required")
)

// Load reads configuration from the environment, with an optional YAML file
// (CONFIG_FILE, default "config.yaml") overlaid for any key the environment
// left empty. godotenv is expected to have run already in main.
func Load() Config {
	cfg := Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		Port:          os.Getenv("PORT"),
		UploadDir:     os.Getenv("UPLOAD_DIR"),
		PublicBaseURL: strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/"),
		S3Bucket:      os.Getenv("S3_BUCKET"),
		S3Region:      os.Getenv("S3_REGION"),
		S3Endpoint:    os.Getenv("S3_ENDPOINT"),
		S3AccessKey:   os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:   os.Getenv("S3_SECRET_KEY"),
	}

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}
	if raw, err := os.ReadFile(path); err == nil {
		var file Config
		if err := yaml.Unmarshal(raw, &file); err == nil {
			cfg.merge(file)
		}
	}

	if cfg.Port == "" {
		cfg.Port = "5050"
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "public"
	}
	return cfg
}

// merge fills empty fields from the file overlay; env always wins.
func (c *Config) merge(file Config) {
	if c.DatabaseURL == "" {
		c.DatabaseURL = file.DatabaseURL
	}
	if c.JWTSecret == "" {
		c.JWTSecret = file.JWTSecret
	}
	if c.Port == "" {
		c.Port = file.Port
	}
	if c.UploadDir == "" {
		c.UploadDir = file.UploadDir
	}
	if c.PublicBaseURL == "" {
		c.PublicBaseURL = strings.TrimRight(file.PublicBaseURL, "/")
	}
	if c.S3Bucket == "" {
		c.S3Bucket = file.S3Bucket
	}
	if c.S3Region == "" {
		c.S3Region = file.S3Region
	}
	if c.S3Endpoint == "" {
		c.S3Endpoint = file.S3Endpoint
	}
	if c.S3AccessKey == "" {
		c.S3AccessKey = file.S3AccessKey
	}
	if c.S3SecretKey == "" {
		c.S3SecretKey = file.S3SecretKey
	}
}

// Validate checks the settings that are fatal to run without.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	return nil
}
