package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds application level configuration.
//
// Values are resolved in order: built-in defaults, configs/<APP_ENV>.yaml
// (or CONFIG_FILE), a .env file, then process environment variables.
type Config struct {
	Env            string        `yaml:"env"`
	ServerPort     string        `yaml:"server_port"`
	DBDriver       string        `yaml:"db_driver"`
	DatabaseDSN    string        `yaml:"database_dsn"`
	ResetDB        bool          `yaml:"reset_db"`
	RedisAddr      string        `yaml:"redis_addr"`
	RedisDB        int           `yaml:"redis_db"`
	RedisPass      string        `yaml:"-"`
	JWTSecret      string        `yaml:"-"`
	BcryptCost     int           `yaml:"bcrypt_cost"`
	LoginRateLimit float64       `yaml:"login_rate_limit"`
	LoginBurst     int           `yaml:"login_burst"`
	LogLevel       string        `yaml:"log_level"`
	SwaggerHost    string        `yaml:"swagger_host"`
	Media          MediaConfig   `yaml:"media"`
}

// MediaConfig configures the upload blob store.
type MediaConfig struct {
	Backend           string      `yaml:"backend"` // "local" | "minio"
	Dir               string      `yaml:"dir"`
	AllowedExtensions []string    `yaml:"allowed_extensions"`
	MaxSize           int64       `yaml:"max_size"`
	MinIO             MinIOConfig `yaml:"minio"`
}

// MinIOConfig holds MinIO connection settings.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"-"`
	SecretKey string `yaml:"-"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

func defaults() *Config {
	return &Config{
		Env:            "dev",
		ServerPort:     "8080",
		DBDriver:       "mysql",
		DatabaseDSN:    "user:password@tcp(localhost:3306)/movies?charset=utf8mb4&parseTime=True&loc=Local",
		RedisAddr:      "localhost:6379",
		JWTSecret:      "change-me",
		BcryptCost:     10,
		LoginRateLimit: 5,
		LoginBurst:     10,
		LogLevel:       "info",
		Media: MediaConfig{
			Backend:           "local",
			Dir:               "uploads",
			AllowedExtensions: []string{"png", "jpg", "jpeg", "gif"},
			MaxSize:           10 << 20,
			MinIO: MinIOConfig{
				Bucket: "movie-media",
			},
		},
	}
}

// Load builds Config from the config file and environment with sensible defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	cfg.Env = getEnv("APP_ENV", cfg.Env)

	path := getEnv("CONFIG_FILE", filepath.Join("configs", cfg.Env+".yaml"))
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ServerPort = getEnv("SERVER_PORT", c.ServerPort)
	c.DBDriver = getEnv("DB_DRIVER", c.DBDriver)
	c.DatabaseDSN = getEnv("DATABASE_DSN", getEnv("MYSQL_DSN", c.DatabaseDSN))
	c.ResetDB = getEnvBool("RESET_DB", c.ResetDB)
	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.RedisDB = getEnvInt("REDIS_DB", c.RedisDB)
	c.RedisPass = getEnv("REDIS_PASSWORD", c.RedisPass)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.BcryptCost = getEnvInt("BCRYPT_COST", c.BcryptCost)
	c.LoginRateLimit = getEnvFloat("LOGIN_RATE_LIMIT", c.LoginRateLimit)
	c.LoginBurst = getEnvInt("LOGIN_BURST", c.LoginBurst)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.SwaggerHost = getEnv("SWAGGER_HOST", c.SwaggerHost)

	c.Media.Backend = getEnv("MEDIA_BACKEND", c.Media.Backend)
	c.Media.Dir = getEnv("MEDIA_DIR", c.Media.Dir)
	c.Media.AllowedExtensions = getEnvList("MEDIA_ALLOWED_EXTENSIONS", c.Media.AllowedExtensions)
	c.Media.MaxSize = int64(getEnvInt("MEDIA_MAX_SIZE", int(c.Media.MaxSize)))
	c.Media.MinIO.Endpoint = getEnv("MINIO_ENDPOINT", c.Media.MinIO.Endpoint)
	c.Media.MinIO.AccessKey = getEnv("MINIO_ACCESS_KEY", c.Media.MinIO.AccessKey)
	c.Media.MinIO.SecretKey = getEnv("MINIO_SECRET_KEY", c.Media.MinIO.SecretKey)
	c.Media.MinIO.Bucket = getEnv("MINIO_BUCKET", c.Media.MinIO.Bucket)
	c.Media.MinIO.UseSSL = getEnvBool("MINIO_USE_SSL", c.Media.MinIO.UseSSL)
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.Media.Backend {
	case "local", "minio":
	default:
		return fmt.Errorf("unsupported MEDIA_BACKEND %q", c.Media.Backend)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
