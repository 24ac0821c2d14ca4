package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Store drivers.
const (
	StoreDriverFile     = "file"
	StoreDriverBolt     = "bolt"
	StoreDriverPostgres = "postgres"
	StoreDriverRedis    = "redis"
)

// Blob drivers.
const (
	BlobDriverLocal = "local"
	BlobDriverB2    = "b2"
)

type Config struct {
	Env          string
	Port         int
	Serverless   bool
	MaxBodyBytes int64
	StaticDir    string

	Store    StoreConfig
	Blobs    BlobConfig
	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Metrics  MetricsConfig
}

// StoreConfig selects and tunes the document persister.
type StoreConfig struct {
	Driver          string
	DataFile        string
	BoltPath        string
	DocumentKey     string
	SerializeWrites bool
}

// BlobConfig controls content-addressed payload storage.
type BlobConfig struct {
	Enabled    bool
	Driver     string
	StorageDir string
	GCWorkers  int
	GCRetry    time.Duration
	B2KeyID    string
	B2AppKey   string
	B2Bucket   string
	B2Prefix   string
}

type DatabaseConfig struct {
	// URL takes precedence over the discrete fields when set.
	URL          string
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	// URL takes precedence over the discrete fields when set.
	URL      string
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

// Load reads configuration from .env and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.Serverless = v.GetBool("SERVERLESS")
	cfg.MaxBodyBytes = v.GetInt64("MAX_BODY_BYTES")
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 50 * 1024 * 1024
	}
	cfg.StaticDir = v.GetString("STATIC_DIR")

	cfg.Store = StoreConfig{
		Driver:          strings.ToLower(v.GetString("STORE_DRIVER")),
		DataFile:        v.GetString("DATA_FILE"),
		BoltPath:        v.GetString("BOLT_PATH"),
		DocumentKey:     v.GetString("STORE_DOCUMENT_KEY"),
		SerializeWrites: v.GetBool("STORE_SERIALIZE_WRITES"),
	}

	cfg.Blobs = BlobConfig{
		Enabled:    v.GetBool("BLOBS_ENABLED"),
		Driver:     strings.ToLower(v.GetString("BLOB_DRIVER")),
		StorageDir: v.GetString("BLOB_STORAGE_DIR"),
		GCWorkers:  v.GetInt("BLOB_GC_WORKERS"),
		GCRetry:    parseDuration(v.GetString("BLOB_GC_RETRY_DELAY"), time.Second),
		B2KeyID:    v.GetString("B2_KEY_ID"),
		B2AppKey:   v.GetString("B2_APP_KEY"),
		B2Bucket:   v.GetString("B2_BUCKET"),
		B2Prefix:   v.GetString("B2_PREFIX"),
	}

	cfg.Database = DatabaseConfig{
		URL:          v.GetString("DATABASE_URL"),
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		URL:      v.GetString("REDIS_URL"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 5001)
	v.SetDefault("SERVERLESS", false)
	v.SetDefault("MAX_BODY_BYTES", 50*1024*1024)
	v.SetDefault("STATIC_DIR", "")

	v.SetDefault("STORE_DRIVER", StoreDriverFile)
	v.SetDefault("DATA_FILE", "./data.json")
	v.SetDefault("BOLT_PATH", "./data/notice-board.db")
	v.SetDefault("STORE_DOCUMENT_KEY", "notice-board")
	v.SetDefault("STORE_SERIALIZE_WRITES", true)

	v.SetDefault("BLOBS_ENABLED", false)
	v.SetDefault("BLOB_DRIVER", BlobDriverLocal)
	v.SetDefault("BLOB_STORAGE_DIR", "./blobs")
	v.SetDefault("BLOB_GC_WORKERS", 1)
	v.SetDefault("BLOB_GC_RETRY_DELAY", "1s")
	v.SetDefault("B2_KEY_ID", "")
	v.SetDefault("B2_APP_KEY", "")
	v.SetDefault("B2_BUCKET", "")
	v.SetDefault("B2_PREFIX", "notices/")

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "notice_board")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("ENABLE_METRICS", true)
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Default returns the configuration obtained from defaults alone, used by tests and tooling.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	return fromViper(v)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
