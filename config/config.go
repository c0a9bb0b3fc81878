package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Data sources the dashboard can read testing_data from.
const (
	SourceSupabase = "supabase"
	SourcePostgres = "postgres"
)

// Session stores.
const (
	SessionMemory = "memory"
	SessionRedis  = "redis"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	AppEnv   string
	LogLevel string
	HTTPAddr string

	DataSource   string
	SupabaseURL  string
	SupabaseKey  string
	Table        string
	FetchTimeout time.Duration
	MaxRetries   int

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	SessionStore  string
	SessionTTL    time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ModelPath string

	ChromeBin           string
	DashboardURL        string
	SnapshotDir         string
	SnapshotConcurrency int
	SnapshotInterval    time.Duration
}

// Load reads the .env file and returns a populated Config. Secrets of the
// selected data source are required; their absence is an error.
func Load() (*Config, error) {
	cfg := fromEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadSnapshot returns the configuration for the snapshot tool, which only
// talks to a running dashboard and needs no data source secrets.
func LoadSnapshot() *Config {
	return fromEnv()
}

func fromEnv() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8501"),

		DataSource:   strings.ToLower(getEnv("DATA_SOURCE", SourceSupabase)),
		SupabaseURL:  strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
		SupabaseKey:  os.Getenv("SUPABASE_KEY"),
		Table:        getEnv("SUPABASE_TABLE", "testing_data"),
		FetchTimeout: getEnvDuration("FETCH_TIMEOUT", 0),
		MaxRetries:   getEnvInt("MAX_RETRIES", 3),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", ""),
		PostgresDB:       getEnv("POSTGRES_DB", "postgres"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "require"),

		SessionStore:  strings.ToLower(getEnv("SESSION_STORE", SessionMemory)),
		SessionTTL:    getEnvDuration("SESSION_TTL", 24*time.Hour),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		ModelPath: getEnv("MODEL_PATH", "model/model.json"),

		ChromeBin:           getEnv("CHROME_BIN", ""),
		DashboardURL:        strings.TrimRight(getEnv("DASHBOARD_URL", "http://localhost:8501"), "/"),
		SnapshotDir:         getEnv("SNAPSHOT_DIR", "./output/snapshots"),
		SnapshotConcurrency: getEnvInt("SNAPSHOT_CONCURRENCY", 2),
		SnapshotInterval:    getEnvDuration("SNAPSHOT_INTERVAL", 500*time.Millisecond),
	}
}

func (c *Config) validate() error {
	switch c.DataSource {
	case SourceSupabase:
		var missing []string
		if c.SupabaseURL == "" {
			missing = append(missing, "SUPABASE_URL")
		}
		if c.SupabaseKey == "" {
			missing = append(missing, "SUPABASE_KEY")
		}
		if len(missing) > 0 {
			return fmt.Errorf("config: missing required secrets: %s", strings.Join(missing, ", "))
		}
	case SourcePostgres:
	default:
		return fmt.Errorf("config: unknown DATA_SOURCE %q", c.DataSource)
	}

	switch c.SessionStore {
	case SessionMemory, SessionRedis:
	default:
		return fmt.Errorf("config: unknown SESSION_STORE %q", c.SessionStore)
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err == nil {
			return d
		}
	}
	return fallback
}
