package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/fekuna/omnipos-inventory-snapshot/internal/apperr"
)

type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	Postgres  PostgresConfig
	Reference ReferenceConfig
	Snapshot  SnapshotConfig
	Shopify   ShopifyConfig
	Trigger   TriggerConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
}

type ServerConfig struct {
	AppEnv   string
	HTTPPort string
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type PostgresConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

type ReferenceConfig struct {
	Path  string
	Sheet string
	Range string
}

type SnapshotConfig struct {
	Table    string
	Timezone string
	ErrorCap int
}

type ShopifyConfig struct {
	Domain           string
	AccessToken      string
	APIVersion       string
	LocationID       string
	PageSize         int
	BatchSize        int
	BatchConcurrency int
	TimeoutSeconds   int

	// RequestsPerSecond is shared by catalog and inventory calls.
	RequestsPerSecond float64
}

type TriggerConfig struct {
	Secret string
	Header string
}

// RedisConfig is optional; an empty Addr disables the run lock.
type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	LockTTLSeconds int
}

// KafkaConfig is optional; no brokers disables the run event.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:   getEnv("APP_ENV", "dev"),
			HTTPPort: getEnv("HTTP_PORT", ":8080"),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Postgres: PostgresConfig{
			DSN:             getEnv("POSTGRES_DSN", ""),
			Host:            getEnv("POSTGRES_HOST", ""),
			Port:            getEnv("POSTGRES_PORT", "5432"),
			User:            getEnv("POSTGRES_USER", ""),
			Password:        getEnv("POSTGRES_PASSWORD", ""),
			DBName:          getEnv("POSTGRES_DB", ""),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 5),
			MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: getEnvInt("POSTGRES_CONN_MAX_LIFETIME", 300),
			ConnMaxIdleTime: getEnvInt("POSTGRES_CONN_MAX_IDLE_TIME", 60),
		},
		Reference: ReferenceConfig{
			Path:  getEnv("REFERENCE_TABLE_PATH", ""),
			Sheet: getEnv("REFERENCE_SHEET", ""),
			Range: getEnv("REFERENCE_RANGE", ""),
		},
		Snapshot: SnapshotConfig{
			Table:    getEnv("SNAPSHOT_TABLE", ""),
			Timezone: getEnv("SNAPSHOT_TIMEZONE", "America/New_York"),
			ErrorCap: getEnvInt("SNAPSHOT_ERROR_CAP", 25),
		},
		Shopify: ShopifyConfig{
			Domain:            getEnv("SHOPIFY_DOMAIN", ""),
			AccessToken:       getEnv("SHOPIFY_ACCESS_TOKEN", ""),
			APIVersion:        getEnv("SHOPIFY_API_VERSION", ""),
			LocationID:        getEnv("SHOPIFY_LOCATION_ID", ""),
			PageSize:          getEnvInt("SHOPIFY_PAGE_SIZE", 250),
			BatchSize:         getEnvInt("SHOPIFY_BATCH_SIZE", 50),
			BatchConcurrency:  getEnvInt("SHOPIFY_BATCH_CONCURRENCY", 3),
			TimeoutSeconds:    getEnvInt("SHOPIFY_TIMEOUT_SECONDS", 30),
			RequestsPerSecond: getEnvFloat("SHOPIFY_REQUESTS_PER_SECOND", 2),
		},
		Trigger: TriggerConfig{
			Secret: getEnv("TRIGGER_SECRET", ""),
			Header: getEnv("TRIGGER_HEADER", "X-Trigger-Secret"),
		},
		Redis: RedisConfig{
			Addr:           getEnv("REDIS_ADDR", ""),
			Password:       getEnv("REDIS_PASSWORD", ""),
			DB:             getEnvInt("REDIS_DB", 0),
			LockTTLSeconds: getEnvInt("REDIS_LOCK_TTL_SECONDS", 900),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvSlice("KAFKA_BROKERS", nil),
			Topic:   getEnv("KAFKA_TOPIC_SNAPSHOTS", "inventory.snapshots"),
		},
	}
}

// Validate names every missing required setting at once.
func (c *Config) Validate() error {
	var missing []string
	require := func(key, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, key)
		}
	}

	require("REFERENCE_TABLE_PATH", c.Reference.Path)
	require("SNAPSHOT_TABLE", c.Snapshot.Table)
	if c.Postgres.DSN == "" {
		require("POSTGRES_HOST", c.Postgres.Host)
		require("POSTGRES_USER", c.Postgres.User)
		require("POSTGRES_PASSWORD", c.Postgres.Password)
		require("POSTGRES_DB", c.Postgres.DBName)
	}
	require("SHOPIFY_DOMAIN", c.Shopify.Domain)
	require("SHOPIFY_ACCESS_TOKEN", c.Shopify.AccessToken)
	require("SHOPIFY_API_VERSION", c.Shopify.APIVersion)
	require("SHOPIFY_LOCATION_ID", c.Shopify.LocationID)
	require("TRIGGER_SECRET", c.Trigger.Secret)

	if len(missing) > 0 {
		return &apperr.ConfigurationError{Msg: "missing required settings", Missing: missing}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
