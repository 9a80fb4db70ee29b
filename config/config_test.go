package config

import (
	"errors"
	"slices"
	"testing"

	"github.com/fekuna/omnipos-inventory-snapshot/internal/apperr"
)

func setRequired(t *testing.T) {
	t.Helper()
	for k, v := range map[string]string{
		"REFERENCE_TABLE_PATH": "/data/reference.xlsx",
		"SNAPSHOT_TABLE":       "inventory_snapshots",
		"POSTGRES_DSN":         "postgres://u:p@localhost:5432/snap",
		"SHOPIFY_DOMAIN":       "shop.myshopify.com",
		"SHOPIFY_ACCESS_TOKEN": "shpat_x",
		"SHOPIFY_API_VERSION":  "2024-10",
		"SHOPIFY_LOCATION_ID":  "123",
		"TRIGGER_SECRET":       "s3cret",
	} {
		t.Setenv(k, v)
	}
}

func TestLoadEnv_Defaults(t *testing.T) {
	setRequired(t)
	cfg := LoadEnv()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Snapshot.Timezone != "America/New_York" || cfg.Snapshot.ErrorCap != 25 {
		t.Fatalf("unexpected snapshot defaults: %+v", cfg.Snapshot)
	}
	if cfg.Shopify.PageSize != 250 || cfg.Shopify.BatchSize != 50 || cfg.Shopify.BatchConcurrency != 3 {
		t.Fatalf("unexpected shopify defaults: %+v", cfg.Shopify)
	}
	if cfg.Redis.Addr != "" || len(cfg.Kafka.Brokers) != 0 {
		t.Fatalf("redis and kafka must be off by default")
	}
}

func TestLoadEnv_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SHOPIFY_BATCH_SIZE", "25")
	t.Setenv("SHOPIFY_PAGE_SIZE", "not-a-number")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("LOGGER_DISABLE_CALLER", "true")

	cfg := LoadEnv()
	if cfg.Shopify.BatchSize != 25 || cfg.Shopify.PageSize != 250 {
		t.Fatalf("unexpected sizes: %+v", cfg.Shopify)
	}
	if !slices.Equal(cfg.Kafka.Brokers, []string{"k1:9092", "k2:9092"}) {
		t.Fatalf("unexpected brokers: %v", cfg.Kafka.Brokers)
	}
	if !cfg.Logger.DisableCaller {
		t.Fatalf("expected caller disabled")
	}
}

func TestValidate_NamesEveryMissingKey(t *testing.T) {
	setRequired(t)
	t.Setenv("SHOPIFY_LOCATION_ID", "")
	t.Setenv("TRIGGER_SECRET", " ")

	err := LoadEnv().Validate()
	var cfgErr *apperr.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if !slices.Equal(cfgErr.Missing, []string{"SHOPIFY_LOCATION_ID", "TRIGGER_SECRET"}) {
		t.Fatalf("unexpected missing keys: %v", cfgErr.Missing)
	}
}

func TestValidate_PostgresQuartetReplacesDSN(t *testing.T) {
	setRequired(t)
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_USER", "snap")

	err := LoadEnv().Validate()
	var cfgErr *apperr.ConfigurationError
	if !errors.As(err, &cfgErr) || !slices.Equal(cfgErr.Missing, []string{"POSTGRES_PASSWORD", "POSTGRES_DB"}) {
		t.Fatalf("unexpected validation result: %v", err)
	}

	t.Setenv("POSTGRES_PASSWORD", "pw")
	t.Setenv("POSTGRES_DB", "snap")
	if err := LoadEnv().Validate(); err != nil {
		t.Fatalf("quartet should satisfy postgres settings: %v", err)
	}
}
