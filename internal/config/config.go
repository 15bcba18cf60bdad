// Package config binds service configuration from environment variables,
// with optional credential overrides from Vault.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// API is the HTTP server block, bound with the API_ prefix.
type API struct {
	Name              string        `default:"umber_api"`
	Host              string        `default:"0.0.0.0"`
	Port              string        `default:"3080"`
	ReadHeaderTimeout time.Duration `split_words:"true" default:"60s"`
	ShutdownTimeout   time.Duration `split_words:"true" default:"30s"`
}

// AnalyticsDB is the ClickHouse block, bound with the ANALYTICS_DB_ prefix.
type AnalyticsDB struct {
	Host string `default:"localhost"`
	Port uint16 `default:"9000"`
	User string `default:"default"`
	Pass string `default:""`
	Name string `default:"analytics"`
}

// MetaDB is the relational metadata database block (sites, users, API
// keys — owned by the dashboard), bound with the META_DB_ prefix.
type MetaDB struct {
	Host    string `default:"localhost"`
	Port    uint16 `default:"5432"`
	User    string `default:"postgres"`
	Pass    string `default:"password"`
	Name    string `default:"umber"`
	SslMode string `split_words:"true" default:"disable"`
}

// Services holds external collaborator endpoints, bound with the SRV_
// prefix. RedisAddr is optional; empty disables the geo cache.
type Services struct {
	GeoEndpoint string `split_words:"true" default:"http://localhost:3002"`
	RedisAddr   string `split_words:"true" default:""`
}

// Ingest tunes the batching queue and enrichment, bound with the INGEST_
// prefix. The batch size and flush interval defaults are the pipeline's
// design constants.
type Ingest struct {
	BatchSize     int           `split_words:"true" default:"15"`
	FlushInterval time.Duration `split_words:"true" default:"10s"`
	QueueDepth    int           `split_words:"true" default:"1024"`
	GeoTimeout    time.Duration `split_words:"true" default:"2s"`
}

// Config aggregates all blocks.
type Config struct {
	API         API
	AnalyticsDB AnalyticsDB
	MetaDB      MetaDB
	Services    Services
	Ingest      Ingest
}

// New binds every block from the environment. Missing values fall back to
// defaults; malformed values panic, failing boot.
func New() *Config {
	cfg := &Config{}
	envconfig.MustProcess("API", &cfg.API)
	envconfig.MustProcess("ANALYTICS_DB", &cfg.AnalyticsDB)
	envconfig.MustProcess("META_DB", &cfg.MetaDB)
	envconfig.MustProcess("SRV", &cfg.Services)
	envconfig.MustProcess("INGEST", &cfg.Ingest)
	return cfg
}

// ApplySecrets overrides credentials with values loaded from Vault.
// Unknown keys are ignored so one secret path can serve several services.
func (c *Config) ApplySecrets(secrets map[string]interface{}) {
	if v, ok := secrets["ANALYTICS_DB_PASS"].(string); ok {
		c.AnalyticsDB.Pass = v
	}
	if v, ok := secrets["ANALYTICS_DB_USER"].(string); ok {
		c.AnalyticsDB.User = v
	}
	if v, ok := secrets["META_DB_PASS"].(string); ok {
		c.MetaDB.Pass = v
	}
	if v, ok := secrets["META_DB_USER"].(string); ok {
		c.MetaDB.User = v
	}
}
