// Package config provides configuration management for the application.
package config

import (
	"time"

	"github.com/spf13/viper"

	"fittrack/internal/storage"
)

// Config holds the application configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Remote  RemoteConfig  `mapstructure:"remote"`
	Log     LogConfig     `mapstructure:"log"`
}

// StorageConfig selects and configures the durable backend.
type StorageConfig struct {
	// Type is one of sqlite, postgresql, mongodb, redis, memory.
	Type          string `mapstructure:"type"`
	SQLitePath    string `mapstructure:"sqlite_path"`
	PostgreSQLURL string `mapstructure:"postgresql_url"`
	MaxConns      int    `mapstructure:"max_conns"`
	MongoDBURL    string `mapstructure:"mongodb_url"`
	MongoDBName   string `mapstructure:"mongodb_name"`
	RedisURL      string `mapstructure:"redis_url"`
	RedisPrefix   string `mapstructure:"redis_prefix"`
}

// CacheConfig tunes cache staleness.
type CacheConfig struct {
	// MaxAge is the staleness threshold; zero means the cache default.
	MaxAge time.Duration `mapstructure:"max_age"`
}

// CatalogConfig points at the built-in exercise seed file.
type CatalogConfig struct {
	// Path to a YAML seed file; empty means the compiled-in catalog.
	Path string `mapstructure:"path"`
}

// RemoteConfig points at the datasource export the caches hydrate from.
type RemoteConfig struct {
	// ExportPath to a JSON export (optionally .br compressed); empty
	// disables remote hydration.
	ExportPath string `mapstructure:"export_path"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from the environment. Every key is read as
// FITTRACK_<KEY>, e.g. FITTRACK_STORAGE_TYPE.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FITTRACK")
	v.AutomaticEnv()

	v.SetDefault("STORAGE_TYPE", storage.TypeSQLite)
	v.SetDefault("SQLITE_PATH", "data/fittrack.db")
	v.SetDefault("POSTGRESQL_URL", "")
	v.SetDefault("MAX_CONNS", 10)
	v.SetDefault("MONGODB_URL", "")
	v.SetDefault("MONGODB_NAME", "fittrack")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_PREFIX", "fittrack")
	v.SetDefault("CACHE_MAX_AGE", "5m")
	v.SetDefault("CATALOG_PATH", "")
	v.SetDefault("EXPORT_PATH", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "pretty")

	cfg := &Config{
		Storage: StorageConfig{
			Type:          v.GetString("STORAGE_TYPE"),
			SQLitePath:    v.GetString("SQLITE_PATH"),
			PostgreSQLURL: v.GetString("POSTGRESQL_URL"),
			MaxConns:      v.GetInt("MAX_CONNS"),
			MongoDBURL:    v.GetString("MONGODB_URL"),
			MongoDBName:   v.GetString("MONGODB_NAME"),
			RedisURL:      v.GetString("REDIS_URL"),
			RedisPrefix:   v.GetString("REDIS_PREFIX"),
		},
		Cache: CacheConfig{
			MaxAge: v.GetDuration("CACHE_MAX_AGE"),
		},
		Catalog: CatalogConfig{
			Path: v.GetString("CATALOG_PATH"),
		},
		Remote: RemoteConfig{
			ExportPath: v.GetString("EXPORT_PATH"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
	return cfg, nil
}

// StorageConfig translates the flat env config into the storage package's
// per-backend form.
func (c *Config) StorageConfig() storage.Config {
	return storage.Config{
		Type: c.Storage.Type,
		SQLite: storage.SQLiteConfig{
			Path: c.Storage.SQLitePath,
		},
		PostgreSQL: storage.PostgreSQLConfig{
			URL:      c.Storage.PostgreSQLURL,
			MaxConns: c.Storage.MaxConns,
		},
		MongoDB: storage.MongoDBConfig{
			URL:      c.Storage.MongoDBURL,
			Database: c.Storage.MongoDBName,
		},
	}
}
