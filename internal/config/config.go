// Package config provides configuration structures and validation for the
// recharge store backend. It handles environment-based configuration for the
// HTTP server, the PostgreSQL store, the per-game fallback providers and the
// purchase engine's operational parameters.
package config

import (
	"errors"
	"strings"
	"time"
)

// Config holds the complete application configuration. Each field represents a
// subsystem's configuration and is validated during application startup.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Postgres    PostgresConfig
	Store       StoreConfig
	Provider    ProviderConfig
	Games       GamesConfig
	WorkerPool  WorkerPoolConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
}

// PostgresConfig contains PostgreSQL configuration
type PostgresConfig struct {
	URL             string        // Database connection string
	MaxConns        int32         // Maximum number of open connections
	MinConns        int32         // Maximum number of idle connections
	ConnMaxLifetime time.Duration // Maximum lifetime of a connection
	ConnMaxIdleTime time.Duration // Maximum idle time of a connection
	MigrationsPath  string        // Path to migration files
}

// StoreConfig contains the purchase engine's operational parameters
type StoreConfig struct {
	AdminEmail      string        // Email of the distinguished administrative account
	LedgerRetention int           // Entries kept per account after pruning
	PriceCacheTTL   time.Duration // Validity window of the price cache
	PriceTolerance  string        // Absolute tolerance for quoted prices, decimal string
}

// ProviderConfig contains the fallback provider endpoints. A game with an
// empty URL has no fallback and fails closed on local stock-out.
type ProviderConfig struct {
	Timeout        time.Duration // Bound on a single provider call
	FreeFireLatam  ProviderEndpoint
	FreeFireGlobal ProviderEndpoint
}

// ProviderEndpoint identifies one game's provider with its credentials
type ProviderEndpoint struct {
	URL       string
	Username  string
	Password  string
	Operation string // Operation code sent on every call
}

// GamesConfig contains per-game availability flags
type GamesConfig struct {
	FreeFireLatamEnabled  bool
	FreeFireGlobalEnabled bool
	BlockStrikerEnabled   bool
}

// WorkerPoolConfig contains worker pool configuration
type WorkerPoolConfig struct {
	Size int // Maximum number of concurrent purchase workers
}

// validate performs comprehensive validation of all configuration values,
// ensuring they meet minimum requirements and logical constraints
func (c *Config) validate() error {
	var validationErrors []string

	// Validate Server config
	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	// Validate PostgreSQL config
	if c.Postgres.URL == "" {
		validationErrors = append(validationErrors, "POSTGRES_URL is required")
	}
	if c.Postgres.MaxConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONNS must be greater than 0")
	}
	if c.Postgres.MinConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MIN_CONNS must be greater than 0")
	}
	if c.Postgres.ConnMaxLifetime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
	}
	if c.Postgres.ConnMaxIdleTime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
	}

	// Validate Store config
	if c.Store.AdminEmail == "" {
		validationErrors = append(validationErrors, "STORE_ADMIN_EMAIL is required")
	}
	if c.Store.LedgerRetention <= 0 {
		validationErrors = append(validationErrors, "STORE_LEDGER_RETENTION must be greater than 0")
	}
	if c.Store.PriceCacheTTL <= 0 {
		validationErrors = append(validationErrors, "STORE_PRICE_CACHE_TTL must be greater than 0")
	}
	if c.Store.PriceTolerance == "" {
		validationErrors = append(validationErrors, "STORE_PRICE_TOLERANCE is required")
	}

	// Validate Provider config
	if c.Provider.Timeout <= 0 {
		validationErrors = append(validationErrors, "PROVIDER_TIMEOUT must be greater than 0")
	}
	for _, ep := range []struct {
		name     string
		endpoint ProviderEndpoint
	}{
		{"FREEFIRE_LATAM", c.Provider.FreeFireLatam},
		{"FREEFIRE_GLOBAL", c.Provider.FreeFireGlobal},
	} {
		if ep.endpoint.URL == "" {
			continue // No fallback configured for this game
		}
		if ep.endpoint.Username == "" || ep.endpoint.Password == "" {
			validationErrors = append(validationErrors, "PROVIDER_"+ep.name+"_USERNAME and PROVIDER_"+ep.name+"_PASSWORD are required when a URL is set")
		}
		if ep.endpoint.Operation == "" {
			validationErrors = append(validationErrors, "PROVIDER_"+ep.name+"_OPERATION is required when a URL is set")
		}
	}

	// Validate WorkerPool config
	if c.WorkerPool.Size <= 0 {
		validationErrors = append(validationErrors, "WORKER_POOL_SIZE must be greater than 0")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}
