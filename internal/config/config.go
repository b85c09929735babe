// Package config provides centralized configuration for the importer.
// Settings come from environment variables with defaults and are validated
// on startup to fail fast on misconfiguration.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig
	Import   ImportConfig
	Logging  LoggingConfig
	Server   ServerConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required)
	URL string `env:"DATABASE_URL" required:"true"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `env:"DB_MIN_CONNS" default:"1"`

	// ConnectTimeout bounds the initial connect and ping (default: 10s)
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" default:"10s"`
}

// ImportConfig holds CSV import settings.
type ImportConfig struct {
	// MaxFileSize is the maximum allowed file size in bytes (default: 100MB)
	MaxFileSize int64 `env:"IMPORT_MAX_FILE_SIZE" default:"104857600"`

	// Timeout is the maximum duration for a single import run (default: 10m)
	Timeout time.Duration `env:"IMPORT_TIMEOUT" default:"10m"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`

	// File is the append-only log file written alongside the console
	// sink (default: data_import.log). Empty disables the file sink.
	File string `env:"LOG_FILE" default:"data_import.log"`
}

// ServerConfig holds HTTP server settings for the serve command.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading the request (default: 30s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`

	// ShutdownTimeout is the maximum wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + itoa(c.Port)
}

// itoa converts an int to string without importing strconv in this file.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b [20]byte
	n := len(b)
	neg := i < 0
	if neg {
		i = -i
	}
	for i > 0 {
		n--
		b[n] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		n--
		b[n] = '-'
	}
	return string(b[n:])
}
