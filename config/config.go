// Package config loads the server configuration from the environment.
package config

import (
	"os"
	"strings"

	"github.com/cbsinteractive/keyframes/db/redis/storage"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// Config is the configuration of the keyframe channel service.
type Config struct {
	Addr string `envconfig:"HTTP_ADDR" default:":8080"`

	// FPS is the frame rate used to render frame spans as timecodes.
	FPS float64 `envconfig:"FPS" default:"24"`

	EnableGops bool `envconfig:"ENABLE_GOPS" default:"true"`

	// EnableTracing logs the duration of requests and storage calls.
	EnableTracing bool `envconfig:"ENABLE_TRACING"`

	Log    Log
	Redis  *storage.Config
	Sentry Sentry
}

// Log configures the logrus logger.
type Log struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// Sentry configures exception reporting. Reporting is disabled when DSN is
// empty.
type Sentry struct {
	DSN         string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"ENV" default:"dev"`
}

// LoadConfig loads the configuration from environment variables, exiting
// the process when they are invalid.
func LoadConfig() *Config {
	cfg, err := Load()
	if err != nil {
		logrus.Fatalf("loading config: %v", err)
	}
	return cfg
}

// Load loads the configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Logger builds a logger writing to stderr.
func (l Log) Logger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(l.Level)
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.Out = os.Stderr
	logger.Level = level
	if strings.EqualFold(l.Format, "text") {
		logger.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	} else {
		logger.Formatter = &logrus.JSONFormatter{}
	}
	return logger, nil
}
