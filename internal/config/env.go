// Package config reads generator settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/gqlopgen/types"
)

// Environment variable names.
const (
	EnvEndpoint         = "GRAPHQL_ENDPOINT"
	EnvOutputDir        = "GRAPHQL_OUTPUT_DIR"
	EnvMaxDepth         = "GRAPHQL_MAX_DEPTH"
	EnvFileExt          = "GRAPHQL_FILE_EXT"
	EnvTimeout          = "GRAPHQL_TIMEOUT"
	EnvConcurrency      = "GRAPHQL_CONCURRENCY"
	EnvValidate         = "GRAPHQL_VALIDATE"
	EnvSkipRequiredArgs = "GRAPHQL_SKIP_REQUIRED_ARGS"
	EnvLogLevel         = "LOG_LEVEL"
)

// DefaultTimeout bounds the introspection request.
const DefaultTimeout = 30 * time.Second

// Config holds the settings of one generation run.
type Config struct {
	Endpoint         string
	OutputDir        string
	MaxDepth         int
	Extension        string
	Timeout          time.Duration
	Concurrency      int
	Validate         bool
	SkipRequiredArgs bool
	LogLevel         logrus.Level
}

// Load reads Config from the process environment, after any .env files in
// the working directory have been applied.
func Load(logger *logrus.Logger) Config {
	LoadEnv(logger)
	return Config{
		Endpoint:         GetEnv(EnvEndpoint, types.DefaultEndpoint),
		OutputDir:        GetEnv(EnvOutputDir, types.DefaultOutputDir),
		MaxDepth:         GetEnvInt(EnvMaxDepth, types.DefaultMaxDepth),
		Extension:        strings.TrimPrefix(GetEnv(EnvFileExt, types.DefaultExtension), "."),
		Timeout:          GetEnvDuration(EnvTimeout, DefaultTimeout),
		Concurrency:      GetEnvInt(EnvConcurrency, 1),
		Validate:         GetEnvBool(EnvValidate, false),
		SkipRequiredArgs: GetEnvBool(EnvSkipRequiredArgs, false),
		LogLevel:         GetLogLevel(),
	}
}

// LoadEnv loads environment variables from .env files. Variables already
// set in the process win over file values.
func LoadEnv(logger *logrus.Logger) {
	files := []string{".env", ".env.local"}
	loaded := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			if logger != nil {
				logger.WithError(err).Warnf("Failed to load %s", file)
			}
			continue
		}
		loaded = append(loaded, file)
	}
	if logger == nil {
		return
	}
	if len(loaded) == 0 {
		logger.Debug("No local env files loaded; relying on process environment")
	} else {
		logger.Debugf("Loaded env files: %s", strings.Join(loaded, ", "))
	}
}

// GetEnv gets an environment variable with a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt gets an integer environment variable with a default value
func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetEnvBool gets a boolean environment variable with a default value
func GetEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetEnvDuration gets a duration environment variable with a default value.
// Bare integers are read as seconds.
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// GetLogLevel gets the log level from environment. Unset or unknown values
// fall back to info.
func GetLogLevel() logrus.Level {
	level, err := logrus.ParseLevel(os.Getenv(EnvLogLevel))
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
