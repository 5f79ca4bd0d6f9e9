// Package config provides helpers for loading configuration values from
// environment variables with defaults, validation, and fallback warnings.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnvString returns the value of an environment variable, or defaultValue
// if the variable is not set or empty. No validation is performed.
func GetEnvString(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetEnvInt returns the value of an environment variable parsed as an
// integer. If the variable is unset or unparseable, the default is returned
// and a warning is logged for the unparseable case.
func GetEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		slog.Warn("invalid integer value for environment variable, using default",
			slog.String("key", key),
			slog.String("value", valueStr),
			slog.Int("default", defaultValue))
		return defaultValue
	}
	return value
}

// GetEnvBool returns the value of an environment variable parsed as a
// boolean. Accepts the forms understood by strconv.ParseBool plus "yes"/"no".
func GetEnvBool(key string, defaultValue bool) bool {
	valueStr := strings.ToLower(os.Getenv(key))
	if valueStr == "" {
		return defaultValue
	}

	switch valueStr {
	case "yes":
		return true
	case "no":
		return false
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		slog.Warn("invalid boolean value for environment variable, using default",
			slog.String("key", key),
			slog.String("value", valueStr),
			slog.Bool("default", defaultValue))
		return defaultValue
	}
	return value
}

// GetEnvDuration returns the value of an environment variable parsed with
// time.ParseDuration. If the variable is unset, unparseable, or fails the
// optional validator, the default is returned with a warning.
func GetEnvDuration(key string, defaultValue time.Duration, validate func(time.Duration) error) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		slog.Warn("invalid duration value for environment variable, using default",
			slog.String("key", key),
			slog.String("value", valueStr),
			slog.Duration("default", defaultValue))
		return defaultValue
	}

	if validate != nil {
		if err := validate(value); err != nil {
			slog.Warn("duration value failed validation, using default",
				slog.String("key", key),
				slog.Duration("value", value),
				slog.Duration("default", defaultValue),
				slog.Any("error", err))
			return defaultValue
		}
	}
	return value
}
