package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"creativerenamer/diff"
	"creativerenamer/matching"
)

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	var errors []string

	// Валидация порта
	if c.Port == "" {
		errors = append(errors, "port is required")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("invalid port: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("port must be between 1 and 65535, got %d", port))
		}
	}

	if c.MaxUploadSize < 1 {
		errors = append(errors, "max upload size must be at least 1 byte")
	}

	// Валидация таймаутов
	if c.ReadTimeout < time.Second {
		errors = append(errors, "read timeout must be at least 1 second")
	}
	if c.WriteTimeout < time.Second {
		errors = append(errors, "write timeout must be at least 1 second")
	}
	if c.ShutdownTimeout < time.Second {
		errors = append(errors, "shutdown timeout must be at least 1 second")
	}

	// Валидация ограничения частоты
	if c.RateLimitPerSec < 0 {
		errors = append(errors, "rate limit must not be negative")
	}
	if c.RateLimitPerSec > 0 && c.RateLimitBurst < 1 {
		errors = append(errors, "rate limit burst must be at least 1")
	}

	// Валидация уровня логирования
	validLogLevels := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	if c.LogLevel != "" {
		valid := false
		logLevelUpper := strings.ToUpper(c.LogLevel)
		for _, level := range validLogLevels {
			if logLevelUpper == level {
				valid = true
				break
			}
		}
		if !valid {
			errors = append(errors, fmt.Sprintf("invalid log level: %s (valid: %s)",
				c.LogLevel, strings.Join(validLogLevels, ", ")))
		}
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format: %s (valid: text, json)", c.LogFormat))
	}

	// Валидация параметров сопоставления
	if _, err := matching.NormalizeThreshold(c.Match.DefaultThreshold); err != nil {
		errors = append(errors, fmt.Sprintf("match default threshold: %v", err))
	}
	if _, err := matching.ParseStrategy(c.Match.Strategy); err != nil {
		errors = append(errors, fmt.Sprintf("match strategy: %v", err))
	}
	if c.Match.Workers < 0 {
		errors = append(errors, "match workers must not be negative")
	}

	if c.Sheet.HeuristicMinUnique < 1 {
		errors = append(errors, "sheet heuristic min unique must be at least 1")
	}

	if _, err := diff.ParsePathMode(c.Compare.PathMode); err != nil {
		errors = append(errors, fmt.Sprintf("compare path mode: %v", err))
	}

	if c.Archive.MaxEntrySize < 1 {
		errors = append(errors, "archive max entry size must be at least 1 byte")
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}
