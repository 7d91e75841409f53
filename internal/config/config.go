package config

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"creativerenamer/archive"
	"creativerenamer/diff"
	"creativerenamer/importer"
	"creativerenamer/matching"
)

// Config конфигурация сервиса переименования
type Config struct {
	// Сервер
	Port            string        `json:"port"`
	MaxUploadSize   int64         `json:"max_upload_size"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`

	// Ограничение частоты запросов (0 = без ограничения)
	RateLimitPerSec float64 `json:"rate_limit_per_sec"`
	RateLimitBurst  int     `json:"rate_limit_burst"`

	// Логирование
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`

	Match   MatchConfig   `json:"match"`
	Sheet   SheetConfig   `json:"sheet"`
	Compare CompareConfig `json:"compare"`
	Archive ArchiveConfig `json:"archive"`
}

// MatchConfig параметры сопоставления по умолчанию
type MatchConfig struct {
	DefaultThreshold float64 `json:"default_threshold" toml:"default_threshold" yaml:"default_threshold"`
	Strategy         string  `json:"strategy" toml:"strategy" yaml:"strategy"`
	Workers          int     `json:"workers" toml:"workers" yaml:"workers"`
	Stemming         bool    `json:"stemming" toml:"stemming" yaml:"stemming"`
}

// SheetConfig параметры чтения T-листа
type SheetConfig struct {
	HeaderSynonyms []string `json:"header_synonyms" toml:"header_synonyms" yaml:"header_synonyms"`
	// RequireUnderscore nil = по формату (XLSX да, CSV нет)
	RequireUnderscore  *bool `json:"require_underscore,omitempty" toml:"require_underscore" yaml:"require_underscore"`
	HeuristicMinUnique int   `json:"heuristic_min_unique" toml:"heuristic_min_unique" yaml:"heuristic_min_unique"`
}

// CompareConfig параметры сравнения архивов
type CompareConfig struct {
	PathMode string `json:"path_mode" toml:"path_mode" yaml:"path_mode"`
}

// ArchiveConfig параметры чтения архивов
type ArchiveConfig struct {
	MaxEntrySize int64 `json:"max_entry_size" toml:"max_entry_size" yaml:"max_entry_size"`
}

// GetDefaults возвращает конфигурацию со значениями по умолчанию
func GetDefaults() *Config {
	return &Config{
		Port:            "8000",
		MaxUploadSize:   512 << 20,
		ReadTimeout:     60 * time.Second,
		WriteTimeout:    5 * time.Minute,
		ShutdownTimeout: 30 * time.Second,
		RateLimitPerSec: 10,
		RateLimitBurst:  20,
		LogLevel:        "INFO",
		LogFormat:       "text",
		Match: MatchConfig{
			DefaultThreshold: 0.7,
			Strategy:         "greedy",
			Workers:          0,
			Stemming:         false,
		},
		Sheet: SheetConfig{
			HeaderSynonyms:     append([]string(nil), importer.DefaultHeaderSynonyms...),
			HeuristicMinUnique: 3,
		},
		Compare: CompareConfig{PathMode: "full"},
		Archive: ArchiveConfig{MaxEntrySize: 256 << 20},
	}
}

// LoadConfig загружает конфигурацию из файла (TOML или YAML) или из переменных окружения
// Путь берется из аргумента, иначе из CONFIG_FILE. Без файла используются переменные окружения.
func LoadConfig(path ...string) (*Config, error) {
	configPath := os.Getenv("CONFIG_FILE")
	if len(path) > 0 && path[0] != "" {
		configPath = path[0]
	}

	var (
		config *Config
		err    error
	)
	if configPath != "" {
		config, err = loadFile(configPath)
		if err != nil {
			return nil, err
		}
		log.Printf("Config loaded from %s", configPath)
	} else {
		config = loadEnv()
	}

	// Валидация
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// loadEnv читает конфигурацию из переменных окружения
func loadEnv() *Config {
	defaults := GetDefaults()

	return &Config{
		// Сервер
		Port:            getEnv("SERVER_PORT", defaults.Port),
		MaxUploadSize:   int64(getEnvInt("MAX_UPLOAD_SIZE", int(defaults.MaxUploadSize))),
		ReadTimeout:     getEnvDuration("READ_TIMEOUT", defaults.ReadTimeout),
		WriteTimeout:    getEnvDuration("WRITE_TIMEOUT", defaults.WriteTimeout),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", defaults.ShutdownTimeout),
		RateLimitPerSec: getEnvFloat("RATE_LIMIT_PER_SEC", defaults.RateLimitPerSec),
		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", defaults.RateLimitBurst),

		// Логирование
		LogLevel:  getEnv("LOG_LEVEL", defaults.LogLevel),
		LogFormat: getEnv("LOG_FORMAT", defaults.LogFormat),

		Match: MatchConfig{
			DefaultThreshold: getEnvFloat("MATCH_DEFAULT_THRESHOLD", defaults.Match.DefaultThreshold),
			Strategy:         getEnv("MATCH_STRATEGY", defaults.Match.Strategy),
			Workers:          getEnvInt("MATCH_WORKERS", defaults.Match.Workers),
			Stemming:         getEnv("MATCH_STEMMING", "false") == "true",
		},
		Sheet: SheetConfig{
			HeaderSynonyms:     getEnvList("SHEET_HEADER_SYNONYMS", defaults.Sheet.HeaderSynonyms),
			RequireUnderscore:  getEnvBoolPtr("SHEET_REQUIRE_UNDERSCORE"),
			HeuristicMinUnique: getEnvInt("SHEET_HEURISTIC_MIN_UNIQUE", defaults.Sheet.HeuristicMinUnique),
		},
		Compare: CompareConfig{
			PathMode: getEnv("COMPARE_PATH_MODE", defaults.Compare.PathMode),
		},
		Archive: ArchiveConfig{
			MaxEntrySize: int64(getEnvInt("ARCHIVE_MAX_ENTRY_SIZE", int(defaults.Archive.MaxEntrySize))),
		},
	}
}

// fileConfig структура файла конфигурации; длительности задаются строками ("30s", "5m")
type fileConfig struct {
	Port            string  `toml:"port" yaml:"port"`
	MaxUploadSize   int64   `toml:"max_upload_size" yaml:"max_upload_size"`
	ReadTimeout     string  `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    string  `toml:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout string  `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
	RateLimitPerSec float64 `toml:"rate_limit_per_sec" yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `toml:"rate_limit_burst" yaml:"rate_limit_burst"`
	LogLevel        string  `toml:"log_level" yaml:"log_level"`
	LogFormat       string  `toml:"log_format" yaml:"log_format"`

	Match   MatchConfig   `toml:"match" yaml:"match"`
	Sheet   SheetConfig   `toml:"sheet" yaml:"sheet"`
	Compare CompareConfig `toml:"compare" yaml:"compare"`
	Archive ArchiveConfig `toml:"archive" yaml:"archive"`
}

// loadFile декодирует файл поверх значений по умолчанию
func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	defaults := GetDefaults()
	fc := fileConfig{
		Port:            defaults.Port,
		MaxUploadSize:   defaults.MaxUploadSize,
		ReadTimeout:     defaults.ReadTimeout.String(),
		WriteTimeout:    defaults.WriteTimeout.String(),
		ShutdownTimeout: defaults.ShutdownTimeout.String(),
		RateLimitPerSec: defaults.RateLimitPerSec,
		RateLimitBurst:  defaults.RateLimitBurst,
		LogLevel:        defaults.LogLevel,
		LogFormat:       defaults.LogFormat,
		Match:           defaults.Match,
		Sheet:           defaults.Sheet,
		Compare:         defaults.Compare,
		Archive:         defaults.Archive,
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.NewDecoder(bytes.NewReader(data)).Decode(&fc); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (use .toml, .yaml or .yml)", filepath.Ext(path))
	}

	var problems []string
	parse := func(name, value string) time.Duration {
		d, err := time.ParseDuration(value)
		if err != nil {
			problems = append(problems, fmt.Sprintf("invalid %s: %q", name, value))
		}
		return d
	}

	config := &Config{
		Port:            fc.Port,
		MaxUploadSize:   fc.MaxUploadSize,
		ReadTimeout:     parse("read_timeout", fc.ReadTimeout),
		WriteTimeout:    parse("write_timeout", fc.WriteTimeout),
		ShutdownTimeout: parse("shutdown_timeout", fc.ShutdownTimeout),
		RateLimitPerSec: fc.RateLimitPerSec,
		RateLimitBurst:  fc.RateLimitBurst,
		LogLevel:        fc.LogLevel,
		LogFormat:       fc.LogFormat,
		Match:           fc.Match,
		Sheet:           fc.Sheet,
		Compare:         fc.Compare,
		Archive:         fc.Archive,
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("parse config: %s", strings.Join(problems, "; "))
	}
	return config, nil
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает переменную окружения как int или возвращает значение по умолчанию
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat получает переменную окружения как float64 или возвращает значение по умолчанию
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения как Duration или возвращает значение по умолчанию
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvList читает список через запятую
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// getEnvBoolPtr возвращает nil, если переменная не задана
func getEnvBoolPtr(key string) *bool {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil
	}
	return &b
}

// MatchOptions параметры движка сопоставления по умолчанию
func (c *Config) MatchOptions() matching.Options {
	return matching.Options{
		Threshold: c.Match.DefaultThreshold,
		Strategy:  matching.Strategy(c.Match.Strategy),
		Workers:   c.Match.Workers,
		Stemming:  c.Match.Stemming,
	}
}

// SheetOptions параметры чтения листа по умолчанию
func (c *Config) SheetOptions() importer.SheetOptions {
	return importer.SheetOptions{
		HeaderSynonyms:     c.Sheet.HeaderSynonyms,
		RequireUnderscore:  c.Sheet.RequireUnderscore,
		HeuristicMinUnique: c.Sheet.HeuristicMinUnique,
	}
}

// CompareOptions параметры сравнения архивов по умолчанию
func (c *Config) CompareOptions() diff.Options {
	return diff.Options{
		PathMode: diff.PathMode(c.Compare.PathMode),
		Workers:  c.Match.Workers,
	}
}

// ArchiveOptions параметры открытия архивов
func (c *Config) ArchiveOptions() archive.OpenOptions {
	return archive.OpenOptions{
		MaxEntrySize: c.Archive.MaxEntrySize,
		Workers:      c.Match.Workers,
	}
}
