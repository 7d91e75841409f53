package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigLogLevelValidation(t *testing.T) {
	tests := []struct {
		name      string
		logLevel  string
		wantError bool
	}{
		{"Valid DEBUG", "DEBUG", false},
		{"Valid INFO", "INFO", false},
		{"Valid WARN", "WARN", false},
		{"Valid ERROR", "ERROR", false},
		{"Valid lowercase debug", "debug", false},
		{"Invalid value", "INVALID", true},
		{"Empty string", "", false}, // Пустая строка допустима (будет использовано значение по умолчанию)
		{"Mixed case", "DeBuG", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaults()
			cfg.LogLevel = tt.logLevel

			err := cfg.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestConfigLogLevelDefault(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.LogLevel == "" {
		t.Error("LogLevel should have a default value")
	}

	// Проверяем, что значение по умолчанию валидно
	err = cfg.Validate()
	if err != nil {
		t.Errorf("Default LogLevel should be valid, got error: %v", err)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := GetDefaults()
	cfg.Port = "70000"
	cfg.Match.DefaultThreshold = 150
	cfg.Match.Strategy = "random"
	cfg.Compare.PathMode = "inode"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation errors:")
	assert.Contains(t, err.Error(), "port must be between 1 and 65535")
	assert.Contains(t, err.Error(), "match default threshold")
	assert.Contains(t, err.Error(), "match strategy")
	assert.Contains(t, err.Error(), "compare path mode")
}

func TestValidate_ThresholdScales(t *testing.T) {
	cfg := GetDefaults()
	cfg.Match.DefaultThreshold = 70
	assert.NoError(t, cfg.Validate(), "percent scale")

	cfg.Match.DefaultThreshold = 0.7
	assert.NoError(t, cfg.Validate(), "fraction scale")

	cfg.Match.DefaultThreshold = -1
	assert.Error(t, cfg.Validate())
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("READ_TIMEOUT", "15s")
	t.Setenv("MATCH_DEFAULT_THRESHOLD", "0.85")
	t.Setenv("MATCH_STRATEGY", "exclusive")
	t.Setenv("MATCH_STEMMING", "true")
	t.Setenv("SHEET_HEADER_SYNONYMS", "creative name, ad name ,")
	t.Setenv("SHEET_REQUIRE_UNDERSCORE", "false")
	t.Setenv("COMPARE_PATH_MODE", "basename")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 0.85, cfg.Match.DefaultThreshold)
	assert.Equal(t, "exclusive", cfg.Match.Strategy)
	assert.True(t, cfg.Match.Stemming)
	assert.Equal(t, []string{"creative name", "ad name"}, cfg.Sheet.HeaderSynonyms)
	require.NotNil(t, cfg.Sheet.RequireUnderscore)
	assert.False(t, *cfg.Sheet.RequireUnderscore)
	assert.Equal(t, "basename", cfg.Compare.PathMode)
	// не заданные переменные берутся из значений по умолчанию
	assert.Equal(t, GetDefaults().WriteTimeout, cfg.WriteTimeout)
}

func TestLoadConfig_InvalidEnvFallsBackToDefault(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("MATCH_WORKERS", "many")
	t.Setenv("WRITE_TIMEOUT", "soon")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Match.Workers)
	assert.Equal(t, 5*time.Minute, cfg.WriteTimeout)
}

func TestLoadConfig_TOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "renamer.toml")
	content := `port = "9200"
read_timeout = "20s"
log_format = "json"

[match]
default_threshold = 80.0
strategy = "exclusive"

[compare]
path_mode = "basename"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9200", cfg.Port)
	assert.Equal(t, 20*time.Second, cfg.ReadTimeout)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 80.0, cfg.Match.DefaultThreshold)
	assert.Equal(t, "exclusive", cfg.Match.Strategy)
	assert.Equal(t, "basename", cfg.Compare.PathMode)
	// отсутствующие ключи сохраняют значения по умолчанию
	assert.Equal(t, GetDefaults().Sheet.HeaderSynonyms, cfg.Sheet.HeaderSynonyms)
	assert.Equal(t, GetDefaults().MaxUploadSize, cfg.MaxUploadSize)
}

func TestLoadConfig_YAMLFileFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "renamer.yaml")
	content := `port: "9300"
shutdown_timeout: 10s
sheet:
  header_synonyms:
    - creative
  require_underscore: true
  heuristic_min_unique: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9300", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"creative"}, cfg.Sheet.HeaderSynonyms)
	require.NotNil(t, cfg.Sheet.RequireUnderscore)
	assert.True(t, *cfg.Sheet.RequireUnderscore)
	assert.Equal(t, 5, cfg.Sheet.HeuristicMinUnique)
}

func TestLoadConfig_FileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.toml"))
	assert.ErrorContains(t, err, "read config")

	ini := filepath.Join(dir, "renamer.ini")
	require.NoError(t, os.WriteFile(ini, []byte("port=1"), 0o600))
	_, err = LoadConfig(ini)
	assert.ErrorContains(t, err, "unsupported config format")

	badDuration := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(badDuration, []byte(`read_timeout = "later"`), 0o600))
	_, err = LoadConfig(badDuration)
	assert.ErrorContains(t, err, "invalid read_timeout")

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("match:\n  strategy: random\n"), 0o600))
	_, err = LoadConfig(invalid)
	assert.ErrorContains(t, err, "invalid config")
}

func TestConfig_Options(t *testing.T) {
	cfg := GetDefaults()
	cfg.Match.Workers = 3
	cfg.Match.Strategy = "exclusive"

	m := cfg.MatchOptions()
	assert.Equal(t, 0.7, m.Threshold)
	assert.EqualValues(t, "exclusive", m.Strategy)
	assert.Equal(t, 3, m.Workers)

	s := cfg.SheetOptions()
	assert.Equal(t, cfg.Sheet.HeaderSynonyms, s.HeaderSynonyms)
	assert.Nil(t, s.ColumnIndex)
	assert.Equal(t, 3, s.HeuristicMinUnique)

	d := cfg.CompareOptions()
	assert.EqualValues(t, "full", d.PathMode)

	a := cfg.ArchiveOptions()
	assert.Equal(t, cfg.Archive.MaxEntrySize, a.MaxEntrySize)
	assert.Equal(t, 3, a.Workers)
}
