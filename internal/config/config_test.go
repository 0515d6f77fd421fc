package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/evalplatform/evalreport/consts"
	"github.com/evalplatform/evalreport/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "evalreport.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, consts.DefaultLocale, cfg.Export.Locale)
	assert.Equal(t, consts.ChartJSURL, cfg.Export.ChartJSURL)
	assert.False(t, cfg.Export.EscapeAISummary)
	assert.Equal(t, 8.27, cfg.Export.PDF.PaperWidth)
	assert.Equal(t, 30, cfg.Retention.PurgeAfterDays)
	assert.Nil(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
export:
  locale: es-ES
  escape_ai_summary: true
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host, "unset values keep defaults")
	assert.Equal(t, "es-ES", cfg.Export.Locale)
	assert.True(t, cfg.Export.EscapeAISummary)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, consts.ChartJSURL, cfg.Export.ChartJSURL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Server.Port, cfg.Server.Port)
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("EVAL_TEST_DB", "/var/lib/eval.db")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"set variable", "path: ${EVAL_TEST_DB}", "path: /var/lib/eval.db"},
		{"default used", "path: ${EVAL_TEST_UNSET:-./data.db}", "path: ./data.db"},
		{"set beats default", "path: ${EVAL_TEST_DB:-./data.db}", "path: /var/lib/eval.db"},
		{"unset without default", "path: ${EVAL_TEST_UNSET}", "path: "},
		{"bare dollar untouched", "secret: $2a$10$abc", "secret: $2a$10$abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvVars(tt.input))
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("EVAL_SERVER_PORT", "7000")
	t.Setenv("EVAL_SERVER_DEBUG", "yes")
	t.Setenv("EVAL_DATABASE_PATH", "/tmp/x.db")
	t.Setenv("EVAL_EXPORT_LOCALE", "en-US")
	t.Setenv("EVAL_PROMETHEUS_PORT", "9999")

	cfg, err := Load(writeConfig(t, "server:\n  port: 9000\n"))
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.True(t, cfg.Server.Debug)
	assert.Equal(t, "/tmp/x.db", cfg.Database.Path)
	assert.Equal(t, "en-US", cfg.Export.Locale)
	assert.True(t, cfg.Telemetry.Prometheus.Enabled)
	assert.Equal(t, 9999, cfg.Telemetry.Prometheus.Port)
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "evalreport.yaml")
	cfg := Default()
	cfg.Server.Port = 8123

	require.NoError(t, Write(path, cfg))
	assert.True(t, Exists(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# evalreport configuration")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8123, loaded.Server.Port)
}

func TestAddress(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8080}
	assert.Equal(t, "127.0.0.1:8080", s.Address())
}

func TestParseLocale(t *testing.T) {
	tests := []struct {
		input    string
		expected language.Tag
		wantErr  bool
	}{
		{"", language.MustParse("es-MX"), false},
		{"es-MX", language.MustParse("es-MX"), false},
		{"es_MX.UTF-8", language.MustParse("es-MX"), false},
		{"en", language.English, false},
		{"not a locale!", language.Und, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tag, err := ParseLocale(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, tag)
		})
	}
}

func TestLocaleTag_Fallback(t *testing.T) {
	c := ExportConfig{Locale: "???"}
	assert.Equal(t, language.MustParse("es-MX"), c.LocaleTag())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"empty db path", func(c *Config) { c.Database.Path = " " }},
		{"bad level", func(c *Config) { c.Logging.Level = "chatty" }},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }},
		{"bad locale", func(c *Config) { c.Export.Locale = "!!" }},
		{"relative chart url", func(c *Config) { c.Export.ChartJSURL = "chart.js" }},
		{"bad schedule", func(c *Config) { c.Retention.Schedule = "every day" }},
		{"zero retention", func(c *Config) { c.Retention.PurgeAfterDays = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			appErr := cfg.Validate()
			require.NotNil(t, appErr)
			assert.Equal(t, errors.ErrCodeConfigInvalid, appErr.Code)
			assert.Len(t, appErr.Details, 1)
		})
	}
}

func TestValidate_RetentionDisabledSkipsSchedule(t *testing.T) {
	cfg := Default()
	cfg.Retention.Enabled = false
	cfg.Retention.Schedule = "nonsense"
	assert.Nil(t, cfg.Validate())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("EVAL_DOTENV_PORT=9311\nEVAL_DOTENV_KEPT=fromfile\n"), 0644))
	t.Setenv("EVAL_DOTENV_KEPT", "fromenv")
	t.Cleanup(func() { os.Unsetenv("EVAL_DOTENV_PORT") })

	require.NoError(t, LoadDotEnv(envPath))
	assert.Equal(t, "9311", os.Getenv("EVAL_DOTENV_PORT"))
	assert.Equal(t, "fromenv", os.Getenv("EVAL_DOTENV_KEPT"))

	path := writeConfig(t, "server:\n  port: ${EVAL_DOTENV_PORT}\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9311, cfg.Server.Port)

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
	assert.NoError(t, LoadDotEnv(""))

	bad := filepath.Join(dir, "bad.env")
	require.NoError(t, os.WriteFile(bad, []byte("BAD-KEY=1\n"), 0644))
	assert.Error(t, LoadDotEnv(bad))
}
