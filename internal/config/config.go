// Package config provides configuration management for the application.
// It supports YAML configuration files with ${VAR} expansion and EVAL_*
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/evalplatform/evalreport/consts"
	"github.com/evalplatform/evalreport/pkg/logger"
	"github.com/evalplatform/evalreport/pkg/telemetry"
)

// DefaultPath is where the CLI looks for a config file
const DefaultPath = "config/evalreport.yaml"

const (
	defaultDatabasePath   = "./data/evalreport.db"
	defaultOutputDir      = "./reports"
	defaultPurgeAfterDays = 30
	defaultPurgeSchedule  = "0 3 * * *"
	defaultOTLPEndpoint   = "localhost:4317"
	defaultPrometheusPort = 9464
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig     `yaml:"server"`
	Database  DatabaseConfig   `yaml:"database"`
	Export    ExportConfig     `yaml:"export"`
	Retention RetentionConfig  `yaml:"retention"`
	Logging   logger.Config    `yaml:"logging"`
	Telemetry telemetry.Config `yaml:"telemetry"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	Debug       bool     `yaml:"debug"`
	CORSOrigins []string `yaml:"cors_origins"`
	// MaxBodyMB caps the size of posted analysis documents
	MaxBodyMB int `yaml:"max_body_mb"`
}

// DatabaseConfig holds the saved-report database location
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ExportConfig controls document rendering
type ExportConfig struct {
	// Locale drives the header date and number grouping, e.g. "es-MX"
	Locale string `yaml:"locale"`
	// ChartJSURL is the script URL embedded in every document
	ChartJSURL string `yaml:"chart_js_url"`
	// EscapeAISummary HTML-escapes the AI summary before Markdown rendering
	EscapeAISummary bool `yaml:"escape_ai_summary"`
	// OutputDir is where the CLI writes exports when -o is not given
	OutputDir string    `yaml:"output_dir"`
	PDF       PDFConfig `yaml:"pdf"`
}

// PDFConfig holds headless Chrome print settings
type PDFConfig struct {
	// ChromePath overrides browser discovery
	ChromePath   string  `yaml:"chrome_path"`
	PaperWidth   float64 `yaml:"paper_width"`
	PaperHeight  float64 `yaml:"paper_height"`
	MarginTop    float64 `yaml:"margin_top"`
	MarginBottom float64 `yaml:"margin_bottom"`
	MarginLeft   float64 `yaml:"margin_left"`
	MarginRight  float64 `yaml:"margin_right"`
	// RenderWaitMS is how long to let Chart.js draw before printing
	RenderWaitMS   int `yaml:"render_wait_ms"`
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// RetentionConfig controls purging of soft-deleted reports
type RetentionConfig struct {
	Enabled        bool   `yaml:"enabled"`
	PurgeAfterDays int    `yaml:"purge_after_days"`
	Schedule       string `yaml:"schedule"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
			CORSOrigins: []string{
				"http://localhost:3000",
			},
			MaxBodyMB: 32,
		},
		Database: DatabaseConfig{
			Path: defaultDatabasePath,
		},
		Export: ExportConfig{
			Locale:     consts.DefaultLocale,
			ChartJSURL: consts.ChartJSURL,
			OutputDir:  defaultOutputDir,
			PDF: PDFConfig{
				PaperWidth:     8.27,
				PaperHeight:    11.69,
				MarginTop:      0.4,
				MarginBottom:   0.4,
				MarginLeft:     0.4,
				MarginRight:    0.4,
				RenderWaitMS:   1500,
				TimeoutSeconds: 120,
			},
		},
		Retention: RetentionConfig{
			Enabled:        true,
			PurgeAfterDays: defaultPurgeAfterDays,
			Schedule:       defaultPurgeSchedule,
		},
		Logging: logger.Config{
			Level:      "info",
			Format:     "text",
			MaxSize:    100,
			MaxAge:     7,
			MaxBackups: 5,
		},
		Telemetry: telemetry.Config{
			ServiceName: consts.ServiceName,
			OTLP: telemetry.OTLPConfig{
				Endpoint: defaultOTLPEndpoint,
				Insecure: true,
			},
			Prometheus: telemetry.PrometheusConfig{
				Port: defaultPrometheusPort,
			},
		},
	}
}

// Load reads a YAML file over the defaults, expands ${VAR} references and
// applies EVAL_* environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadOrDefault loads path when it exists and falls back to defaults plus
// environment overrides otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if !Exists(path) {
		cfg := Default()
		applyEnvOverrides(cfg)
		return cfg, nil
	}
	return Load(path)
}

// LoadDotEnv reads KEY=value pairs from path into the environment so that
// ${VAR} references and EVAL_* overrides can come from a .env file. Variables
// already set are kept. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" || !Exists(path) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Exists reports whether a config file is present at path
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Write serializes cfg to path with an explanatory header
func Write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(configHeader+string(data)), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

const configHeader = `# evalreport configuration
#
# Values may reference the environment with ${VAR} or ${VAR:-default}.
# These variables override the file:
#   EVAL_SERVER_HOST, EVAL_SERVER_PORT, EVAL_SERVER_DEBUG
#   EVAL_DATABASE_PATH
#   EVAL_LOG_LEVEL, EVAL_LOG_FORMAT, EVAL_LOG_FILE
#   EVAL_EXPORT_LOCALE, EVAL_CHROME_PATH
#   EVAL_TELEMETRY_ENABLED, EVAL_OTLP_ENDPOINT, EVAL_PROMETHEUS_PORT
#

`

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default}. Bare $VAR is left alone.
func expandEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		name, def, hasDefault := strings.Cut(match[2:len(match)-1], ":-")
		if value := os.Getenv(name); value != "" {
			return value
		}
		if hasDefault {
			return def
		}
		return ""
	})
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("EVAL_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("EVAL_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("EVAL_SERVER_DEBUG"); v != "" {
		cfg.Server.Debug = parseBool(v)
	}
	if v := os.Getenv("EVAL_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("EVAL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("EVAL_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("EVAL_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
	if v := os.Getenv("EVAL_EXPORT_LOCALE"); v != "" {
		cfg.Export.Locale = v
	}
	if v := os.Getenv("EVAL_CHROME_PATH"); v != "" {
		cfg.Export.PDF.ChromePath = v
	}
	if v := os.Getenv("EVAL_TELEMETRY_ENABLED"); v != "" {
		cfg.Telemetry.Enabled = parseBool(v)
	}
	if v := os.Getenv("EVAL_OTLP_ENDPOINT"); v != "" {
		cfg.Telemetry.OTLP.Enabled = true
		cfg.Telemetry.OTLP.Endpoint = v
	}
	if v := os.Getenv("EVAL_PROMETHEUS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Telemetry.Prometheus.Enabled = true
			cfg.Telemetry.Prometheus.Port = port
		}
	}
}

func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

// Address returns the server listen address
func (c *ServerConfig) Address() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
