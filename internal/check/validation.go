package check

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/fatih/color"

	"github.com/evalplatform/evalreport/internal/config"
)

// chromeCandidates are the browser binaries chromedp can drive
var chromeCandidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"chrome",
	"headless-shell",
}

var lookPath = exec.LookPath

// ValidationResult represents the result of a config or tool check
type ValidationResult struct {
	Path  string
	Valid bool
	// Invalid is set when the config parsed but failed validation
	Invalid bool
	// Detail is shown next to a passing check
	Detail   string
	Error    error
	Problems []string
	Warnings []string
}

// validateConfig loads and validates the config file. The returned config is
// never nil; defaults stand in when the file cannot be read.
func (c *Checker) validateConfig() (*config.Config, ValidationResult) {
	result := ValidationResult{Path: c.configPath}

	cfg, err := config.LoadOrDefault(c.configPath)
	if err != nil {
		result.Error = fmt.Errorf("format error: %v", err)
		return config.Default(), result
	}
	if !fileExists(c.configPath) {
		result.Detail = "defaults"
	}

	if appErr := cfg.Validate(); appErr != nil {
		result.Invalid = true
		result.Error = appErr
		if problems, ok := appErr.Details.([]string); ok {
			result.Problems = problems
		}
		return cfg, result
	}

	if cfg.Export.PDF.RenderWaitMS > 0 && cfg.Export.PDF.RenderWaitMS < 300 {
		result.Warnings = append(result.Warnings,
			"export.pdf.render_wait_ms is short; charts may print blank")
	}
	result.Valid = true
	return cfg, result
}

// findChrome resolves the browser used for PDF export: the configured
// path, then CHROME_PATH, then well-known binary names.
func (c *Checker) findChrome(configured string) ValidationResult {
	result := ValidationResult{Path: "Chrome / Chromium"}

	explicit := configured
	if explicit == "" {
		explicit = os.Getenv("CHROME_PATH")
	}
	if explicit != "" {
		resolved, err := c.lookPath(explicit)
		if err != nil {
			result.Error = fmt.Errorf("browser not found at %s", explicit)
			return result
		}
		result.Valid = true
		result.Detail = resolved
		return result
	}

	for _, name := range chromeCandidates {
		if resolved, err := c.lookPath(name); err == nil {
			result.Valid = true
			result.Detail = resolved
			return result
		}
	}
	result.Error = fmt.Errorf("no browser found (tried: %v)", chromeCandidates)
	return result
}

// printValidationResult prints a single validation result
func printValidationResult(result ValidationResult) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	switch {
	case result.Valid && result.Detail != "":
		green.Printf("  ✓ %s (%s)\n", result.Path, result.Detail)
	case result.Valid:
		green.Printf("  ✓ %s\n", result.Path)
	case result.Error != nil:
		red.Printf("  ✗ %s: %v\n", result.Path, result.Error)
	}

	for _, problem := range result.Problems {
		red.Printf("    └─ %s\n", problem)
	}
	for _, warning := range result.Warnings {
		yellow.Printf("    └─ %s\n", warning)
	}
}
