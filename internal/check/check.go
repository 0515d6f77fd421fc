// Package check provides interactive environment checking and initialization.
// It helps users set up a local evalreport configuration and tells them
// whether PDF export will work on this machine.
package check

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/evalplatform/evalreport/internal/config"
)

// CheckResult represents the result of a non-interactive environment check
type CheckResult struct {
	// Success indicates whether all required checks passed
	Success bool
	// ConfigInvalid is set when the file parsed but failed validation
	ConfigInvalid bool
	// Errors contains critical errors that prevent server startup
	Errors []string
	// Warnings contains non-critical issues that don't block startup
	Warnings []string
	// Suggestions contains helpful tips for fixing issues
	Suggestions []string
}

// ConfirmFunc asks a yes/no question
type ConfirmFunc func(title string) (bool, error)

// Checker handles environment checking and initialization
type Checker struct {
	configPath string
	report     *Report
	confirm    ConfirmFunc
	lookPath   func(string) (string, error)
}

// NewChecker creates a checker for the config file at configPath
func NewChecker(configPath string) *Checker {
	if configPath == "" {
		configPath = config.DefaultPath
	}
	return &Checker{
		configPath: configPath,
		report:     NewReport(),
		confirm:    confirmHuh,
		lookPath:   lookPath,
	}
}

// WithConfirm replaces the interactive prompt
func (c *Checker) WithConfirm(fn ConfirmFunc) *Checker {
	c.confirm = fn
	return c
}

// ConfigPath returns the config file the checker inspects
func (c *Checker) ConfigPath() string {
	return c.configPath
}

// Report returns the collected results
func (c *Checker) Report() *Report {
	return c.report
}

// Run executes the full interactive environment check
func (c *Checker) Run() error {
	printHeader()

	fmt.Println()
	printSection("Checking configuration file")
	if err := c.checkConfigFile(); err != nil {
		return fmt.Errorf("file check failed: %w", err)
	}

	fmt.Println()
	printSection("Validating configuration")
	cfg, result := c.validateConfig()
	c.report.AddValidationResult(result)
	printValidationResult(result)
	if !result.Valid {
		return fmt.Errorf("config validation failed: %w", result.Error)
	}

	fmt.Println()
	printSection("Checking export environment")
	c.report.AddFileResult(c.checkOutputDir(cfg.Export.OutputDir))
	browser := c.findChrome(cfg.Export.PDF.ChromePath)
	c.report.AddValidationResult(browser)
	printValidationResult(browser)

	fmt.Println()
	c.report.Print()
	return nil
}

// RunNonInteractive performs the check without prompting or creating files.
// A missing config file is not an error: defaults are used.
func (c *Checker) RunNonInteractive() *CheckResult {
	result := &CheckResult{
		Success:     true,
		Errors:      make([]string, 0),
		Warnings:    make([]string, 0),
		Suggestions: make([]string, 0),
	}

	if !fileExists(c.configPath) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Configuration not found: %s (using defaults)", c.configPath))
		result.Suggestions = append(result.Suggestions,
			"Run 'evalreport init' to create a configuration file")
	}

	cfg, validation := c.validateConfig()
	if !validation.Valid {
		result.Success = false
		result.ConfigInvalid = validation.Invalid
		result.Errors = append(result.Errors, validation.Error.Error())
		result.Errors = append(result.Errors, validation.Problems...)
		return result
	}

	if browser := c.findChrome(cfg.Export.PDF.ChromePath); !browser.Valid {
		result.Warnings = append(result.Warnings, "PDF export unavailable: "+browser.Error.Error())
		result.Suggestions = append(result.Suggestions,
			"Install Chrome or Chromium, or set export.pdf.chrome_path")
	}
	return result
}

// InitConfig writes a default configuration. An existing file is only
// replaced when force is set or the user confirms.
func (c *Checker) InitConfig(force bool) (bool, error) {
	if fileExists(c.configPath) && !force {
		ok, err := c.confirm(fmt.Sprintf("%s already exists. Overwrite it?", c.configPath))
		if err != nil {
			return false, fmt.Errorf("failed to get user confirmation: %w", err)
		}
		if !ok {
			return false, nil
		}
	}

	if err := config.Write(c.configPath, config.Default()); err != nil {
		return false, err
	}
	printFileCreated(c.configPath)
	return true, nil
}

func printHeader() {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1)

	fmt.Println(titleStyle.Render("🔍 evalreport environment check"))
}

func printSection(title string) {
	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15"))
	fmt.Println(style.Render(title + "..."))
}

// confirmHuh asks the question in the terminal
func confirmHuh(title string) (bool, error) {
	var confirm bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&confirm).
		WithTheme(huh.ThemeCharm()).
		Run()
	if err != nil {
		return false, err
	}
	return confirm, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// PrintCheckResult prints the check result in a formatted way
func PrintCheckResult(result *CheckResult) {
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	if len(result.Errors) > 0 {
		fmt.Fprintln(os.Stderr)
		red.Fprintln(os.Stderr, "[ERROR] Environment check failed")
		fmt.Fprintln(os.Stderr)
		for _, err := range result.Errors {
			red.Fprintf(os.Stderr, "  ✗ %s\n", err)
		}
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintln(os.Stderr)
		yellow.Fprintln(os.Stderr, "[WARNING] Configuration warnings:")
		for _, warn := range result.Warnings {
			yellow.Fprintf(os.Stderr, "  ⚠ %s\n", warn)
		}
	}

	if len(result.Suggestions) > 0 {
		cyan.Fprintln(os.Stderr, "\nTo fix these issues:")
		for _, suggestion := range result.Suggestions {
			fmt.Fprintf(os.Stderr, "  → %s\n", suggestion)
		}
	}

	fmt.Fprintln(os.Stderr)
}
