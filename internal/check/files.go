package check

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/evalplatform/evalreport/internal/config"
)

// FileCheckResult represents the result of a file check
type FileCheckResult struct {
	Path        string
	Exists      bool
	Created     bool
	Description string
	Error       error
}

// checkConfigFile checks the config file and offers to create it
func (c *Checker) checkConfigFile() error {
	result := FileCheckResult{
		Path:        c.configPath,
		Description: "evalreport configuration",
	}
	defer func() { c.report.AddFileResult(result) }()

	if fileExists(c.configPath) {
		result.Exists = true
		printFileStatus(c.configPath, true, false)
		return nil
	}
	printFileStatus(c.configPath, false, false)

	confirm, err := c.confirm(fmt.Sprintf("Create %s with default settings?", c.configPath))
	if err != nil {
		result.Error = fmt.Errorf("failed to get user confirmation: %w", err)
		return result.Error
	}
	if !confirm {
		return nil
	}

	if err := config.Write(c.configPath, config.Default()); err != nil {
		result.Error = err
		return err
	}
	result.Exists = true
	result.Created = true
	printFileCreated(c.configPath)
	return nil
}

// checkOutputDir makes sure exports can be written to dir
func (c *Checker) checkOutputDir(dir string) FileCheckResult {
	result := FileCheckResult{
		Path:        dir,
		Description: "export output directory",
	}
	if dir == "" {
		result.Error = fmt.Errorf("export.output_dir is empty")
		printFileError(result)
		return result
	}

	if fileExists(dir) {
		result.Exists = true
	} else {
		if err := os.MkdirAll(dir, 0755); err != nil {
			result.Error = fmt.Errorf("failed to create directory %s: %w", dir, err)
			printFileError(result)
			return result
		}
		result.Exists = true
		result.Created = true
	}

	probe, err := os.CreateTemp(dir, ".evalreport-probe-*")
	if err != nil {
		result.Error = fmt.Errorf("directory %s is not writable: %w", dir, err)
		printFileError(result)
		return result
	}
	probe.Close()
	os.Remove(probe.Name())

	printFileStatus(dir, true, result.Created)
	return result
}

// printFileStatus prints the status of a file check
func printFileStatus(path string, exists bool, created bool) {
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	switch {
	case exists && created:
		green.Printf("  ✓ %s (created)\n", path)
	case exists:
		green.Printf("  ✓ %s\n", path)
	default:
		yellow.Printf("  ⚠ %s does not exist\n", path)
	}
}

func printFileError(result FileCheckResult) {
	color.New(color.FgRed).Printf("  ✗ %s: %v\n", filepath.Clean(result.Path), result.Error)
}

// printFileCreated prints a message when a file is created
func printFileCreated(path string) {
	green := color.New(color.FgGreen)
	green.Printf("  ✓ Created %s\n", path)
}
