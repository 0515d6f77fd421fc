package check

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

// Report collects and displays check results
type Report struct {
	FileResults       []FileCheckResult
	ValidationResults []ValidationResult
}

// NewReport creates a new report
func NewReport() *Report {
	return &Report{
		FileResults:       make([]FileCheckResult, 0),
		ValidationResults: make([]ValidationResult, 0),
	}
}

// AddFileResult adds a file check result
func (r *Report) AddFileResult(result FileCheckResult) {
	r.FileResults = append(r.FileResults, result)
}

// AddValidationResult adds a validation result
func (r *Report) AddValidationResult(result ValidationResult) {
	r.ValidationResults = append(r.ValidationResults, result)
}

// ReportSummary holds the summary statistics
type ReportSummary struct {
	TotalFiles       int
	FilesExist       int
	FilesCreated     int
	FilesMissing     int
	TotalValidations int
	ValidationsValid int
	ValidationErrors int
	HasErrors        bool
	HasWarnings      bool
}

func (r *Report) calculateSummary() ReportSummary {
	summary := ReportSummary{TotalFiles: len(r.FileResults)}

	for _, result := range r.FileResults {
		switch {
		case result.Created:
			summary.FilesCreated++
			summary.FilesExist++
		case result.Exists:
			summary.FilesExist++
		default:
			summary.FilesMissing++
		}
		if result.Error != nil {
			summary.HasErrors = true
		}
	}

	summary.TotalValidations = len(r.ValidationResults)
	for _, result := range r.ValidationResults {
		if result.Valid {
			summary.ValidationsValid++
		} else {
			summary.ValidationErrors++
			if result.Error != nil {
				summary.HasErrors = true
			}
		}
		if len(result.Warnings) > 0 {
			summary.HasWarnings = true
		}
	}
	return summary
}

// Print prints the final summary line
func (r *Report) Print() {
	separator := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	fmt.Println(separator.Render(strings.Repeat("─", 50)))
	fmt.Println(r.summaryLine(r.calculateSummary()))
}

func (r *Report) summaryLine(summary ReportSummary) string {
	green := color.New(color.FgGreen, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)
	red := color.New(color.FgRed, color.Bold)

	var status string
	switch {
	case summary.HasErrors:
		status = red.Sprint("✗ Check completed")
	case summary.HasWarnings || summary.FilesMissing > 0:
		status = yellow.Sprint("⚠ Check completed")
	default:
		status = green.Sprint("✓ Check completed")
	}

	var details []string
	if summary.FilesCreated > 0 {
		details = append(details, fmt.Sprintf("%d created", summary.FilesCreated))
	}
	if summary.FilesMissing > 0 {
		details = append(details, fmt.Sprintf("%d missing", summary.FilesMissing))
	}
	if summary.ValidationErrors > 0 {
		details = append(details, fmt.Sprintf("%d failed check(s)", summary.ValidationErrors))
	}

	if len(details) == 0 {
		return status + " - All checks passed"
	}
	return fmt.Sprintf("%s (%s)", status, strings.Join(details, ", "))
}
