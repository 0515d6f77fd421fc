// Package consts defines cross-module constants used throughout the application.
package consts

import (
	"sync"
	"time"
)

// ServiceName is the application service name
const ServiceName = "evalreport"

// Project information constants
const (
	// ProjectName is the display name used in generated documents
	ProjectName = "EvalPlatform"

	// ProjectURL is the repository URL
	ProjectURL = "https://github.com/evalplatform/evalreport"
)

// Export defaults
const (
	// ChartJSURL is the CDN script the exported document loads at open time
	ChartJSURL = "https://cdn.jsdelivr.net/npm/chart.js@4"

	// DefaultLocale is the locale used for dates and number grouping
	DefaultLocale = "es-MX"

	// HTMLContentType is the MIME type of exported HTML documents
	HTMLContentType = "text/html; charset=utf-8"

	// PDFContentType is the MIME type of exported PDF documents
	PDFContentType = "application/pdf"
)

// Build information - set via ldflags during build or programmatically
var (
	// Version is the application version
	Version = "dev"

	// BuildTime is the build timestamp
	BuildTime = "unknown"

	// GitCommit is the git commit hash
	GitCommit = "unknown"
)

// Server runtime information
var (
	startedAt   time.Time
	startedOnce sync.Once
)

// SetStartedAt records the server start time (can only be called once)
func SetStartedAt(t time.Time) {
	startedOnce.Do(func() {
		startedAt = t
	})
}

// GetStartedAt returns the server start time
func GetStartedAt() time.Time {
	return startedAt
}

// GetUptime returns the duration since server started
func GetUptime() time.Duration {
	if startedAt.IsZero() {
		return 0
	}
	return time.Since(startedAt)
}
