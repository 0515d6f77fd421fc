package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/evalplatform/evalreport/pkg/errors"
	"github.com/evalplatform/evalreport/pkg/logger"
)

// Validate checks the configuration and returns every problem found in a
// single ErrCodeConfigInvalid error.
func (c *Config) Validate() *errors.AppError {
	var problems []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.MaxBodyMB < 0 {
		problems = append(problems, "server.max_body_mb must not be negative")
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		problems = append(problems, "database.path is required")
	}
	if c.Logging.Level != "" && !logger.ValidLevel(c.Logging.Level) {
		problems = append(problems, fmt.Sprintf("logging.level %q is not a known level", c.Logging.Level))
	}
	if f := c.Logging.Format; f != "" && f != "text" && f != "json" {
		problems = append(problems, fmt.Sprintf("logging.format %q must be text or json", f))
	}
	if _, err := ParseLocale(c.Export.Locale); err != nil {
		problems = append(problems, "export.locale: "+err.Error())
	}
	if c.Export.ChartJSURL != "" {
		if u, err := url.Parse(c.Export.ChartJSURL); err != nil || u.Scheme == "" || u.Host == "" {
			problems = append(problems, fmt.Sprintf("export.chart_js_url %q is not an absolute URL", c.Export.ChartJSURL))
		}
	}
	if c.Export.PDF.PaperWidth < 0 || c.Export.PDF.PaperHeight < 0 {
		problems = append(problems, "export.pdf paper size must not be negative")
	}
	if c.Retention.Enabled {
		if c.Retention.PurgeAfterDays <= 0 {
			problems = append(problems, "retention.purge_after_days must be positive")
		}
		if _, err := cron.ParseStandard(c.Retention.Schedule); err != nil {
			problems = append(problems, fmt.Sprintf("retention.schedule %q: %v", c.Retention.Schedule, err))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New(errors.ErrCodeConfigInvalid, "invalid configuration").WithDetails(problems)
}
