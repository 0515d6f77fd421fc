package check

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evalplatform/evalreport/internal/config"
)

func always(answer bool) ConfirmFunc {
	return func(string) (bool, error) { return answer, nil }
}

func noBrowser(string) (string, error) {
	return "", stderrors.New("not found")
}

func newTestChecker(t *testing.T, answer bool) (*Checker, string) {
	t.Helper()
	t.Setenv("CHROME_PATH", "")
	path := filepath.Join(t.TempDir(), "config", "evalreport.yaml")
	c := NewChecker(path).WithConfirm(always(answer))
	c.lookPath = noBrowser
	return c, path
}

func TestNewChecker(t *testing.T) {
	c := NewChecker("")
	assert.Equal(t, config.DefaultPath, c.ConfigPath())
	assert.NotNil(t, c.Report())
}

func TestInitConfig(t *testing.T) {
	t.Run("creates missing file", func(t *testing.T) {
		c, path := newTestChecker(t, false)

		written, err := c.InitConfig(false)
		require.NoError(t, err)
		assert.True(t, written)

		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Nil(t, cfg.Validate())
	})

	t.Run("declined overwrite keeps file", func(t *testing.T) {
		c, path := newTestChecker(t, false)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9999\n"), 0644))

		written, err := c.InitConfig(false)
		require.NoError(t, err)
		assert.False(t, written)

		data, _ := os.ReadFile(path)
		assert.Contains(t, string(data), "9999")
	})

	t.Run("confirmed overwrite", func(t *testing.T) {
		c, path := newTestChecker(t, true)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9999\n"), 0644))

		written, err := c.InitConfig(false)
		require.NoError(t, err)
		assert.True(t, written)

		data, _ := os.ReadFile(path)
		assert.NotContains(t, string(data), "9999")
	})

	t.Run("force skips prompt", func(t *testing.T) {
		c, path := newTestChecker(t, false)
		c.WithConfirm(func(string) (bool, error) {
			t.Fatal("prompt should not be shown")
			return false, nil
		})
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x: 1\n"), 0644))

		written, err := c.InitConfig(true)
		require.NoError(t, err)
		assert.True(t, written)
	})

	t.Run("prompt failure", func(t *testing.T) {
		c, path := newTestChecker(t, false)
		c.WithConfirm(func(string) (bool, error) { return false, stderrors.New("no tty") })
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x: 1\n"), 0644))

		_, err := c.InitConfig(false)
		assert.Error(t, err)
	})
}

func TestRunNonInteractive(t *testing.T) {
	t.Run("missing config uses defaults", func(t *testing.T) {
		c, _ := newTestChecker(t, false)

		result := c.RunNonInteractive()
		assert.True(t, result.Success)
		assert.False(t, result.ConfigInvalid)
		require.Len(t, result.Warnings, 2)
		assert.Contains(t, result.Warnings[0], "using defaults")
		assert.Contains(t, result.Warnings[1], "PDF export unavailable")
	})

	t.Run("invalid config", func(t *testing.T) {
		c, path := newTestChecker(t, false)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 70000\nexport:\n  locale: \"!!\"\n"), 0644))

		result := c.RunNonInteractive()
		assert.False(t, result.Success)
		assert.True(t, result.ConfigInvalid)
		joined := strings.Join(result.Errors, "\n")
		assert.Contains(t, joined, "server.port 70000 out of range")
		assert.Contains(t, joined, "export.locale")
	})

	t.Run("unparseable config", func(t *testing.T) {
		c, path := newTestChecker(t, false)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("server: [\n"), 0644))

		result := c.RunNonInteractive()
		assert.False(t, result.Success)
		assert.False(t, result.ConfigInvalid)
	})

	t.Run("browser found", func(t *testing.T) {
		c, path := newTestChecker(t, false)
		require.NoError(t, config.Write(path, config.Default()))
		c.lookPath = func(name string) (string, error) {
			if name == "chromium" {
				return "/usr/bin/chromium", nil
			}
			return "", stderrors.New("not found")
		}

		result := c.RunNonInteractive()
		assert.True(t, result.Success)
		assert.Empty(t, result.Warnings)
	})
}

func TestFindChrome(t *testing.T) {
	c, _ := newTestChecker(t, false)
	var asked []string
	c.lookPath = func(name string) (string, error) {
		asked = append(asked, name)
		if name == "/opt/chrome/chrome" {
			return name, nil
		}
		return "", stderrors.New("not found")
	}

	result := c.findChrome("/opt/chrome/chrome")
	assert.True(t, result.Valid)
	assert.Equal(t, "/opt/chrome/chrome", result.Detail)
	assert.Equal(t, []string{"/opt/chrome/chrome"}, asked)

	result = c.findChrome("/missing/chrome")
	assert.False(t, result.Valid)
	assert.Contains(t, result.Error.Error(), "/missing/chrome")

	t.Setenv("CHROME_PATH", "/opt/chrome/chrome")
	result = c.findChrome("")
	assert.True(t, result.Valid)
}

func TestRun(t *testing.T) {
	c, path := newTestChecker(t, true)
	cfg := config.Default()
	cfg.Export.OutputDir = filepath.Join(t.TempDir(), "out")
	require.NoError(t, config.Write(path, cfg))

	require.NoError(t, c.Run())
	assert.True(t, fileExists(cfg.Export.OutputDir))

	summary := c.Report().calculateSummary()
	assert.Equal(t, 2, summary.FilesExist)
	assert.Equal(t, 1, summary.FilesCreated)
	// config valid, browser missing
	assert.Equal(t, 1, summary.ValidationsValid)
	assert.Equal(t, 1, summary.ValidationErrors)
	assert.True(t, summary.HasErrors)
}

func TestRun_InvalidConfig(t *testing.T) {
	c, path := newTestChecker(t, true)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0644))

	assert.Error(t, c.Run())
}

func TestCheckOutputDir(t *testing.T) {
	c, _ := newTestChecker(t, false)
	dir := filepath.Join(t.TempDir(), "out", "nested")

	result := c.checkOutputDir(dir)
	assert.NoError(t, result.Error)
	assert.True(t, result.Created)

	result = c.checkOutputDir(dir)
	assert.NoError(t, result.Error)
	assert.False(t, result.Created)
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)

	result = c.checkOutputDir("")
	assert.Error(t, result.Error)
}

func TestReportSummary(t *testing.T) {
	report := NewReport()
	report.AddFileResult(FileCheckResult{Path: "a.yaml", Exists: true})
	report.AddFileResult(FileCheckResult{Path: "b.yaml", Exists: false})
	report.AddFileResult(FileCheckResult{Path: "c.yaml", Created: true, Exists: true})
	report.AddValidationResult(ValidationResult{Path: "a.yaml", Valid: true, Warnings: []string{"w"}})
	report.AddValidationResult(ValidationResult{Path: "b.yaml", Valid: false})

	summary := report.calculateSummary()
	assert.Equal(t, 3, summary.TotalFiles)
	assert.Equal(t, 2, summary.FilesExist)
	assert.Equal(t, 1, summary.FilesCreated)
	assert.Equal(t, 1, summary.FilesMissing)
	assert.Equal(t, 2, summary.TotalValidations)
	assert.Equal(t, 1, summary.ValidationsValid)
	assert.Equal(t, 1, summary.ValidationErrors)
	assert.False(t, summary.HasErrors)
	assert.True(t, summary.HasWarnings)

	line := report.summaryLine(summary)
	assert.Contains(t, line, "1 created")
	assert.Contains(t, line, "1 missing")
	assert.Contains(t, line, "1 failed check(s)")

	assert.Contains(t, NewReport().summaryLine(ReportSummary{}), "All checks passed")
}
