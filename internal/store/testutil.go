package store

import (
	"path/filepath"
	"testing"

	"github.com/evalplatform/evalreport/internal/database"
	"github.com/evalplatform/evalreport/internal/model"
)

// SetupTestDB initializes a temp-file SQLite database for tests.
// It returns a Store instance and a cleanup function.
func SetupTestDB(t *testing.T) (Store, func()) {
	t.Helper()
	database.ResetForTesting()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	if err := database.InitWithPath(dbPath); err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}

	cleanup := func() {
		database.Close()
		database.ResetForTesting()
	}
	return NewStore(database.Get()), cleanup
}

// CreateTestReport saves a small legacy report. Fields can be overridden
// by passing functions that modify the report before it is stored.
func CreateTestReport(t *testing.T, s Store, overrides ...func(*model.SavedReport)) *model.SavedReport {
	t.Helper()

	doc := model.NewLegacyDocument(&model.ExportData{
		General: model.GroupData{
			Summary:   model.Summary{TotalResponses: 3, ValidResponses: 3},
			Sentiment: model.Sentiment{Positivo: 2, Neutro: 1},
		},
		Config: model.ReportConfig{File: "Evaluaciones_2024.xlsx"},
	})
	report, err := model.NewSavedReport("", "user-1", doc)
	if err != nil {
		t.Fatalf("Failed to build test report: %v", err)
	}

	for _, override := range overrides {
		override(report)
	}

	if err := s.SavedReport().Create(report); err != nil {
		t.Fatalf("Failed to create test report: %v", err)
	}
	return report
}
