// Package handler provides mock store implementations for testing.
package handler

import (
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/evalplatform/evalreport/internal/model"
	"github.com/evalplatform/evalreport/internal/store"
	"github.com/evalplatform/evalreport/pkg/idgen"
)

// MockSavedReportStore provides an in-memory SavedReportStore for testing.
// Setting Err makes every call fail with it.
type MockSavedReportStore struct {
	mu      sync.RWMutex
	reports map[string]*model.SavedReport
	deleted map[string]time.Time
	Err     error
}

// NewMockSavedReportStore creates a new mock saved-report store.
func NewMockSavedReportStore() *MockSavedReportStore {
	return &MockSavedReportStore{
		reports: make(map[string]*model.SavedReport),
		deleted: make(map[string]time.Time),
	}
}

func (m *MockSavedReportStore) Create(report *model.SavedReport) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if report.ID == "" {
		report.ID = idgen.NewReportID()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}
	m.reports[report.ID] = report
	return nil
}

func (m *MockSavedReportStore) GetByID(id string) (*model.SavedReport, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	report, ok := m.reports[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return report, nil
}

func (m *MockSavedReportStore) List(filter store.ListFilter) ([]model.SavedReport, int64, error) {
	if m.Err != nil {
		return nil, 0, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []model.SavedReport
	for _, r := range m.reports {
		if filter.UserID != "" && r.UserID != filter.UserID {
			continue
		}
		if filter.Kind != "" && r.Kind != filter.Kind {
			continue
		}
		matched = append(matched, *r)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	limit := filter.Limit
	if limit <= 0 {
		limit = store.DefaultListLimit
	}
	start := min(max(filter.Offset, 0), len(matched))
	end := min(start+limit, len(matched))
	return matched[start:end], total, nil
}

func (m *MockSavedReportStore) UpdateTitle(id, title string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	report, ok := m.reports[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	report.Title = title
	return nil
}

func (m *MockSavedReportStore) Delete(id string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reports[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.reports, id)
	m.deleted[id] = time.Now()
	return nil
}

func (m *MockSavedReportStore) CountAll() (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.reports)), nil
}

func (m *MockSavedReportStore) PurgeDeletedBefore(cutoff time.Time) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var purged int64
	for id, at := range m.deleted {
		if at.Before(cutoff) {
			delete(m.deleted, id)
			purged++
		}
	}
	return purged, nil
}
