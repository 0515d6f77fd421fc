package store

import (
	"time"

	"gorm.io/gorm"

	"github.com/evalplatform/evalreport/internal/model"
	"github.com/evalplatform/evalreport/pkg/idgen"
)

// Default and maximum page sizes for List
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// ListFilter narrows a saved report listing. Zero fields match everything.
type ListFilter struct {
	UserID string
	Kind   model.Kind
	Limit  int
	Offset int
}

// SavedReportStore defines operations on saved reports.
// Lookups of missing rows return gorm.ErrRecordNotFound.
type SavedReportStore interface {
	Create(report *model.SavedReport) error
	GetByID(id string) (*model.SavedReport, error)
	List(filter ListFilter) ([]model.SavedReport, int64, error)
	UpdateTitle(id, title string) error
	Delete(id string) error
	CountAll() (int64, error)

	// PurgeDeletedBefore hard-deletes reports soft-deleted before cutoff
	PurgeDeletedBefore(cutoff time.Time) (int64, error)
}

// savedReportStore implements SavedReportStore using GORM.
type savedReportStore struct {
	db *gorm.DB
}

func newSavedReportStore(db *gorm.DB) SavedReportStore {
	return &savedReportStore{db: db}
}

func (s *savedReportStore) Create(report *model.SavedReport) error {
	if report.ID == "" {
		report.ID = idgen.NewReportID()
	}
	return s.db.Create(report).Error
}

func (s *savedReportStore) GetByID(id string) (*model.SavedReport, error) {
	var report model.SavedReport
	if err := s.db.First(&report, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// List returns reports newest first without their results payload
func (s *savedReportStore) List(filter ListFilter) ([]model.SavedReport, int64, error) {
	var (
		reports []model.SavedReport
		total   int64
	)

	query := s.db.Model(&model.SavedReport{})
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	limit = min(limit, MaxListLimit)
	offset := max(filter.Offset, 0)

	err := query.Omit("results").
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&reports).Error
	return reports, total, err
}

func (s *savedReportStore) UpdateTitle(id, title string) error {
	result := s.db.Model(&model.SavedReport{}).Where("id = ?", id).Update("title", title)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete soft-deletes a report
func (s *savedReportStore) Delete(id string) error {
	result := s.db.Delete(&model.SavedReport{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *savedReportStore) CountAll() (int64, error) {
	var count int64
	err := s.db.Model(&model.SavedReport{}).Count(&count).Error
	return count, err
}

func (s *savedReportStore) PurgeDeletedBefore(cutoff time.Time) (int64, error) {
	result := s.db.Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Delete(&model.SavedReport{})
	return result.RowsAffected, result.Error
}
