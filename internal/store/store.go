// Package store provides the data access layer for saved reports.
// It keeps GORM queries out of handlers and services.
package store

import "gorm.io/gorm"

// Store aggregates all data store interfaces.
type Store interface {
	SavedReport() SavedReportStore

	// DB returns the underlying database connection for advanced operations.
	// Use sparingly - prefer using specific store methods.
	DB() *gorm.DB

	// Transaction executes operations within a database transaction.
	Transaction(fn func(Store) error) error
}

// gormStore implements Store interface using GORM.
type gormStore struct {
	db               *gorm.DB
	savedReportStore SavedReportStore
}

// NewStore creates a new Store instance with GORM backend.
func NewStore(db *gorm.DB) Store {
	return &gormStore{
		db:               db,
		savedReportStore: newSavedReportStore(db),
	}
}

func (s *gormStore) SavedReport() SavedReportStore {
	return s.savedReportStore
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) Transaction(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
