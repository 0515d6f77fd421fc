package database

import "gorm.io/gorm"

// Driver abstracts the relational backend. Only SQLite is implemented.
type Driver interface {
	// Name returns the driver name (e.g., "sqlite")
	Name() string

	// Open returns a GORM dialector for dsn
	Open(dsn string) (gorm.Dialector, error)

	// PreMigrationConfig applies connection settings before migration.
	// Foreign keys must stay off here.
	PreMigrationConfig(db *gorm.DB) error

	// PostMigrationConfig applies settings that need the final schema
	PostMigrationConfig(db *gorm.DB) error
}
