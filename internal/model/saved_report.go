package model

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/evalplatform/evalreport/pkg/errors"
)

// SavedReport is a persisted analysis that can be re-exported later
type SavedReport struct {
	ID        string         `gorm:"primarykey;size:20" json:"id"` // xid
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID        string `gorm:"size:64;index" json:"user_id"`
	Title         string `gorm:"size:512;not null" json:"title"`
	Kind          Kind   `gorm:"size:16;not null;index" json:"kind"`
	SchemaVersion int    `gorm:"not null;default:2" json:"schema_version"`
	SourceFile    string `gorm:"size:512" json:"source_file"`

	Config    JSON   `gorm:"type:text" json:"config"`
	Results   JSON   `gorm:"type:text" json:"results"`
	AISummary string `gorm:"type:text" json:"ai_summary,omitempty"`
}

// TableName pins the table name
func (SavedReport) TableName() string {
	return "saved_reports"
}

// legacyResults and multiResults are the stored shapes of Results
type legacyResults struct {
	General GroupData            `json:"general"`
	ByGroup map[string]GroupData `json:"by_group"`
}

type multiResults struct {
	Questions []QuestionResult `json:"questions"`
}

// NewSavedReport splits a document into the stored columns.
// The ID is left for the store to assign.
func NewSavedReport(title, userID string, doc *Document) (*SavedReport, error) {
	if doc == nil || !doc.Kind.Valid() {
		return nil, errors.New(errors.ErrCodeUnknownSchema, "report document has no valid kind")
	}

	var results any
	switch doc.Kind {
	case KindLegacy:
		if doc.Legacy == nil {
			return nil, errors.ErrValidation("legacy document has no data")
		}
		results = legacyResults{General: doc.Legacy.General, ByGroup: doc.Legacy.ByGroup}
	case KindMulti:
		if doc.Multi == nil {
			return nil, errors.ErrValidation("multi document has no data")
		}
		results = multiResults{Questions: doc.Multi.Questions}
	}

	cfg := doc.Config()
	configJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report config: %w", err)
	}
	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report results: %w", err)
	}

	if title == "" {
		title = cfg.SourceFile()
	}

	return &SavedReport{
		UserID:        userID,
		Title:         title,
		Kind:          doc.Kind,
		SchemaVersion: SchemaVersionCurrent,
		SourceFile:    cfg.SourceFile(),
		Config:        configJSON,
		Results:       resultsJSON,
		AISummary:     doc.AISummary(),
	}, nil
}

// Document rebuilds the tagged document from the stored columns
func (r *SavedReport) Document() (*Document, error) {
	var cfg ReportConfig
	if len(r.Config) > 0 {
		if err := json.Unmarshal(r.Config, &cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeValidation, "stored report config is corrupt", err)
		}
	}

	kind := r.Kind
	if kind == "" {
		// Rows written before the kind column existed
		kind = KindLegacy
		var probe shapeProbe
		if json.Unmarshal(r.Results, &probe) == nil && jsonKind(probe.Questions) == '[' {
			kind = KindMulti
		}
	}

	switch kind {
	case KindLegacy:
		var res legacyResults
		if err := json.Unmarshal(r.Results, &res); err != nil {
			return nil, errors.Wrap(errors.ErrCodeValidation, "stored report results are corrupt", err)
		}
		return &Document{
			Kind:          KindLegacy,
			SchemaVersion: r.schemaVersion(),
			Legacy: &ExportData{
				General:   res.General,
				ByGroup:   res.ByGroup,
				Config:    cfg,
				AISummary: r.AISummary,
			},
		}, nil
	case KindMulti:
		var res multiResults
		if err := json.Unmarshal(r.Results, &res); err != nil {
			return nil, errors.Wrap(errors.ErrCodeValidation, "stored report results are corrupt", err)
		}
		return &Document{
			Kind:          KindMulti,
			SchemaVersion: r.schemaVersion(),
			Multi: &MultiExportData{
				Questions: res.Questions,
				Config:    cfg,
				AISummary: r.AISummary,
			},
		}, nil
	}
	return nil, errors.New(errors.ErrCodeUnknownSchema, fmt.Sprintf("unknown report kind %q", kind))
}

func (r *SavedReport) schemaVersion() int {
	if r.SchemaVersion == 0 {
		return SchemaVersionUntagged
	}
	return r.SchemaVersion
}
