package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/evalplatform/evalreport/internal/model"
	"github.com/evalplatform/evalreport/pkg/logger"
)

// backfillReportKinds tags rows imported without a kind. The schema is
// inferred once from the stored results and the row is marked as untagged
// input. The migration is idempotent.
func backfillReportKinds(conn *gorm.DB) (int, error) {
	var rows []model.SavedReport
	err := conn.Unscoped().
		Where("kind = ? OR kind IS NULL", "").
		Find(&rows).Error
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	fixed := 0
	for i := range rows {
		doc, err := rows[i].Document()
		if err != nil {
			logger.Warn("Skipping unreadable saved report",
				zap.String(logger.FieldReportID, rows[i].ID),
				zap.Error(err),
			)
			continue
		}
		err = conn.Unscoped().Model(&model.SavedReport{}).
			Where("id = ?", rows[i].ID).
			Updates(map[string]any{
				"kind":           doc.Kind,
				"schema_version": model.SchemaVersionUntagged,
			}).Error
		if err != nil {
			return fixed, err
		}
		fixed++
	}

	logger.Info("Backfilled saved report kinds", zap.Int("rows", fixed))
	return fixed, nil
}
