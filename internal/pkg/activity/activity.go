package activity

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/clientbridge/clientbridge/app/models"
)

// Record appends one activity row inside the caller's transaction. The log
// is append-only: nothing in the application updates or deletes rows except
// the portal-delete cascade.
func Record(tx *gorm.DB, portalID, actorID uint, activityType string, meta map[string]any) error {
	metaJSON := ""
	if len(meta) > 0 {
		b, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("marshal activity meta: %w", err)
		}
		metaJSON = string(b)
	}

	row := models.Activity{
		PortalID: portalID,
		UserID:   actorID,
		Type:     activityType,
		Meta:     metaJSON,
	}
	if err := tx.Create(&row).Error; err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}
