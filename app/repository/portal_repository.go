package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/clientbridge/clientbridge/app/models"
)

type portalRepository struct {
	db *gorm.DB
}

// NewPortalRepository creates a new portal repository backed by GORM
func NewPortalRepository(db *gorm.DB) PortalRepository {
	return &portalRepository{db: db}
}

func (r *portalRepository) Create(portal *models.Portal) error {
	return r.db.Create(portal).Error
}

func (r *portalRepository) GetByID(id uint) (*models.Portal, error) {
	var portal models.Portal
	if err := r.db.First(&portal, id).Error; err != nil {
		return nil, err
	}
	return &portal, nil
}

func (r *portalRepository) GetByUUID(uuid string) (*models.Portal, error) {
	var portal models.Portal
	if err := r.db.Where("uuid = ?", uuid).First(&portal).Error; err != nil {
		return nil, err
	}
	return &portal, nil
}

func (r *portalRepository) GetByParticipant(userID uint, offset, limit int) ([]models.Portal, error) {
	var portals []models.Portal
	err := r.db.
		Where("created_by = ? OR client_id = ?", userID, userID).
		Order("updated_at DESC").
		Offset(offset).Limit(limit).
		Find(&portals).Error
	return portals, err
}

func (r *portalRepository) Update(portal *models.Portal) error {
	return r.db.Save(portal).Error
}

// Delete removes a portal together with its dependent rows. Activities,
// notifications, updates, replies and file metadata are only ever removed
// through this cascade.
func (r *portalRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("portal_id = ?", id).Delete(&models.Activity{}).Error; err != nil {
			return err
		}
		if err := tx.Where("portal_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("portal_id = ?", id).Delete(&models.UpdateReply{}).Error; err != nil {
			return err
		}
		if err := tx.Where("portal_id = ?", id).Delete(&models.PortalUpdate{}).Error; err != nil {
			return err
		}
		if err := tx.Where("portal_id = ?", id).Delete(&models.PortalFile{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Portal{}, id).Error
	})
}

func (r *portalRepository) CountByOwner(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Portal{}).Where("created_by = ?", userID).Count(&count).Error
	return count, err
}

func (r *portalRepository) PortalOwner(portalID uint) (uint, error) {
	var portal models.Portal
	if err := r.db.Select("created_by").First(&portal, portalID).Error; err != nil {
		return 0, err
	}
	return portal.CreatedBy, nil
}

// ActiveDueOn returns active portals whose due date falls on the given day.
// Date precision only; the time component of due_date is ignored.
func (r *portalRepository) ActiveDueOn(date time.Time) ([]models.Portal, error) {
	var portals []models.Portal
	err := r.db.
		Where("status = ? AND due_date = ?", models.PortalStatusActive, date.Format("2006-01-02")).
		Find(&portals).Error
	return portals, err
}
