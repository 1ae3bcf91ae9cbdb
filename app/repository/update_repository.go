package repository

import (
	"gorm.io/gorm"

	"github.com/clientbridge/clientbridge/app/models"
)

type updateRepository struct {
	db *gorm.DB
}

// NewUpdateRepository creates a new update repository backed by GORM
func NewUpdateRepository(db *gorm.DB) UpdateRepository {
	return &updateRepository{db: db}
}

func (r *updateRepository) GetByID(id uint) (*models.PortalUpdate, error) {
	var update models.PortalUpdate
	if err := r.db.First(&update, id).Error; err != nil {
		return nil, err
	}
	return &update, nil
}

func (r *updateRepository) ListByPortal(portalID uint, offset, limit int) ([]models.PortalUpdate, error) {
	var updates []models.PortalUpdate
	err := r.db.
		Where("portal_id = ?", portalID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&updates).Error
	return updates, err
}

func (r *updateRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.PortalUpdate{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *updateRepository) CountByPortal(portalID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.PortalUpdate{}).Where("portal_id = ?", portalID).Count(&count).Error
	return count, err
}

// Delete removes an update together with its replies and detaches its files.
func (r *updateRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("update_id = ?", id).Delete(&models.UpdateReply{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.PortalFile{}).Where("update_id = ?", id).Update("update_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.PortalUpdate{}, id).Error
	})
}

func (r *updateRepository) GetReplyByID(id uint) (*models.UpdateReply, error) {
	var reply models.UpdateReply
	if err := r.db.First(&reply, id).Error; err != nil {
		return nil, err
	}
	return &reply, nil
}

func (r *updateRepository) CountRepliesByUpdate(updateID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.UpdateReply{}).Where("update_id = ?", updateID).Count(&count).Error
	return count, err
}
