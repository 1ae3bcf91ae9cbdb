package repository

import (
	"gorm.io/gorm"

	"github.com/clientbridge/clientbridge/app/models"
)

type fileRepository struct {
	db *gorm.DB
}

// NewFileRepository creates a new file metadata repository backed by GORM
func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) GetByID(id uint) (*models.PortalFile, error) {
	var file models.PortalFile
	if err := r.db.First(&file, id).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *fileRepository) ListByPortal(portalID uint) ([]models.PortalFile, error) {
	var files []models.PortalFile
	err := r.db.Where("portal_id = ?", portalID).Order("created_at DESC").Find(&files).Error
	return files, err
}

func (r *fileRepository) CountByPortal(portalID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.PortalFile{}).Where("portal_id = ?", portalID).Count(&count).Error
	return count, err
}

// StorageBytesByOwner sums file sizes across every portal the user owns.
// Computed live on each entitlement check, never cached.
func (r *fileRepository) StorageBytesByOwner(userID uint) (int64, error) {
	var used int64
	err := r.db.Model(&models.PortalFile{}).
		Joins("JOIN portals ON portals.id = portal_files.portal_id").
		Where("portals.created_by = ? AND portals.deleted_at IS NULL", userID).
		Select("COALESCE(SUM(portal_files.size_bytes), 0)").
		Row().Scan(&used)
	return used, err
}

func (r *fileRepository) Delete(id uint) error {
	return r.db.Delete(&models.PortalFile{}, id).Error
}
