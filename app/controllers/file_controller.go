package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clientbridge/clientbridge/app/models"
	"github.com/clientbridge/clientbridge/app/repository"
	"github.com/clientbridge/clientbridge/internal/pkg/activity"
	"github.com/clientbridge/clientbridge/internal/pkg/database"
	"github.com/clientbridge/clientbridge/internal/pkg/entitlements"
	"github.com/clientbridge/clientbridge/internal/pkg/notify"
)

// FileController registers file metadata inside a portal. Byte transfer
// happens against the storage backend directly; this endpoint records the
// row and enforces the plan limits.
type FileController struct {
	engine   *entitlements.Engine
	notifier *notify.Engine
}

func NewFileController(engine *entitlements.Engine, notifier *notify.Engine) *FileController {
	return &FileController{engine: engine, notifier: notifier}
}

type createFileRequest struct {
	FileName  string `json:"fileName"`
	SizeBytes int64  `json:"sizeBytes"`
	MimeType  string `json:"mimeType"`
	UpdateID  uint   `json:"updateId"`
}

// HandleCreate registers an uploaded file. All limits resolve through the
// portal owner's plan; the uploader's own single-file cap applies only when
// the uploader is the owner, since clients bring no subscription of their own.
func (fc *FileController) HandleCreate(c *fiber.Ctx) error {
	userCtx, ok := requireUser(c)
	if !ok {
		return nil
	}

	portal, ok := loadParticipantPortal(c, userCtx.UserID)
	if !ok {
		return nil
	}

	var req createFileRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	req.FileName = strings.TrimSpace(req.FileName)
	if req.FileName == "" || req.SizeBytes <= 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "fileName and a positive sizeBytes are required")
	}

	repos := repository.GetGlobalRepositories()

	var updateID *uint
	if req.UpdateID != 0 {
		update, err := repos.Update.GetByID(req.UpdateID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return jsonError(c, fiber.StatusBadRequest, "bad_request", "updateId does not exist")
			}
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load update")
		}
		if update.PortalID != portal.ID {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", "updateId belongs to a different portal")
		}
		updateID = &update.ID
	}

	if userCtx.UserID == portal.CreatedBy {
		res, err := fc.engine.CanUploadFiles(userCtx.UserID, req.SizeBytes)
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Entitlement check failed")
		}
		if !res.Allowed {
			return entitlementDenied(c, res)
		}
	}
	res, err := fc.engine.CanUploadFilesToPortal(userCtx.UserID, req.SizeBytes, portal.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Entitlement check failed")
	}
	if !res.Allowed {
		return entitlementDenied(c, res)
	}

	file := models.PortalFile{
		PortalID:   portal.ID,
		UpdateID:   updateID,
		UploadedBy: userCtx.UserID,
		FileName:   req.FileName,
		StorageKey: uuid.New().String(),
		SizeBytes:  req.SizeBytes,
		MimeType:   req.MimeType,
	}
	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&file).Error; err != nil {
			return err
		}
		meta := map[string]any{"file_name": file.FileName}
		if updateID != nil {
			meta["update_id"] = *updateID
		}
		if err := activity.Record(tx, portal.ID, userCtx.UserID, models.ActivityFileUploaded, meta); err != nil {
			return err
		}
		return fc.notifier.Record(tx, portal.ID, userCtx.UserID, models.ActivityFileUploaded, meta)
	})
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to register file")
	}

	return c.Status(fiber.StatusCreated).JSON(file)
}

// HandleList returns the files of a portal.
func (fc *FileController) HandleList(c *fiber.Ctx) error {
	userCtx, ok := requireUser(c)
	if !ok {
		return nil
	}

	portal, ok := loadParticipantPortal(c, userCtx.UserID)
	if !ok {
		return nil
	}

	files, err := repository.GetGlobalRepositories().File.ListByPortal(portal.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load files")
	}
	return c.JSON(fiber.Map{"files": files})
}

// HandleDelete removes a file row. Uploader or portal owner only.
func (fc *FileController) HandleDelete(c *fiber.Ctx) error {
	userCtx, ok := requireUser(c)
	if !ok {
		return nil
	}

	portal, ok := loadParticipantPortal(c, userCtx.UserID)
	if !ok {
		return nil
	}

	fileID, err := c.ParamsInt("id")
	if err != nil || fileID < 1 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid file id")
	}

	repos := repository.GetGlobalRepositories()
	file, err := repos.File.GetByID(uint(fileID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "File not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load file")
	}
	if file.PortalID != portal.ID {
		return jsonError(c, fiber.StatusNotFound, "not_found", "File not found")
	}
	if file.UploadedBy != userCtx.UserID && portal.CreatedBy != userCtx.UserID {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "Only the uploader or the portal owner may delete a file")
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := repository.NewFileRepository(tx).Delete(file.ID); err != nil {
			return err
		}
		meta := map[string]any{"file_name": file.FileName}
		return activity.Record(tx, portal.ID, userCtx.UserID, models.ActivityFileDeleted, meta)
	})
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete file")
	}

	return c.JSON(fiber.Map{"success": true})
}
