package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/clientbridge/clientbridge/app/models"
	"github.com/clientbridge/clientbridge/app/repository"
	"github.com/clientbridge/clientbridge/internal/pkg/activity"
	"github.com/clientbridge/clientbridge/internal/pkg/database"
	"github.com/clientbridge/clientbridge/internal/pkg/entitlements"
	"github.com/clientbridge/clientbridge/internal/pkg/notify"
)

// UpdateController handles progress updates inside a portal.
type UpdateController struct {
	engine   *entitlements.Engine
	notifier *notify.Engine
}

func NewUpdateController(engine *entitlements.Engine, notifier *notify.Engine) *UpdateController {
	return &UpdateController{engine: engine, notifier: notifier}
}

type createUpdateRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// HandleCreate posts an update into a portal. Gated by the portal owner's
// update limit regardless of who posts.
func (uc *UpdateController) HandleCreate(c *fiber.Ctx) error {
	userCtx, ok := requireUser(c)
	if !ok {
		return nil
	}

	portal, ok := loadParticipantPortal(c, userCtx.UserID)
	if !ok {
		return nil
	}

	var req createUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "title is required")
	}

	res, err := uc.engine.CanAddUpdate(userCtx.UserID, portal.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Entitlement check failed")
	}
	if !res.Allowed {
		return entitlementDenied(c, res)
	}

	update := models.PortalUpdate{
		PortalID: portal.ID,
		UserID:   userCtx.UserID,
		Title:    req.Title,
		Body:     req.Body,
	}
	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&update).Error; err != nil {
			return err
		}
		meta := map[string]any{"update_id": update.ID, "update_title": update.Title}
		if err := activity.Record(tx, portal.ID, userCtx.UserID, models.ActivityUpdateCreated, meta); err != nil {
			return err
		}
		return uc.notifier.Record(tx, portal.ID, userCtx.UserID, models.ActivityUpdateCreated, meta)
	})
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create update")
	}

	return c.Status(fiber.StatusCreated).JSON(update)
}

// HandleList returns the updates of a portal, newest first.
func (uc *UpdateController) HandleList(c *fiber.Ctx) error {
	userCtx, ok := requireUser(c)
	if !ok {
		return nil
	}

	portal, ok := loadParticipantPortal(c, userCtx.UserID)
	if !ok {
		return nil
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	updates, err := repository.GetGlobalRepositories().Update.ListByPortal(portal.ID, (page-1)*limit, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load updates")
	}
	return c.JSON(fiber.Map{"updates": updates, "page": page, "limit": limit})
}

// HandleDelete removes an update, its replies and the notifications that
// deep-link it. The background reconciler covers anything this inline
// cleanup misses.
func (uc *UpdateController) HandleDelete(c *fiber.Ctx) error {
	userCtx, ok := requireUser(c)
	if !ok {
		return nil
	}

	portal, ok := loadParticipantPortal(c, userCtx.UserID)
	if !ok {
		return nil
	}

	updateID, err := c.ParamsInt("id")
	if err != nil || updateID < 1 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid update id")
	}

	repos := repository.GetGlobalRepositories()
	update, err := repos.Update.GetByID(uint(updateID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Update not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load update")
	}
	if update.PortalID != portal.ID {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Update not found")
	}
	if update.UserID != userCtx.UserID && portal.CreatedBy != userCtx.UserID {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "Only the author or the portal owner may delete an update")
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := repository.NewUpdateRepository(tx).Delete(update.ID); err != nil {
			return err
		}
		if err := repository.NewNotificationRepository(tx).DeleteByUpdateLink(update.ID); err != nil {
			return err
		}
		meta := map[string]any{"update_id": update.ID, "update_title": update.Title}
		return activity.Record(tx, portal.ID, userCtx.UserID, models.ActivityUpdateDeleted, meta)
	})
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete update")
	}

	return c.JSON(fiber.Map{"success": true})
}

// loadParticipantPortal resolves :uuid and enforces participation. The second
// return is false when the response has already been written.
func loadParticipantPortal(c *fiber.Ctx, userID uint) (*models.Portal, bool) {
	portal, err := repository.GetGlobalRepositories().Portal.GetByUUID(c.Params("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = jsonError(c, fiber.StatusNotFound, "not_found", "Portal not found")
			return nil, false
		}
		_ = jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load portal")
		return nil, false
	}
	if !portal.IsParticipant(userID) {
		_ = jsonError(c, fiber.StatusForbidden, "forbidden", "Not a participant of this portal")
		return nil, false
	}
	return portal, true
}
