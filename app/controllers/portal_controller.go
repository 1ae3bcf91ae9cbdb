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

// PortalController handles the portal lifecycle. Every mutation writes its
// activity row and notification fan-out in the same transaction as the
// domain change.
type PortalController struct {
	engine   *entitlements.Engine
	notifier *notify.Engine
}

func NewPortalController(engine *entitlements.Engine, notifier *notify.Engine) *PortalController {
	return &PortalController{engine: engine, notifier: notifier}
}

type createPortalRequest struct {
	Name     string `json:"name"`
	ClientID uint   `json:"clientId"`
	DueDate  string `json:"dueDate"`
}

// HandleCreate creates a portal for the authenticated freelancer.
func (pc *PortalController) HandleCreate(c *fiber.Ctx) error {
	userCtx, ok := requireUser(c)
	if !ok {
		return nil
	}

	var req createPortalRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.ClientID == 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "name and clientId are required")
	}
	dueDate, err := parseDateField(req.DueDate)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "dueDate must be formatted yyyy-mm-dd")
	}

	repos := repository.GetGlobalRepositories()
	client, err := repos.User.GetByID(req.ClientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", "Client not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load client")
	}
	if client.ID == userCtx.UserID {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "A portal needs a client other than its owner")
	}

	res, err := pc.engine.CanCreatePortal(userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Entitlement check failed")
	}
	if !res.Allowed {
		return entitlementDenied(c, res)
	}

	portal := models.Portal{
		Name:      req.Name,
		CreatedBy: userCtx.UserID,
		ClientID:  client.ID,
		Status:    models.PortalStatusActive,
		DueDate:   dueDate,
	}
	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&portal).Error; err != nil {
			return err
		}
		meta := map[string]any{"portal_name": portal.Name}
		if err := activity.Record(tx, portal.ID, userCtx.UserID, models.ActivityPortalCreated, meta); err != nil {
			return err
		}
		return pc.notifier.Record(tx, portal.ID, userCtx.UserID, models.ActivityPortalCreated, meta)
	})
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create portal")
	}

	return c.Status(fiber.StatusCreated).JSON(portal)
}

type updatePortalRequest struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	DueDate string `json:"dueDate"`
}

// HandleUpdate changes portal settings. Owner only; the client is notified
// through the portal_update fan-out.
func (pc *PortalController) HandleUpdate(c *fiber.Ctx) error {
	userCtx, ok := requireUser(c)
	if !ok {
		return nil
	}

	portal, ok := pc.loadOwnedPortal(c, userCtx.UserID)
	if !ok {
		return nil
	}

	var req updatePortalRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	meta := map[string]any{"portal_name": portal.Name}
	if name := strings.TrimSpace(req.Name); name != "" {
		portal.Name = name
		meta["portal_name"] = name
	}
	if req.Status != "" {
		switch req.Status {
		case models.PortalStatusActive, models.PortalStatusArchived, models.PortalStatusCompleted:
			portal.Status = req.Status
			meta["status"] = req.Status
		default:
			return jsonError(c, fiber.StatusBadRequest, "bad_request", "status must be active, archived or completed")
		}
	}
	if req.DueDate != "" {
		dueDate, err := parseDateField(req.DueDate)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", "dueDate must be formatted yyyy-mm-dd")
		}
		portal.DueDate = dueDate
	}

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(portal).Error; err != nil {
			return err
		}
		if err := activity.Record(tx, portal.ID, userCtx.UserID, models.ActivityPortalUpdated, meta); err != nil {
			return err
		}
		return pc.notifier.Record(tx, portal.ID, userCtx.UserID, models.ActivityPortalUpdated, meta)
	})
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update portal")
	}

	return c.JSON(portal)
}

// HandleDelete removes a portal with everything attached to it.
func (pc *PortalController) HandleDelete(c *fiber.Ctx) error {
	userCtx, ok := requireUser(c)
	if !ok {
		return nil
	}

	portal, ok := pc.loadOwnedPortal(c, userCtx.UserID)
	if !ok {
		return nil
	}

	if err := repository.GetGlobalRepositories().Portal.Delete(portal.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete portal")
	}
	return c.JSON(fiber.Map{"success": true})
}

// HandleListMine returns the portals the user participates in.
func (pc *PortalController) HandleListMine(c *fiber.Ctx) error {
	userCtx, ok := requireUser(c)
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

	portals, err := repository.GetGlobalRepositories().Portal.GetByParticipant(userCtx.UserID, (page-1)*limit, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load portals")
	}
	return c.JSON(fiber.Map{"portals": portals, "page": page, "limit": limit})
}

// loadOwnedPortal resolves :uuid and enforces ownership. The second return is
// false when the response has already been written.
func (pc *PortalController) loadOwnedPortal(c *fiber.Ctx, userID uint) (*models.Portal, bool) {
	portal, err := repository.GetGlobalRepositories().Portal.GetByUUID(c.Params("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = jsonError(c, fiber.StatusNotFound, "not_found", "Portal not found")
			return nil, false
		}
		_ = jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load portal")
		return nil, false
	}
	if portal.CreatedBy != userID {
		_ = jsonError(c, fiber.StatusForbidden, "forbidden", "Only the portal owner may do this")
		return nil, false
	}
	return portal, true
}
