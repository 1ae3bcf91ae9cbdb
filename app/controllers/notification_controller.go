package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clientbridge/clientbridge/internal/pkg/notify"
)

// NotificationController serves the notification feed and its acknowledgement
// endpoint. The service is injected so handler tests can run on fakes.
type NotificationController struct {
	svc *notify.Service
}

func NewNotificationController(svc *notify.Service) *NotificationController {
	return &NotificationController{svc: svc}
}

// HandleList returns one newest-first page of the user's notifications.
func (nc *NotificationController) HandleList(c *fiber.Ctx) error {
	userCtx, ok := requireUser(c)
	if !ok {
		return nil
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", notify.DefaultPageSize)

	result, err := nc.svc.List(userCtx.UserID, page, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load notifications")
	}
	return c.JSON(result)
}

type markReadRequest struct {
	NotificationID uint   `json:"notificationId"`
	MarkAllAsRead  bool   `json:"markAllAsRead"`
	MarkByLink     string `json:"markByLink"`
}

// HandleMarkRead acknowledges notifications. Exactly one of the three request
// forms is acted on: markAllAsRead wins over notificationId over markByLink.
func (nc *NotificationController) HandleMarkRead(c *fiber.Ctx) error {
	userCtx, ok := requireUser(c)
	if !ok {
		return nil
	}

	var req markReadRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	var err error
	switch {
	case req.MarkAllAsRead:
		err = nc.svc.MarkAllRead(userCtx.UserID)
	case req.NotificationID != 0:
		err = nc.svc.MarkRead(userCtx.UserID, req.NotificationID)
	case req.MarkByLink != "":
		err = nc.svc.MarkByLink(userCtx.UserID, req.MarkByLink)
	default:
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Provide notificationId, markAllAsRead or markByLink")
	}
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update notifications")
	}

	return c.JSON(fiber.Map{"success": true})
}
