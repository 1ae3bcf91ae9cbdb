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
	"github.com/clientbridge/clientbridge/internal/pkg/notify"
)

// ReplyController handles threaded replies under updates. Replies carry no
// plan limit; only participation is checked.
type ReplyController struct {
	notifier *notify.Engine
}

func NewReplyController(notifier *notify.Engine) *ReplyController {
	return &ReplyController{notifier: notifier}
}

type createReplyRequest struct {
	Body string `json:"body"`
}

// HandleCreate posts a reply under an update.
func (rc *ReplyController) HandleCreate(c *fiber.Ctx) error {
	userCtx, ok := requireUser(c)
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
	portal, err := repos.Portal.GetByID(update.PortalID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load portal")
	}
	if !portal.IsParticipant(userCtx.UserID) {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "Not a participant of this portal")
	}

	var req createReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	req.Body = strings.TrimSpace(req.Body)
	if req.Body == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "body is required")
	}

	reply := models.UpdateReply{
		UpdateID: update.ID,
		PortalID: portal.ID,
		UserID:   userCtx.UserID,
		Body:     req.Body,
	}
	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&reply).Error; err != nil {
			return err
		}
		meta := map[string]any{
			"update_id":    update.ID,
			"update_title": update.Title,
			"reply_id":     reply.ID,
		}
		if err := activity.Record(tx, portal.ID, userCtx.UserID, models.ActivityReplyCreated, meta); err != nil {
			return err
		}
		return rc.notifier.Record(tx, portal.ID, userCtx.UserID, models.ActivityReplyCreated, meta)
	})
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create reply")
	}

	return c.Status(fiber.StatusCreated).JSON(reply)
}
