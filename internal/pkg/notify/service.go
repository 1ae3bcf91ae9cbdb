package notify

import (
	"fmt"

	"github.com/clientbridge/clientbridge/app/models"
	"github.com/clientbridge/clientbridge/app/repository"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListResult is the page returned to the notification feed. UnreadCount is
// recomputed on every call; the UI polls, there is no push channel.
type ListResult struct {
	Notifications []models.Notification `json:"notifications"`
	Total         int64                 `json:"total"`
	UnreadCount   int64                 `json:"unreadCount"`
	Page          int                   `json:"page"`
	Limit         int                   `json:"limit"`
	HasMore       bool                  `json:"hasMore"`
}

// Service is the read/acknowledge side of notifications, scoped to one
// requesting user per call.
type Service struct {
	repo repository.NotificationRepository
}

func NewService(repo repository.NotificationRepository) *Service {
	return &Service{repo: repo}
}

// List returns one newest-first page for the user.
func (s *Service) List(userID uint, page, limit int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	notifications, total, err := s.repo.ListByUser(userID, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	unread, err := s.repo.UnreadCount(userID)
	if err != nil {
		return nil, fmt.Errorf("count unread: %w", err)
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}

	return &ListResult{
		Notifications: notifications,
		Total:         total,
		UnreadCount:   unread,
		Page:          page,
		Limit:         limit,
		HasMore:       int64(page*limit) < total,
	}, nil
}

// MarkRead marks a single notification as read. Idempotent: rows already
// read, or owned by someone else, are left untouched without error.
func (s *Service) MarkRead(userID, notificationID uint) error {
	return s.repo.MarkRead(notificationID, userID)
}

// MarkAllRead marks every unread notification of the user as read.
func (s *Service) MarkAllRead(userID uint) error {
	return s.repo.MarkAllRead(userID)
}

// MarkByLink marks unread notifications whose link contains the fragment.
// Callers pass an update id fragment when the user views that update, so the
// matching notifications clear without knowing their ids.
func (s *Service) MarkByLink(userID uint, fragment string) error {
	if fragment == "" {
		return nil
	}
	return s.repo.MarkReadByLink(userID, fragment)
}

// UnreadCount returns the user's current unread total.
func (s *Service) UnreadCount(userID uint) (int64, error) {
	return s.repo.UnreadCount(userID)
}
