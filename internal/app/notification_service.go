package app

import (
	"context"

	"github.com/RAFagb11/synked-sub001/internal/common"
	"github.com/RAFagb11/synked-sub001/internal/domain/notification"
)

type NotificationService struct {
	repo   notification.Repository
	logger Logger
}

func NewNotificationService(repo notification.Repository, logger Logger) *NotificationService {
	if logger == nil {
		logger = nopLogger{}
	}
	return &NotificationService{repo: repo, logger: logger}
}

// Notify appends a notification record. A delivery failure is logged and
// swallowed so it can never fail the lifecycle operation that triggered it.
// A non-empty key derives a deterministic id, making retried emissions
// overwrite-free no-ops instead of duplicates.
func (s *NotificationService) Notify(ctx context.Context, key string, userID common.UUID, title, message, category, link string) {
	n := notification.Notification{
		UserID:   userID,
		Title:    title,
		Message:  message,
		Category: category,
		Link:     link,
	}
	if key != "" {
		n.ID = common.DeriveUUID(key)
	}
	if _, err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("failed to record notification", "user_id", userID.String(), "category", category, "error", err)
	}
}

func (s *NotificationService) ListByUser(ctx context.Context, userID common.UUID) ([]notification.Notification, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID common.UUID) error {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return common.NewError(common.CodeForbidden, "notification belongs to another user", nil)
	}
	return s.repo.MarkRead(ctx, id)
}

// MarkAllRead marks exactly the unread set visible at call time. A
// notification created concurrently may be missed; it stays unread and is
// picked up by the next call.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID common.UUID) (int, error) {
	unread, err := s.repo.ListUnreadByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	marked := 0
	for _, n := range unread {
		if err := s.repo.MarkRead(ctx, n.ID); err != nil {
			return marked, err
		}
		marked++
	}
	return marked, nil
}
