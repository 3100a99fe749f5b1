package docstore

import (
	"context"
	"time"

	"github.com/RAFagb11/synked-sub001/internal/common"
	"github.com/RAFagb11/synked-sub001/internal/domain/notification"
	"github.com/RAFagb11/synked-sub001/internal/store"
)

type NotificationRepository struct {
	store store.Store
}

func NewNotificationRepository(s store.Store) *NotificationRepository {
	return &NotificationRepository{store: s}
}

func (r *NotificationRepository) Create(ctx context.Context, n notification.Notification) (*notification.Notification, error) {
	if n.ID.IsZero() {
		n.ID = common.NewUUID()
	} else if existing, err := r.GetByID(ctx, n.ID); err == nil {
		// Idempotency-keyed record already written by an earlier attempt;
		// re-sending must not duplicate it or reset its read flag.
		return existing, nil
	}
	n.CreatedAt = time.Now().UTC()
	fields, err := encode(n)
	if err != nil {
		return nil, err
	}
	if err := r.store.Put(ctx, store.CollectionNotifications, n.ID.String(), fields); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id common.UUID) (*notification.Notification, error) {
	fields, err := r.store.Get(ctx, store.CollectionNotifications, id.String())
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeNotFound, "notification not found", err)
		}
		return nil, err
	}
	var n notification.Notification
	if err := decode(fields, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID common.UUID) ([]notification.Notification, error) {
	return r.query(ctx, []store.Filter{{Field: "user_id", Value: userID.String()}})
}

func (r *NotificationRepository) ListUnreadByUser(ctx context.Context, userID common.UUID) ([]notification.Notification, error) {
	return r.query(ctx, []store.Filter{
		{Field: "user_id", Value: userID.String()},
		{Field: "read", Value: false},
	})
}

func (r *NotificationRepository) query(ctx context.Context, filters []store.Filter) ([]notification.Notification, error) {
	docs, err := r.store.Query(ctx, store.CollectionNotifications, filters, &store.Order{Field: "created_at", Desc: true})
	if err != nil {
		return nil, err
	}
	items := make([]notification.Notification, 0, len(docs))
	for _, doc := range docs {
		var n notification.Notification
		if err := decode(doc, &n); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id common.UUID) error {
	err := r.store.Update(ctx, store.CollectionNotifications, id.String(), map[string]any{"read": true})
	if err != nil && common.Is(err, common.CodeNotFound) {
		return common.NewError(common.CodeNotFound, "notification not found", err)
	}
	return err
}
