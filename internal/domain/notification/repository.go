package notification

import (
	"context"

	"github.com/RAFagb11/synked-sub001/internal/common"
)

type Repository interface {
	// Create honors a pre-set ID and is a no-op when a record with that ID
	// already exists, so idempotency-keyed notifications survive retries.
	Create(ctx context.Context, n Notification) (*Notification, error)
	GetByID(ctx context.Context, id common.UUID) (*Notification, error)
	ListByUser(ctx context.Context, userID common.UUID) ([]Notification, error)
	ListUnreadByUser(ctx context.Context, userID common.UUID) ([]Notification, error)
	MarkRead(ctx context.Context, id common.UUID) error
}
