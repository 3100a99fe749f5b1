package profile

import (
	"context"
	"time"

	"github.com/RAFagb11/synked-sub001/internal/common"
)

// Profile is the minimal applicant display record the dashboards join
// against. General profile editing lives outside this service.
type Profile struct {
	UserID      common.UUID `json:"user_id"`
	DisplayName string      `json:"display_name"`
	Bio         string      `json:"bio,omitempty"`
	Skills      []string    `json:"skills,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type Repository interface {
	GetByUserID(ctx context.Context, userID common.UUID) (*Profile, error)
	Put(ctx context.Context, p Profile) (*Profile, error)
}
