package project

import (
	"context"

	"github.com/RAFagb11/synked-sub001/internal/common"
)

type Repository interface {
	Create(ctx context.Context, p Project) (*Project, error)
	GetByID(ctx context.Context, id common.UUID) (*Project, error)
	List(ctx context.Context) ([]Project, error)
	ListByOrganization(ctx context.Context, organizationID common.UUID) ([]Project, error)
	ListByStatus(ctx context.Context, status Status) ([]Project, error)
	UpdateStatus(ctx context.Context, id common.UUID, status Status) (*Project, error)
	SetCounts(ctx context.Context, id common.UUID, applicationCount, applicantCount int) (*Project, error)
	AddEnrolled(ctx context.Context, id, applicantID common.UUID) (*Project, error)
	RemoveEnrolled(ctx context.Context, id, applicantID common.UUID) (*Project, error)
	SetEnrolled(ctx context.Context, id common.UUID, applicantIDs []common.UUID) (*Project, error)
}
