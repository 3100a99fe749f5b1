package application

import (
	"context"
	"time"

	"github.com/RAFagb11/synked-sub001/internal/common"
)

type Repository interface {
	Create(ctx context.Context, app Application) (*Application, error)
	GetByID(ctx context.Context, id common.UUID) (*Application, error)
	ListByApplicant(ctx context.Context, applicantID common.UUID) ([]Application, error)
	ListByProject(ctx context.Context, projectID common.UUID) ([]Application, error)
	ListByProjectAndStatus(ctx context.Context, projectID common.UUID, status Status) ([]Application, error)
	ListByOrganization(ctx context.Context, organizationID common.UUID) ([]Application, error)
	ListByStatus(ctx context.Context, status Status) ([]Application, error)
	// ListActiveByApplicant returns the applicant's pending and accepted
	// applications, earliest-created first.
	ListActiveByApplicant(ctx context.Context, applicantID common.UUID) ([]Application, error)
	UpdateStatus(ctx context.Context, id common.UUID, status Status, feedback string, acceptedAt *time.Time) (*Application, error)
	// Delete is an administrative escape hatch, not part of the lifecycle.
	Delete(ctx context.Context, id common.UUID) error
}
