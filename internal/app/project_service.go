package app

import (
	"context"
	"strings"

	"github.com/RAFagb11/synked-sub001/internal/common"
	"github.com/RAFagb11/synked-sub001/internal/domain/application"
	"github.com/RAFagb11/synked-sub001/internal/domain/notification"
	"github.com/RAFagb11/synked-sub001/internal/domain/project"
)

type ProjectService struct {
	repo         project.Repository
	applications application.Repository
	enrollments  *EnrollmentService
	notifier     *NotificationService
	logger       Logger
}

func NewProjectService(repo project.Repository, applications application.Repository, enrollments *EnrollmentService, notifier *NotificationService, logger Logger) *ProjectService {
	if logger == nil {
		logger = nopLogger{}
	}
	return &ProjectService{repo: repo, applications: applications, enrollments: enrollments, notifier: notifier, logger: logger}
}

func (s *ProjectService) Create(ctx context.Context, p project.Project) (*project.Project, error) {
	if strings.TrimSpace(p.Title) == "" {
		return nil, common.NewError(common.CodeValidation, "title is required", nil)
	}
	if strings.TrimSpace(p.Description) == "" {
		return nil, common.NewError(common.CodeValidation, "description is required", nil)
	}
	if strings.TrimSpace(p.Category) == "" {
		return nil, common.NewError(common.CodeValidation, "category is required", nil)
	}
	if p.Compensation < 0 {
		return nil, common.NewValidationError("invalid compensation", map[string]string{"compensation": "compensation must be non-negative"})
	}
	if p.ExperienceOnly && p.Compensation > 0 {
		return nil, common.NewValidationError("invalid compensation", map[string]string{"compensation": "experience-only projects cannot carry a compensation amount"})
	}
	p.Status = project.StatusOpen
	p.ApplicantCount = 0
	p.ApplicationCount = 0
	p.EnrolledIDs = nil
	return s.repo.Create(ctx, p)
}

func (s *ProjectService) Get(ctx context.Context, id common.UUID) (*project.Project, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ProjectService) ListOpen(ctx context.Context) ([]project.Project, error) {
	return s.repo.ListByStatus(ctx, project.StatusOpen)
}

func (s *ProjectService) ListByOrganization(ctx context.Context, organizationID common.UUID) ([]project.Project, error) {
	return s.repo.ListByOrganization(ctx, organizationID)
}

// Complete finishes an in-progress project. The enrolled applicants are
// released: their accepted applications are force-withdrawn so each becomes
// free to take on a new engagement, and the enrolled set is cleared.
func (s *ProjectService) Complete(ctx context.Context, id, organizationID common.UUID) (*project.Project, error) {
	proj, err := s.ownedProject(ctx, id, organizationID)
	if err != nil {
		return nil, err
	}
	if proj.Status != project.StatusInProgress {
		return nil, common.NewError(common.CodeInvalidTransition, "only in-progress projects can be completed", nil)
	}
	accepted, err := s.applications.ListByProjectAndStatus(ctx, id, application.StatusAccepted)
	if err != nil {
		return nil, err
	}
	for _, app := range accepted {
		if err := s.enrollments.ForceWithdraw(ctx, app, "project completed"); err != nil {
			s.logger.Error("failed to release enrollment on completion", "application_id", app.ID.String(), "error", err)
		}
	}
	if _, err := s.repo.SetEnrolled(ctx, id, nil); err != nil {
		return nil, err
	}
	updated, err := s.repo.UpdateStatus(ctx, id, project.StatusCompleted)
	if err != nil {
		return nil, err
	}
	for _, app := range accepted {
		s.notifier.Notify(ctx, "project:"+id.String()+":completed:"+app.ApplicantID.String(), app.ApplicantID,
			"Project completed", proj.Title+" has been completed.", notification.CategoryProject, "/projects/"+id.String())
	}
	return updated, nil
}

// Close stops an open project from accepting applications. Pending
// applications stay pending; enrollment is unaffected because only open
// projects can be closed.
func (s *ProjectService) Close(ctx context.Context, id, organizationID common.UUID) (*project.Project, error) {
	proj, err := s.ownedProject(ctx, id, organizationID)
	if err != nil {
		return nil, err
	}
	if proj.Status != project.StatusOpen {
		return nil, common.NewError(common.CodeInvalidTransition, "only open projects can be closed", nil)
	}
	return s.repo.UpdateStatus(ctx, id, project.StatusClosed)
}

func (s *ProjectService) ownedProject(ctx context.Context, id, organizationID common.UUID) (*project.Project, error) {
	proj, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if proj.OrganizationID != organizationID {
		return nil, common.NewError(common.CodeForbidden, "project belongs to another organization", nil)
	}
	return proj, nil
}
