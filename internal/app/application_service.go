package app

import (
	"context"
	"strings"
	"time"

	"github.com/RAFagb11/synked-sub001/internal/common"
	"github.com/RAFagb11/synked-sub001/internal/domain/application"
	"github.com/RAFagb11/synked-sub001/internal/domain/notification"
	"github.com/RAFagb11/synked-sub001/internal/domain/project"
)

// ApplicationService owns application creation and the status state machine.
// Every multi-record effect here is a sequence of independent store writes;
// a step that fails after the application record is committed is not rolled
// back, it is left for reconciliation.
type ApplicationService struct {
	repo        application.Repository
	projects    project.Repository
	enrollments *EnrollmentService
	notifier    *NotificationService
	logger      Logger
	locks       *keyedLocks
}

func NewApplicationService(repo application.Repository, projects project.Repository, enrollments *EnrollmentService, notifier *NotificationService, logger Logger) *ApplicationService {
	if logger == nil {
		logger = nopLogger{}
	}
	return &ApplicationService{
		repo:        repo,
		projects:    projects,
		enrollments: enrollments,
		notifier:    notifier,
		logger:      logger,
		locks:       newKeyedLocks(),
	}
}

// Create inserts a pending application after an advisory check that the
// applicant holds no other active engagement. The check-then-insert is not
// atomic against the store; a duplicate created in the race window is
// resolved later by ReconcileApplicant, which keeps the earliest record.
func (s *ApplicationService) Create(ctx context.Context, applicantID, projectID common.UUID, content application.Content) (*application.Application, error) {
	if strings.TrimSpace(content.CoverLetter) == "" {
		return nil, common.NewValidationError("cover letter is required", map[string]string{"cover_letter": "cover letter is required"})
	}
	proj, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if proj.Status != project.StatusOpen {
		return nil, common.NewError(common.CodeValidation, "project is not accepting applications", nil)
	}
	active, err := s.repo.ListActiveByApplicant(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	if len(active) > 0 {
		return nil, common.NewError(common.CodeConflict, "you already have an active engagement; withdraw your existing application first", nil)
	}

	created, err := s.repo.Create(ctx, application.Application{
		ProjectID:      projectID,
		ApplicantID:    applicantID,
		OrganizationID: proj.OrganizationID,
		Content:        content,
		Status:         application.StatusPending,
	})
	if err != nil {
		return nil, err
	}

	// Advisory counters, read-modify-write. A lost increment is repaired by
	// Reconcile and never consulted for invariant enforcement.
	if _, err := s.projects.SetCounts(ctx, projectID, proj.ApplicationCount+1, proj.ApplicantCount+1); err != nil {
		s.logger.Error("failed to bump project counters", "project_id", projectID.String(), "error", err)
	}

	s.notifier.Notify(ctx, "application:"+created.ID.String()+":created", proj.OrganizationID,
		"New application", "A new application was submitted to "+proj.Title, notification.CategoryApplication,
		"/projects/"+projectID.String()+"/applications")
	return created, nil
}

// Transition applies the status state machine:
//
//	pending  -> accepted   (organization; sets accepted_at, enrolls, notifies applicant)
//	pending  -> rejected   (organization; notifies applicant)
//	pending  -> withdrawn  (applicant; notifies organization)
//	accepted -> withdrawn  (reconciliation only, via EnrollmentService.ForceWithdraw)
//
// The current status is re-read immediately before the write; a mismatch
// with the expected prior state fails with an invalid-transition error
// instead of recording an out-of-order transition.
func (s *ApplicationService) Transition(ctx context.Context, id common.UUID, next application.Status, feedback string, actorID common.UUID) (*application.Application, error) {
	next = application.Status(strings.ToLower(strings.TrimSpace(string(next))))
	switch next {
	case application.StatusAccepted, application.StatusRejected, application.StatusWithdrawn:
	default:
		return nil, common.NewValidationError("invalid status", map[string]string{"status": "status must be accepted, rejected, or withdrawn"})
	}

	unlock := s.locks.lock(id.String())
	defer unlock()

	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.Status != application.StatusPending {
		return nil, common.NewError(common.CodeInvalidTransition, "application is no longer pending; refresh and retry", nil)
	}
	switch next {
	case application.StatusAccepted, application.StatusRejected:
		if app.OrganizationID != actorID {
			return nil, common.NewError(common.CodeForbidden, "application belongs to another organization", nil)
		}
	case application.StatusWithdrawn:
		if app.ApplicantID != actorID {
			return nil, common.NewError(common.CodeForbidden, "application belongs to another applicant", nil)
		}
	}

	var acceptedAt *time.Time
	if next == application.StatusAccepted {
		now := time.Now().UTC()
		acceptedAt = &now
	}
	updated, err := s.repo.UpdateStatus(ctx, id, next, feedback, acceptedAt)
	if err != nil {
		return nil, err
	}

	key := "application:" + id.String() + ":" + string(next)
	switch next {
	case application.StatusAccepted:
		if err := s.enrollments.Enroll(ctx, app.ProjectID, app.ApplicantID); err != nil {
			// The accepted status is committed; enrollment converges on
			// retry or on the next reconciliation pass.
			s.logger.Error("enrollment did not complete", "application_id", id.String(), "error", err)
		}
		s.notifier.Notify(ctx, key, app.ApplicantID, "Application accepted",
			"You have been accepted; the project is now in progress.", notification.CategoryApplication,
			"/projects/"+app.ProjectID.String())
	case application.StatusRejected:
		s.notifier.Notify(ctx, key, app.ApplicantID, "Application update",
			"Your application was not selected.", notification.CategoryApplication,
			"/applications/"+id.String())
	case application.StatusWithdrawn:
		s.notifier.Notify(ctx, key, app.OrganizationID, "Application withdrawn",
			"An applicant withdrew their application.", notification.CategoryApplication,
			"/projects/"+app.ProjectID.String()+"/applications")
	}
	return updated, nil
}

// Withdraw is the applicant-facing pending -> withdrawn transition.
func (s *ApplicationService) Withdraw(ctx context.Context, id, applicantID common.UUID) (*application.Application, error) {
	return s.Transition(ctx, id, application.StatusWithdrawn, "", applicantID)
}

func (s *ApplicationService) Get(ctx context.Context, id common.UUID) (*application.Application, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ApplicationService) ListByApplicant(ctx context.Context, applicantID common.UUID) ([]application.Application, error) {
	return s.repo.ListByApplicant(ctx, applicantID)
}

func (s *ApplicationService) ListByProject(ctx context.Context, projectID common.UUID) ([]application.Application, error) {
	return s.repo.ListByProject(ctx, projectID)
}

func (s *ApplicationService) ListByOrganization(ctx context.Context, organizationID common.UUID) ([]application.Application, error) {
	return s.repo.ListByOrganization(ctx, organizationID)
}
