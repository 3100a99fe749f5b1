package app

import (
	"context"

	"github.com/RAFagb11/synked-sub001/internal/common"
	"github.com/RAFagb11/synked-sub001/internal/domain/application"
	"github.com/RAFagb11/synked-sub001/internal/domain/notification"
	"github.com/RAFagb11/synked-sub001/internal/domain/project"
)

// EnrollmentService propagates accepted applications into project state and
// repairs the denormalized fields the non-transactional writes leave behind.
type EnrollmentService struct {
	projects     project.Repository
	applications application.Repository
	notifier     *NotificationService
	logger       Logger
}

func NewEnrollmentService(projects project.Repository, applications application.Repository, notifier *NotificationService, logger Logger) *EnrollmentService {
	if logger == nil {
		logger = nopLogger{}
	}
	return &EnrollmentService{projects: projects, applications: applications, notifier: notifier, logger: logger}
}

// Enroll adds the applicant to the project's enrolled set and moves an open
// project to in_progress, in that fixed order. Both steps are idempotent so
// the whole call is safe to re-run after a partial failure.
func (s *EnrollmentService) Enroll(ctx context.Context, projectID, applicantID common.UUID) error {
	updated, err := s.projects.AddEnrolled(ctx, projectID, applicantID)
	if err != nil {
		return err
	}
	if updated.Status == project.StatusOpen {
		if _, err := s.projects.UpdateStatus(ctx, projectID, project.StatusInProgress); err != nil {
			return err
		}
	}
	return nil
}

// Unenroll removes the applicant from the enrolled set; an in_progress
// project whose enrolled set empties returns to open.
func (s *EnrollmentService) Unenroll(ctx context.Context, projectID, applicantID common.UUID) error {
	updated, err := s.projects.RemoveEnrolled(ctx, projectID, applicantID)
	if err != nil {
		return err
	}
	if updated.Status == project.StatusInProgress && len(updated.EnrolledIDs) == 0 {
		if _, err := s.projects.UpdateStatus(ctx, projectID, project.StatusOpen); err != nil {
			return err
		}
	}
	return nil
}

// ReconcileReport describes what a project reconciliation pass changed.
type ReconcileReport struct {
	ProjectID                common.UUID   `json:"project_id"`
	ApplicationCount         int           `json:"application_count"`
	PreviousApplicationCount int           `json:"previous_application_count"`
	ApplicantCount           int           `json:"applicant_count"`
	PreviousApplicantCount   int           `json:"previous_applicant_count"`
	EnrolledIDs              []common.UUID `json:"enrolled_ids,omitempty"`
	Changed                  bool          `json:"changed"`
}

// Reconcile recomputes the project's denormalized counters and enrolled set
// from the authoritative application records and repairs any drift. The
// counters are a cache, never a source of truth, so overwriting them is
// always safe.
func (s *EnrollmentService) Reconcile(ctx context.Context, projectID common.UUID) (*ReconcileReport, error) {
	proj, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	apps, err := s.applications.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	applicationCount := 0
	applicants := make(map[common.UUID]struct{})
	accepted := make(map[common.UUID]struct{})
	var enrolled []common.UUID
	for _, app := range apps {
		if app.Status == application.StatusWithdrawn {
			continue
		}
		applicationCount++
		applicants[app.ApplicantID] = struct{}{}
		if app.Status == application.StatusAccepted {
			// Duplicate accepted applications from one applicant may exist
			// until the applicant pass resolves them; the enrolled set stays
			// a set regardless.
			if _, seen := accepted[app.ApplicantID]; !seen {
				accepted[app.ApplicantID] = struct{}{}
				enrolled = append(enrolled, app.ApplicantID)
			}
		}
	}

	report := &ReconcileReport{
		ProjectID:                projectID,
		ApplicationCount:         applicationCount,
		PreviousApplicationCount: proj.ApplicationCount,
		ApplicantCount:           len(applicants),
		PreviousApplicantCount:   proj.ApplicantCount,
		EnrolledIDs:              enrolled,
	}

	if proj.ApplicationCount != applicationCount || proj.ApplicantCount != len(applicants) {
		if _, err := s.projects.SetCounts(ctx, projectID, applicationCount, len(applicants)); err != nil {
			return nil, err
		}
		report.Changed = true
	}

	// Completed and closed projects keep their recorded state; the enrolled
	// set is only live while the project is open or in progress.
	if proj.Status == project.StatusOpen || proj.Status == project.StatusInProgress {
		if !sameIDSet(proj.EnrolledIDs, enrolled) {
			if _, err := s.projects.SetEnrolled(ctx, projectID, enrolled); err != nil {
				return nil, err
			}
			report.Changed = true
		}
		if len(enrolled) > 0 && proj.Status == project.StatusOpen {
			if _, err := s.projects.UpdateStatus(ctx, projectID, project.StatusInProgress); err != nil {
				return nil, err
			}
			report.Changed = true
		}
		if len(enrolled) == 0 && proj.Status == project.StatusInProgress {
			if _, err := s.projects.UpdateStatus(ctx, projectID, project.StatusOpen); err != nil {
				return nil, err
			}
			report.Changed = true
		}
	}

	if report.Changed {
		s.logger.Info("reconciled project", "project_id", projectID.String(),
			"application_count", applicationCount, "applicant_count", len(applicants))
	}
	return report, nil
}

// ReconcileApplicant resolves duplicate active engagements for one
// applicant: the earliest-created active application is kept and the rest
// are force-withdrawn. Returns how many were withdrawn.
func (s *EnrollmentService) ReconcileApplicant(ctx context.Context, applicantID common.UUID) (int, error) {
	active, err := s.applications.ListActiveByApplicant(ctx, applicantID)
	if err != nil {
		return 0, err
	}
	if len(active) <= 1 {
		return 0, nil
	}
	withdrawn := 0
	for _, app := range active[1:] {
		if err := s.ForceWithdraw(ctx, app, "superseded by an earlier active application"); err != nil {
			return withdrawn, err
		}
		withdrawn++
	}
	return withdrawn, nil
}

// ForceWithdraw is the administrative accepted/pending → withdrawn
// transition reserved for reconciliation and project completion. It removes
// any enrollment and notifies both parties.
func (s *EnrollmentService) ForceWithdraw(ctx context.Context, app application.Application, reason string) error {
	if app.Status != application.StatusPending && app.Status != application.StatusAccepted {
		return nil
	}
	wasAccepted := app.Status == application.StatusAccepted
	if _, err := s.applications.UpdateStatus(ctx, app.ID, application.StatusWithdrawn, reason, nil); err != nil {
		return err
	}
	if wasAccepted {
		if err := s.Unenroll(ctx, app.ProjectID, app.ApplicantID); err != nil {
			// Transition is recorded; the enrolled set converges on the next
			// project reconciliation pass.
			s.logger.Error("failed to unenroll after force-withdraw", "application_id", app.ID.String(), "error", err)
		}
	}
	key := "application:" + app.ID.String() + ":force_withdrawn"
	s.notifier.Notify(ctx, key+":applicant", app.ApplicantID, "Engagement withdrawn",
		"Your engagement was withdrawn: "+reason, notification.CategoryEnrollment, "/applications/"+app.ID.String())
	s.notifier.Notify(ctx, key+":organization", app.OrganizationID, "Engagement withdrawn",
		"An engagement on your project was withdrawn: "+reason, notification.CategoryEnrollment, "/applications/"+app.ID.String())
	return nil
}

func sameIDSet(a, b []common.UUID) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[common.UUID]struct{}, len(a))
	for _, id := range a {
		seen[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := seen[id]; !ok {
			return false
		}
	}
	return true
}
