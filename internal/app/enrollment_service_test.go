package app

import (
	"context"
	"testing"

	"github.com/RAFagb11/synked-sub001/internal/common"
	"github.com/RAFagb11/synked-sub001/internal/domain/application"
	"github.com/RAFagb11/synked-sub001/internal/domain/notification"
	"github.com/RAFagb11/synked-sub001/internal/domain/project"
)

func TestEnrollIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	organizationID := common.NewUUID()
	applicantID := common.NewUUID()
	proj := env.openProject(t, organizationID)

	for i := 0; i < 3; i++ {
		if err := env.enrollments.Enroll(ctx, proj.ID, applicantID); err != nil {
			t.Fatalf("enroll attempt %d: %v", i, err)
		}
	}

	updated, err := env.projects.GetByID(ctx, proj.ID)
	if err != nil {
		t.Fatalf("load project: %v", err)
	}
	if len(updated.EnrolledIDs) != 1 {
		t.Fatalf("expected one enrolled id, got %v", updated.EnrolledIDs)
	}
	if updated.Status != project.StatusInProgress {
		t.Fatalf("expected in_progress, got %s", updated.Status)
	}
}

func TestUnenrollReopensProject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	applicantID := common.NewUUID()
	proj := env.openProject(t, common.NewUUID())

	if err := env.enrollments.Enroll(ctx, proj.ID, applicantID); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if err := env.enrollments.Unenroll(ctx, proj.ID, applicantID); err != nil {
		t.Fatalf("unenroll: %v", err)
	}

	updated, err := env.projects.GetByID(ctx, proj.ID)
	if err != nil {
		t.Fatalf("load project: %v", err)
	}
	if len(updated.EnrolledIDs) != 0 || updated.Status != project.StatusOpen {
		t.Fatalf("expected empty enrolled set on open project, got %+v", updated)
	}
}

func TestReconcileRepairsCorruptedCounter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	organizationID := common.NewUUID()
	proj := env.openProject(t, organizationID)
	env.pendingApplication(t, common.NewUUID(), proj.ID)

	// Corrupt the denormalized counters behind the service's back.
	if _, err := env.projects.SetCounts(ctx, proj.ID, 42, 17); err != nil {
		t.Fatalf("corrupt counters: %v", err)
	}

	report, err := env.enrollments.Reconcile(ctx, proj.ID)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if !report.Changed || report.ApplicationCount != 1 || report.ApplicantCount != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}

	updated, err := env.projects.GetByID(ctx, proj.ID)
	if err != nil {
		t.Fatalf("load project: %v", err)
	}
	if updated.ApplicationCount != 1 || updated.ApplicantCount != 1 {
		t.Fatalf("counters not repaired: %d/%d", updated.ApplicationCount, updated.ApplicantCount)
	}
}

func TestReconcileRebuildsEnrolledSet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	organizationID := common.NewUUID()
	applicantID := common.NewUUID()
	proj := env.openProject(t, organizationID)
	app := env.pendingApplication(t, applicantID, proj.ID)
	if _, err := env.lifecycle.Transition(ctx, app.ID, application.StatusAccepted, "", organizationID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	// Simulate a partial acceptance where the enrollment write was lost.
	if _, err := env.projects.SetEnrolled(ctx, proj.ID, nil); err != nil {
		t.Fatalf("drop enrolled set: %v", err)
	}
	if _, err := env.projects.UpdateStatus(ctx, proj.ID, project.StatusOpen); err != nil {
		t.Fatalf("reset status: %v", err)
	}

	report, err := env.enrollments.Reconcile(ctx, proj.ID)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if !report.Changed {
		t.Fatalf("expected drift to be repaired")
	}

	updated, err := env.projects.GetByID(ctx, proj.ID)
	if err != nil {
		t.Fatalf("load project: %v", err)
	}
	if !updated.IsEnrolled(applicantID) || updated.Status != project.StatusInProgress {
		t.Fatalf("acceptance not converged: %+v", updated)
	}
}

func TestReconcileDeduplicatesEnrolledSet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	organizationID := common.NewUUID()
	applicantID := common.NewUUID()
	proj := env.openProject(t, organizationID)

	// Two accepted applications from one applicant on the same project, the
	// race-window duplicate the applicant pass has not resolved yet.
	for i := 0; i < 2; i++ {
		if _, err := env.applications.Create(ctx, application.Application{
			ProjectID:      proj.ID,
			ApplicantID:    applicantID,
			OrganizationID: organizationID,
			Content:        application.Content{CoverLetter: "racing"},
			Status:         application.StatusAccepted,
		}); err != nil {
			t.Fatalf("insert accepted application %d: %v", i, err)
		}
	}

	report, err := env.enrollments.Reconcile(ctx, proj.ID)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(report.EnrolledIDs) != 1 || report.EnrolledIDs[0] != applicantID {
		t.Fatalf("enrolled set must stay a set, got %v", report.EnrolledIDs)
	}

	updated, err := env.projects.GetByID(ctx, proj.ID)
	if err != nil {
		t.Fatalf("load project: %v", err)
	}
	if len(updated.EnrolledIDs) != 1 {
		t.Fatalf("enrolled set holds duplicates: %v", updated.EnrolledIDs)
	}
	if updated.ApplicantCount != 1 || updated.ApplicationCount != 2 {
		t.Fatalf("unexpected counters: %d applicants, %d applications", updated.ApplicantCount, updated.ApplicationCount)
	}
}

func TestReconcileApplicantKeepsEarliest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	organizationID := common.NewUUID()
	applicantID := common.NewUUID()
	first := env.openProject(t, organizationID)
	second := env.openProject(t, organizationID)

	kept := env.pendingApplication(t, applicantID, first.ID)
	// A duplicate that slipped through the advisory check's race window.
	duplicate, err := env.applications.Create(ctx, application.Application{
		ProjectID:      second.ID,
		ApplicantID:    applicantID,
		OrganizationID: organizationID,
		Content:        application.Content{CoverLetter: "racing"},
		Status:         application.StatusPending,
	})
	if err != nil {
		t.Fatalf("insert duplicate: %v", err)
	}

	withdrawn, err := env.enrollments.ReconcileApplicant(ctx, applicantID)
	if err != nil {
		t.Fatalf("reconcile applicant: %v", err)
	}
	if withdrawn != 1 {
		t.Fatalf("expected one withdrawal, got %d", withdrawn)
	}

	keptNow, err := env.applications.GetByID(ctx, kept.ID)
	if err != nil {
		t.Fatalf("load kept: %v", err)
	}
	if keptNow.Status != application.StatusPending {
		t.Fatalf("earliest application should survive, got %s", keptNow.Status)
	}
	duplicateNow, err := env.applications.GetByID(ctx, duplicate.ID)
	if err != nil {
		t.Fatalf("load duplicate: %v", err)
	}
	if duplicateNow.Status != application.StatusWithdrawn {
		t.Fatalf("duplicate should be withdrawn, got %s", duplicateNow.Status)
	}

	active, err := env.applications.ListActiveByApplicant(ctx, applicantID)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected convergence to one active application, got %d", len(active))
	}
}

func TestForceWithdrawAcceptedRemovesEnrollment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	organizationID := common.NewUUID()
	applicantID := common.NewUUID()
	proj := env.openProject(t, organizationID)
	app := env.pendingApplication(t, applicantID, proj.ID)
	if _, err := env.lifecycle.Transition(ctx, app.ID, application.StatusAccepted, "", organizationID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	current, err := env.applications.GetByID(ctx, app.ID)
	if err != nil {
		t.Fatalf("load application: %v", err)
	}
	if err := env.enrollments.ForceWithdraw(ctx, *current, "duplicate engagement"); err != nil {
		t.Fatalf("force withdraw: %v", err)
	}

	updated, err := env.projects.GetByID(ctx, proj.ID)
	if err != nil {
		t.Fatalf("load project: %v", err)
	}
	if updated.IsEnrolled(applicantID) {
		t.Fatalf("enrollment should be removed")
	}
	if updated.Status != project.StatusOpen {
		t.Fatalf("project should reopen, got %s", updated.Status)
	}

	applicantNotes, err := env.notifier.ListByUser(ctx, applicantID)
	if err != nil {
		t.Fatalf("list applicant notifications: %v", err)
	}
	organizationNotes, err := env.notifier.ListByUser(ctx, organizationID)
	if err != nil {
		t.Fatalf("list organization notifications: %v", err)
	}
	if !hasCategory(applicantNotes, notification.CategoryEnrollment) || !hasCategory(organizationNotes, notification.CategoryEnrollment) {
		t.Fatalf("both parties should be notified of the withdrawal")
	}
}
