package app

import (
	"context"
	"testing"

	"github.com/RAFagb11/synked-sub001/internal/common"
	"github.com/RAFagb11/synked-sub001/internal/domain/application"
)

func TestReconcilerRunOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	organizationID := common.NewUUID()
	applicantID := common.NewUUID()
	first := env.openProject(t, organizationID)
	second := env.openProject(t, organizationID)

	env.pendingApplication(t, applicantID, first.ID)
	if _, err := env.applications.Create(ctx, application.Application{
		ProjectID:      second.ID,
		ApplicantID:    applicantID,
		OrganizationID: organizationID,
		Content:        application.Content{CoverLetter: "racing"},
		Status:         application.StatusPending,
	}); err != nil {
		t.Fatalf("insert duplicate: %v", err)
	}
	if _, err := env.projects.SetCounts(ctx, first.ID, 99, 99); err != nil {
		t.Fatalf("corrupt counters: %v", err)
	}

	reconciler := NewReconciler(env.enrollments, env.projects, env.applications, 0, nil)
	reconciler.RunOnce(ctx)

	active, err := env.applications.ListActiveByApplicant(ctx, applicantID)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected one active application after the pass, got %d", len(active))
	}

	repaired, err := env.projects.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("load project: %v", err)
	}
	if repaired.ApplicationCount != 1 || repaired.ApplicantCount != 1 {
		t.Fatalf("counters not repaired: %d/%d", repaired.ApplicationCount, repaired.ApplicantCount)
	}

	// The duplicate left a non-withdrawn trail on the second project only if
	// it survived; it must not have.
	secondNow, err := env.projects.GetByID(ctx, second.ID)
	if err != nil {
		t.Fatalf("load second project: %v", err)
	}
	if secondNow.ApplicationCount != 0 {
		t.Fatalf("withdrawn duplicate must not count, got %d", secondNow.ApplicationCount)
	}
}
