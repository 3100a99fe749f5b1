package app

import (
	"context"
	"time"

	"github.com/RAFagb11/synked-sub001/internal/common"
	"github.com/RAFagb11/synked-sub001/internal/domain/application"
	"github.com/RAFagb11/synked-sub001/internal/domain/project"
)

// Reconciler periodically runs the read-and-repair passes that bound the
// inconsistency window left by the store's lack of multi-record
// transactions. Every pass is idempotent, so overlapping or repeated runs
// converge to the same state.
type Reconciler struct {
	enrollments  *EnrollmentService
	projects     project.Repository
	applications application.Repository
	interval     time.Duration
	logger       Logger
}

func NewReconciler(enrollments *EnrollmentService, projects project.Repository, applications application.Repository, interval time.Duration, logger Logger) *Reconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = nopLogger{}
	}
	return &Reconciler{
		enrollments:  enrollments,
		projects:     projects,
		applications: applications,
		interval:     interval,
		logger:       logger,
	}
}

func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

func (r *Reconciler) RunOnce(ctx context.Context) {
	if err := r.reconcileApplicants(ctx); err != nil {
		r.logger.Error("applicant reconciliation pass failed", "error", err)
	}
	if err := r.reconcileProjects(ctx); err != nil {
		r.logger.Error("project reconciliation pass failed", "error", err)
	}
}

// reconcileApplicants resolves duplicate active engagements first so the
// project pass that follows sees the corrected application statuses.
func (r *Reconciler) reconcileApplicants(ctx context.Context) error {
	counts := make(map[common.UUID]int)
	for _, status := range []application.Status{application.StatusPending, application.StatusAccepted} {
		apps, err := r.applications.ListByStatus(ctx, status)
		if err != nil {
			return err
		}
		for _, app := range apps {
			counts[app.ApplicantID]++
		}
	}
	for applicantID, count := range counts {
		if count <= 1 {
			continue
		}
		withdrawn, err := r.enrollments.ReconcileApplicant(ctx, applicantID)
		if err != nil {
			r.logger.Error("failed to resolve duplicate engagements", "applicant_id", applicantID.String(), "error", err)
			continue
		}
		if withdrawn > 0 {
			r.logger.Info("resolved duplicate engagements", "applicant_id", applicantID.String(), "withdrawn", withdrawn)
		}
	}
	return nil
}

func (r *Reconciler) reconcileProjects(ctx context.Context) error {
	projects, err := r.projects.List(ctx)
	if err != nil {
		return err
	}
	for _, proj := range projects {
		if _, err := r.enrollments.Reconcile(ctx, proj.ID); err != nil {
			r.logger.Error("failed to reconcile project", "project_id", proj.ID.String(), "error", err)
		}
	}
	return nil
}
