package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/RAFagb11/synked-sub001/internal/common"
	"github.com/RAFagb11/synked-sub001/internal/domain/application"
	"github.com/RAFagb11/synked-sub001/internal/domain/profile"
	"github.com/RAFagb11/synked-sub001/internal/domain/project"
)

// DashboardService is a read-only projection builder. It never mutates
// lifecycle state and re-reads the store on every call. A referenced project
// or profile that has been deleted is skipped, not an error.
type DashboardService struct {
	projects     project.Repository
	applications application.Repository
	profiles     profile.Repository
}

func NewDashboardService(projects project.Repository, applications application.Repository, profiles profile.Repository) *DashboardService {
	return &DashboardService{projects: projects, applications: applications, profiles: profiles}
}

type ApplicationView struct {
	Application application.Application `json:"application"`
	Project     project.Project         `json:"project"`
}

type ApplicantDashboard struct {
	Applications     []ApplicationView `json:"applications"`
	ActiveEngagement *ApplicationView  `json:"active_engagement,omitempty"`
}

type ProjectView struct {
	Project             project.Project           `json:"project"`
	PendingApplications []application.Application `json:"pending_applications"`
	EnrolledApplicants  []profile.Profile         `json:"enrolled_applicants"`
}

type OrganizationDashboard struct {
	Projects []ProjectView `json:"projects"`
}

func (s *DashboardService) ApplicantDashboard(ctx context.Context, applicantID common.UUID) (*ApplicantDashboard, error) {
	apps, err := s.applications.ListByApplicant(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	// Index-addressed so the repository's newest-first order survives the
	// fan-out; orphaned project references leave a nil slot compacted out
	// below.
	views := make([]*ApplicationView, len(apps))
	g, gctx := errgroup.WithContext(ctx)
	for i, app := range apps {
		g.Go(func() error {
			proj, err := s.projects.GetByID(gctx, app.ProjectID)
			if err != nil {
				if common.Is(err, common.CodeNotFound) {
					return nil
				}
				return err
			}
			views[i] = &ApplicationView{Application: app, Project: *proj}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	dashboard := &ApplicantDashboard{Applications: make([]ApplicationView, 0, len(apps))}
	for _, view := range views {
		if view == nil {
			continue
		}
		dashboard.Applications = append(dashboard.Applications, *view)
		if view.Application.Active() && dashboard.ActiveEngagement == nil {
			dashboard.ActiveEngagement = view
		}
	}
	return dashboard, nil
}

func (s *DashboardService) OrganizationDashboard(ctx context.Context, organizationID common.UUID) (*OrganizationDashboard, error) {
	projects, err := s.projects.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	views := make([]ProjectView, len(projects))
	g, gctx := errgroup.WithContext(ctx)
	for i, proj := range projects {
		g.Go(func() error {
			view, err := s.projectView(gctx, proj)
			if err != nil {
				return err
			}
			views[i] = *view
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &OrganizationDashboard{Projects: views}, nil
}

func (s *DashboardService) projectView(ctx context.Context, proj project.Project) (*ProjectView, error) {
	pending, err := s.applications.ListByProjectAndStatus(ctx, proj.ID, application.StatusPending)
	if err != nil {
		return nil, err
	}
	enrolled := make([]profile.Profile, 0, len(proj.EnrolledIDs))
	for _, applicantID := range proj.EnrolledIDs {
		p, err := s.profiles.GetByUserID(ctx, applicantID)
		if err != nil {
			if common.Is(err, common.CodeNotFound) {
				continue
			}
			return nil, err
		}
		enrolled = append(enrolled, *p)
	}
	return &ProjectView{Project: proj, PendingApplications: pending, EnrolledApplicants: enrolled}, nil
}
