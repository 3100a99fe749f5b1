package app

import (
	"context"
	"testing"

	"github.com/RAFagb11/synked-sub001/internal/common"
	"github.com/RAFagb11/synked-sub001/internal/domain/application"
	"github.com/RAFagb11/synked-sub001/internal/domain/notification"
	"github.com/RAFagb11/synked-sub001/internal/domain/profile"
	"github.com/RAFagb11/synked-sub001/internal/domain/project"
	"github.com/RAFagb11/synked-sub001/internal/repository/docstore"
	"github.com/RAFagb11/synked-sub001/internal/store"
)

type testEnv struct {
	store         *store.Memory
	projects      *docstore.ProjectRepository
	applications  *docstore.ApplicationRepository
	notifications *docstore.NotificationRepository
	profiles      *docstore.ProfileRepository
	notifier      *NotificationService
	enrollments   *EnrollmentService
	lifecycle     *ApplicationService
	projectSvc    *ProjectService
	dashboards    *DashboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	memory := store.NewMemory()
	env := &testEnv{
		store:         memory,
		projects:      docstore.NewProjectRepository(memory),
		applications:  docstore.NewApplicationRepository(memory),
		notifications: docstore.NewNotificationRepository(memory),
		profiles:      docstore.NewProfileRepository(memory),
	}
	env.notifier = NewNotificationService(env.notifications, nil)
	env.enrollments = NewEnrollmentService(env.projects, env.applications, env.notifier, nil)
	env.lifecycle = NewApplicationService(env.applications, env.projects, env.enrollments, env.notifier, nil)
	env.projectSvc = NewProjectService(env.projects, env.applications, env.enrollments, env.notifier, nil)
	env.dashboards = NewDashboardService(env.projects, env.applications, env.profiles)
	return env
}

func (env *testEnv) openProject(t *testing.T, organizationID common.UUID) *project.Project {
	t.Helper()
	created, err := env.projectSvc.Create(context.Background(), project.Project{
		OrganizationID: organizationID,
		Title:          "Launch campaign",
		Description:    "Plan and run a product launch",
		Category:       "marketing",
		ExperienceOnly: true,
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return created
}

func (env *testEnv) pendingApplication(t *testing.T, applicantID common.UUID, projectID common.UUID) *application.Application {
	t.Helper()
	created, err := env.lifecycle.Create(context.Background(), applicantID, projectID, application.Content{CoverLetter: "I would like to join"})
	if err != nil {
		t.Fatalf("create application: %v", err)
	}
	return created
}

func hasCategory(items []notification.Notification, category string) bool {
	for _, n := range items {
		if n.Category == category {
			return true
		}
	}
	return false
}

func (env *testEnv) putProfile(t *testing.T, userID common.UUID, name string) {
	t.Helper()
	if _, err := env.profiles.Put(context.Background(), profile.Profile{UserID: userID, DisplayName: name}); err != nil {
		t.Fatalf("put profile: %v", err)
	}
}
