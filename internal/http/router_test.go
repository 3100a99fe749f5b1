package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/RAFagb11/synked-sub001/internal/app"
	"github.com/RAFagb11/synked-sub001/internal/common"
	"github.com/RAFagb11/synked-sub001/internal/domain/project"
	"github.com/RAFagb11/synked-sub001/internal/http/handlers"
	"github.com/RAFagb11/synked-sub001/internal/http/metrics"
	httpmw "github.com/RAFagb11/synked-sub001/internal/http/middleware"
	"github.com/RAFagb11/synked-sub001/internal/repository/docstore"
	"github.com/RAFagb11/synked-sub001/internal/store"
)

type serverEnv struct {
	handler  http.Handler
	projects *app.ProjectService
}

func newServerEnv(t *testing.T) *serverEnv {
	t.Helper()
	memory := store.NewMemory()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	projectRepo := docstore.NewProjectRepository(memory)
	applicationRepo := docstore.NewApplicationRepository(memory)
	notificationRepo := docstore.NewNotificationRepository(memory)
	profileRepo := docstore.NewProfileRepository(memory)

	notifier := app.NewNotificationService(notificationRepo, logger)
	enrollments := app.NewEnrollmentService(projectRepo, applicationRepo, notifier, logger)
	applications := app.NewApplicationService(applicationRepo, projectRepo, enrollments, notifier, logger)
	projects := app.NewProjectService(projectRepo, applicationRepo, enrollments, notifier, logger)
	dashboards := app.NewDashboardService(projectRepo, applicationRepo, profileRepo)

	handler := NewRouter(RouterDependencies{
		ProjectHandler:      handlers.NewProjectHandler(projects, enrollments),
		ApplicationHandler:  handlers.NewApplicationHandler(applications, nil),
		NotificationHandler: handlers.NewNotificationHandler(notifier),
		DashboardHandler:    handlers.NewDashboardHandler(dashboards),
		MetricsHandler:      handlers.NewMetricsHandler(metrics.NewCollector()),
		Identity:            httpmw.NewIdentity(),
		Metrics:             metrics.NewCollector(),
		Logger:              logger,
		RequestTimeout:      5 * time.Second,
	})
	return &serverEnv{handler: handler, projects: projects}
}

func (env *serverEnv) do(t *testing.T, method, path string, userID common.UUID, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !userID.IsZero() {
		req.Header.Set("X-User-ID", userID.String())
	}
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec
}

func (env *serverEnv) openProject(t *testing.T, organizationID common.UUID) *project.Project {
	t.Helper()
	created, err := env.projects.Create(context.Background(), project.Project{
		OrganizationID: organizationID,
		Title:          "Build a landing page",
		Description:    "Static marketing site",
		Category:       "web",
		Compensation:   500,
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return created
}

func TestHealth(t *testing.T) {
	env := newServerEnv(t)
	rec := env.do(t, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthedRoutesRejectMissingIdentity(t *testing.T) {
	env := newServerEnv(t)
	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/projects"},
		{http.MethodPost, "/applications"},
		{http.MethodGet, "/applications"},
		{http.MethodGet, "/dashboard/applicant"},
		{http.MethodGet, "/notifications"},
	} {
		rec := env.do(t, route.method, route.path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", route.method, route.path, rec.Code)
		}
	}
}

func TestCreateApplicationEndpoint(t *testing.T) {
	env := newServerEnv(t)
	proj := env.openProject(t, common.NewUUID())
	applicantID := common.NewUUID()

	rec := env.do(t, http.MethodPost, "/applications", applicantID, map[string]any{
		"project_id":   proj.ID.String(),
		"cover_letter": "I would like to work on this",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.Status != "pending" {
		t.Fatalf("expected pending, got %q", created.Status)
	}

	// A second application while the first is active is a conflict.
	other := env.openProject(t, common.NewUUID())
	rec = env.do(t, http.MethodPost, "/applications", applicantID, map[string]any{
		"project_id":   other.ID.String(),
		"cover_letter": "also interested",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateApplicationRejectsBadBody(t *testing.T) {
	env := newServerEnv(t)
	rec := env.do(t, http.MethodPost, "/applications", common.NewUUID(), map[string]any{
		"project_id": "not-a-uuid",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTransitionEndpoint(t *testing.T) {
	env := newServerEnv(t)
	organizationID := common.NewUUID()
	proj := env.openProject(t, organizationID)
	applicantID := common.NewUUID()

	rec := env.do(t, http.MethodPost, "/applications", applicantID, map[string]any{
		"project_id":   proj.ID.String(),
		"cover_letter": "hello",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", rec.Code)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	statusPath := fmt.Sprintf("/applications/%s/status", created.ID)

	// Only the posting organization may accept.
	rec = env.do(t, http.MethodPost, statusPath, common.NewUUID(), map[string]any{"status": "accepted"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign actor, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, statusPath, organizationID, map[string]any{"status": "accepted"})
	if rec.Code != http.StatusOK {
		t.Fatalf("accept: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// A terminal application cannot transition again.
	rec = env.do(t, http.MethodPost, statusPath, organizationID, map[string]any{"status": "rejected"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for repeat transition, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/projects/"+proj.ID.String(), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get project: expected 200, got %d", rec.Code)
	}
	var projView struct {
		Status      string   `json:"status"`
		EnrolledIDs []string `json:"enrolled_ids"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &projView); err != nil {
		t.Fatalf("decode project: %v", err)
	}
	if projView.Status != "in_progress" {
		t.Fatalf("accept must move the project to in_progress, got %q", projView.Status)
	}
	if len(projView.EnrolledIDs) != 1 || projView.EnrolledIDs[0] != applicantID.String() {
		t.Fatalf("unexpected enrolled set: %v", projView.EnrolledIDs)
	}
}

func TestUnknownRoute(t *testing.T) {
	env := newServerEnv(t)
	rec := env.do(t, http.MethodGet, "/applications/not-a-uuid", common.NewUUID(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for malformed id, got %d", rec.Code)
	}
}
