package handlers

import (
	"net/http"
	"strings"

	"github.com/RAFagb11/synked-sub001/internal/app"
	"github.com/RAFagb11/synked-sub001/internal/common"
	"github.com/RAFagb11/synked-sub001/internal/domain/project"
	"github.com/RAFagb11/synked-sub001/internal/http/middleware"
	"github.com/RAFagb11/synked-sub001/internal/http/response"
)

type ProjectHandler struct {
	projects    *app.ProjectService
	enrollments *app.EnrollmentService
}

func NewProjectHandler(projects *app.ProjectService, enrollments *app.EnrollmentService) *ProjectHandler {
	return &ProjectHandler{projects: projects, enrollments: enrollments}
}

type createProjectRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	Skills         []string `json:"skills,omitempty"`
	Compensation   float64  `json:"compensation"`
	ExperienceOnly bool     `json:"experience_only"`
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req createProjectRequest
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.projects.Create(r.Context(), project.Project{
		OrganizationID: organizationID,
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Skills:         req.Skills,
		Compensation:   req.Compensation,
		ExperienceOnly: req.ExperienceOnly,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request, id common.UUID) {
	item, err := h.projects.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	if value := strings.TrimSpace(r.URL.Query().Get("organization_id")); value != "" {
		organizationID, err := common.ParseUUID(value)
		if err != nil {
			response.Error(w, common.NewValidationError("invalid organization_id", map[string]string{"organization_id": "invalid uuid"}))
			return
		}
		items, err := h.projects.ListByOrganization(r.Context(), organizationID)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.JSON(w, http.StatusOK, items)
		return
	}
	items, err := h.projects.ListOpen(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *ProjectHandler) Complete(w http.ResponseWriter, r *http.Request, id common.UUID) {
	organizationID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	updated, err := h.projects.Complete(r.Context(), id, organizationID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *ProjectHandler) Close(w http.ResponseWriter, r *http.Request, id common.UUID) {
	organizationID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	updated, err := h.projects.Close(r.Context(), id, organizationID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

// Reconcile is the operational endpoint external tooling calls to repair a
// project's denormalized fields.
func (h *ProjectHandler) Reconcile(w http.ResponseWriter, r *http.Request, id common.UUID) {
	report, err := h.enrollments.Reconcile(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, report)
}
