package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/RAFagb11/synked-sub001/internal/app"
	"github.com/RAFagb11/synked-sub001/internal/common"
	"github.com/RAFagb11/synked-sub001/internal/domain/application"
	"github.com/RAFagb11/synked-sub001/internal/http/middleware"
	"github.com/RAFagb11/synked-sub001/internal/http/response"
)

type ApplicationHandler struct {
	applications *app.ApplicationService
	limiter      middleware.Limiter
}

func NewApplicationHandler(applications *app.ApplicationService, limiter middleware.Limiter) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, limiter: limiter}
}

type createApplicationRequest struct {
	ProjectID    string `json:"project_id"`
	CoverLetter  string `json:"cover_letter"`
	Answer       string `json:"answer,omitempty"`
	MediaRef     string `json:"media_ref,omitempty"`
	Availability string `json:"availability,omitempty"`
}

func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	applicantID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req createApplicationRequest
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	projectID, err := common.ParseUUID(req.ProjectID)
	if err != nil {
		response.Error(w, common.NewValidationError("invalid project_id", map[string]string{"project_id": "invalid uuid"}))
		return
	}
	if h.limiter != nil {
		key := "apply:" + projectID.String() + ":" + applicantID.String()
		if !h.limiter.Allow(key, 3, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "apply rate limit exceeded", nil))
			return
		}
	}
	created, err := h.applications.Create(r.Context(), applicantID, projectID, application.Content{
		CoverLetter:  req.CoverLetter,
		Answer:       req.Answer,
		MediaRef:     req.MediaRef,
		Availability: req.Availability,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

type transitionRequest struct {
	Status   string `json:"status"`
	Feedback string `json:"feedback,omitempty"`
}

func (h *ApplicationHandler) Transition(w http.ResponseWriter, r *http.Request, id common.UUID) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req transitionRequest
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.applications.Transition(r.Context(), id, application.Status(req.Status), req.Feedback, actorID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *ApplicationHandler) Withdraw(w http.ResponseWriter, r *http.Request, id common.UUID) {
	applicantID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	updated, err := h.applications.Withdraw(r.Context(), id, applicantID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request, id common.UUID) {
	item, err := h.applications.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

// List filters by exactly one of applicant_id, project_id or
// organization_id; without a filter it lists the caller's own applications.
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	query := r.URL.Query()
	if value := strings.TrimSpace(query.Get("project_id")); value != "" {
		projectID, err := common.ParseUUID(value)
		if err != nil {
			response.Error(w, common.NewValidationError("invalid project_id", map[string]string{"project_id": "invalid uuid"}))
			return
		}
		items, err := h.applications.ListByProject(r.Context(), projectID)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.JSON(w, http.StatusOK, items)
		return
	}
	if value := strings.TrimSpace(query.Get("organization_id")); value != "" {
		organizationID, err := common.ParseUUID(value)
		if err != nil {
			response.Error(w, common.NewValidationError("invalid organization_id", map[string]string{"organization_id": "invalid uuid"}))
			return
		}
		items, err := h.applications.ListByOrganization(r.Context(), organizationID)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.JSON(w, http.StatusOK, items)
		return
	}
	applicantID := callerID
	if value := strings.TrimSpace(query.Get("applicant_id")); value != "" {
		parsed, err := common.ParseUUID(value)
		if err != nil {
			response.Error(w, common.NewValidationError("invalid applicant_id", map[string]string{"applicant_id": "invalid uuid"}))
			return
		}
		applicantID = parsed
	}
	items, err := h.applications.ListByApplicant(r.Context(), applicantID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}
