package handlers

import (
	"net/http"

	"github.com/RAFagb11/synked-sub001/internal/app"
	"github.com/RAFagb11/synked-sub001/internal/http/middleware"
	"github.com/RAFagb11/synked-sub001/internal/http/response"
)

type DashboardHandler struct {
	dashboards *app.DashboardService
}

func NewDashboardHandler(dashboards *app.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards}
}

func (h *DashboardHandler) Applicant(w http.ResponseWriter, r *http.Request) {
	applicantID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	dashboard, err := h.dashboards.ApplicantDashboard(r.Context(), applicantID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, dashboard)
}

func (h *DashboardHandler) Organization(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	dashboard, err := h.dashboards.OrganizationDashboard(r.Context(), organizationID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, dashboard)
}
