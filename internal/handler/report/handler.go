// Package report exposes the report-generation endpoint.
package report

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tapi-ai/simulator/backend/internal/apperrors"
	"github.com/tapi-ai/simulator/backend/internal/middleware"
	reportservice "github.com/tapi-ai/simulator/backend/internal/service/report"
	"github.com/tapi-ai/simulator/backend/internal/validator"
	"github.com/tapi-ai/simulator/backend/pkg/utils"
)

// Handler serves the /report route.
type Handler struct {
	reportSvc *reportservice.Service
}

// New creates the report handler.
func New(reportSvc *reportservice.Service) *Handler {
	return &Handler{reportSvc: reportSvc}
}

// RegisterRoutes mounts the report route. The caller applies the
// access-token middleware around this group.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/report", h.handleGenerate)
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req reportservice.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validator.Validate(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The campaign comes from the resolved session, never the body.
	if session, ok := middleware.SessionFrom(r.Context()); ok {
		req.CampaignCode = session.CampaignCode
	}

	rep, err := h.reportSvc.Generate(r.Context(), req)
	if err != nil {
		utils.RespondError(w, apperrors.HTTPStatus(err), "report generation failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, rep)
}
