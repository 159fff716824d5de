// Package access exposes the public access-code verification endpoint.
package access

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tapi-ai/simulator/backend/internal/apperrors"
	"github.com/tapi-ai/simulator/backend/internal/metrics"
	accessservice "github.com/tapi-ai/simulator/backend/internal/service/access"
	"github.com/tapi-ai/simulator/backend/internal/validator"
	"github.com/tapi-ai/simulator/backend/pkg/utils"
)

// Handler serves /access routes.
type Handler struct {
	accessSvc *accessservice.Service
}

// New creates the access handler.
func New(accessSvc *accessservice.Service) *Handler {
	return &Handler{accessSvc: accessSvc}
}

// RegisterRoutes mounts the access routes on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/access/verify", h.handleVerify)
}

type verifyRequest struct {
	CompanyID    string `json:"company_id" validate:"required"`
	CampaignCode string `json:"campaign_code" validate:"required"`
	AccessCode   string `json:"access_code" validate:"required"`
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	var payload verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validator.Validate(payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.accessSvc.Verify(r.Context(), payload.CompanyID, payload.CampaignCode, payload.AccessCode)
	if err != nil {
		metrics.Global().AccessDenied.Inc()
		if errors.Is(err, apperrors.ErrUnauthorized) {
			utils.RespondError(w, http.StatusUnauthorized, "invalid access code")
			return
		}
		utils.RespondError(w, apperrors.HTTPStatus(err), "access verification failed")
		return
	}

	metrics.Global().AccessGranted.Inc()
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"access_token":  session.Token,
		"company_id":    session.CompanyID,
		"campaign_code": session.CampaignCode,
	})
}
