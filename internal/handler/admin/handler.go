// Package admin exposes the registry administration endpoints. Every
// route here sits behind the X-Admin-Key middleware.
package admin

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tapi-ai/simulator/backend/internal/apperrors"
	"github.com/tapi-ai/simulator/backend/internal/model/persona"
	"github.com/tapi-ai/simulator/backend/internal/model/registry"
	adminservice "github.com/tapi-ai/simulator/backend/internal/service/admin"
	"github.com/tapi-ai/simulator/backend/internal/validator"
	"github.com/tapi-ai/simulator/backend/pkg/utils"
)

// Handler serves the /admin routes.
type Handler struct {
	adminSvc *adminservice.Service
}

// New creates the admin handler.
func New(adminSvc *adminservice.Service) *Handler {
	return &Handler{adminSvc: adminSvc}
}

// RegisterRoutes mounts the admin routes. The caller applies the admin-key
// middleware around this group.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/access/create", h.handleCreateAccessCode)
	r.Get("/access/list", h.handleListAccessCodes)
	r.Post("/access/deactivate/{id}", h.handleDeactivateAccessCode)

	r.Get("/companies", h.handleListCompanies)
	r.Post("/companies", h.handleCreateCompany)
	r.Put("/companies/{id}", h.handleUpdateCompany)

	r.Get("/diagnostics", h.handleListDiagnostics)
	r.Post("/diagnostics", h.handleCreateDiagnostic)
	r.Put("/diagnostics/{id}", h.handleUpdateDiagnostic)

	r.Get("/personas", h.handleListPersonas)
	r.Put("/personas/{key}", h.handleUpdatePersona)

	r.Get("/logs", h.handleListLogs)
}

type createAccessCodeRequest struct {
	CompanyID    string `json:"company_id" validate:"required"`
	CampaignCode string `json:"campaign_code" validate:"required"`
	AccessCode   string `json:"access_code,omitempty" validate:"omitempty,len=6,numeric"`
}

func (h *Handler) handleCreateAccessCode(w http.ResponseWriter, r *http.Request) {
	var payload createAccessCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validator.Validate(payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	code, err := h.adminSvc.CreateAccessCode(r.Context(), payload.CompanyID, payload.CampaignCode, payload.AccessCode)
	if err != nil {
		utils.RespondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusCreated, code)
}

func (h *Handler) handleListAccessCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := h.adminSvc.ListAccessCodes(r.Context())
	if err != nil {
		utils.RespondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, codes)
}

func (h *Handler) handleDeactivateAccessCode(w http.ResponseWriter, r *http.Request) {
	code, err := h.adminSvc.DeactivateAccessCode(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, code)
}

type createCompanyRequest struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
}

func (h *Handler) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	var payload createCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validator.Validate(payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	company, err := h.adminSvc.CreateCompany(r.Context(), payload.ID, payload.Name, payload.Description)
	if err != nil {
		utils.RespondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusCreated, company)
}

func (h *Handler) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.adminSvc.ListCompanies(r.Context())
	if err != nil {
		utils.RespondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, companies)
}

func (h *Handler) handleUpdateCompany(w http.ResponseWriter, r *http.Request) {
	var patch registry.CompanyPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	company, err := h.adminSvc.UpdateCompany(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		utils.RespondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, company)
}

type createDiagnosticRequest struct {
	CompanyID   string `json:"company_id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
}

func (h *Handler) handleCreateDiagnostic(w http.ResponseWriter, r *http.Request) {
	var payload createDiagnosticRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validator.Validate(payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	diagnostic, err := h.adminSvc.CreateDiagnostic(r.Context(), payload.CompanyID, payload.Name, payload.Description)
	if err != nil {
		utils.RespondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusCreated, diagnostic)
}

func (h *Handler) handleListDiagnostics(w http.ResponseWriter, r *http.Request) {
	diagnostics, err := h.adminSvc.ListDiagnostics(r.Context())
	if err != nil {
		utils.RespondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, diagnostics)
}

func (h *Handler) handleUpdateDiagnostic(w http.ResponseWriter, r *http.Request) {
	var patch registry.DiagnosticPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	diagnostic, err := h.adminSvc.UpdateDiagnostic(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		utils.RespondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, diagnostic)
}

func (h *Handler) handleListPersonas(w http.ResponseWriter, r *http.Request) {
	personas, err := h.adminSvc.ListPersonas(r.Context())
	if err != nil {
		utils.RespondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, personas)
}

func (h *Handler) handleUpdatePersona(w http.ResponseWriter, r *http.Request) {
	var patch persona.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.adminSvc.UpdatePersona(r.Context(), chi.URLParam(r, "key"), patch)
	if err != nil {
		utils.RespondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, p)
}

func (h *Handler) handleListLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.adminSvc.ListLogs(r.Context())
	if err != nil {
		utils.RespondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, logs)
}
