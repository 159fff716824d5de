// Package admin implements the registry administration operations behind
// the X-Admin-Key gate: companies, diagnostics, personas, access codes,
// and the read-only conversation logs.
package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tapi-ai/simulator/backend/internal/apperrors"
	"github.com/tapi-ai/simulator/backend/internal/model/access"
	"github.com/tapi-ai/simulator/backend/internal/model/persona"
	"github.com/tapi-ai/simulator/backend/internal/model/registry"
	accessservice "github.com/tapi-ai/simulator/backend/internal/service/access"
)

// Service bundles the admin registry operations.
type Service struct {
	companies   registry.CompanyStore
	diagnostics registry.DiagnosticStore
	logs        registry.LogStore
	personas    persona.Store
	codes       access.CodeStore
	now         func() time.Time
}

// NewService wires the admin registry over the given stores.
func NewService(
	companies registry.CompanyStore,
	diagnostics registry.DiagnosticStore,
	logs registry.LogStore,
	personas persona.Store,
	codes access.CodeStore,
) *Service {
	return &Service{
		companies:   companies,
		diagnostics: diagnostics,
		logs:        logs,
		personas:    personas,
		codes:       codes,
		now:         time.Now,
	}
}

// CreateCompany registers a new company. Duplicate ids are a conflict.
func (s *Service) CreateCompany(ctx context.Context, id, name, description string) (registry.Company, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	if id == "" || name == "" {
		return registry.Company{}, fmt.Errorf("%w: company id and name are required", apperrors.ErrBadRequest)
	}

	company := registry.Company{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(description),
		IsActive:    true,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.companies.InsertCompany(ctx, company); err != nil {
		return registry.Company{}, err
	}
	return company, nil
}

// ListCompanies returns every registered company.
func (s *Service) ListCompanies(ctx context.Context) ([]registry.Company, error) {
	return s.companies.ListCompanies(ctx)
}

// UpdateCompany applies a partial update; absent fields stay untouched.
func (s *Service) UpdateCompany(ctx context.Context, id string, patch registry.CompanyPatch) (registry.Company, error) {
	return s.companies.UpdateCompany(ctx, id, patch)
}

// CreateDiagnostic registers a new diagnostic/campaign for a company. The
// company reference is not checked; the registry is deliberately loose.
func (s *Service) CreateDiagnostic(ctx context.Context, companyID, name, description string) (registry.Diagnostic, error) {
	companyID = strings.TrimSpace(companyID)
	name = strings.TrimSpace(name)
	if companyID == "" || name == "" {
		return registry.Diagnostic{}, fmt.Errorf("%w: company_id and name are required", apperrors.ErrBadRequest)
	}

	diagnostic := registry.Diagnostic{
		ID:          uuid.NewString(),
		CompanyID:   companyID,
		Name:        name,
		Description: strings.TrimSpace(description),
		IsActive:    true,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.diagnostics.InsertDiagnostic(ctx, diagnostic); err != nil {
		return registry.Diagnostic{}, err
	}
	return diagnostic, nil
}

// ListDiagnostics returns every registered diagnostic.
func (s *Service) ListDiagnostics(ctx context.Context) ([]registry.Diagnostic, error) {
	return s.diagnostics.ListDiagnostics(ctx)
}

// UpdateDiagnostic applies a partial update; absent fields stay untouched.
func (s *Service) UpdateDiagnostic(ctx context.Context, id string, patch registry.DiagnosticPatch) (registry.Diagnostic, error) {
	return s.diagnostics.UpdateDiagnostic(ctx, id, patch)
}

// ListPersonas returns the persona catalog with admin metadata.
func (s *Service) ListPersonas(ctx context.Context) ([]persona.Persona, error) {
	return s.personas.List(ctx)
}

// UpdatePersona applies a partial update to a persona's admin metadata.
func (s *Service) UpdatePersona(ctx context.Context, key string, patch persona.Patch) (persona.Persona, error) {
	return s.personas.Update(ctx, key, patch)
}

// CreateAccessCode issues a new access code for a company/campaign pair,
// generating a random 6-digit code when none is supplied.
func (s *Service) CreateAccessCode(ctx context.Context, companyID, campaignCode, code string) (access.Code, error) {
	companyID = strings.TrimSpace(companyID)
	campaignCode = strings.TrimSpace(campaignCode)
	if companyID == "" || campaignCode == "" {
		return access.Code{}, fmt.Errorf("%w: company_id and campaign_code are required", apperrors.ErrBadRequest)
	}

	code = strings.TrimSpace(code)
	if code == "" {
		code = accessservice.GenerateCode()
	}

	record := access.Code{
		ID:           uuid.NewString(),
		CompanyID:    companyID,
		CampaignCode: campaignCode,
		AccessCode:   code,
		IsActive:     true,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.codes.InsertCode(ctx, record); err != nil {
		return access.Code{}, err
	}
	return record, nil
}

// ListAccessCodes returns every issued access code.
func (s *Service) ListAccessCodes(ctx context.Context) ([]access.Code, error) {
	return s.codes.ListCodes(ctx)
}

// DeactivateAccessCode flips the active flag off for the given code id.
func (s *Service) DeactivateAccessCode(ctx context.Context, id string) (access.Code, error) {
	return s.codes.DeactivateCode(ctx, id)
}

// ListLogs returns the append-only conversation log records.
func (s *Service) ListLogs(ctx context.Context) ([]registry.ConversationLog, error) {
	return s.logs.ListLogs(ctx)
}
