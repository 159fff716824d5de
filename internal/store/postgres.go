// Package store provides the optional Postgres backing for the service
// registries. When no database is configured the in-memory stores from the
// model packages are used instead; this package exists so codes, sessions,
// and logs survive a restart and sessions can actually expire.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "embed"

	"github.com/lib/pq"

	"github.com/tapi-ai/simulator/backend/internal/apperrors"
	"github.com/tapi-ai/simulator/backend/internal/model/access"
	"github.com/tapi-ai/simulator/backend/internal/model/persona"
	"github.com/tapi-ai/simulator/backend/internal/model/registry"
)

//go:embed schema.sql
var schemaSQL string

// Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

// Postgres implements the persona, access, and registry store interfaces
// on top of a single Postgres database.
type Postgres struct {
	db *sql.DB
}

// Open connects to the database, verifies the connection, and applies the
// embedded schema. The caller owns closing the returned store.
func Open(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Postgres{db: db}, nil
}

// Close releases the underlying connection pool.
func (p *Postgres) Close() error { return p.db.Close() }

// SeedPersonas inserts the built-in personas, leaving existing rows alone.
func (p *Postgres) SeedPersonas(ctx context.Context, items []persona.Persona) error {
	for _, item := range items {
		_, err := p.db.ExecContext(ctx,
			`INSERT INTO personas (key, name, description, system_prompt, is_active)
             VALUES ($1, $2, $3, $4, $5)
             ON CONFLICT (key) DO NOTHING`,
			item.Key, item.Name, item.Description, item.SystemPrompt, item.IsActive,
		)
		if err != nil {
			return fmt.Errorf("seed persona %s: %w", item.Key, err)
		}
	}
	return nil
}

// --- persona.Store ---

func (p *Postgres) List(ctx context.Context) ([]persona.Persona, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT key, name, description, system_prompt, is_active FROM personas ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []persona.Persona
	for rows.Next() {
		var item persona.Persona
		if err := rows.Scan(&item.Key, &item.Name, &item.Description, &item.SystemPrompt, &item.IsActive); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (p *Postgres) FindByKey(ctx context.Context, key string) (persona.Persona, error) {
	var item persona.Persona
	err := p.db.QueryRowContext(ctx,
		`SELECT key, name, description, system_prompt, is_active FROM personas WHERE key = $1`,
		key,
	).Scan(&item.Key, &item.Name, &item.Description, &item.SystemPrompt, &item.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return persona.Persona{}, apperrors.ErrNotFound
	}
	if err != nil {
		return persona.Persona{}, err
	}
	return item, nil
}

func (p *Postgres) Update(ctx context.Context, key string, patch persona.Patch) (persona.Persona, error) {
	var item persona.Persona
	err := p.db.QueryRowContext(ctx,
		`UPDATE personas
         SET name        = COALESCE($2, name),
             description = COALESCE($3, description),
             is_active   = COALESCE($4, is_active)
         WHERE key = $1
         RETURNING key, name, description, system_prompt, is_active`,
		key, nullString(patch.Name), nullString(patch.Description), nullBool(patch.IsActive),
	).Scan(&item.Key, &item.Name, &item.Description, &item.SystemPrompt, &item.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return persona.Persona{}, apperrors.ErrNotFound
	}
	if err != nil {
		return persona.Persona{}, err
	}
	return item, nil
}

// --- access.CodeStore ---

func (p *Postgres) InsertCode(ctx context.Context, code access.Code) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO access_codes (id, company_id, campaign_code, access_code, is_active, created_at)
         VALUES ($1, $2, $3, $4, $5, $6)`,
		code.ID, code.CompanyID, code.CampaignCode, code.AccessCode, code.IsActive, code.CreatedAt,
	)
	return err
}

func (p *Postgres) ListCodes(ctx context.Context) ([]access.Code, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, company_id, campaign_code, access_code, is_active, created_at
         FROM access_codes ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []access.Code
	for rows.Next() {
		var c access.Code
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.CampaignCode, &c.AccessCode, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}
	return codes, rows.Err()
}

func (p *Postgres) FindMatch(ctx context.Context, companyID, campaignCode, accessCode string) (access.Code, error) {
	var c access.Code
	err := p.db.QueryRowContext(ctx,
		`SELECT id, company_id, campaign_code, access_code, is_active, created_at
         FROM access_codes
         WHERE is_active AND company_id = $1 AND campaign_code = $2 AND access_code = $3
         LIMIT 1`,
		companyID, campaignCode, accessCode,
	).Scan(&c.ID, &c.CompanyID, &c.CampaignCode, &c.AccessCode, &c.IsActive, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return access.Code{}, apperrors.ErrNotFound
	}
	if err != nil {
		return access.Code{}, err
	}
	return c, nil
}

func (p *Postgres) DeactivateCode(ctx context.Context, id string) (access.Code, error) {
	var c access.Code
	err := p.db.QueryRowContext(ctx,
		`UPDATE access_codes SET is_active = FALSE WHERE id = $1
         RETURNING id, company_id, campaign_code, access_code, is_active, created_at`,
		id,
	).Scan(&c.ID, &c.CompanyID, &c.CampaignCode, &c.AccessCode, &c.IsActive, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return access.Code{}, apperrors.ErrNotFound
	}
	if err != nil {
		return access.Code{}, err
	}
	return c, nil
}

// --- access.SessionStore ---

func (p *Postgres) PutSession(ctx context.Context, session access.Session) error {
	var expires sql.NullTime
	if !session.ExpiresAt.IsZero() {
		expires = sql.NullTime{Time: session.ExpiresAt, Valid: true}
	}
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO access_sessions (token, company_id, campaign_code, created_at, expires_at)
         VALUES ($1, $2, $3, $4, $5)`,
		session.Token, session.CompanyID, session.CampaignCode, session.CreatedAt, expires,
	)
	return err
}

func (p *Postgres) GetSession(ctx context.Context, token string) (access.Session, error) {
	var s access.Session
	var expires sql.NullTime
	err := p.db.QueryRowContext(ctx,
		`SELECT token, company_id, campaign_code, created_at, expires_at
         FROM access_sessions WHERE token = $1`,
		token,
	).Scan(&s.Token, &s.CompanyID, &s.CampaignCode, &s.CreatedAt, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return access.Session{}, apperrors.ErrNotFound
	}
	if err != nil {
		return access.Session{}, err
	}
	if expires.Valid {
		s.ExpiresAt = expires.Time
	}
	return s, nil
}

// --- registry.CompanyStore ---

func (p *Postgres) InsertCompany(ctx context.Context, company registry.Company) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO companies (id, name, description, is_active, created_at)
         VALUES ($1, $2, $3, $4, $5)`,
		company.ID, company.Name, company.Description, company.IsActive, company.CreatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return apperrors.ErrConflict
	}
	return err
}

func (p *Postgres) ListCompanies(ctx context.Context) ([]registry.Company, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, name, description, is_active, created_at FROM companies ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []registry.Company
	for rows.Next() {
		var c registry.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (p *Postgres) FindCompany(ctx context.Context, id string) (registry.Company, error) {
	var c registry.Company
	err := p.db.QueryRowContext(ctx,
		`SELECT id, name, description, is_active, created_at FROM companies WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return registry.Company{}, apperrors.ErrNotFound
	}
	if err != nil {
		return registry.Company{}, err
	}
	return c, nil
}

func (p *Postgres) UpdateCompany(ctx context.Context, id string, patch registry.CompanyPatch) (registry.Company, error) {
	var c registry.Company
	err := p.db.QueryRowContext(ctx,
		`UPDATE companies
         SET name        = COALESCE($2, name),
             description = COALESCE($3, description),
             is_active   = COALESCE($4, is_active)
         WHERE id = $1
         RETURNING id, name, description, is_active, created_at`,
		id, nullString(patch.Name), nullString(patch.Description), nullBool(patch.IsActive),
	).Scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return registry.Company{}, apperrors.ErrNotFound
	}
	if err != nil {
		return registry.Company{}, err
	}
	return c, nil
}

// --- registry.DiagnosticStore ---

func (p *Postgres) InsertDiagnostic(ctx context.Context, diagnostic registry.Diagnostic) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO diagnostics (id, company_id, name, description, is_active, created_at)
         VALUES ($1, $2, $3, $4, $5, $6)`,
		diagnostic.ID, diagnostic.CompanyID, diagnostic.Name, diagnostic.Description,
		diagnostic.IsActive, diagnostic.CreatedAt,
	)
	return err
}

func (p *Postgres) ListDiagnostics(ctx context.Context) ([]registry.Diagnostic, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, company_id, name, description, is_active, created_at
         FROM diagnostics ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var diagnostics []registry.Diagnostic
	for rows.Next() {
		var d registry.Diagnostic
		if err := rows.Scan(&d.ID, &d.CompanyID, &d.Name, &d.Description, &d.IsActive, &d.CreatedAt); err != nil {
			return nil, err
		}
		diagnostics = append(diagnostics, d)
	}
	return diagnostics, rows.Err()
}

func (p *Postgres) UpdateDiagnostic(ctx context.Context, id string, patch registry.DiagnosticPatch) (registry.Diagnostic, error) {
	var d registry.Diagnostic
	err := p.db.QueryRowContext(ctx,
		`UPDATE diagnostics
         SET name        = COALESCE($2, name),
             description = COALESCE($3, description),
             is_active   = COALESCE($4, is_active)
         WHERE id = $1
         RETURNING id, company_id, name, description, is_active, created_at`,
		id, nullString(patch.Name), nullString(patch.Description), nullBool(patch.IsActive),
	).Scan(&d.ID, &d.CompanyID, &d.Name, &d.Description, &d.IsActive, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return registry.Diagnostic{}, apperrors.ErrNotFound
	}
	if err != nil {
		return registry.Diagnostic{}, err
	}
	return d, nil
}

// --- registry.LogStore ---

func (p *Postgres) AppendLog(ctx context.Context, entry registry.ConversationLog) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO conversation_logs
         (id, company_id, campaign_code, simulation_id, persona, topic, situation,
          last_user_message, last_coach_reply, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		entry.ID, entry.CompanyID, entry.CampaignCode, entry.SimulationID, entry.Persona,
		entry.Topic, entry.Situation, entry.LastUserMessage, entry.LastCoachReply, entry.CreatedAt,
	)
	return err
}

func (p *Postgres) ListLogs(ctx context.Context) ([]registry.ConversationLog, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, company_id, campaign_code, simulation_id, persona, topic, situation,
                last_user_message, last_coach_reply, created_at
         FROM conversation_logs ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []registry.ConversationLog
	for rows.Next() {
		var l registry.ConversationLog
		if err := rows.Scan(&l.ID, &l.CompanyID, &l.CampaignCode, &l.SimulationID, &l.Persona,
			&l.Topic, &l.Situation, &l.LastUserMessage, &l.LastCoachReply, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}
