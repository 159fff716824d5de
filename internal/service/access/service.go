// Package access implements the access gate: verifying issued codes and
// minting/resolving bearer tokens.
package access

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/tapi-ai/simulator/backend/internal/apperrors"
	"github.com/tapi-ai/simulator/backend/internal/model/access"
)

// Service validates access codes and manages bearer sessions.
type Service struct {
	codes      access.CodeStore
	sessions   access.SessionStore
	sessionTTL time.Duration
	now        func() time.Time
}

// NewService wires the access gate over the given stores. A zero TTL
// produces sessions that never expire.
func NewService(codes access.CodeStore, sessions access.SessionStore, sessionTTL time.Duration) *Service {
	return &Service{
		codes:      codes,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// Verify checks the (company, campaign, code) triple against the registry
// of active codes and mints a fresh bearer session on success.
func (s *Service) Verify(ctx context.Context, companyID, campaignCode, accessCode string) (access.Session, error) {
	if _, err := s.codes.FindMatch(ctx, companyID, campaignCode, accessCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return access.Session{}, fmt.Errorf("%w: invalid access code", apperrors.ErrUnauthorized)
		}
		return access.Session{}, err
	}

	now := s.now().UTC()
	session := access.Session{
		Token:        uuid.NewString(),
		CompanyID:    companyID,
		CampaignCode: campaignCode,
		CreatedAt:    now,
	}
	if s.sessionTTL > 0 {
		session.ExpiresAt = now.Add(s.sessionTTL)
	}

	if err := s.sessions.PutSession(ctx, session); err != nil {
		return access.Session{}, fmt.Errorf("store session: %w", err)
	}

	log.Printf("[access] session issued for company=%s campaign=%s", companyID, campaignCode)
	return session, nil
}

// Resolve looks the token up and rejects unknown or expired sessions.
func (s *Service) Resolve(ctx context.Context, token string) (access.Session, error) {
	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return access.Session{}, fmt.Errorf("%w: unknown access token", apperrors.ErrUnauthorized)
		}
		return access.Session{}, err
	}
	if session.Expired(s.now().UTC()) {
		return access.Session{}, fmt.Errorf("%w: access token expired", apperrors.ErrUnauthorized)
	}
	return session, nil
}

// GenerateCode produces a random zero-padded 6-digit numeric code. No
// uniqueness check is performed against existing codes.
func GenerateCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return fmt.Sprintf("%06d", time.Now().UnixNano()%1_000_000)
	}
	return fmt.Sprintf("%06d", n.Int64())
}
