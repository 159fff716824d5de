package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tapi-ai/simulator/backend/internal/apperrors"
	"github.com/tapi-ai/simulator/backend/internal/model/access"
)

type stubResolver struct {
	sessions map[string]access.Session
}

func (r *stubResolver) Resolve(_ context.Context, token string) (access.Session, error) {
	session, ok := r.sessions[token]
	if !ok {
		return access.Session{}, apperrors.ErrUnauthorized
	}
	return session, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	handler := CORS([]string{"http://localhost:5173"})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("expected allow-origin header, got %q", got)
	}
}

func TestCORSIgnoresUnknownOrigin(t *testing.T) {
	handler := CORS([]string{"http://localhost:5173"})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no allow-origin header, got %q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := CORS([]string{"http://localhost:5173"})(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestRequireAccessTokenStoresSession(t *testing.T) {
	resolver := &stubResolver{sessions: map[string]access.Session{
		"good-token": {Token: "good-token", CompanyID: "acme", CampaignCode: "2026-1h"},
	}}

	var got access.Session
	var found bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = SessionFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := RequireAccessToken(resolver)(inner)

	req := httptest.NewRequest(http.MethodPost, "/chat", nil)
	req.Header.Set("X-Access-Token", "good-token")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !found || got.CompanyID != "acme" {
		t.Fatalf("expected session in context, got %+v found=%v", got, found)
	}
}

func TestRequireAccessTokenRejects(t *testing.T) {
	resolver := &stubResolver{sessions: map[string]access.Session{}}
	handler := RequireAccessToken(resolver)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/chat", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/chat", nil)
	req.Header.Set("X-Access-Token", "bad-token")
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with unknown token, got %d", resp.Code)
	}
}

func TestRequireAdminKey(t *testing.T) {
	handler := RequireAdminKey("secret")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/admin/companies", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/companies", nil)
	req.Header.Set("X-Admin-Key", "secret")
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with key, got %d", resp.Code)
	}
}
