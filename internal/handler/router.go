// Package handler wires the HTTP surface: public access verification,
// the admin registry behind the admin key, and the participant chat and
// report endpoints behind access tokens.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tapi-ai/simulator/backend/internal/config"
	accesshandler "github.com/tapi-ai/simulator/backend/internal/handler/access"
	adminhandler "github.com/tapi-ai/simulator/backend/internal/handler/admin"
	chathandler "github.com/tapi-ai/simulator/backend/internal/handler/chat"
	reporthandler "github.com/tapi-ai/simulator/backend/internal/handler/report"
	"github.com/tapi-ai/simulator/backend/internal/middleware"
	accessservice "github.com/tapi-ai/simulator/backend/internal/service/access"
	adminservice "github.com/tapi-ai/simulator/backend/internal/service/admin"
	aiservice "github.com/tapi-ai/simulator/backend/internal/service/ai"
	chatservice "github.com/tapi-ai/simulator/backend/internal/service/chat"
	reportservice "github.com/tapi-ai/simulator/backend/internal/service/report"
	"github.com/tapi-ai/simulator/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services. aiSvc may be nil; the
// streaming chat variant then responds 503.
func NewRouter(
	cfg *config.Config,
	accessSvc *accessservice.Service,
	adminSvc *adminservice.Service,
	chatSvc *chatservice.Service,
	reportSvc *reportservice.Service,
	aiSvc *aiservice.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Metrics.Enabled {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}

	accesshandler.New(accessSvc).RegisterRoutes(r)

	r.Route("/admin", func(admin chi.Router) {
		admin.Use(middleware.RequireAdminKey(cfg.Admin.Key))
		adminhandler.New(adminSvc).RegisterRoutes(admin)
	})

	r.Group(func(participant chi.Router) {
		participant.Use(middleware.RequireAccessToken(accessSvc))
		chathandler.New(chatSvc, aiSvc).RegisterRoutes(participant)
		reporthandler.New(reportSvc).RegisterRoutes(participant)
	})

	return r
}
