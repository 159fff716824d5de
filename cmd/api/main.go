package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tapi-ai/simulator/backend/internal/config"
	"github.com/tapi-ai/simulator/backend/internal/handler"
	accessmodel "github.com/tapi-ai/simulator/backend/internal/model/access"
	personamodel "github.com/tapi-ai/simulator/backend/internal/model/persona"
	"github.com/tapi-ai/simulator/backend/internal/model/registry"
	accessservice "github.com/tapi-ai/simulator/backend/internal/service/access"
	adminservice "github.com/tapi-ai/simulator/backend/internal/service/admin"
	"github.com/tapi-ai/simulator/backend/internal/service/ai"
	chatservice "github.com/tapi-ai/simulator/backend/internal/service/chat"
	reportservice "github.com/tapi-ai/simulator/backend/internal/service/report"
	simulationservice "github.com/tapi-ai/simulator/backend/internal/service/simulation"
	"github.com/tapi-ai/simulator/backend/internal/store"
)

// stores groups the persistence interfaces the services are wired over.
type stores struct {
	personas    personamodel.Store
	codes       accessmodel.CodeStore
	sessions    accessmodel.SessionStore
	companies   registry.CompanyStore
	diagnostics registry.DiagnosticStore
	logs        registry.LogStore
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	st, cleanup, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open stores: %v", err)
	}
	defer cleanup()

	aiSvc, err := ai.NewService(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("failed to initialize AI service: %v", err)
	}

	accessSvc := accessservice.NewService(st.codes, st.sessions, cfg.Access.SessionTTL)
	adminSvc := adminservice.NewService(st.companies, st.diagnostics, st.logs, st.personas, st.codes)
	simSvc := simulationservice.NewService(st.personas)
	chatSvc := chatservice.NewService(simSvc, aiSvc, cfg.Chat.FallbackPolicy)
	reportSvc := reportservice.NewService(aiSvc, st.logs)

	router := handler.NewRouter(cfg, accessSvc, adminSvc, chatSvc, reportSvc, aiSvc)

	startServer(ctx, cfg.Server, router)
}

// openStores selects the Postgres backing when DATABASE_URL is set and
// the in-memory stores otherwise.
func openStores(ctx context.Context, cfg *config.Config) (stores, func(), error) {
	if cfg.Database.URL == "" {
		log.Println("no DATABASE_URL configured, using in-memory stores")
		reg := registry.NewMemoryStore()
		return stores{
			personas:    personamodel.NewMemoryStore(personamodel.Seed()),
			codes:       accessmodel.NewMemoryCodeStore(nil),
			sessions:    accessmodel.NewMemorySessionStore(),
			companies:   reg,
			diagnostics: reg,
			logs:        reg,
		}, func() {}, nil
	}

	pg, err := store.Open(ctx, cfg.Database.URL)
	if err != nil {
		return stores{}, nil, err
	}
	if err := pg.SeedPersonas(ctx, personamodel.Seed()); err != nil {
		pg.Close()
		return stores{}, nil, err
	}

	log.Println("connected to postgres")
	return stores{
		personas:    pg,
		codes:       pg,
		sessions:    pg,
		companies:   pg,
		diagnostics: pg,
		logs:        pg,
	}, func() { pg.Close() }, nil
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("simulator backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
