package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"lookbook/internal/biometric"
	"lookbook/internal/catalog"
	"lookbook/internal/docstore"
	"lookbook/internal/gate"
	"lookbook/internal/identity"
	idmemory "lookbook/internal/identity/memory"
	"lookbook/internal/installation"
	"lookbook/internal/notify"
	"lookbook/internal/platform/config"
	"lookbook/internal/platform/health"
	"lookbook/internal/platform/logger"
	"lookbook/internal/platform/metrics"
	redisplatform "lookbook/internal/platform/redis"
	"lookbook/internal/prefs"
	prefsstore "lookbook/internal/prefs/store"
	"lookbook/internal/profile"
	"lookbook/internal/session"
	sessionstore "lookbook/internal/session/store"
	httptransport "lookbook/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal services packages.
func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	log.Info("initializing lookbook session gateway",
		"addr", cfg.Addr,
		"env", cfg.Env,
		"redis", cfg.Redis.URL != "",
	)

	m := metrics.New()

	redisClient, err := redisplatform.New(cfg.Redis)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}

	var (
		sessions session.Store
		kv       prefs.KV
	)
	if redisClient != nil {
		sessions = sessionstore.NewRedis(redisClient.Client)
		kv = prefsstore.NewRedis(redisClient.Client)
	} else {
		sessions = sessionstore.NewMemory()
		kv = prefsstore.NewMemory()
	}

	docs := docstore.NewMemory()
	installs := installation.NewMemoryStore()
	toasts := notify.NewQueue(cfg.ToastTTL, notify.WithMetrics(m))

	provider := idmemory.New(cfg.JWTSigningKey, cfg.TokenTTL)
	prefsSvc := prefs.NewService(kv, prefs.Theme(cfg.SystemColorScheme), log)
	profileSvc := profile.NewService(docs, prefsSvc, toasts, cfg.SignOutDelay, log)

	// The gateway runs against the simulated verifier until a device bridge
	// reports real biometric results.
	verifier := biometric.Simulator{Hardware: true, Enrolled: true, Result: true}

	gateSvc := gate.NewService(installs, sessions, provider, verifier, prefsSvc, toasts,
		gate.WithLogger(log),
		gate.WithMetrics(m),
	)
	authSvc := identity.NewService(provider, profileSvc, prefsSvc, gateSvc, toasts,
		identity.WithLogger(log),
		identity.WithMetrics(m),
	)
	profileSvc.BindSessions(authSvc)

	catalogSvc := catalog.NewService(docs, log)
	if cfg.Env == "development" {
		if err := catalog.Seed(context.Background(), docs); err != nil {
			log.Error("catalog seed failed", "error", err)
			os.Exit(1)
		}
	}

	healthHandler := health.New(cfg.Env)
	if redisClient != nil {
		healthHandler.RegisterCheck("redis", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Health(ctx)
		})
	}

	handler := httptransport.NewHandler(gateSvc, authSvc, prefsSvc, profileSvc, catalogSvc, toasts, log)
	router := httptransport.NewRouter(handler, healthHandler, log, m, cfg.AuthRatePerMinute)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gateSvc.Start(ctx)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		gateSvc.Shutdown()
		return err
	})

	if redisClient != nil {
		g.Go(func() error {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					redisClient.CollectPoolStats()
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
