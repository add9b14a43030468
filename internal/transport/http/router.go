// Package httptransport is the thin HTTP layer over the gateway's services.
// Handlers delegate to domain services without embedding business logic so
// transport concerns remain isolated.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lookbook/internal/platform/health"
	"lookbook/internal/platform/metrics"
	"lookbook/internal/platform/middleware"
)

// Handler bundles the services the HTTP surface is built from.
type Handler struct {
	gate    GateService
	auth    AuthService
	prefs   PrefsService
	profile ProfileService
	catalog CatalogService
	toasts  ToastQueue
	logger  *slog.Logger
}

// NewHandler creates the transport handler.
func NewHandler(gate GateService, auth AuthService, prefs PrefsService, profile ProfileService, catalog CatalogService, toasts ToastQueue, logger *slog.Logger) *Handler {
	return &Handler{
		gate:    gate,
		auth:    auth,
		prefs:   prefs,
		profile: profile,
		catalog: catalog,
		toasts:  toasts,
		logger:  logger,
	}
}

// NewRouter wires all endpoints with middleware. m may be nil in tests.
func NewRouter(h *Handler, healthHandler *health.Handler, logger *slog.Logger, m *metrics.Metrics, authRatePerMinute int) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Latency(m))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)

	healthHandler.Register(r)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/installations", h.HandleRegisterInstallation)

		r.Route("/installations/{installation_id}", func(r chi.Router) {
			r.Delete("/", h.HandleDeregisterInstallation)
			r.Get("/screen", h.HandleScreen)
			r.Post("/onboarding/complete", h.HandleCompleteOnboarding)
			r.Post("/foreground", h.HandleForeground)
			r.Post("/biometric/challenge", h.HandleChallenge)
			r.Get("/toasts", h.HandleDrainToasts)

			r.Get("/prefs", h.HandleGetPrefs)
			r.Put("/prefs/biometric", h.HandleBiometricToggle)
			r.Put("/prefs/theme", h.HandleSetTheme)

			r.Get("/profile", h.HandleGetProfile)
			r.Patch("/profile", h.HandleUpdateProfile)

			// Credential endpoints are throttled to slow down guessing.
			r.Group(func(r chi.Router) {
				r.Use(middleware.Throttle(authRatePerMinute))
				r.Post("/auth/signin", h.HandleSignIn)
				r.Post("/auth/signup", h.HandleSignUp)
				r.Post("/auth/signout", h.HandleSignOut)
			})
		})

		r.Get("/products", h.HandleListProducts)
		r.Get("/products/{product_id}", h.HandleGetProduct)
		r.Get("/recommendations", h.HandleRecommendations)
	})

	return r
}
