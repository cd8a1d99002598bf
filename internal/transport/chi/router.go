package chi

import (
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdesk/internal/metrics"
)

// RouterConfig wires the HTTP surface.
type RouterConfig struct {
	Server    *Server
	Sessions  Sessions
	Cookie    CookieConfig
	APIKeys   []string
	StaticDir string
	Logger    *zap.Logger
}

// NewRouter builds the chi router: API routes behind optional bearer auth,
// /health and /metrics, and the single-page frontend on everything else.
func NewRouter(cfg RouterConfig) http.Handler {
	r := gochi.NewRouter()
	r.Use(JSONRecoverer(cfg.Logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(cfg.Logger))
	r.Use(metrics.Middleware())

	r.Get("/health", cfg.Server.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(api gochi.Router) {
		api.Use(BearerAuthMiddleware(cfg.APIKeys))
		api.Use(SessionMiddleware(cfg.Sessions, cfg.Cookie))
		api.Post("/submit", cfg.Server.Submit)
		api.Post("/ask", cfg.Server.Ask)
		api.Post("/capture_domain", cfg.Server.CaptureDomain)
	})

	spa := SPAHandler(cfg.StaticDir)
	r.Group(func(web gochi.Router) {
		web.Use(SessionMiddleware(cfg.Sessions, cfg.Cookie))
		web.Method(http.MethodGet, "/", spa)
		web.Method(http.MethodGet, "/*", spa)
	})

	return r
}
