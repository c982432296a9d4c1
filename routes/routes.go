package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/upb/forum-backend/app"
	"github.com/upb/forum-backend/handlers"
	"github.com/upb/forum-backend/internal/observability"
	"go.uber.org/zap"
)

// SetupRoutes configures the API router: the shared middleware stack,
// authentication for every request and the per-route policies from Bindings
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(deps.Logger))
	r.Use(chimiddleware.Recoverer)
	if timeout := deps.Config.Server.RequestTimeout; timeout > 0 {
		r.Use(chimiddleware.Timeout(timeout))
	}

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if deps.Config.Observability.MetricsEnabled {
		r.Use(observability.InstrumentHTTP)
	}
	r.Use(deps.AuthMiddleware.Authenticate)

	for _, b := range Bindings(deps.AccountHandler, deps.PostHandler, deps.PostLookup) {
		r.With(deps.Authorizer.Require(b.Policies...)).Method(b.Method, b.Pattern, b.Handler)
	}

	notFound := handlers.RouteNotFound(deps.Logger)
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	return r
}

// SetupOpsRoutes configures the operations listener: probes and metrics
func SetupOpsRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)

	var db handlers.HealthChecker
	if deps.DB != nil {
		db = deps.DB
	}
	health := handlers.NewHealthHandler(db, deps.Logger)

	r.Get("/healthz", health.HandleHealth)
	r.Get("/readyz", health.HandleReadiness)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// RequestLogger logs one line per request with its outcome
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			fields := []zap.Field{
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote_ip", r.RemoteAddr),
			}

			reqLogger := observability.ForRequest(logger, r)
			switch {
			case status >= http.StatusInternalServerError:
				reqLogger.Error("request completed", fields...)
			case status >= http.StatusBadRequest:
				reqLogger.Info("request completed", fields...)
			default:
				reqLogger.Debug("request completed", fields...)
			}
		})
	}
}
