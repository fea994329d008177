package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"logleet-backend/internal/handlers"
	"logleet-backend/internal/middleware"
	"logleet-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	recordHandler *handlers.RecordHandler,
	catalogHandler *handlers.CatalogHandler,
	deviceHandler *handlers.DeviceHandler,
	userHandler *handlers.UserHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Get("/verify-email", authHandler.VerifyEmail)
			r.Post("/resend-verification", authHandler.ResendVerification)

			// Logout requires auth
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// ──── Practice Record Routes ────
		r.Route("/records", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", recordHandler.List)
			r.Post("/", recordHandler.Create)
			r.Get("/stats", recordHandler.Stats)
			r.Get("/{id}", recordHandler.Get)
			r.Put("/{id}", recordHandler.Update)
			r.Delete("/{id}", recordHandler.Delete)
		})

		// ──── Problem Catalog Routes ────
		r.Route("/catalog", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/search", catalogHandler.Search)
		})

		// ──── Device Routes ────
		r.Route("/devices", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", deviceHandler.List)
			r.Post("/", deviceHandler.Register)
			r.Delete("/{id}", deviceHandler.Delete)
		})

		// ──── User Routes ────
		r.Route("/user", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/me", userHandler.GetMe)
			r.Put("/password", userHandler.ChangePassword)
			r.Delete("/me", userHandler.DeleteMe)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
