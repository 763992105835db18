package delivery_http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"myblog/internal/config"
	"myblog/internal/logger"
	"myblog/internal/metrics"
	"myblog/internal/middleware"
)

func NewRouter(
	h *Handler,
	cfg config.HTTPServer,
	reporter middleware.Reporter,
	log *logger.Logger,
	metrics metrics.MetricsProvider,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chi_middleware.RequestID)
	r.Use(chi_middleware.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.Recoverer(log, reporter))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(h.notFound)
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method Not Allowed"})
	})

	r.Get("/healthz", h.Healthz)

	r.Group(func(r chi.Router) {
		r.Use(h.Authenticate)
		r.Use(h.TouchLastSeen)

		getPost(r, "/login", h.Login)
		r.Get("/logout", h.Logout)
		getPost(r, "/register", h.Register)
		getPost(r, "/reset_password_request", h.ResetPasswordRequest)
		getPost(r, "/reset_password/{token}", h.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireAuth)

			getPost(r, "/", h.Index)
			getPost(r, "/index", h.Index)
			r.Get("/explore", h.Explore)
			r.Get("/user/{username}", h.User)
			r.Get("/user/{username}/followers", h.Followers)
			r.Get("/user/{username}/following", h.Following)
			getPost(r, "/edit_profile", h.EditProfile)
			r.Post("/follow/{username}", h.Follow)
			r.Post("/unfollow/{username}", h.Unfollow)
		})
	})

	return r
}

func getPost(r chi.Router, pattern string, fn http.HandlerFunc) {
	r.Get(pattern, fn)
	r.Post(pattern, fn)
}
