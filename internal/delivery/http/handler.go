package delivery_http

import (
	"context"
	"net/http"

	"myblog/internal/logger"
	password_service "myblog/internal/service/password"
	post_service "myblog/internal/service/post"
	user_service "myblog/internal/service/user"
)

// SessionManager binds a browser to a user id.
type SessionManager interface {
	Create(ctx context.Context, w http.ResponseWriter, r *http.Request, userID int64, remember bool) error
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request)
	CurrentUserID(r *http.Request) (int64, error)
}

type Handler struct {
	users     user_service.Service
	posts     post_service.Service
	passwords password_service.Service
	sessions  SessionManager
	log       *logger.Logger
}

func NewHandler(
	users user_service.Service,
	posts post_service.Service,
	passwords password_service.Service,
	sessions SessionManager,
	log *logger.Logger,
) *Handler {
	return &Handler{
		users:     users,
		posts:     posts,
		passwords: passwords,
		sessions:  sessions,
		log:       log,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
