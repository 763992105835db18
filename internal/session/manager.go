package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"myblog/internal/config"
	"myblog/internal/custom_errors"
	"myblog/internal/logger"
	"myblog/internal/metrics"
)

// Manager ties an opaque cookie to a server-side session record.
type Manager struct {
	store       Store
	cookieName  string
	secure      bool
	ttl         time.Duration
	rememberTTL time.Duration
	log         *logger.Logger
	metrics     metrics.MetricsProvider
}

func NewManager(store Store, cfg config.Session, log *logger.Logger, metrics metrics.MetricsProvider) *Manager {
	return &Manager{
		store:       store,
		cookieName:  cfg.CookieName,
		secure:      cfg.CookieSecure,
		ttl:         cfg.TTL,
		rememberTTL: cfg.RememberTTL,
		log:         log,
		metrics:     metrics,
	}
}

// Create starts a new session for userID. Any session the request already
// carried is destroyed first so that ids are never reused across logins.
func (m *Manager) Create(ctx context.Context, w http.ResponseWriter, r *http.Request, userID int64, remember bool) error {
	m.destroyStored(ctx, r)

	ttl := m.ttl
	if remember {
		ttl = m.rememberTTL
	}
	id := uuid.New().String()
	if err := m.store.Save(ctx, id, userID, ttl); err != nil {
		m.log.Error("Failed to save session", slog.Int64("user_id", userID), slog.String("error", err.Error()))
		return err
	}

	cookie := &http.Cookie{
		Name:     m.cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	// Without "remember me" the cookie lives as long as the browser session.
	if remember {
		cookie.Expires = time.Now().Add(ttl)
		cookie.MaxAge = int(ttl.Seconds())
	}
	http.SetCookie(w, cookie)
	m.refreshGauge(ctx)
	return nil
}

func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	m.destroyStored(ctx, r)
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
	m.refreshGauge(ctx)
}

// CurrentUserID resolves the request's session. It returns
// ErrSessionNotFound when there is no usable session.
func (m *Manager) CurrentUserID(r *http.Request) (int64, error) {
	c, err := r.Cookie(m.cookieName)
	if err != nil || c.Value == "" {
		return 0, custom_errors.ErrSessionNotFound
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return 0, custom_errors.ErrSessionNotFound
	}
	userID, err := m.store.Load(r.Context(), c.Value)
	if err != nil {
		if !errors.Is(err, custom_errors.ErrSessionNotFound) {
			m.log.Error("Failed to load session", slog.String("error", err.Error()))
		}
		return 0, custom_errors.ErrSessionNotFound
	}
	return userID, nil
}

func (m *Manager) destroyStored(ctx context.Context, r *http.Request) {
	c, err := r.Cookie(m.cookieName)
	if err != nil || c.Value == "" {
		return
	}
	if err := m.store.Delete(ctx, c.Value); err != nil {
		m.log.Warn("Failed to delete session", slog.String("error", err.Error()))
	}
}

func (m *Manager) refreshGauge(ctx context.Context) {
	count, err := m.store.Count(ctx)
	if err != nil {
		m.log.Debug("Failed to count sessions", slog.String("error", err.Error()))
		return
	}
	m.metrics.SetActiveSessions(count)
}
