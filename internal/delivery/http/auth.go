package delivery_http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"myblog/internal/custom_errors"
	"myblog/internal/model"
)

type principalKey struct{}

func withPrincipal(ctx context.Context, p model.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns whoever Authenticate resolved for the request. It is
// never nil.
func PrincipalFrom(ctx context.Context) model.Principal {
	if p, ok := ctx.Value(principalKey{}).(model.Principal); ok && p != nil {
		return p
	}
	return model.AnonymousUser{}
}

// currentUser is the signed in user, or nil for anonymous requests.
func currentUser(r *http.Request) *model.User {
	if u, ok := PrincipalFrom(r.Context()).(*model.User); ok && u.IsAuthenticated() {
		return u
	}
	return nil
}

// Authenticate resolves the session cookie to a user. Requests without a
// usable session continue as anonymous.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var principal model.Principal = model.AnonymousUser{}

		if userID, err := h.sessions.CurrentUserID(r); err == nil {
			user, err := h.users.GetUserByID(ctx, userID)
			switch {
			case err == nil:
				principal = user
			case errors.Is(err, custom_errors.ErrUserNotFound):
				h.log.Debug("Session refers to missing user", slog.Int64("user_id", userID))
			default:
				h.log.Error("Failed to load session user", slog.Int64("user_id", userID), slog.String("error", err.Error()))
			}
		}

		next.ServeHTTP(w, r.WithContext(withPrincipal(ctx, principal)))
	})
}

// TouchLastSeen records activity for signed in users before the handler runs.
func (h *Handler) TouchLastSeen(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := currentUser(r); user != nil {
			if err := h.users.TouchLastSeen(r.Context(), user); err != nil {
				h.log.Warn("Failed to update last seen", slog.Int64("user_id", user.ID), slog.String("error", err.Error()))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth sends anonymous requests to the login page, remembering where
// they were headed.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if currentUser(r) == nil {
			setFlash(w, "Please log in to access this page.")
			redirect(w, r, "/login?"+url.Values{"next": {r.URL.RequestURI()}}.Encode())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// safeNext reports whether next is a relative path on this site. Anything
// with a scheme or host, or a path a browser would read as one, is refused.
func safeNext(next string) (string, bool) {
	if next == "" || !strings.HasPrefix(next, "/") {
		return "", false
	}
	if strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return "", false
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" || u.User != nil {
		return "", false
	}
	return next, true
}
