package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myblog/internal/config"
	"myblog/internal/custom_errors"
	"myblog/internal/logger"
	"myblog/internal/metrics"
)

func newTestManager(store Store) *Manager {
	return NewManager(store, config.Session{
		CookieName:  "myblog_session",
		TTL:         24 * time.Hour,
		RememberTTL: 30 * 24 * time.Hour,
	}, logger.New("test"), metrics.Noop{})
}

func requestWith(cookies []*http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

func TestManager_CreateAndResolve(t *testing.T) {
	tests := []struct {
		name       string
		remember   bool
		wantMaxAge int
	}{
		{name: "browser session", remember: false, wantMaxAge: 0},
		{name: "remember me", remember: true, wantMaxAge: int((30 * 24 * time.Hour).Seconds())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(NewMemoryStore())
			rec := httptest.NewRecorder()
			require.NoError(t, m.Create(context.Background(), rec, httptest.NewRequest(http.MethodPost, "/login", nil), 7, tt.remember))

			cookies := rec.Result().Cookies()
			require.Len(t, cookies, 1)
			assert.True(t, cookies[0].HttpOnly)
			assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
			assert.Equal(t, tt.wantMaxAge, cookies[0].MaxAge)

			userID, err := m.CurrentUserID(requestWith(cookies))
			require.NoError(t, err)
			assert.Equal(t, int64(7), userID)
		})
	}
}

func TestManager_CurrentUserID_Invalid(t *testing.T) {
	m := newTestManager(NewMemoryStore())
	tests := []struct {
		name    string
		cookies []*http.Cookie
	}{
		{name: "no cookie"},
		{name: "not a uuid", cookies: []*http.Cookie{{Name: "myblog_session", Value: "1"}}},
		{name: "unknown id", cookies: []*http.Cookie{{Name: "myblog_session", Value: "8b1c1f4e-8a3c-4c7a-9d0e-0f8c2a7d9b11"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.CurrentUserID(requestWith(tt.cookies))
			assert.ErrorIs(t, err, custom_errors.ErrSessionNotFound)
		})
	}
}

func TestManager_LoginRotatesAndLogoutDestroys(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m := newTestManager(store)

	first := httptest.NewRecorder()
	require.NoError(t, m.Create(ctx, first, httptest.NewRequest(http.MethodPost, "/login", nil), 1, false))
	old := first.Result().Cookies()

	second := httptest.NewRecorder()
	require.NoError(t, m.Create(ctx, second, requestWith(old), 1, false))
	rotated := second.Result().Cookies()
	assert.NotEqual(t, old[0].Value, rotated[0].Value)

	_, err := m.CurrentUserID(requestWith(old))
	assert.ErrorIs(t, err, custom_errors.ErrSessionNotFound)

	out := httptest.NewRecorder()
	m.Destroy(ctx, out, requestWith(rotated))
	assert.Equal(t, -1, out.Result().Cookies()[0].MaxAge)
	_, err = m.CurrentUserID(requestWith(rotated))
	assert.ErrorIs(t, err, custom_errors.ErrSessionNotFound)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, "a", 1, time.Hour))
	id, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	now = now.Add(time.Hour)
	_, err = store.Load(ctx, "a")
	assert.ErrorIs(t, err, custom_errors.ErrSessionNotFound)
}
