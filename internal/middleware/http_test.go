package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myblog/internal/logger"
	"myblog/internal/metrics"
)

type recordingReporter struct {
	subjects []string
}

func (r *recordingReporter) Report(ctx context.Context, subject string, details string) {
	r.subjects = append(r.subjects, subject)
}

type recordingMetrics struct {
	metrics.Noop
	routes   []string
	statuses []string
}

func (m *recordingMetrics) IncrementHTTPRequests(route, method, status string) {
	m.routes = append(m.routes, route)
	m.statuses = append(m.statuses, status)
}

func (m *recordingMetrics) RecordHTTPRequestDuration(string, string, time.Duration) {}

func TestRecoverer(t *testing.T) {
	reporter := &recordingReporter{}
	h := Recoverer(logger.New("test"), reporter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/index", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Len(t, reporter.subjects, 1)
	assert.Equal(t, "boom", reporter.subjects[0])
}

func TestRecoverer_NoPanic(t *testing.T) {
	reporter := &recordingReporter{}
	h := Recoverer(logger.New("test"), reporter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, reporter.subjects)
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	provider := &recordingMetrics{}
	r := chi.NewRouter()
	r.Use(Metrics(provider))
	r.Get("/user/{username}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, path := range []string{"/user/john", "/user/susan"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, []string{"/user/{username}", "/user/{username}"}, provider.routes)
	assert.Equal(t, []string{"404", "404"}, provider.statuses)
}
