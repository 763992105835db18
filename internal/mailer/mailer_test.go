package mailer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myblog/internal/logger"
	"myblog/internal/metrics"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (r *recordingMailer) Send(ctx context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return r.err
}

func TestAsync_Send(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "delivered"},
		{name: "delivery error is swallowed", err: errors.New("smtp down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &recordingMailer{err: tt.err}
			async := NewAsync(next, logger.New("test"), metrics.Noop{})

			ctx, cancel := context.WithCancel(context.Background())
			require.NoError(t, async.Send(ctx, Message{Kind: "reset_password", To: []string{"a@example.com"}, Subject: "hi"}))
			cancel()
			async.Wait()

			require.Len(t, next.sent, 1)
			assert.Equal(t, "hi", next.sent[0].Subject)
		})
	}
}

func TestAdminAlert_Report(t *testing.T) {
	next := &recordingMailer{}
	NewAdminAlert(next, nil, logger.New("test")).Report(context.Background(), "boom", "trace")
	assert.Empty(t, next.sent)

	NewAdminAlert(next, []string{"admin@example.com"}, logger.New("test")).Report(context.Background(), "boom", "trace")
	require.Len(t, next.sent, 1)
	assert.Equal(t, []string{"admin@example.com"}, next.sent[0].To)
	assert.Equal(t, "Microblog Failure: boom", next.sent[0].Subject)
}

func TestBuildMessage(t *testing.T) {
	raw := string(BuildMessage("noreply@example.com", Message{
		To:      []string{"a@example.com", "b@example.com"},
		Subject: "Reset\r\nBcc: evil@example.com",
		Body:    "line one\nline two",
	}))

	assert.Contains(t, raw, "From: noreply@example.com\r\n")
	assert.Contains(t, raw, "To: a@example.com, b@example.com\r\n")
	assert.Contains(t, raw, "Subject: Reset  Bcc: evil@example.com\r\n")
	assert.NotContains(t, raw, "\r\nBcc:")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\nline one\r\nline two"))
}

func TestLogMailer_Send(t *testing.T) {
	msg := Message{
		Kind:    "reset_password",
		To:      []string{"a@example.com"},
		Subject: "[Microblog] Reset Your Password",
		Body:    "http://localhost:5000/reset_password/secret-token",
	}

	tests := []struct {
		name     string
		env      string
		wantBody bool
	}{
		{name: "prod keeps the body out of the log", env: "prod", wantBody: false},
		{name: "dev logs the body at debug", env: "dev", wantBody: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewLogMailer(logger.NewWithWriter(tt.env, &buf)).Send(context.Background(), msg))

			out := buf.String()
			assert.Contains(t, out, "a@example.com")
			assert.Contains(t, out, "Reset Your Password")
			assert.Equal(t, tt.wantBody, strings.Contains(out, "secret-token"))
		})
	}
}
