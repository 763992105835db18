package password_service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"myblog/internal/custom_errors"
	"myblog/internal/logger"
	"myblog/internal/mailer"
	"myblog/internal/metrics"
	"myblog/internal/model"
	"myblog/internal/repository/memory"
	"myblog/internal/token"
)

func init() {
	model.PasswordHashCost = bcrypt.MinCost
}

type outbox struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (o *outbox) Send(ctx context.Context, msg mailer.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, msg)
	return nil
}

func setupPasswordService(t *testing.T) (*PasswordService, *memory.Store, *outbox, *model.User) {
	t.Helper()
	log := logger.New("test")
	store := memory.NewStore(log)
	user := &model.User{Username: "john", Email: "john@example.com"}
	require.NoError(t, user.SetPassword("cat"))
	created, err := store.Users.Create(context.Background(), user)
	require.NoError(t, err)

	box := &outbox{}
	tokens := token.NewResetTokens("secret", 10*time.Minute)
	s := NewPasswordService(store.Users, store, tokens, box, "http://localhost:5000/reset_password/", log, metrics.Noop{})
	return s, store, box, created
}

func tokenFromMail(t *testing.T, msg mailer.Message) string {
	t.Helper()
	const prefix = "http://localhost:5000/reset_password/"
	i := strings.Index(msg.Body, prefix)
	require.GreaterOrEqual(t, i, 0)
	rest := msg.Body[i+len(prefix):]
	return strings.Fields(rest)[0]
}

func TestPasswordService_RequestReset(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		wantMail bool
	}{
		{name: "known email", email: "john@example.com", wantMail: true},
		{name: "known email, different case", email: " John@Example.com ", wantMail: true},
		{name: "unknown email", email: "nobody@example.com", wantMail: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, box, _ := setupPasswordService(t)
			require.NoError(t, s.RequestReset(context.Background(), tt.email))
			if !tt.wantMail {
				assert.Empty(t, box.sent)
				return
			}
			require.Len(t, box.sent, 1)
			assert.Equal(t, []string{"john@example.com"}, box.sent[0].To)
			assert.Equal(t, "[Microblog] Reset Your Password", box.sent[0].Subject)
			assert.Equal(t, "reset_password", box.sent[0].Kind)
		})
	}
}

func TestPasswordService_ResetPassword(t *testing.T) {
	ctx := context.Background()
	s, store, box, john := setupPasswordService(t)
	require.NoError(t, s.RequestReset(ctx, john.Email))
	require.Len(t, box.sent, 1)
	tok := tokenFromMail(t, box.sent[0])

	assert.ErrorIs(t, s.ResetPassword(ctx, "bogus", "dog"), custom_errors.ErrInvalidToken)
	assert.ErrorIs(t, s.ResetPassword(ctx, tok, ""), custom_errors.ErrUserValidation)

	require.NoError(t, s.ResetPassword(ctx, tok, "dog"))
	updated, err := store.Users.GetByID(ctx, john.ID)
	require.NoError(t, err)
	assert.True(t, updated.CheckPassword("dog"))
	assert.False(t, updated.CheckPassword("cat"))
}

func TestPasswordService_ResetPassword_DeletedUser(t *testing.T) {
	s, _, _, _ := setupPasswordService(t)
	tok, err := token.NewResetTokens("secret", time.Minute).Issue(999)
	require.NoError(t, err)
	assert.ErrorIs(t, s.ResetPassword(context.Background(), tok, "dog"), custom_errors.ErrInvalidToken)
}

func TestPasswordService_CheckToken(t *testing.T) {
	ctx := context.Background()
	s, _, _, john := setupPasswordService(t)
	tok, err := token.NewResetTokens("secret", time.Minute).Issue(john.ID)
	require.NoError(t, err)

	user, err := s.CheckToken(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, john.ID, user.ID)

	_, err = s.CheckToken(ctx, "bogus")
	assert.ErrorIs(t, err, custom_errors.ErrInvalidToken)

	wrongKey, err := token.NewResetTokens("other", time.Minute).Issue(john.ID)
	require.NoError(t, err)
	_, err = s.CheckToken(ctx, wrongKey)
	assert.ErrorIs(t, err, custom_errors.ErrInvalidToken)
}
