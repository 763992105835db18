package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myblog/internal/custom_errors"
)

func TestResetTokens(t *testing.T) {
	issuedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tokens := NewResetTokens("secret", 10*time.Minute)
	tokens.now = func() time.Time { return issuedAt }

	valid, err := tokens.Issue(42)
	require.NoError(t, err)

	otherKey := NewResetTokens("other", 10*time.Minute)
	otherKey.now = tokens.now
	forged, err := otherKey.Issue(42)
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"reset_password": 42, "exp": issuedAt.Add(time.Hour).Unix()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	missingClaim, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": issuedAt.Add(time.Hour).Unix()}).
		SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		at      time.Time
		wantID  int64
		wantErr bool
	}{
		{name: "valid", token: valid, at: issuedAt.Add(5 * time.Minute), wantID: 42},
		{name: "expired", token: valid, at: issuedAt.Add(11 * time.Minute), wantErr: true},
		{name: "wrong key", token: forged, at: issuedAt, wantErr: true},
		{name: "unsigned", token: noneAlg, at: issuedAt, wantErr: true},
		{name: "no user claim", token: missingClaim, at: issuedAt, wantErr: true},
		{name: "garbage", token: "not-a-token", at: issuedAt, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens.now = func() time.Time { return tt.at }
			id, err := tokens.Verify(tt.token)
			if tt.wantErr {
				assert.ErrorIs(t, err, custom_errors.ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
		})
	}
}
