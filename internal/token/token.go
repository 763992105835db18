package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"myblog/internal/custom_errors"
)

const resetPasswordClaim = "reset_password"

// ResetTokens issues and verifies signed password reset tokens. The token
// carries the user id under "reset_password" and an expiry.
type ResetTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewResetTokens(secret string, ttl time.Duration) *ResetTokens {
	return &ResetTokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (r *ResetTokens) Issue(userID int64) (string, error) {
	claims := jwt.MapClaims{
		resetPasswordClaim: userID,
		"exp":              r.now().Add(r.ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
	if err != nil {
		return "", fmt.Errorf("sign reset token: %w", err)
	}
	return signed, nil
}

// Verify returns the user id of a valid token and ErrInvalidToken otherwise.
func (r *ResetTokens) Verify(raw string) (int64, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return r.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(r.now),
	)
	if err != nil {
		return 0, errors.Join(custom_errors.ErrInvalidToken, err)
	}

	// JSON numbers decode as float64.
	id, ok := claims[resetPasswordClaim].(float64)
	if !ok || id <= 0 {
		return 0, custom_errors.ErrInvalidToken
	}
	return int64(id), nil
}
