package model

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	UsernameMaxLen = 64
	EmailMaxLen    = 120
	AboutMeMaxLen  = 140
)

// PasswordHashCost is the bcrypt cost used by SetPassword.
var PasswordHashCost = bcrypt.DefaultCost

type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	AboutMe      *string    `json:"about_me,omitempty"`
	LastSeen     *time.Time `json:"last_seen,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// AvatarURL returns the Gravatar identicon for the user's email.
func (u *User) AvatarURL(size int) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(u.Email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?d=identicon&s=%d", hex.EncodeToString(sum[:]), size)
}

// FollowedPosts describes the posts written by everyone u follows, newest
// first. The user's own posts are not included. Nothing is read until a post
// repository executes the filters, so callers can set Limit and Offset first.
func (u *User) FollowedPosts() PostFilters {
	id := u.ID
	return PostFilters{FollowedBy: &id}
}

func (u *User) IsAuthenticated() bool { return u != nil && u.ID != 0 }
func (u *User) IsActive() bool        { return u != nil && u.ID != 0 }
func (u *User) IsAnonymous() bool     { return u == nil || u.ID == 0 }

func (u *User) Identity() int64 {
	if u == nil {
		return 0
	}
	return u.ID
}
