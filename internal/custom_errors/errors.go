package custom_errors

import "errors"

// Storage
var (
	ErrDatabaseQuery = errors.New("database query failed")
	ErrDatabaseScan  = errors.New("database scan failed")
)

// Users
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserValidation     = errors.New("user validation failed")
)

// Posts
var (
	ErrPostValidation = errors.New("post validation failed")
)

// Follow graph
var (
	ErrCannotFollowSelf = errors.New("cannot follow yourself")
)

// Sessions, tokens and auth
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidToken    = errors.New("invalid or expired token")
)

// Cache
var (
	ErrCacheMiss = errors.New("cache miss")
)

// Mail
var (
	ErrMailSend = errors.New("failed to send mail")
)
