package model

// Principal is what the session layer knows about whoever sent a request.
type Principal interface {
	IsAuthenticated() bool
	IsActive() bool
	IsAnonymous() bool
	// Identity is the stable user id, zero for anonymous principals.
	Identity() int64
}

type AnonymousUser struct{}

func (AnonymousUser) IsAuthenticated() bool { return false }
func (AnonymousUser) IsActive() bool        { return false }
func (AnonymousUser) IsAnonymous() bool     { return true }
func (AnonymousUser) Identity() int64       { return 0 }
