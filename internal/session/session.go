package session

import (
	"errors"

	"github.com/oklog/ulid/v2"
)

// Role is the permission tier of an authenticated user
type Role string

const (
	RoleNone  Role = ""
	RoleUser  Role = "user"
	RoleMover Role = "mover"
	RoleAdmin Role = "admin"
)

var ErrNotFound = errors.New("session not found")

// Session is the client-held view of the authenticated user.
// A nil ID means the client is not logged in.
type Session struct {
	ID       *string `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Role     Role    `json:"role"`
}

// Empty returns the unauthenticated session shape
func Empty() Session {
	return Session{}
}

// New builds an authenticated session for the given user ID
func New(id, username, email string, role Role) Session {
	return Session{
		ID:       &id,
		Username: username,
		Email:    email,
		Role:     role,
	}
}

func (s Session) IsAuthenticated() bool {
	return s.ID != nil
}

// UserID returns the user ID or "" when unauthenticated
func (s Session) UserID() string {
	if s.ID == nil {
		return ""
	}
	return *s.ID
}

// Clone returns a copy that shares no memory with s
func (s Session) Clone() Session {
	if s.ID != nil {
		id := *s.ID
		s.ID = &id
	}
	return s
}

// Equal reports whether both sessions describe the same user
func (s Session) Equal(o Session) bool {
	if s.IsAuthenticated() != o.IsAuthenticated() {
		return false
	}
	return s.UserID() == o.UserID() &&
		s.Username == o.Username &&
		s.Email == o.Email &&
		s.Role == o.Role
}

// NewKey generates an opaque per-client session key
func NewKey() string {
	return ulid.Make().String()
}
