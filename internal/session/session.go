// Package session holds the authenticated session of the current user and
// keeps it in sync with durable storage.
package session

import (
	"strings"
)

// Storage keys. They are shared with any other client of the same origin,
// so the names and encodings are part of the persisted format.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// UserProfile is the authenticated user as returned by the backend.
type UserProfile struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`

	Phone            string `json:"phone,omitempty"`
	Bio              string `json:"bio,omitempty"`
	CurrentEducation string `json:"current_education,omitempty"`
	CurrentJob       string `json:"current_job,omitempty"`
	CurrentLevel     string `json:"current_level,omitempty"`
}

// DisplayName returns the name to greet the user with.
func (u *UserProfile) DisplayName() string {
	if u == nil {
		return ""
	}
	if n := strings.TrimSpace(u.Name); n != "" {
		return n
	}
	if u.Username != "" {
		return u.Username
	}
	if at := strings.IndexByte(u.Email, '@'); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}

// Session is a bearer token together with the user it belongs to.
// A zero Session means nobody is logged in.
type Session struct {
	Token string
	User  *UserProfile
}

// Active reports whether the session carries both a token and a user.
func (s Session) Active() bool {
	return s.Token != "" && s.User != nil
}
