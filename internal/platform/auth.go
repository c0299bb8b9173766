package platform

import (
	"context"

	"github.com/felixgeelhaar/evolvedu/internal/errors"
	"github.com/felixgeelhaar/evolvedu/internal/session"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents a signup request
type RegisterRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm,omitempty"`
}

// AuthResponse is returned by login and registration. Some backends send
// the token as "token", others as a JWT pair "access"/"refresh"; Token is
// normalized to the bearer token either way.
type AuthResponse struct {
	Token   string               `json:"token,omitempty"`
	Access  string               `json:"access,omitempty"`
	Refresh string               `json:"refresh,omitempty"`
	User    *session.UserProfile `json:"user,omitempty"`
}

// LoginResponse represents a login response
type LoginResponse = AuthResponse

// RegisterResponse represents a signup response. Token and User may be
// empty when the backend does not log the new user in.
type RegisterResponse = AuthResponse

func (r *AuthResponse) normalize() {
	if r.Token == "" {
		r.Token = r.Access
	}
}

// HasSession reports whether the response carries a usable session.
func (r *AuthResponse) HasSession() bool {
	return r != nil && r.Token != "" && r.User != nil
}

// ProfileUpdate holds the profile fields to change. nil fields are left
// untouched.
type ProfileUpdate struct {
	Username         *string `json:"username,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	Bio              *string `json:"bio,omitempty"`
	CurrentEducation *string `json:"current_education,omitempty"`
	CurrentJob       *string `json:"current_job,omitempty"`
}

// Empty reports whether no field is set.
func (u ProfileUpdate) Empty() bool {
	return u.Username == nil && u.Phone == nil && u.Bio == nil &&
		u.CurrentEducation == nil && u.CurrentJob == nil
}

// ChangePasswordRequest represents a password change
type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Login authenticates with email and password. The session is not stored
// here; that is the caller's decision.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.Post(ctx, "accounts/login/", req, &resp); err != nil {
		return nil, err
	}
	resp.normalize()

	if !resp.HasSession() {
		return nil, errors.NewSessionInvalidError("login response did not include a token and user")
	}
	return &resp, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := c.Post(ctx, "accounts/register/", req, &resp); err != nil {
		return nil, err
	}
	resp.normalize()
	return &resp, nil
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*session.UserProfile, error) {
	var user session.UserProfile
	if err := c.Get(ctx, "accounts/profile/", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile changes profile fields and returns the updated profile.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*session.UserProfile, error) {
	var user session.UserProfile
	if err := c.Patch(ctx, "accounts/profile/update/", update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword changes the authenticated user's password.
func (c *Client) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	return c.Post(ctx, "accounts/change-password/", req, nil)
}
