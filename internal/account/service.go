// Package account implements the user-facing account flows: login, signup,
// logout and profile changes. It validates input, drives the gateway and
// keeps the session store in step with the outcome.
package account

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/felixgeelhaar/evolvedu/internal/errors"
	"github.com/felixgeelhaar/evolvedu/internal/log"
	"github.com/felixgeelhaar/evolvedu/internal/notify"
	"github.com/felixgeelhaar/evolvedu/internal/platform"
	"github.com/felixgeelhaar/evolvedu/internal/session"
)

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 6

// Messages shown by the account flows.
const (
	MsgMissingFields    = "Please fill in all fields"
	MsgPasswordMismatch = "Passwords do not match"
	MsgPasswordTooShort = "Password must be at least 6 characters"
	MsgWelcomeBack      = "Welcome back!"
	MsgAccountCreated   = "Account created successfully!"
	MsgSignupNeedsLogin = "Account created successfully! Please login."
	MsgLoggedOut        = "Logged out successfully!"
	MsgProfileUpdated   = "Profile updated successfully!"
	MsgPasswordChanged  = "Password changed successfully!"
	MsgNothingToUpdate  = "Nothing to update"
)

// Input errors. They are returned before any request is sent.
var (
	ErrMissingFields    = errors.NewInputError(errors.ErrCodeMissingFields, MsgMissingFields)
	ErrPasswordMismatch = errors.NewInputError(errors.ErrCodePasswordMismatch, MsgPasswordMismatch)
	ErrPasswordTooShort = errors.NewInputError(errors.ErrCodePasswordTooShort, MsgPasswordTooShort)
)

// Gateway is the subset of the API client the account flows use.
type Gateway interface {
	Login(ctx context.Context, req platform.LoginRequest) (*platform.AuthResponse, error)
	Register(ctx context.Context, req platform.RegisterRequest) (*platform.AuthResponse, error)
	Profile(ctx context.Context) (*session.UserProfile, error)
	UpdateProfile(ctx context.Context, update platform.ProfileUpdate) (*session.UserProfile, error)
	ChangePassword(ctx context.Context, req platform.ChangePasswordRequest) error
}

// Sessions is the session store as seen by the account flows.
type Sessions interface {
	Load()
	Get() (session.Session, bool)
	Set(token string, user *session.UserProfile) error
	Clear() error
}

// Service runs the account flows.
type Service struct {
	gateway  Gateway
	sessions Sessions
	notifier notify.Notifier
	logger   *log.Logger
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithClock overrides the time source used for token expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a Service.
func NewService(gateway Gateway, sessions Sessions, notifier notify.Notifier, opts ...Option) *Service {
	if notifier == nil {
		notifier = notify.Discard
	}
	s := &Service{
		gateway:  gateway,
		sessions: sessions,
		notifier: notifier,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = log.OrDefault(s.logger).With("component", "account")
	return s
}

// Restore loads the persisted session and reports whether one is active.
func (s *Service) Restore() bool {
	s.sessions.Load()
	_, ok := s.sessions.Get()
	return ok
}

// Login signs in and stores the session. Gateway failures have already been
// shown to the user by the gateway and are returned as is.
func (s *Service) Login(ctx context.Context, email, password string) (*session.UserProfile, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		s.notifier.Error(MsgMissingFields)
		return nil, ErrMissingFields
	}

	resp, err := s.gateway.Login(ctx, platform.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Set(resp.Token, resp.User); err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "logged in", "user_id", resp.User.ID)
	s.notifier.Success(MsgWelcomeBack)
	return resp.User, nil
}

// SignupInput is what the signup form collects.
type SignupInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// SignupResult tells whether signup also logged the user in.
type SignupResult struct {
	User     *session.UserProfile
	LoggedIn bool
}

// Signup creates an account. If the backend returns a session it is stored
// and the user is logged in; otherwise the user is asked to log in.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*SignupResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || in.Password == "" {
		s.notifier.Error(MsgMissingFields)
		return nil, ErrMissingFields
	}
	if err := s.checkNewPassword(in.Password, in.ConfirmPassword); err != nil {
		return nil, err
	}

	resp, err := s.gateway.Register(ctx, platform.RegisterRequest{
		FirstName:       strings.TrimSpace(in.FirstName),
		LastName:        strings.TrimSpace(in.LastName),
		Email:           in.Email,
		Password:        in.Password,
		PasswordConfirm: in.ConfirmPassword,
	})
	if err != nil {
		return nil, err
	}

	if !resp.HasSession() {
		s.notifier.Success(MsgSignupNeedsLogin)
		return &SignupResult{User: resp.User}, nil
	}

	if err := s.sessions.Set(resp.Token, resp.User); err != nil {
		return nil, err
	}
	s.notifier.Success(MsgAccountCreated)
	return &SignupResult{User: resp.User, LoggedIn: true}, nil
}

// Logout clears the session. Logging out twice is fine.
func (s *Service) Logout() error {
	if err := s.sessions.Clear(); err != nil {
		return err
	}
	s.notifier.Success(MsgLoggedOut)
	return nil
}

// Whoami fetches the profile from the backend and refreshes the stored user.
func (s *Service) Whoami(ctx context.Context) (*session.UserProfile, error) {
	sess, ok := s.sessions.Get()
	if !ok {
		return nil, errors.NewNotLoggedInError()
	}

	user, err := s.gateway.Profile(ctx)
	if err != nil {
		return nil, err
	}
	s.refreshUser(sess.Token, user)
	return user, nil
}

// UpdateProfile changes profile fields.
func (s *Service) UpdateProfile(ctx context.Context, update platform.ProfileUpdate) (*session.UserProfile, error) {
	sess, ok := s.sessions.Get()
	if !ok {
		return nil, errors.NewNotLoggedInError()
	}
	if update.Empty() {
		s.notifier.Error(MsgNothingToUpdate)
		return nil, errors.NewInputError(errors.ErrCodeMissingFields, MsgNothingToUpdate)
	}

	user, err := s.gateway.UpdateProfile(ctx, update)
	if err != nil {
		return nil, err
	}
	s.refreshUser(sess.Token, user)
	s.notifier.Success(MsgProfileUpdated)
	return user, nil
}

// ChangePassword changes the password of the logged-in user.
func (s *Service) ChangePassword(ctx context.Context, oldPassword, newPassword, confirm string) error {
	if _, ok := s.sessions.Get(); !ok {
		return errors.NewNotLoggedInError()
	}
	if oldPassword == "" || newPassword == "" {
		s.notifier.Error(MsgMissingFields)
		return ErrMissingFields
	}
	if err := s.checkNewPassword(newPassword, confirm); err != nil {
		return err
	}

	err := s.gateway.ChangePassword(ctx, platform.ChangePasswordRequest{
		OldPassword:     oldPassword,
		NewPassword:     newPassword,
		ConfirmPassword: confirm,
	})
	if err != nil {
		return err
	}
	s.notifier.Success(MsgPasswordChanged)
	return nil
}

func (s *Service) checkNewPassword(password, confirm string) error {
	if password != confirm {
		s.notifier.Error(MsgPasswordMismatch)
		return ErrPasswordMismatch
	}
	if len([]rune(password)) < MinPasswordLength {
		s.notifier.Error(MsgPasswordTooShort)
		return ErrPasswordTooShort
	}
	return nil
}

// refreshUser stores a newer copy of the user under the same token. A
// failure only means the cached user is stale, so it is logged.
func (s *Service) refreshUser(token string, user *session.UserProfile) {
	if user == nil {
		return
	}
	if err := s.sessions.Set(token, user); err != nil {
		s.logger.WithError(err).Warn("failed to refresh stored user")
	}
}

// Status describes the current session.
type Status struct {
	LoggedIn  bool                 `json:"logged_in" yaml:"logged_in"`
	User      *session.UserProfile `json:"user,omitempty" yaml:"user,omitempty"`
	ExpiresAt *time.Time           `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	Expired   bool                 `json:"expired" yaml:"expired"`
}

// Status reports the current session without contacting the backend. The
// expiry is read from the token when it is a JWT; the signature is not
// checked since only the backend can do that.
func (s *Service) Status() Status {
	sess, ok := s.sessions.Get()
	if !ok {
		return Status{}
	}

	st := Status{LoggedIn: true, User: sess.User}
	if exp, ok := tokenExpiry(sess.Token); ok {
		st.ExpiresAt = &exp
		st.Expired = !s.now().Before(exp)
	}
	return st
}

func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
