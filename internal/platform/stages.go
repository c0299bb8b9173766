package platform

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/felixgeelhaar/evolvedu/internal/log"
	"github.com/felixgeelhaar/evolvedu/internal/notify"
)

// AuthStage is the request stage. It decorates a RoundTripper and attaches
// "Authorization: Bearer <token>" when the token source has a token. It never
// fails on its own: a missing or panicking source just means no header.
//
// The caller's request is never modified; the header goes on a clone.
type AuthStage struct {
	// Next performs the request. nil means http.DefaultTransport.
	Next http.RoundTripper

	// Tokens supplies the token. nil means no header.
	Tokens TokenSource

	// Host restricts the header to requests for this host, so a redirect
	// to another host does not carry the token. Empty means any host.
	Host string
}

// RoundTrip implements http.RoundTripper.
func (s *AuthStage) RoundTrip(req *http.Request) (*http.Response, error) {
	next := s.Next
	if next == nil {
		next = http.DefaultTransport
	}

	if s.Host != "" && req.URL.Host != s.Host {
		return next.RoundTrip(req)
	}

	token := s.token()
	if token == "" {
		return next.RoundTrip(req)
	}

	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+token)
	return next.RoundTrip(clone)
}

func (s *AuthStage) token() (token string) {
	if s.Tokens == nil {
		return ""
	}
	defer func() {
		if recover() != nil {
			token = ""
		}
	}()
	t, ok := s.Tokens.Token()
	if !ok {
		return ""
	}
	return t
}

// Failure describes a call that did not succeed: either a response with a
// non-2xx status, or no response at all (Err set).
type Failure struct {
	Method    string
	Path      string
	RequestID string
	Status    int
	Body      []byte
	Err       error
}

// ErrorStage is the response stage. Handle is called exactly once for every
// failed call. It classifies the failure, performs the one side effect the
// classification calls for, shows its messages, logs it and returns the
// resulting *APIError.
type ErrorStage struct {
	Session   TokenStore
	Notifier  notify.Notifier
	OnExpired SessionExpiredFunc
	Logger    *log.Logger
}

// Handle processes a failure. The returned error is never nil.
func (s *ErrorStage) Handle(ctx context.Context, f Failure) *APIError {
	logger := log.OrDefault(s.Logger)

	if f.Err != nil && stderrors.Is(f.Err, context.Canceled) {
		logger.DebugContext(ctx, "api request cancelled",
			"method", f.Method,
			"path", f.Path,
			"request_id", f.RequestID,
		)
		return &APIError{
			Code:      ErrNetwork.Code,
			Method:    f.Method,
			Path:      f.Path,
			RequestID: f.RequestID,
			Cause:     f.Err,
		}
	}

	c := Classify(f.Status, f.Body, f.Err)
	apiErr := &APIError{
		Code:        c.Code,
		Status:      f.Status,
		Method:      f.Method,
		Path:        f.Path,
		Messages:    c.Messages,
		FieldErrors: c.FieldErrors,
		Body:        f.Body,
		RequestID:   f.RequestID,
		Cause:       f.Err,
	}

	args := []any{
		"timestamp", time.Now().UTC().Format(time.RFC3339),
		"request_id", f.RequestID,
		"method", f.Method,
		"path", f.Path,
		"status", f.Status,
		"error_code", string(c.Code),
		"message", apiErr.Message(),
	}
	if f.Err != nil {
		args = append(args, "cause", f.Err.Error())
	}
	logger.ErrorContext(ctx, "API Error", args...)

	if c.ClearSession {
		if s.Session != nil {
			if err := s.Session.Clear(); err != nil {
				logger.WithError(err).WarnContext(ctx, "failed to clear expired session")
			}
		}
		if s.OnExpired != nil {
			s.OnExpired(ctx)
		}
	}

	n := s.Notifier
	if n == nil {
		n = notify.Discard
	}
	for _, msg := range c.Messages {
		n.Error(msg)
	}

	return apiErr
}
