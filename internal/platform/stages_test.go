package platform_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/felixgeelhaar/evolvedu/internal/log"
	"github.com/felixgeelhaar/evolvedu/internal/mocks"
	"github.com/felixgeelhaar/evolvedu/internal/platform"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

type staticTokens struct {
	token string
	ok    bool
}

func (s staticTokens) Token() (string, bool) {
	return s.token, s.ok
}

type panickingTokens struct{}

func (panickingTokens) Token() (string, bool) {
	panic("storage unavailable")
}

func captureAuth(t *testing.T, stage *platform.AuthStage, url string) (original, sent *http.Request) {
	t.Helper()

	stage.Next = roundTripFunc(func(r *http.Request) (*http.Response, error) {
		sent = r
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("{}"))}, nil
	})

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)

	resp, err := stage.RoundTrip(req)
	require.NoError(t, err)
	resp.Body.Close()
	return req, sent
}

func TestAuthStage(t *testing.T) {
	tests := []struct {
		name       string
		tokens     platform.TokenSource
		host       string
		url        string
		wantHeader string
	}{
		{
			name:       "token present",
			tokens:     staticTokens{token: "abc", ok: true},
			url:        "http://api.test/api/accounts/profile/",
			wantHeader: "Bearer abc",
		},
		{
			name:   "no token",
			tokens: staticTokens{},
			url:    "http://api.test/api/accounts/profile/",
		},
		{
			name: "no token source",
			url:  "http://api.test/api/accounts/profile/",
		},
		{
			name:   "token source panics",
			tokens: panickingTokens{},
			url:    "http://api.test/api/accounts/profile/",
		},
		{
			name:       "same host",
			tokens:     staticTokens{token: "abc", ok: true},
			host:       "api.test",
			url:        "http://api.test/api/accounts/profile/",
			wantHeader: "Bearer abc",
		},
		{
			name:   "other host",
			tokens: staticTokens{token: "abc", ok: true},
			host:   "api.test",
			url:    "http://elsewhere.test/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stage := &platform.AuthStage{Tokens: tt.tokens, Host: tt.host}

			original, sent := captureAuth(t, stage, tt.url)

			assert.Equal(t, tt.wantHeader, sent.Header.Get("Authorization"))
			assert.Empty(t, original.Header.Get("Authorization"), "caller's request must not be modified")
		})
	}
}

func TestErrorStage_Unauthorized(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockTokenStore(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)

	expired := 0
	stage := &platform.ErrorStage{
		Session:   store,
		Notifier:  notifier,
		OnExpired: func(context.Context) { expired++ },
		Logger:    log.Discard(),
	}

	gomock.InOrder(
		store.EXPECT().Clear().Return(nil).Times(1),
		notifier.EXPECT().Error(platform.MsgSessionExpired).Times(1),
	)

	err := stage.Handle(context.Background(), platform.Failure{Method: "GET", Path: "accounts/profile/", Status: 401})

	require.NotNil(t, err)
	assert.ErrorIs(t, err, platform.ErrAuthExpired)
	assert.Equal(t, 1, expired)
}

func TestErrorStage_LeavesSessionAlone(t *testing.T) {
	tests := []struct {
		name    string
		failure platform.Failure
		wantMsg string
		wantErr error
	}{
		{name: "forbidden", failure: platform.Failure{Status: 403}, wantMsg: platform.MsgForbidden, wantErr: platform.ErrForbidden},
		{name: "not found", failure: platform.Failure{Status: 404}, wantMsg: platform.MsgNotFound, wantErr: platform.ErrNotFound},
		{name: "server", failure: platform.Failure{Status: 503}, wantMsg: platform.MsgServer, wantErr: platform.ErrServer},
		{name: "network", failure: platform.Failure{Err: fmt.Errorf("connection refused")}, wantMsg: platform.MsgNetwork, wantErr: platform.ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mocks.NewMockTokenStore(ctrl)
			notifier := mocks.NewMockNotifier(ctrl)

			store.EXPECT().Clear().Times(0)
			notifier.EXPECT().Error(tt.wantMsg).Times(1)

			stage := &platform.ErrorStage{
				Session:   store,
				Notifier:  notifier,
				OnExpired: func(context.Context) { t.Error("session-expired callback must not run") },
				Logger:    log.Discard(),
			}

			err := stage.Handle(context.Background(), tt.failure)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestErrorStage_ValidationNotifiesEachMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockNotifier(ctrl)

	gomock.InOrder(
		notifier.EXPECT().Error("already taken"),
		notifier.EXPECT().Error("too short"),
	)

	stage := &platform.ErrorStage{Notifier: notifier, Logger: log.Discard()}
	err := stage.Handle(context.Background(), platform.Failure{
		Status: 422,
		Body:   []byte(`{"errors":{"password":["too short"],"email":"already taken"}}`),
	})

	assert.ErrorIs(t, err, platform.ErrValidation)
	assert.Equal(t, []string{"already taken", "too short"}, err.Messages)
	assert.Equal(t, []string{"already taken"}, err.FieldErrors["email"])
}

func TestErrorStage_CancelledIsSilent(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockTokenStore(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)

	stage := &platform.ErrorStage{Session: store, Notifier: notifier, Logger: log.Discard()}

	err := stage.Handle(context.Background(), platform.Failure{Err: fmt.Errorf("get: %w", context.Canceled)})

	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, platform.ErrNetwork)
	assert.Empty(t, err.Messages)
}

func TestErrorStage_LogsOnce(t *testing.T) {
	var buf strings.Builder
	logger := log.New(log.Config{Level: log.LevelInfo, Format: log.FormatJSON, Output: log.NewOutput(&buf)})

	stage := &platform.ErrorStage{Logger: logger}
	stage.Handle(context.Background(), platform.Failure{Method: "GET", Path: "accounts/profile/", RequestID: "req-1", Status: 404})

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "\n"), "exactly one log entry")
	assert.Contains(t, out, `"msg":"API Error"`)
	assert.Contains(t, out, `"request_id":"req-1"`)
	assert.Contains(t, out, `"status":404`)
	assert.Contains(t, out, `"path":"accounts/profile/"`)
	assert.Contains(t, out, `"timestamp"`)
}
