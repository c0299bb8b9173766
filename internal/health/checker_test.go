package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/evolvedu/internal/account"
	"github.com/felixgeelhaar/evolvedu/internal/session"
	"github.com/felixgeelhaar/evolvedu/internal/storage"
)

func TestStatusSymbol(t *testing.T) {
	assert.Equal(t, "✓", StatusHealthy.Symbol())
	assert.Equal(t, "!", StatusDegraded.Symbol())
	assert.Equal(t, "✗", StatusUnhealthy.Symbol())
	assert.Equal(t, "degraded", StatusDegraded.String())
}

func TestResultChaining(t *testing.T) {
	r := Degraded("slow").
		WithDetail("status", "503").
		WithHint("wait").
		WithLatency(time.Second)

	assert.Equal(t, StatusDegraded, r.Status)
	assert.Equal(t, "slow", r.Message)
	assert.Equal(t, map[string]string{"status": "503"}, r.Details)
	assert.Equal(t, "wait", r.Hint)
	assert.Equal(t, time.Second, r.Latency)
}

func TestAPIChecker(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   Status
	}{
		{"not found still means up", http.StatusNotFound, StatusHealthy},
		{"unauthorized still means up", http.StatusUnauthorized, StatusHealthy},
		{"server error", http.StatusBadGateway, StatusDegraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var authHeader string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				authHeader = r.Header.Get("Authorization")
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			r := NewAPIChecker(srv.URL+"/api/", nil).Check(context.Background())

			assert.Equal(t, tt.want, r.Status)
			assert.Equal(t, srv.URL+"/api/", r.Details["url"])
			assert.Empty(t, authHeader)
		})
	}
}

func TestAPIChecker_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/api/"
	srv.Close()

	r := NewAPIChecker(url, nil).Check(context.Background())

	assert.Equal(t, StatusUnhealthy, r.Status)
	assert.Contains(t, r.Hint, "EVOLVEDU_API_URL")
	assert.NotEmpty(t, r.Details["error"])
}

func TestStorageChecker(t *testing.T) {
	kv := storage.NewMemoryKV()

	r := NewStorageChecker(kv, "memory").Check(context.Background())

	assert.Equal(t, StatusHealthy, r.Status)
	assert.Equal(t, "memory", r.Details["location"])
	assert.Equal(t, 0, kv.Len(), "the probe key is removed")
}

type failingKV struct{ storage.KV }

func (failingKV) Set(string, string) error { return errors.New("read-only file system") }

func TestStorageChecker_ReadOnly(t *testing.T) {
	r := NewStorageChecker(failingKV{storage.NewMemoryKV()}, "/ro").Check(context.Background())

	assert.Equal(t, StatusUnhealthy, r.Status)
	assert.Equal(t, "read-only file system", r.Details["error"])
	assert.Contains(t, r.Hint, "EVOLVEDU_DATA_DIR")
}

type fixedStatus account.Status

func (f fixedStatus) Status() account.Status { return account.Status(f) }

func TestSessionChecker(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	user := &session.UserProfile{Email: "ada@example.com"}

	tests := []struct {
		name   string
		status account.Status
		want   Status
		msg    string
	}{
		{"logged out", account.Status{}, StatusHealthy, "not logged in"},
		{"active", account.Status{LoggedIn: true, User: user, ExpiresAt: &exp}, StatusHealthy, "logged in"},
		{"expired", account.Status{LoggedIn: true, User: user, ExpiresAt: &exp, Expired: true}, StatusDegraded, "session token has expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewSessionChecker(fixedStatus(tt.status)).Check(context.Background())
			assert.Equal(t, tt.want, r.Status)
			assert.Equal(t, tt.msg, r.Message)
			if tt.status.LoggedIn {
				require.Equal(t, "ada@example.com", r.Details["user"])
			}
		})
	}
}
