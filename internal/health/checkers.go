package health

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/felixgeelhaar/evolvedu/internal/account"
	"github.com/felixgeelhaar/evolvedu/internal/storage"
)

// APIChecker probes the API base URL. Any HTTP answer below 500 means the
// server is up; the probe carries no credentials so it cannot end the
// session.
type APIChecker struct {
	baseURL string
	client  *http.Client
}

// NewAPIChecker creates a checker for baseURL. A nil client uses
// http.DefaultClient.
func NewAPIChecker(baseURL string, client *http.Client) *APIChecker {
	if client == nil {
		client = http.DefaultClient
	}
	return &APIChecker{baseURL: baseURL, client: client}
}

func (c *APIChecker) Name() string { return "api-reachable" }

func (c *APIChecker) Check(ctx context.Context) *Result {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return Unhealthy("invalid API URL").
			WithDetail("url", c.baseURL).
			WithDetail("error", err.Error()).
			WithHint("Set EVOLVEDU_API_URL or pass --api-url")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Unhealthy("API is unreachable").
			WithDetail("url", c.baseURL).
			WithDetail("error", err.Error()).
			WithHint("Check that the EvolvEd API is running and that EVOLVEDU_ORIGIN and EVOLVEDU_API_URL point to it").
			WithLatency(time.Since(start))
	}
	defer func() { _ = resp.Body.Close() }()

	r := Healthy("API is reachable")
	if resp.StatusCode >= http.StatusInternalServerError {
		r = Degraded(fmt.Sprintf("API answered with %d", resp.StatusCode)).
			WithHint("The server is having problems; try again in a moment")
	}
	return r.
		WithDetail("url", c.baseURL).
		WithDetail("status", strconv.Itoa(resp.StatusCode)).
		WithLatency(time.Since(start))
}

// ProbeKey is the key StorageChecker writes and removes.
const ProbeKey = "doctor_probe"

// StorageChecker verifies that the session storage accepts writes.
type StorageChecker struct {
	kv       storage.KV
	location string
}

// NewStorageChecker checks kv; location is shown in the report.
func NewStorageChecker(kv storage.KV, location string) *StorageChecker {
	return &StorageChecker{kv: kv, location: location}
}

func (c *StorageChecker) Name() string { return "session-storage" }

func (c *StorageChecker) Check(ctx context.Context) *Result {
	if err := ctx.Err(); err != nil {
		return Unhealthy("check cancelled").WithDetail("error", err.Error())
	}

	value := strconv.FormatInt(time.Now().UnixNano(), 10)
	fail := func(step string, err error) *Result {
		return Unhealthy(fmt.Sprintf("session storage is not usable (%s)", step)).
			WithDetail("location", c.location).
			WithDetail("error", err.Error()).
			WithHint("Set EVOLVEDU_DATA_DIR to a writable directory")
	}

	if err := c.kv.Set(ProbeKey, value); err != nil {
		return fail("write", err)
	}
	got, ok, err := c.kv.Get(ProbeKey)
	if err != nil {
		return fail("read", err)
	}
	if !ok || got != value {
		return fail("read", fmt.Errorf("probe value did not round-trip"))
	}
	if err := c.kv.Remove(ProbeKey); err != nil {
		return fail("remove", err)
	}
	return Healthy("session storage is writable").WithDetail("location", c.location)
}

// StatusReporter reports the local session state.
type StatusReporter interface {
	Status() account.Status
}

// SessionChecker reports whether a usable session is stored. Being logged
// out is healthy; an expired token is degraded.
type SessionChecker struct {
	sessions StatusReporter
}

func NewSessionChecker(sessions StatusReporter) *SessionChecker {
	return &SessionChecker{sessions: sessions}
}

func (c *SessionChecker) Name() string { return "session" }

func (c *SessionChecker) Check(_ context.Context) *Result {
	st := c.sessions.Status()
	if !st.LoggedIn {
		return Healthy("not logged in").WithHint("Run 'evolvedu auth login' to sign in")
	}

	r := Healthy("logged in")
	if st.User != nil {
		r.WithDetail("user", st.User.Email)
	}
	if st.ExpiresAt != nil {
		r.WithDetail("expires", st.ExpiresAt.Format(time.RFC1123))
		if st.Expired {
			r.Status = StatusDegraded
			r.Message = "session token has expired"
			r.Hint = "Run 'evolvedu auth login' to sign in again"
		}
	}
	return r
}
