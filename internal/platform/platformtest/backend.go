// Package platformtest provides an in-process fake of the EvolvEd accounts
// API for tests.
package platformtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/felixgeelhaar/evolvedu/internal/session"
)

var signingKey = []byte("platformtest")

// Account is a user known to the Backend.
type Account struct {
	Profile  session.UserProfile
	Password string
}

// Override replaces the response of one route.
type Override struct {
	Status int
	Body   any
}

// Backend is a fake accounts API served under /api/.
type Backend struct {
	Server *httptest.Server

	mu         sync.Mutex
	accounts   map[string]*Account
	tokens     map[string]string
	nextID     int64
	overrides  map[string]Override
	authHeader map[string][]string
	hits       map[string]int
	tokenTTL   time.Duration
	autoLogin  bool
}

// NewBackend starts a Backend and registers its shutdown with t.
func NewBackend(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{
		accounts:   make(map[string]*Account),
		tokens:     make(map[string]string),
		nextID:     1,
		overrides:  make(map[string]Override),
		authHeader: make(map[string][]string),
		hits:       make(map[string]int),
		tokenTTL:   time.Hour,
		autoLogin:  true,
	}

	r := chi.NewRouter()
	r.Use(b.record)
	r.Route("/api/accounts", func(r chi.Router) {
		r.Post("/login/", b.login)
		r.Post("/register/", b.register)
		r.Get("/profile/", b.authenticated(b.profile))
		r.Patch("/profile/update/", b.authenticated(b.updateProfile))
		r.Post("/change-password/", b.authenticated(b.changePassword))
		r.Get("/dashboard-stats/", b.authenticated(b.dashboardStats))
	})

	b.Server = httptest.NewServer(r)
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the API base URL, e.g. "http://127.0.0.1:1234/api/".
func (b *Backend) URL() string {
	return b.Server.URL + "/api/"
}

// AddAccount registers a user and returns its profile.
func (b *Backend) AddAccount(email, password, name string) session.UserProfile {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addAccountLocked(email, password, name)
}

func (b *Backend) addAccountLocked(email, password, name string) session.UserProfile {
	p := session.UserProfile{ID: b.nextID, Email: email, Name: name, Role: "student"}
	b.nextID++
	b.accounts[strings.ToLower(email)] = &Account{Profile: p, Password: password}
	return p
}

// IssueToken creates a valid bearer token for an existing account.
func (b *Backend) IssueToken(email string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.issueLocked(strings.ToLower(email))
}

func (b *Backend) issueLocked(email string) string {
	acct := b.accounts[email]
	claims := jwt.MapClaims{
		"user_id": acct.Profile.ID,
		"exp":     time.Now().Add(b.tokenTTL).Unix(),
		"jti":     fmt.Sprintf("%d-%d", acct.Profile.ID, len(b.tokens)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		panic(err)
	}
	b.tokens[signed] = email
	return signed
}

// RevokeAll invalidates every issued token, so the next authenticated
// request gets a 401.
func (b *Backend) RevokeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens = make(map[string]string)
}

// SetAutoLogin controls whether registration returns a session.
func (b *Backend) SetAutoLogin(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.autoLogin = on
}

// Override makes the route at path (relative to /api/) answer with status
// and body until cleared.
func (b *Backend) Override(path string, status int, body any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.overrides["/api/"+strings.TrimLeft(path, "/")] = Override{Status: status, Body: body}
}

// ClearOverrides removes all overrides.
func (b *Backend) ClearOverrides() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.overrides = make(map[string]Override)
}

// Hits returns how many requests reached path (relative to /api/).
func (b *Backend) Hits(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits["/api/"+strings.TrimLeft(path, "/")]
}

// AuthHeaders returns the Authorization header of every request to path,
// in order. Requests without the header record "".
func (b *Backend) AuthHeaders(path string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.authHeader["/api/"+strings.TrimLeft(path, "/")]))
	copy(out, b.authHeader["/api/"+strings.TrimLeft(path, "/")])
	return out
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.hits[r.URL.Path]++
		b.authHeader[r.URL.Path] = append(b.authHeader[r.URL.Path], r.Header.Get("Authorization"))
		o, ok := b.overrides[r.URL.Path]
		b.mu.Unlock()

		if ok {
			writeJSON(w, o.Status, o.Body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) authenticated(h func(http.ResponseWriter, *http.Request, *Account)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
			return
		}

		b.mu.Lock()
		email, known := b.tokens[token]
		acct := b.accounts[email]
		b.mu.Unlock()

		if !known || acct == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
			return
		}
		h(w, r, acct)
	}
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	acct, ok := b.accounts[strings.ToLower(req.Email)]
	if !ok || acct.Password != req.Password {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid credentials"})
		return
	}

	access := b.issueLocked(strings.ToLower(req.Email))
	writeJSON(w, http.StatusOK, map[string]any{
		"user":    acct.Profile,
		"access":  access,
		"refresh": "refresh-" + access[len(access)-8:],
	})
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	email := strings.ToLower(req.Email)
	if _, taken := b.accounts[email]; taken {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"errors": map[string]any{"email": "already taken"},
		})
		return
	}

	name := strings.TrimSpace(req.FirstName + " " + req.LastName)
	profile := b.addAccountLocked(req.Email, req.Password, name)

	if !b.autoLogin {
		writeJSON(w, http.StatusCreated, map[string]any{"message": "Account created"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"user":  profile,
		"token": b.issueLocked(email),
	})
}

func (b *Backend) profile(w http.ResponseWriter, _ *http.Request, acct *Account) {
	b.mu.Lock()
	p := acct.Profile
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) updateProfile(w http.ResponseWriter, r *http.Request, acct *Account) {
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for k, v := range req {
		switch k {
		case "username":
			acct.Profile.Username = v
		case "phone":
			acct.Profile.Phone = v
		case "bio":
			acct.Profile.Bio = v
		case "current_education":
			acct.Profile.CurrentEducation = v
		case "current_job":
			acct.Profile.CurrentJob = v
		}
	}
	writeJSON(w, http.StatusOK, acct.Profile)
}

func (b *Backend) changePassword(w http.ResponseWriter, r *http.Request, acct *Account) {
	var req struct {
		OldPassword     string `json:"old_password"`
		NewPassword     string `json:"new_password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if req.NewPassword != req.ConfirmPassword {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"errors": map[string]any{"confirm_password": []string{"New passwords don't match"}},
		})
		return
	}
	if acct.Password != req.OldPassword {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Old password is incorrect"})
		return
	}
	acct.Password = req.NewPassword
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

func (b *Backend) dashboardStats(w http.ResponseWriter, _ *http.Request, _ *Account) {
	writeJSON(w, http.StatusOK, map[string]any{
		"total_quizzes_taken":   4,
		"total_notes_generated": 7,
		"current_level":         "Beginner",
		"study_time_minutes":    95,
		"streak_days":           3,
		"completed_roadmaps":    1,
		"current_roadmaps":      2,
		"achievements":          []string{"first-quiz"},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}
