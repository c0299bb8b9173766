package account_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/evolvedu/internal/account"
	"github.com/felixgeelhaar/evolvedu/internal/log"
	"github.com/felixgeelhaar/evolvedu/internal/notify"
	"github.com/felixgeelhaar/evolvedu/internal/platform"
	"github.com/felixgeelhaar/evolvedu/internal/platform/platformtest"
	"github.com/felixgeelhaar/evolvedu/internal/session"
	"github.com/felixgeelhaar/evolvedu/internal/storage"
)

// TestAccountLifecycle drives the flows against the fake backend through
// the real gateway: signup, restart, expiry and login again.
func TestAccountLifecycle(t *testing.T) {
	backend := platformtest.NewBackend(t)
	kv := storage.NewFileKV(t.TempDir())
	toasts := notify.NewRecorder()
	ctx := context.Background()

	newService := func() (*account.Service, *session.Store) {
		store := session.NewStore(kv, session.WithLogger(log.Discard()))
		client, err := platform.NewClient(backend.URL(),
			platform.WithSession(store),
			platform.WithNotifier(toasts),
			platform.WithLogger(log.Discard()),
		)
		require.NoError(t, err)
		return account.NewService(client, store, toasts, account.WithLogger(log.Discard())), store
	}

	svc, _ := newService()
	res, err := svc.Signup(ctx, account.SignupInput{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "ada@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	require.True(t, res.LoggedIn)
	assert.Equal(t, "Ada Lovelace", res.User.DisplayName())

	// A new process picks the session up from disk.
	svc, store := newService()
	require.True(t, svc.Restore())
	user, err := svc.Whoami(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.True(t, svc.Status().LoggedIn)
	assert.NotNil(t, svc.Status().ExpiresAt)

	// The backend stops accepting the token.
	backend.RevokeAll()
	toasts.Reset()
	_, err = svc.Whoami(ctx)
	require.ErrorIs(t, err, platform.ErrAuthExpired)
	assert.Equal(t, []string{platform.MsgSessionExpired}, toasts.Messages(notify.KindError))
	_, ok := store.Get()
	assert.False(t, ok)

	svc, _ = newService()
	assert.False(t, svc.Restore(), "the cleared session must not come back")

	// Signing up again with the same email fails field validation.
	toasts.Reset()
	_, err = svc.Signup(ctx, account.SignupInput{Email: "ada@example.com", Password: "secret1", ConfirmPassword: "secret1"})
	require.ErrorIs(t, err, platform.ErrValidation)
	assert.Equal(t, []string{"already taken"}, toasts.Messages(notify.KindError))

	toasts.Reset()
	_, err = svc.Login(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, []string{account.MsgWelcomeBack}, toasts.Messages(notify.KindSuccess))

	require.NoError(t, svc.Logout())
	svc, _ = newService()
	assert.False(t, svc.Restore())
}

func TestSignup_BackendWithoutAutoLogin(t *testing.T) {
	backend := platformtest.NewBackend(t)
	backend.SetAutoLogin(false)

	store := session.NewStore(storage.NewMemoryKV(), session.WithLogger(log.Discard()))
	toasts := notify.NewRecorder()
	client, err := platform.NewClient(backend.URL(), platform.WithSession(store), platform.WithNotifier(toasts), platform.WithLogger(log.Discard()))
	require.NoError(t, err)
	svc := account.NewService(client, store, toasts, account.WithLogger(log.Discard()))

	res, err := svc.Signup(context.Background(), account.SignupInput{
		Email:           "grace@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	require.NoError(t, err)

	assert.False(t, res.LoggedIn)
	assert.Equal(t, []string{account.MsgSignupNeedsLogin}, toasts.Messages(notify.KindSuccess))
}
