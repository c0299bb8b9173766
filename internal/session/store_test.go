package session

import (
	stderrors "errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/evolvedu/internal/errors"
	"github.com/felixgeelhaar/evolvedu/internal/log"
	"github.com/felixgeelhaar/evolvedu/internal/storage"
)

func newTestStore(kv storage.KV) *Store {
	return NewStore(kv, WithLogger(log.Discard()))
}

func testUser() *UserProfile {
	return &UserProfile{ID: 1, Email: "a@b.co", Name: "Ada"}
}

// failingKV wraps a MemoryKV and fails Set for one key.
type failingKV struct {
	*storage.MemoryKV
	failSetKey string
}

func (f *failingKV) Set(key, value string) error {
	if key == f.failSetKey {
		return stderrors.New("disk full")
	}
	return f.MemoryKV.Set(key, value)
}

func TestStore_EmptyByDefault(t *testing.T) {
	s := newTestStore(storage.NewMemoryKV())
	s.Load()

	_, ok := s.Get()
	assert.False(t, ok)
	_, ok = s.Token()
	assert.False(t, ok)
	_, ok = s.User()
	assert.False(t, ok)
}

func TestStore_SetThenLoadRoundTrips(t *testing.T) {
	kv := storage.NewMemoryKV()
	require.NoError(t, newTestStore(kv).Set("abc", testUser()))

	fresh := newTestStore(kv)
	fresh.Load()

	sess, ok := fresh.Get()
	require.True(t, ok)
	assert.Equal(t, "abc", sess.Token)
	assert.Equal(t, testUser(), sess.User)
}

func TestStore_SetWritesThrough(t *testing.T) {
	kv := storage.NewMemoryKV()
	s := newTestStore(kv)

	require.NoError(t, s.Set("abc", testUser()))

	token, ok, err := kv.Get(KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	user, ok, err := kv.Get(KeyUser)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"id":1,"email":"a@b.co","name":"Ada"}`, user)
}

func TestStore_SetRejectsIncompleteSession(t *testing.T) {
	s := newTestStore(storage.NewMemoryKV())

	err := s.Set("", testUser())
	assert.ErrorIs(t, err, errors.New(errors.ErrCodeSessionInvalid, ""))

	err = s.Set("abc", nil)
	assert.ErrorIs(t, err, errors.New(errors.ErrCodeSessionInvalid, ""))

	_, ok := s.Get()
	assert.False(t, ok)
}

func TestStore_SetRollsBackOnPartialWrite(t *testing.T) {
	kv := &failingKV{MemoryKV: storage.NewMemoryKV(), failSetKey: KeyToken}
	s := newTestStore(kv)

	err := s.Set("abc", testUser())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.New(errors.ErrCodeSessionWrite, ""))

	assert.Equal(t, 0, kv.Len(), "no partial session may persist")
	_, ok := s.Get()
	assert.False(t, ok)
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	kv := storage.NewMemoryKV()
	s := newTestStore(kv)
	require.NoError(t, s.Set("abc", testUser()))

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())

	_, ok := s.Get()
	assert.False(t, ok)
	assert.Equal(t, 0, kv.Len())
}

func TestStore_LoadDiscardsPartialState(t *testing.T) {
	tests := []struct {
		name string
		seed map[string]string
	}{
		{name: "token only", seed: map[string]string{KeyToken: "abc"}},
		{name: "user only", seed: map[string]string{KeyUser: `{"id":1}`}},
		{name: "unreadable user", seed: map[string]string{KeyToken: "abc", KeyUser: "{not json"}},
		{name: "null user", seed: map[string]string{KeyToken: "abc", KeyUser: "null"}},
		{name: "empty token", seed: map[string]string{KeyToken: "", KeyUser: `{"id":1}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := storage.NewMemoryKV()
			for k, v := range tt.seed {
				require.NoError(t, kv.Set(k, v))
			}

			s := newTestStore(kv)
			s.Load()

			_, ok := s.Get()
			assert.False(t, ok)
			assert.Equal(t, 0, kv.Len(), "partial state should be removed")
		})
	}
}

func TestStore_ReadsReturnCopies(t *testing.T) {
	s := newTestStore(storage.NewMemoryKV())
	require.NoError(t, s.Set("abc", testUser()))

	u, ok := s.User()
	require.True(t, ok)
	u.Name = "mutated"

	again, _ := s.User()
	assert.Equal(t, "Ada", again.Name)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := newTestStore(storage.NewMemoryKV())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Set("abc", testUser())
		}()
		go func() {
			defer wg.Done()
			if sess, ok := s.Get(); ok {
				assert.NotEmpty(t, sess.Token)
				assert.NotNil(t, sess.User)
			}
		}()
	}
	wg.Wait()

	require.NoError(t, s.Clear())
	_, ok := s.Get()
	assert.False(t, ok)
}

func TestStore_FileBacked(t *testing.T) {
	kv := storage.NewFileKV(t.TempDir())
	require.NoError(t, newTestStore(kv).Set("abc", testUser()))

	fresh := newTestStore(kv)
	fresh.Load()
	token, ok := fresh.Token()
	require.True(t, ok)
	assert.Equal(t, "abc", token)

	require.NoError(t, fresh.Clear())
	again := newTestStore(kv)
	again.Load()
	_, ok = again.Get()
	assert.False(t, ok)
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user *UserProfile
		want string
	}{
		{name: "name", user: &UserProfile{Name: "Ada", Username: "ada", Email: "a@b.co"}, want: "Ada"},
		{name: "username", user: &UserProfile{Username: "ada", Email: "a@b.co"}, want: "ada"},
		{name: "email local part", user: &UserProfile{Email: "lovelace@b.co"}, want: "lovelace"},
		{name: "nil", user: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.DisplayName())
		})
	}
}
