package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/llama/pkg/session"
)

func TestSessionManager_CreateSession(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	sm := NewSessionManager(store)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", "test-agent/1.0")
	req.RemoteAddr = "192.168.1.1:12345"

	sess, err := sm.CreateSession(t.Context(), req)
	require.NoError(t, err)
	require.NotNil(t, sess)

	require.NotEmpty(t, sess.ID)
	require.NotEmpty(t, sess.Token)
	require.NotEqual(t, sess.ID, sess.Token)
	require.Equal(t, "__sid", sess.Name)
	require.Equal(t, "192.168.1.1", sess.IP)
	require.Equal(t, "test-agent/1.0", sess.UserAgent)
	require.True(t, sess.ExpiresAt.After(time.Now()))
	require.False(t, sess.IsNew())
	require.False(t, sess.IsDirty())
	require.Equal(t, 1, store.Len())
}

func TestSessionManager_LoadSession(t *testing.T) {
	t.Parallel()

	t.Run("existing", func(t *testing.T) {
		t.Parallel()

		sm := NewSessionManager(session.NewMemoryStore())
		created, err := sm.CreateSession(t.Context(), httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "__sid", Value: created.Token})

		loaded, err := sm.LoadSession(t.Context(), req)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		require.Equal(t, created.ID, loaded.ID)
	})

	t.Run("no cookie", func(t *testing.T) {
		t.Parallel()

		sm := NewSessionManager(session.NewMemoryStore())
		sess, err := sm.LoadSession(t.Context(), httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		require.Nil(t, sess)
	})

	t.Run("unknown token", func(t *testing.T) {
		t.Parallel()

		sm := NewSessionManager(session.NewMemoryStore())
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "__sid", Value: "stale"})

		sess, err := sm.LoadSession(t.Context(), req)
		require.ErrorIs(t, err, session.ErrNotFound)
		require.Nil(t, sess)
	})
}

func TestSessionManager_Persist(t *testing.T) {
	t.Parallel()

	t.Run("nil session", func(t *testing.T) {
		t.Parallel()

		sm := NewSessionManager(session.NewMemoryStore())
		require.NoError(t, sm.Persist(t.Context(), nil))
	})

	t.Run("dirty session is written", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		sm := NewSessionManager(store)
		sess, err := sm.CreateSession(t.Context(), httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)

		sess.SetValue("user", "alice")
		require.NoError(t, sm.Persist(t.Context(), sess))
		require.False(t, sess.IsDirty())

		stored, err := store.Get(t.Context(), sess.Token)
		require.NoError(t, err)
		v, ok := stored.GetValue("user")
		require.True(t, ok)
		require.Equal(t, "alice", v)
	})

	t.Run("clean session is touched", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		now := time.Now()
		sm := NewSessionManager(store)
		sm.now = func() time.Time { return now }

		sess, err := sm.CreateSession(t.Context(), httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)

		later := now.Add(time.Minute)
		sm.now = func() time.Time { return later }
		require.NoError(t, sm.Persist(t.Context(), sess))

		stored, err := store.Get(t.Context(), sess.Token)
		require.NoError(t, err)
		require.WithinDuration(t, later, stored.LastActiveAt, time.Millisecond)
	})

	t.Run("destroyed session is deleted", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		sm := NewSessionManager(store)
		sess, err := sm.CreateSession(t.Context(), httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)

		sess.Destroy()
		require.NoError(t, sm.Persist(t.Context(), sess))
		require.Zero(t, store.Len())

		// A second pass finds nothing to delete and still succeeds.
		require.NoError(t, sm.Persist(t.Context(), sess))
	})
}

func TestSessionManager_SaveSession(t *testing.T) {
	t.Parallel()

	sm := NewSessionManager(session.NewMemoryStore(),
		WithSessionCookieName("test-sid"),
		WithSessionSecure(true),
		WithSessionHTTPOnly(true),
	)

	w := httptest.NewRecorder()
	sm.SaveSession(w, session.New("id", "token123", time.Now().Add(time.Hour)))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	cookie := cookies[0]
	require.Equal(t, "test-sid", cookie.Name)
	require.Equal(t, "token123", cookie.Value)
	require.Equal(t, "/", cookie.Path)
	require.Equal(t, defaultSessionMaxAge, cookie.MaxAge)
	require.True(t, cookie.Secure)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}

func TestSessionManager_RotateToken(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	sm := NewSessionManager(store)

	sess, err := sm.CreateSession(t.Context(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	oldToken := sess.Token

	require.NoError(t, sm.RotateToken(t.Context(), sess))
	require.NotEqual(t, oldToken, sess.Token)
	require.True(t, sess.IsDirty())

	_, err = store.Get(t.Context(), oldToken)
	require.ErrorIs(t, err, session.ErrNotFound)

	stored, err := store.Get(t.Context(), sess.Token)
	require.NoError(t, err)
	require.Equal(t, sess.ID, stored.ID)
}

func TestSessionManager_RotateToken_UnknownSession(t *testing.T) {
	t.Parallel()

	sm := NewSessionManager(session.NewMemoryStore())
	sess := session.New("missing", "old-token", time.Now().Add(time.Hour))

	err := sm.RotateToken(t.Context(), sess)
	require.ErrorIs(t, err, session.ErrNotFound)
	require.Equal(t, "old-token", sess.Token)
}

func TestSessionManager_DeleteSession(t *testing.T) {
	t.Parallel()

	sm := NewSessionManager(session.NewMemoryStore(), WithSessionCookieName("test-sid"))

	w := httptest.NewRecorder()
	sm.DeleteSession(w)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "test-sid", cookies[0].Name)
	require.Empty(t, cookies[0].Value)
	require.Equal(t, -1, cookies[0].MaxAge)
}

func TestSessionManager_Options(t *testing.T) {
	t.Parallel()

	sm := NewSessionManager(session.NewMemoryStore(),
		WithSessionCookieName("custom"),
		WithSessionMaxAge(3600),
		WithSessionDomain("example.com"),
		WithSessionPath("/app"),
		WithSessionSecure(true),
		WithSessionHTTPOnly(false),
		WithSessionSameSite(http.SameSiteStrictMode),
	)

	require.Equal(t, "custom", sm.CookieName())
	require.Equal(t, 3600, sm.maxAge)
	require.Equal(t, "example.com", sm.domain)
	require.Equal(t, "/app", sm.path)
	require.True(t, sm.secure)
	require.False(t, sm.httpOnly)
	require.Equal(t, http.SameSiteStrictMode, sm.sameSite)

	t.Run("zero values keep defaults", func(t *testing.T) {
		t.Parallel()

		sm := NewSessionManager(session.NewMemoryStore(),
			WithSessionCookieName(""),
			WithSessionMaxAge(0),
			WithSessionPath(""),
		)
		require.Equal(t, defaultSessionCookieName, sm.CookieName())
		require.Equal(t, defaultSessionMaxAge, sm.maxAge)
		require.Equal(t, "/", sm.path)
	})
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		remoteAddr    string
		xForwardedFor string
		want          string
	}{
		{
			name:       "remote addr only",
			remoteAddr: "192.168.1.1:12345",
			want:       "192.168.1.1",
		},
		{
			name:          "X-Forwarded-For first hop",
			remoteAddr:    "10.0.0.1:12345",
			xForwardedFor: "203.0.113.195, 70.41.3.18, 150.172.238.178",
			want:          "203.0.113.195",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "10.0.0.7",
			want:       "10.0.0.7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xForwardedFor != "" {
				req.Header.Set("X-Forwarded-For", tt.xForwardedFor)
			}
			require.Equal(t, tt.want, clientIP(req))
		})
	}
}
