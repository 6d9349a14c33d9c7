package internal

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/llama/pkg/logger"
	"github.com/dmitrymomot/llama/pkg/session"
)

// Default session configuration.
const (
	defaultSessionCookieName = "__sid"
	defaultSessionMaxAge     = 86400 * 30 // 30 days
)

// SessionManager handles session lifecycle and cookie management.
type SessionManager struct {
	store      session.Store
	logger     *slog.Logger
	now        func() time.Time
	cookieName string
	domain     string
	path       string
	maxAge     int
	sameSite   http.SameSite
	secure     bool
	httpOnly   bool
}

// SessionOption configures the SessionManager.
type SessionOption func(*SessionManager)

// NewSessionManager creates a new SessionManager with the given store and options.
func NewSessionManager(store session.Store, opts ...SessionOption) *SessionManager {
	sm := &SessionManager{
		store:      store,
		logger:     logger.NewNope(),
		now:        time.Now,
		cookieName: defaultSessionCookieName,
		maxAge:     defaultSessionMaxAge,
		path:       "/",
		httpOnly:   true,
		sameSite:   http.SameSiteLaxMode,
	}

	for _, opt := range opts {
		opt(sm)
	}

	return sm
}

// WithSessionCookieName sets the session cookie name.
func WithSessionCookieName(name string) SessionOption {
	return func(sm *SessionManager) {
		if name != "" {
			sm.cookieName = name
		}
	}
}

// WithSessionMaxAge sets the session max age in seconds.
func WithSessionMaxAge(seconds int) SessionOption {
	return func(sm *SessionManager) {
		if seconds > 0 {
			sm.maxAge = seconds
		}
	}
}

// WithSessionDomain sets the session cookie domain.
func WithSessionDomain(domain string) SessionOption {
	return func(sm *SessionManager) {
		sm.domain = domain
	}
}

// WithSessionPath sets the session cookie path.
func WithSessionPath(path string) SessionOption {
	return func(sm *SessionManager) {
		if path != "" {
			sm.path = path
		}
	}
}

// WithSessionSecure sets the session cookie Secure flag.
func WithSessionSecure(secure bool) SessionOption {
	return func(sm *SessionManager) {
		sm.secure = secure
	}
}

// WithSessionHTTPOnly sets the session cookie HttpOnly flag.
func WithSessionHTTPOnly(httpOnly bool) SessionOption {
	return func(sm *SessionManager) {
		sm.httpOnly = httpOnly
	}
}

// WithSessionSameSite sets the session cookie SameSite attribute.
func WithSessionSameSite(sameSite http.SameSite) SessionOption {
	return func(sm *SessionManager) {
		sm.sameSite = sameSite
	}
}

// SetLogger sets the logger for session events. Called by App during Init.
func (sm *SessionManager) SetLogger(l *slog.Logger) {
	if l != nil {
		sm.logger = l
	}
}

// CookieName returns the name of the session cookie.
func (sm *SessionManager) CookieName() string {
	return sm.cookieName
}

// LoadSession loads an existing session from the request cookie.
// Returns nil, nil if no session cookie exists.
// Returns session.ErrNotFound or session.ErrExpired from the store.
func (sm *SessionManager) LoadSession(ctx context.Context, r *http.Request) (*session.Session, error) {
	cookie, err := r.Cookie(sm.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	sess, err := sm.store.Get(ctx, cookie.Value)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// CreateSession creates a new session with metadata extracted from the request.
func (sm *SessionManager) CreateSession(ctx context.Context, r *http.Request) (*session.Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}
	expiresAt := sm.now().Add(time.Duration(sm.maxAge) * time.Second)

	sess := session.New(uuid.NewString(), token, expiresAt)
	sess.Name = sm.cookieName
	sess.IP = clientIP(r)
	sess.UserAgent = r.UserAgent()

	if err := sm.store.Create(ctx, sess); err != nil {
		return nil, err
	}

	sess.ClearNew()
	sess.ClearDirty()

	return sess, nil
}

// Persist writes a modified session back to the store, or removes a
// destroyed one. Clean sessions only get their activity time refreshed.
func (sm *SessionManager) Persist(ctx context.Context, sess *session.Session) error {
	switch {
	case sess == nil:
		return nil
	case sess.IsDestroyed():
		err := sm.store.Delete(ctx, sess.ID)
		if errors.Is(err, session.ErrNotFound) {
			return nil
		}
		return err
	case sess.IsDirty():
		sess.LastActiveAt = sm.now()
		if err := sm.store.Update(ctx, sess); err != nil {
			return err
		}
		sess.ClearDirty()
		return nil
	default:
		return sm.store.Touch(ctx, sess.ID, sm.now())
	}
}

// SaveSession writes the session cookie to the response.
func (sm *SessionManager) SaveSession(w http.ResponseWriter, sess *session.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sm.cookieName,
		Value:    sess.Token,
		Path:     sm.path,
		Domain:   sm.domain,
		MaxAge:   sm.maxAge,
		Secure:   sm.secure,
		HttpOnly: sm.httpOnly,
		SameSite: sm.sameSite,
	})
}

// RotateToken generates a new token for the session.
// Call it after authentication so a token issued before login stops working.
func (sm *SessionManager) RotateToken(ctx context.Context, sess *session.Session) error {
	oldToken := sess.Token
	newToken, err := generateToken()
	if err != nil {
		return fmt.Errorf("generate session token: %w", err)
	}
	sess.Token = newToken
	sess.MarkDirty()

	if err := sm.store.Update(ctx, sess); err != nil {
		sess.Token = oldToken
		return err
	}

	return nil
}

// DeleteSession clears the session cookie.
func (sm *SessionManager) DeleteSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sm.cookieName,
		Value:    "",
		Path:     sm.path,
		Domain:   sm.domain,
		MaxAge:   -1,
		Secure:   sm.secure,
		HttpOnly: sm.httpOnly,
		SameSite: sm.sameSite,
	})
}

// Store returns the underlying session store.
func (sm *SessionManager) Store() session.Store {
	return sm.store
}

// generateToken creates a cryptographically secure random token.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// clientIP returns the first X-Forwarded-For address, or the remote address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
