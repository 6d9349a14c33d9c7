package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/llama/pkg/config"
	"github.com/dmitrymomot/llama/pkg/db"
	"github.com/dmitrymomot/llama/pkg/locale"
	"github.com/dmitrymomot/llama/pkg/session"
	"github.com/dmitrymomot/llama/pkg/validator"
)

// LocaleKey is the context key under which middleware stores the
// negotiated *locale.Locale.
type LocaleKey struct{}

// Component is anything that renders HTML to a writer; templ components
// satisfy it.
type Component = templ.Component

// Context is what controller actions, filters and middleware receive.
// It embeds context.Context, so it can be passed to anything that takes one.
type Context interface {
	context.Context

	// Request returns the underlying HTTP request.
	Request() *http.Request

	// Response returns the underlying response writer.
	Response() http.ResponseWriter

	// ResponseWriter returns the wrapper tracking status and pre-write hooks.
	ResponseWriter() *ResponseWriter

	// Context returns the request's context.Context.
	Context() context.Context

	// Controller and Action name the resolved dispatch target.
	Controller() string
	Action() string

	// Param returns a parameter captured by the matched route, or a default
	// parameter of the route definition.
	Param(name string) string

	// ParamDefault returns the route parameter or def when it is empty.
	ParamDefault(name, def string) string

	// Params returns every route parameter.
	Params() map[string]string

	Query(name string) string
	QueryDefault(name, defaultValue string) string

	// Form returns a form value. Query values are included.
	Form(name string) string

	// FormValues returns the parsed form as a map suited to validator.Execute:
	// single values as strings, repeated ones as []string.
	FormValues() map[string]any

	Header(name string) string
	SetHeader(name, value string)
	Cookie(name string) (string, error)

	JSON(code int, v any) error
	String(code int, s string) error
	HTML(code int, html string) error
	NoContent(code int) error
	Redirect(code int, url string) error

	// Error builds an HTTPError to return from an action.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError

	// Render writes component with the given status code.
	Render(code int, component Component) error

	// Validate runs v against the submitted form. Failures are returned as
	// validator.Errors; the error result is reserved for misconfiguration.
	Validate(v *validator.Validator) (validator.Errors, error)

	Written() bool

	Logger() *slog.Logger
	LogDebug(msg string, attrs ...any)
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)

	// Set stores a request-scoped value; Get reads it back.
	Set(key any, value any)
	Get(key any) any

	// Session returns the current session, creating one when the request
	// carries none. Returns session.ErrNotConfigured without WithSession.
	Session() (*session.Session, error)
	SessionValue(key string) (any, error)
	SetSessionValue(key string, val any) error
	DeleteSessionValue(key string) error

	// Flash returns a value stored by SetFlash and removes it.
	Flash(key string) any
	SetFlash(key string, value any) error

	// RotateSession issues a new session token, e.g. after login.
	RotateSession() error

	// DestroySession removes the session and expires its cookie.
	DestroySession() error

	// Locale returns the locale negotiated for the request, or the
	// application default.
	Locale() *locale.Locale

	// T translates message in domain. Args are applied with fmt.Sprintf.
	T(domain, message string, args ...any) string

	// Config returns the application configuration tree.
	Config() *config.Node

	// DB returns the request's database adapter. It is opened on first use
	// and released when the request ends.
	DB() (*db.Adapter, error)
}

type requestContext struct {
	app            *App
	response       http.ResponseWriter
	request        *http.Request
	responseWriter *ResponseWriter
	logger         *slog.Logger

	sessionManager *SessionManager
	session        *session.Session

	adapter *db.Adapter

	params     map[string]string
	controller string
	action     string

	sessionLoaded         bool
	sessionHookRegistered bool
}

// newContext creates a request context with the response wrapper.
func newContext(w http.ResponseWriter, r *http.Request, app *App) *requestContext {
	rw, ok := w.(*ResponseWriter)
	if !ok {
		rw = NewResponseWriter(w)
	}

	return &requestContext{
		app:            app,
		request:        r,
		response:       rw,
		responseWriter: rw,
		logger:         app.logger,
		sessionManager: app.sessionManager,
		params:         map[string]string{},
	}
}

func (c *requestContext) Request() *http.Request {
	return c.request
}

func (c *requestContext) Response() http.ResponseWriter {
	return c.response
}

func (c *requestContext) ResponseWriter() *ResponseWriter {
	return c.responseWriter
}

func (c *requestContext) Context() context.Context {
	return c.request.Context()
}

func (c *requestContext) Deadline() (time.Time, bool) {
	return c.request.Context().Deadline()
}

func (c *requestContext) Done() <-chan struct{} {
	return c.request.Context().Done()
}

func (c *requestContext) Err() error {
	return c.request.Context().Err()
}

func (c *requestContext) Value(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Controller() string {
	return c.controller
}

func (c *requestContext) Action() string {
	return c.action
}

func (c *requestContext) Param(name string) string {
	return c.params[name]
}

func (c *requestContext) ParamDefault(name, def string) string {
	if v := c.params[name]; v != "" {
		return v
	}
	return def
}

func (c *requestContext) Params() map[string]string {
	out := make(map[string]string, len(c.params))
	for k, v := range c.params {
		out[k] = v
	}
	return out
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestContext) QueryDefault(name, defaultValue string) string {
	v := c.request.URL.Query().Get(name)
	if v == "" {
		return defaultValue
	}
	return v
}

func (c *requestContext) Form(name string) string {
	return c.request.FormValue(name)
}

func (c *requestContext) FormValues() map[string]any {
	if err := c.request.ParseForm(); err != nil {
		c.LogDebug("failed to parse form", "error", err)
	}
	out := make(map[string]any, len(c.request.Form))
	for k, vals := range c.request.Form {
		if len(vals) == 1 {
			out[k] = vals[0]
			continue
		}
		out[k] = vals
	}
	return out
}

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.response.Header().Set(name, value)
}

func (c *requestContext) Cookie(name string) (string, error) {
	ck, err := c.request.Cookie(name)
	if err != nil {
		return "", err
	}
	return ck.Value, nil
}

func (c *requestContext) JSON(code int, v any) error {
	c.response.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.response.WriteHeader(code)
	return json.NewEncoder(c.response).Encode(v)
}

func (c *requestContext) String(code int, s string) error {
	c.response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.response.WriteHeader(code)
	_, err := c.response.Write([]byte(s))
	return err
}

func (c *requestContext) HTML(code int, html string) error {
	c.response.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.response.WriteHeader(code)
	_, err := c.response.Write([]byte(html))
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.response.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	http.Redirect(c.response, c.request, url, code)
	return nil
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}

func (c *requestContext) Render(code int, component Component) error {
	c.response.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.response.WriteHeader(code)
	return component.Render(c.request.Context(), c.response)
}

func (c *requestContext) Validate(v *validator.Validator) (validator.Errors, error) {
	if err := v.Execute(c.FormValues()); err != nil {
		return nil, err
	}
	if !v.HasErrors() {
		return nil, nil
	}
	return v.Errors(), nil
}

func (c *requestContext) Written() bool {
	return c.responseWriter.Written()
}

func (c *requestContext) Logger() *slog.Logger {
	return c.logger
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.logger.DebugContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.logger.InfoContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.logger.WarnContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) Set(key, value any) {
	ctx := context.WithValue(c.request.Context(), key, value)
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

// registerSessionHook makes sure session changes are persisted once,
// right before the response is written.
func (c *requestContext) registerSessionHook() {
	if c.sessionHookRegistered || c.sessionManager == nil {
		return
	}
	c.sessionHookRegistered = true
	c.responseWriter.OnBeforeWrite(c.persistSession)
}

func (c *requestContext) persistSession() {
	if c.session == nil {
		return
	}
	// Best-effort: the response is already on its way.
	if err := c.sessionManager.Persist(c.Context(), c.session); err != nil {
		c.logger.ErrorContext(c.Context(), "failed to save session", "error", err)
	}
}

func (c *requestContext) Session() (*session.Session, error) {
	if c.sessionManager == nil {
		return nil, session.ErrNotConfigured
	}

	c.registerSessionHook()

	if c.sessionLoaded && c.session != nil {
		return c.session, nil
	}

	sess, err := c.sessionManager.LoadSession(c.Context(), c.request)
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrExpired):
		c.LogDebug("session cookie is stale", "error", err)
	case err != nil:
		return nil, err
	}

	if sess == nil {
		sess, err = c.sessionManager.CreateSession(c.Context(), c.request)
		if err != nil {
			return nil, err
		}
		c.sessionManager.SaveSession(c.response, sess)
	}

	c.session = sess
	c.sessionLoaded = true
	return c.session, nil
}

func (c *requestContext) SessionValue(key string) (any, error) {
	sess, err := c.Session()
	if err != nil {
		return nil, err
	}
	val, _ := sess.GetValue(key)
	return val, nil
}

func (c *requestContext) SetSessionValue(key string, val any) error {
	sess, err := c.Session()
	if err != nil {
		return err
	}
	sess.SetValue(key, val)
	return nil
}

func (c *requestContext) DeleteSessionValue(key string) error {
	sess, err := c.Session()
	if err != nil {
		return err
	}
	sess.DeleteValue(key)
	return nil
}

func (c *requestContext) Flash(key string) any {
	sess, err := c.Session()
	if err != nil {
		return nil
	}
	return sess.GetOnce(key, nil)
}

func (c *requestContext) SetFlash(key string, value any) error {
	return c.SetSessionValue(key, value)
}

func (c *requestContext) RotateSession() error {
	sess, err := c.Session()
	if err != nil {
		return err
	}
	if err := c.sessionManager.RotateToken(c.Context(), sess); err != nil {
		return err
	}
	c.sessionManager.SaveSession(c.response, sess)
	return nil
}

func (c *requestContext) DestroySession() error {
	if c.sessionManager == nil {
		return session.ErrNotConfigured
	}

	if c.session != nil {
		c.session.Destroy()
		if err := c.sessionManager.Persist(c.Context(), c.session); err != nil {
			return err
		}
	}

	c.sessionManager.DeleteSession(c.response)

	// Keep the nil session cached so a later Session call starts afresh.
	c.session = nil
	c.sessionLoaded = true
	return nil
}

func (c *requestContext) Locale() *locale.Locale {
	if l, ok := c.Get(LocaleKey{}).(*locale.Locale); ok && l != nil {
		return l
	}
	if c.app.locales == nil {
		return nil
	}
	return c.app.locales.Default()
}

func (c *requestContext) T(domain, message string, args ...any) string {
	if l := c.Locale(); l != nil {
		return l.Translate(domain, message, args...)
	}
	if len(args) == 0 {
		return message
	}
	return fmt.Sprintf(message, args...)
}

func (c *requestContext) Config() *config.Node {
	return c.app.config
}

func (c *requestContext) DB() (*db.Adapter, error) {
	if c.adapter != nil {
		return c.adapter, nil
	}
	if c.app.db == nil {
		return nil, ErrNoDatabase
	}
	c.adapter = db.NewFromDB(c.app.db.DB(), c.app.db.Dialect(), db.WithLogger(c.logger))
	if err := c.adapter.Connect(c.Context()); err != nil {
		c.adapter = nil
		return nil, err
	}
	return c.adapter, nil
}

// release persists pending session changes if nothing was written and
// returns the request's database connection.
func (c *requestContext) release() {
	if !c.responseWriter.Written() {
		c.persistSession()
	}
	if c.adapter != nil {
		if err := c.adapter.Disconnect(); err != nil {
			c.LogWarn("failed to release database connection", "error", err)
		}
		c.adapter = nil
	}
}
