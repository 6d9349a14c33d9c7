package internal

import (
	"bufio"
	"net"
	"net/http"
	"sync"
)

// ResponseWriter wraps http.ResponseWriter to track the status and size of
// the response and to run hooks right before the first byte goes out.
// The session manager uses the hooks to persist the session and set its
// cookie while headers can still change.
type ResponseWriter struct {
	http.ResponseWriter
	beforeWrite []func()
	size        int64
	status      int
	written     bool
	mu          sync.Mutex
}

// NewResponseWriter wraps w.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{
		ResponseWriter: w,
		status:         http.StatusOK,
	}
}

// OnBeforeWrite registers a hook to run before the first write.
// Hooks run in registration order, once.
func (w *ResponseWriter) OnBeforeWrite(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.beforeWrite = append(w.beforeWrite, fn)
}

// takeHooks marks the response written and returns the pending hooks.
// The second result is false when the response was already written.
func (w *ResponseWriter) takeHooks(code int) ([]func(), bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.written {
		return nil, false
	}
	w.written = true
	if code > 0 {
		w.status = code
	}
	hooks := w.beforeWrite
	w.beforeWrite = nil
	return hooks, true
}

// WriteHeader sends the response header. Calls after the first are ignored.
func (w *ResponseWriter) WriteHeader(code int) {
	hooks, first := w.takeHooks(code)
	if !first {
		return
	}
	for _, fn := range hooks {
		fn()
	}
	w.ResponseWriter.WriteHeader(code)
}

// Write writes the body, sending an implicit 200 header first if needed.
func (w *ResponseWriter) Write(b []byte) (int, error) {
	if hooks, first := w.takeHooks(0); first {
		for _, fn := range hooks {
			fn()
		}
		w.ResponseWriter.WriteHeader(w.status)
	}

	n, err := w.ResponseWriter.Write(b)
	w.size += int64(n)
	return n, err
}

// Status returns the HTTP status code of the response.
func (w *ResponseWriter) Status() int {
	return w.status
}

// Size returns the number of bytes written to the response body.
func (w *ResponseWriter) Size() int64 {
	return w.size
}

// Written returns true if the response has been written.
func (w *ResponseWriter) Written() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}

// Flush implements the http.Flusher interface.
func (w *ResponseWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Hijack implements the http.Hijacker interface.
func (w *ResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := w.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// Unwrap returns the underlying ResponseWriter for http.ResponseController.
func (w *ResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
