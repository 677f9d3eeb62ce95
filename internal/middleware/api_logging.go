package middleware

import (
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"spectres-crm/internal/timeutil"
)

// accessEntry is one line of the API access log
type accessEntry struct {
	Time       time.Time
	Method     string
	Path       string
	StatusCode int
	Duration   time.Duration
	Bytes      int
	IPAddress  string
}

// APILoggingMiddleware writes an access log line per API request. Lines are
// formatted and written on a background goroutine so slow log sinks never
// hold up a request.
type APILoggingMiddleware struct {
	logger  *log.Logger
	logChan chan accessEntry
	wg      sync.WaitGroup
}

// responseWriter wraps http.ResponseWriter to capture status code and size
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}

// NewAPILoggingMiddleware starts the async writer. Each line carries its own
// "[API]" tag and the request start time, so logger should have no prefix or
// flags; nil writes to stderr.
func NewAPILoggingMiddleware(logger *log.Logger) *APILoggingMiddleware {
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}
	m := &APILoggingMiddleware{
		logger:  logger,
		logChan: make(chan accessEntry, 1000), // Buffer for async logging
	}

	m.wg.Add(1)
	go m.asyncLogWriter()

	return m
}

func (m *APILoggingMiddleware) asyncLogWriter() {
	defer m.wg.Done()
	for e := range m.logChan {
		m.logger.Printf("[API] %s %s %s %s %d %s %dB",
			timeutil.FormatWarsaw(e.Time, timeutil.DateTimeLayout), e.IPAddress, e.Method, e.Path, e.StatusCode, e.Duration.Round(time.Microsecond), e.Bytes)
	}
}

// Handler returns the middleware handler
func (m *APILoggingMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip health checks, metrics scrapes and the websocket stream
		if shouldSkipLogging(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := timeutil.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		entry := accessEntry{
			Time:       start,
			Method:     r.Method,
			Path:       sanitizePath(r.URL.Path),
			StatusCode: wrapped.statusCode,
			Duration:   time.Since(start),
			Bytes:      wrapped.bytesWritten,
			IPAddress:  getClientIP(r),
		}

		// Send to async writer (non-blocking)
		select {
		case m.logChan <- entry:
		default:
			log.Printf("[APILogging] Log buffer full, dropping log entry for %s", r.URL.Path)
		}
	})
}

// shouldSkipLogging returns true for paths that shouldn't be logged
func shouldSkipLogging(path string) bool {
	skipPaths := []string{
		"/health",
		"/metrics",
		"/favicon.ico",
		"/api/notifications/ws",
	}

	for _, skip := range skipPaths {
		if strings.HasPrefix(path, skip) {
			return true
		}
	}

	return false
}

// sanitizePath truncates very long paths
func sanitizePath(path string) string {
	if len(path) > 500 {
		path = path[:500]
	}
	return path
}

// getClientIP extracts the client IP from the request
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header (for proxies/load balancers)
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		// Take the first IP in the list
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	xri := r.Header.Get("X-Real-IP")
	if xri != "" {
		return strings.TrimSpace(xri)
	}

	// Fall back to RemoteAddr
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}

	return ip
}

// Close flushes pending lines and stops the writer
func (m *APILoggingMiddleware) Close() {
	close(m.logChan)
	m.wg.Wait()
}
