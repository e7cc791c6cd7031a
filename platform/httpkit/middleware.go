// Package httpkit provides HTTP middleware infrastructure.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"context"
	"net/http"
	"strings"
	"time"

	"places_service/platform/config"
	"places_service/platform/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request ID in both directions.
	RequestIDHeader = "X-Request-ID"
	// ContextRequestIDKey is the gin context key for the request ID.
	ContextRequestIDKey = "requestID"

	maxRequestIDLength = 128
)

// RequestID assigns every request an ID, reusing a sane incoming header value.
// The ID is stored on the gin context, the request context and the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}

		c.Set(ContextRequestIDKey, requestID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID))
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

// RequestLogger logs HTTP requests with timing.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		clientIP := c.ClientIP()

		log.WithContext(c.Request.Context()).HTTPRequest(c.Request.Method, path, status, float64(latency.Milliseconds()), clientIP)
	}
}

// CORS returns the cross-origin middleware for the configured origins.
// When every origin is allowed the request origin is echoed back, so
// credentialed requests keep working in browsers. Preflight responses
// grant exactly the headers and method the browser asked for, since "*"
// is not a wildcard on credentialed requests.
func CORS(cfg config.HTTPConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     append([]string(nil), corsMethods...),
		ExposeHeaders:    []string{RequestIDHeader},
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}

	if cfg.GetCORSAllowAll() {
		corsCfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		corsCfg.AllowOrigins = cfg.GetCORSOrigins()
	}

	handler := cors.New(corsCfg)

	return func(c *gin.Context) {
		if isPreflight(c.Request) {
			c.Writer = &preflightWriter{
				ResponseWriter: c.Writer,
				headers:        strings.TrimSpace(c.GetHeader("Access-Control-Request-Headers")),
				method:         strings.ToUpper(strings.TrimSpace(c.GetHeader("Access-Control-Request-Method"))),
			}
		}
		handler(c)
	}
}

var corsMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodConnect,
	http.MethodOptions,
	http.MethodTrace,
}

func isPreflight(r *http.Request) bool {
	return r.Method == http.MethodOptions &&
		r.Header.Get("Origin") != "" &&
		r.Header.Get("Access-Control-Request-Method") != ""
}

// preflightWriter rewrites the allow lists of an accepted preflight right
// before the status line is sent.
type preflightWriter struct {
	gin.ResponseWriter
	headers string
	method  string
	applied bool
}

func (w *preflightWriter) WriteHeader(code int) {
	w.apply()
	w.ResponseWriter.WriteHeader(code)
}

func (w *preflightWriter) WriteHeaderNow() {
	w.apply()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *preflightWriter) apply() {
	if w.applied {
		return
	}
	w.applied = true

	header := w.Header()
	if header.Get("Access-Control-Allow-Origin") == "" {
		return
	}
	if w.headers != "" {
		header.Set("Access-Control-Allow-Headers", w.headers)
	}
	if w.method != "" && !containsMethod(corsMethods, w.method) {
		header.Set("Access-Control-Allow-Methods", strings.Join(append(append([]string(nil), corsMethods...), w.method), ","))
	}
}

func containsMethod(methods []string, method string) bool {
	for _, m := range methods {
		if m == method {
			return true
		}
	}
	return false
}
