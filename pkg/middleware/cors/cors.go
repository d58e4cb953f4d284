package cors

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Options configures the cross-origin surface of the API.
type Options struct {
	// Origins allowed to call the API. Empty allows every origin.
	Origins []string
	// MaxAge caps how long browsers may cache the preflight answer.
	MaxAge time.Duration
}

const (
	allowHeaders  = "Authorization, Content-Type, X-Requested-With, X-Request-ID"
	allowMethods  = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	defaultMaxAge = 10 * time.Minute
)

// New builds the middleware for a plain origin allow-list, which is all the
// API config carries.
func New(origins []string) gin.HandlerFunc {
	return WithOptions(Options{Origins: origins})
}

// WithOptions builds the CORS middleware. Preflight requests are answered
// here and never reach the handlers.
func WithOptions(opts Options) gin.HandlerFunc {
	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = defaultMaxAge
	}
	maxAgeValue := strconv.Itoa(int(maxAge.Seconds()))

	allowed := make(map[string]struct{}, len(opts.Origins))
	for _, origin := range opts.Origins {
		allowed[normalizeOrigin(origin)] = struct{}{}
	}

	return func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			if _, ok := allowed[normalizeOrigin(origin)]; ok || len(allowed) == 0 {
				c.Header("Access-Control-Allow-Origin", origin)
			}
		} else if len(allowed) == 0 {
			c.Header("Access-Control-Allow-Origin", "*")
		}

		c.Header("Vary", "Origin")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", allowHeaders)
		c.Header("Access-Control-Allow-Methods", allowMethods)
		c.Header("Access-Control-Max-Age", maxAgeValue)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func normalizeOrigin(origin string) string {
	return strings.ToLower(strings.TrimRight(origin, "/"))
}
