package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
)

const (
	corsMethods = "GET, POST, PUT, DELETE, OPTIONS"
	corsHeaders = "Content-Type, Authorization"
)

// FallbackCORSHeaders is attached when no origin list is configured.
var FallbackCORSHeaders = map[string]string{
	"Access-Control-Allow-Origin":      "*",
	"Access-Control-Allow-Methods":     corsMethods,
	"Access-Control-Allow-Headers":     corsHeaders,
	"Access-Control-Allow-Credentials": "true",
}

// CORSHeaders returns the headers for a request from origin. A listed origin
// is echoed back; any other origin gets the first configured one.
func CORSHeaders(origin string, allowed []string) map[string]string {
	if len(allowed) == 0 {
		return FallbackCORSHeaders
	}
	allow := allowed[0]
	if origin != "" && slices.Contains(allowed, origin) {
		allow = origin
	}
	return map[string]string{
		"Access-Control-Allow-Origin":      allow,
		"Access-Control-Allow-Methods":     corsMethods,
		"Access-Control-Allow-Headers":     corsHeaders,
		"Access-Control-Allow-Credentials": "true",
		"Vary":                             "Origin",
	}
}

// CORS attaches CORS headers and answers preflight requests.
func CORS(allowed []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for k, v := range CORSHeaders(c.GetHeader("Origin"), allowed) {
			c.Header(k, v)
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
