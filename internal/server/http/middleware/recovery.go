package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSONRecovery turns a panic into a 500 JSON error. Panic details are only
// exposed when verbose is set.
func JSONRecovery(logger *slog.Logger, verbose bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("handler panic", slog.String("path", c.Request.URL.Path), slog.Any("panic", recovered))
		body := gin.H{"error": "internal server error"}
		if verbose {
			body["details"] = fmt.Sprint(recovered)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, body)
	})
}

// RedirectRecovery turns a panic into a 303 redirect to target.
func RedirectRecovery(logger *slog.Logger, target string) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("handler panic", slog.String("path", c.Request.URL.Path), slog.Any("panic", recovered))
		c.Redirect(http.StatusSeeOther, target)
		c.Abort()
	})
}
