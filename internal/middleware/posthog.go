package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/myspendr/internal/utils"
	"github.com/gin-gonic/gin"
)

// untrackedPaths are never sent to analytics.
var untrackedPaths = map[string]bool{
	"/health": true,
}

// AnalyticsEventName turns a route template into an event name,
// e.g. "/api/v1/movements/:id" becomes "api_v1_movements_id".
func AnalyticsEventName(fullPath string) string {
	name := strings.TrimPrefix(fullPath, "/")
	name = strings.ReplaceAll(name, ":", "")
	return strings.ReplaceAll(name, "/", "_")
}

// PosthogMiddleware records one event per successful authenticated request.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !posthogClient.IsInitialized() || untrackedPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			return
		}
		eventName := AnalyticsEventName(c.FullPath())
		if eventName == "" {
			return
		}

		posthogClient.Enqueue(userID, eventName, map[string]any{
			"method":      c.Request.Method,
			"status_code": c.Writer.Status(),
		})
	}
}
