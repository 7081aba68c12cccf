package apihandlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"bulkcat/internal/models"
	"bulkcat/internal/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const userContextKey = "bulkcat.user"

// AuthMiddleware resolves the API key to a user or aborts with 401.
func AuthMiddleware(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := users.Authenticate(c.Request.Context(), apiKeyFromRequest(c.Request))
		if err != nil {
			if errors.Is(err, services.ErrUnauthenticated) {
				Unauthorized(c, "A valid API key is required.")
				return
			}
			log.Errorf("AuthMiddleware: %v", err)
			Internal(c, "Unable to authenticate request.")
			c.Abort()
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

func apiKeyFromRequest(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(r.Header.Get("X-API-Key"))
}

// CurrentUser returns the user set by AuthMiddleware, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// RequestLogger emits one logrus entry per request.
func RequestLogger(logger log.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"client":  c.ClientIP(),
		})
		if user := CurrentUser(c); user != nil {
			entry = entry.WithField("user_id", user.ID)
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("HTTP request")
		case c.Writer.Status() >= http.StatusBadRequest:
			entry.Warn("HTTP request")
		default:
			entry.Info("HTTP request")
		}
	}
}
