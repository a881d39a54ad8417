package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/medreza/giftcard-validation-service/pkg/auth"
	"github.com/medreza/giftcard-validation-service/pkg/models"
	"github.com/sirupsen/logrus"
)

const (
	RequestIDHeader = "X-Request-Id"
	RequestIDKey    = "request_id"
	AdminUserKey    = "admin_user"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(RequestIDKey, reqID)
		c.Header(RequestIDHeader, reqID)
		c.Next()
	}
}

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := logrus.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"bytes":      c.Writer.Size(),
			"latency_ms": float64(time.Since(start).Microseconds()) / 1000.0,
			"request_id": c.GetString(RequestIDKey),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Error("http_request")
			return
		}
		log.Info("http_request")
	}
}

// AdminAuth rejects requests whose JSON body does not carry valid admin
// credentials. The body is cached so handlers can bind it again.
func AdminAuth(guard auth.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		var creds models.Credentials
		if err := c.ShouldBindBodyWith(&creds, binding.JSON); err != nil {
			logrus.WithField("error", err).Warn("AdminAuth: Missing or malformed credentials")
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.MessageResponse{Success: false, Message: "Invalid credentials"})
			return
		}

		if !guard.Authenticate(creds.Username, creds.Password) {
			logrus.WithFields(logrus.Fields{
				"username": creds.Username,
				"path":     c.FullPath(),
			}).Warn("AdminAuth: Invalid credentials")
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.MessageResponse{Success: false, Message: "Invalid credentials"})
			return
		}

		c.Set(AdminUserKey, creds.Username)
		c.Next()
	}
}
