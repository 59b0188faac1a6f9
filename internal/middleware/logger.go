package middleware

import (
	"net/http"
	"time"

	"github.com/franciscosanchezn/coffee-shop-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	loggerKey       = "logger"
	requestIDHeader = "X-Request-ID"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// SetLevel adjusts the verbosity of the request logger
func SetLevel(level logrus.Level) {
	log.SetLevel(level)
}

// GetLevel returns the current level of the request logger
func GetLevel() logrus.Level {
	return log.GetLevel()
}

// RequestID tags every request with an ID, reusing a valid incoming X-Request-ID,
// and logs one line per request once it completes.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		c.Header(requestIDHeader, id)
		c.Set(loggerKey, log.WithField("request_id", id))

		start := time.Now()
		c.Next()

		entry := RequestLogger(c).WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		})
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("Request failed")
		case c.Writer.Status() >= http.StatusBadRequest:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request handled")
		}
	}
}

// RequestLogger returns the logger bound to the current request
func RequestLogger(c *gin.Context) *logrus.Entry {
	if value, exists := c.Get(loggerKey); exists {
		if entry, ok := value.(*logrus.Entry); ok {
			return entry
		}
	}
	return logrus.NewEntry(log)
}

// Recovery turns a panic into a 500 error envelope
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		RequestLogger(c).WithField("panic", recovered).Error("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			models.NewAPIError(http.StatusInternalServerError, models.MsgInternalServer))
	})
}
