package middleware

import (
	"time" // Request latency

	"github.com/gin-gonic/gin"                             // Gin web framework
	"github.com/google/uuid"                               // Request id generation
	"github.com/iblisbuu/gracenode-wallet/internal/wallet" // Request id for ledger log lines
	"github.com/sirupsen/logrus"                           // Logging library
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware tags every request with an id and logs its outcome
func RequestIDMiddleware(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString() // Ignore client ids that are not UUIDs
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(wallet.WithRequestID(c.Request.Context(), id))

		start := time.Now()
		c.Next()

		log.WithFields(logrus.Fields{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
		}).Info("request handled")
	}
}
