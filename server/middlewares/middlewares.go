package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	Logger "github.com/giftpropaganda/newsfeed/utils/log"
)

// RequestLogger logs one structured line per handled request. gin's default
// logger writes plain text, this one goes through the shared logrus entry so
// request logs carry the same service fields as everything else.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		Logger.Log.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
		}).Info("request handled")
	}
}
