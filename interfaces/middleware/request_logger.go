package middleware

import (
	"time"

	"github.com/elliekim312/youtube-dashboard/infrastructure/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogger writes one structured log line per request
func RequestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		entry := logger.GetLogger().
			WithField("method", ctx.Request.Method).
			WithField("path", ctx.Request.URL.Path).
			WithField("query", ctx.Request.URL.RawQuery).
			WithField("status", ctx.Writer.Status()).
			WithField("latency", time.Since(start).String()).
			WithField("clientIP", ctx.ClientIP())

		switch status := ctx.Writer.Status(); {
		case status >= 500:
			entry.Error("Request failed")
		case status >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request served")
		}
	}
}
