package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"
)

const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware прокидывает сквозной ID запроса: входящий заголовок
// сохраняется, без него генерируется новый.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// LoggingMiddleware логирует входящие HTTP запросы и ответы.
// Callback'и провайдера — тоже запросы, по ним видно жизненный цикл звонка.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID, exists := c.Get("request_id")
		if !exists {
			requestID = "unknown"
		}

		c.Next()

		ev := zlog.Logger.Info()
		switch {
		case c.Writer.Status() >= 500:
			ev = zlog.Logger.Error().Str("error", c.Errors.String())
		case c.Writer.Status() >= 400:
			ev = zlog.Logger.Warn()
		}

		ev.
			Str("request_id", requestID.(string)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("remote_addr", c.ClientIP()).
			Int("status_code", c.Writer.Status()).
			Int("response_size", c.Writer.Size()).
			Dur("duration", time.Since(start)).
			Msg("HTTP request completed")
	}
}
