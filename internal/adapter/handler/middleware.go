package handler

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"go.uber.org/zap"
)

const (
	SessionHeader = "X-Session-ID"
	sessionKey    = "session_id"
)

// RequestLogger logs one line per request once the handler has run.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if sid := c.GetString(sessionKey); sid != "" {
			fields = append(fields, zap.String("session_id", sid))
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		failure(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	})
}

// RateLimiter limits requests per client IP per minute.
func RateLimiter(perMinute int64) gin.HandlerFunc {
	rate := limiter.Rate{
		Period: time.Minute,
		Limit:  perMinute,
	}
	instance := limiter.New(memory.NewStore(), rate)

	return ginlimiter.NewMiddleware(instance, ginlimiter.WithLimitReachedHandler(func(c *gin.Context) {
		failure(c, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests")
	}))
}

func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", SessionHeader},
		ExposeHeaders:    []string{SessionHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// Session reads the session id from X-Session-ID. A request without one
// starts a new session whose id is echoed back in the same header.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := c.GetHeader(SessionHeader)
		if sid == "" {
			sid = uuid.NewString()
		} else if _, err := uuid.Parse(sid); err != nil {
			badRequest(c, "invalid "+SessionHeader)
			return
		}

		c.Set(sessionKey, sid)
		c.Header(SessionHeader, sid)
		c.Next()
	}
}
