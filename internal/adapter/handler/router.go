package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Catalog *CatalogHandler
	Drafts  *DraftHandler
	Log     *zap.Logger

	// RateLimitPerMin of zero disables rate limiting.
	RateLimitPerMin int64
	AllowedOrigins  []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(cfg.Log), Recovery(cfg.Log), CORS(cfg.AllowedOrigins))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	if cfg.RateLimitPerMin > 0 {
		v1.Use(RateLimiter(cfg.RateLimitPerMin))
	}
	cfg.Catalog.RegisterRoutes(v1)
	cfg.Drafts.RegisterRoutes(v1)

	return r
}
