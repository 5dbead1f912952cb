// Package router builds the Gin engine from the composed application.
package router

import (
	"net/http"
	"time"

	apphttp "vivenda_backend/internal/http"
	"vivenda_backend/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const maxRequestBody = 64 << 10 // generous for a lead payload

// New assembles the engine: shared middleware, health endpoint, and every
// registered domain module under /api/v1.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(httpkit.MaxBodySize(maxRequestBody))
	engine.Use(cors.New(corsConfig(app)))

	engine.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	publicLimiter := httpkit.NewIPRateLimiter(rate.Limit(20), 40, app.Logger)
	lookupLimiter := httpkit.NewIPRateLimiter(rate.Limit(5), 10, app.Logger)

	v1 := engine.Group("/api/v1")
	v1.Use(publicLimiter.RateLimit())

	ctx := &apphttp.RouterContext{
		Engine:            engine,
		V1:                v1,
		LookupRateLimiter: lookupLimiter,
	}

	for _, module := range app.Modules {
		module.RegisterRoutes(ctx)
		app.Logger.Info("module routes registered", "module", module.Name())
	}

	return engine
}

func corsConfig(app *apphttp.App) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: app.Config.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}

	if app.Config.GetCORSAllowAll() {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = app.Config.GetCORSOrigins()
	}

	return cfg
}
