package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"library-backend/internal/shared/middleware"
	"library-backend/internal/shared/response"
	"library-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.App.CORSOrigins),
	)

	auth := middleware.AuthMiddleware(c.AuthService)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c.Config.App.Version, c.DB, c.Cache))

		c.AuthHandler.RegisterRoutes(v1, auth)

		protected := v1.Group("")
		protected.Use(auth)
		{
			c.BookHandler.RegisterRoutes(protected)
			c.ReaderHandler.RegisterRoutes(protected)
			c.LoanHandler.RegisterRoutes(protected)
		}
	}

	return router
}

type pinger interface {
	Ping(ctx context.Context) error
}

// healthCheckHandler reports 503 when the database or the cache does not answer.
func healthCheckHandler(version string, db, cache pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		checks := gin.H{"database": "ok", "cache": "ok"}
		healthy := true

		if err := db.Ping(ctx); err != nil {
			checks["database"] = err.Error()
			healthy = false
		}
		if err := cache.Ping(ctx); err != nil {
			checks["cache"] = err.Error()
			healthy = false
		}

		data := gin.H{
			"version": version,
			"time":    time.Now().UTC(),
			"checks":  checks,
		}
		if !healthy {
			response.Error(c, http.StatusServiceUnavailable, "Service unhealthy", data)
			return
		}
		response.Success(c, http.StatusOK, "Service healthy", data)
	}
}
