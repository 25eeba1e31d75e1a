package http

import (
	"context"
	"net/http"
	"time"

	"github.com/kinkando/school-portal-service/pkg/database/mongodb"
	"github.com/kinkando/school-portal-service/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type HealthzHandler struct {
	mongoClient *mongo.Client
	// redisClient is nil when the session registry is disabled.
	redisClient *redis.Client
}

func NewHealthzHandler(e *echo.Echo, mongoClient *mongo.Client, redisClient *redis.Client) {
	healthzHandler := HealthzHandler{mongoClient: mongoClient, redisClient: redisClient}

	e.GET("/livez", healthzHandler.Livez)
	e.GET("/readyz", healthzHandler.Readyz)
}

func (hh *HealthzHandler) Livez(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (hh *HealthzHandler) Readyz(c echo.Context) error {
	mongoCtx, mongoCtxCancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer mongoCtxCancel()
	if err := mongodb.Ping(mongoCtx, hh.mongoClient); err != nil {
		logger.Context(c.Request().Context()).Error(err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": err.Error()})
	}

	if hh.redisClient != nil {
		redisCtx, redisCtxCancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
		defer redisCtxCancel()
		if err := hh.redisClient.Ping(redisCtx).Err(); err != nil {
			logger.Context(c.Request().Context()).Error(err)
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": err.Error()})
		}
	}

	return c.NoContent(http.StatusOK)
}
