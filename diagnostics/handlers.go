package diagnostics

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/flowpipe/component"
	"github.com/kbukum/flowpipe/errors"
	"github.com/kbukum/flowpipe/version"
)

// HealthChecker returns health status for registered components.
type HealthChecker func(ctx context.Context) []component.Health

// DataResponse is the success envelope.
type DataResponse struct {
	Data any `json:"data"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status     component.HealthStatus `json:"status"`
	Service    string                 `json:"service"`
	Timestamp  string                 `json:"timestamp"`
	Components []component.Health     `json:"components"`
}

func respondWithError(c *gin.Context, err error) {
	if appErr, ok := errors.AsAppError(err); ok {
		c.JSON(appErr.HTTPStatus, appErr.ToResponse())
		return
	}
	c.JSON(http.StatusInternalServerError, errors.Internal(err).ToResponse())
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}

func listPipes(reg *Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		respondOK(c, reg.List())
	}
}

func getPipe(reg *Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		stats, ok := reg.Get(name)
		if !ok {
			respondWithError(c, errors.NotFound("pipe", name))
			return
		}
		respondOK(c, stats)
	}
}

// health reports the worst component status: any unhealthy component makes
// the service unhealthy, otherwise any degraded one makes it degraded.
func health(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := component.StatusHealthy
		var components []component.Health

		if checker != nil {
			components = checker(c.Request.Context())
			for _, ch := range components {
				if ch.Status == component.StatusUnhealthy {
					status = component.StatusUnhealthy
					break
				}
				if ch.Status == component.StatusDegraded {
					status = component.StatusDegraded
				}
			}
		}

		httpStatus := http.StatusOK
		if status == component.StatusUnhealthy {
			httpStatus = http.StatusServiceUnavailable
		}

		c.JSON(httpStatus, HealthResponse{
			Status:     status,
			Service:    serviceName,
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
			Components: components,
		})
	}
}

func versionInfo() gin.HandlerFunc {
	return func(c *gin.Context) {
		respondOK(c, version.Get())
	}
}
