package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/pixel-relayer/base/ctx"
	hcdomain "github.com/x-xyz/pixel-relayer/domain/healthcheck"
)

type healthCheckHandler struct {
	healthCheck hcdomain.HealthCheckUsecase
}

// New registers /health, which checks the relay and its store, and /health/live
func New(e *echo.Echo, us hcdomain.HealthCheckUsecase) {
	handler := &healthCheckHandler{
		healthCheck: us,
	}
	g := e.Group("/health")
	g.GET("", handler.check)
	g.GET("/live", handler.live)
}

// check
//
//	@Summary	Relay health
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	healthcheck.Report
//	@Failure	503	{object}	healthcheck.Report
//	@Router		/health [get]
func (h *healthCheckHandler) check(c echo.Context) error {
	context := c.Get("ctx").(ctx.Ctx)
	report, err := h.healthCheck.Check(context)
	if err != nil {
		context.WithField("err", err).Warn("health check failed")
		return c.JSON(http.StatusServiceUnavailable, report)
	}
	return c.JSON(http.StatusOK, report)
}

// live
//
//	@Summary	Liveness
//	@Tags		health
//	@Success	204
//	@Router		/health/live [get]
func (h *healthCheckHandler) live(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}
