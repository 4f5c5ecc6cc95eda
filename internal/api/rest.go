package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	EndpointPathAlive   = "/alive/"
	EndpointPathMetrics = "/metrics/"
)

// CreateStatisticsService creates the webserver exposing the liveness probe
// and the prometheus metrics of all registered collectors
func CreateStatisticsService() *echo.Echo {
	echoRest := echo.New()
	echoRest.HideBanner = true
	echoRest.HidePort = true

	// Root level middleware
	echoRest.Pre(middleware.AddTrailingSlash())

	echoRest.Use(middleware.Secure())
	echoRest.Use(middleware.Recover())

	echoRest.GET(EndpointPathAlive, isAlive)
	echoRest.GET(EndpointPathMetrics, echoprometheus.NewHandler())

	return echoRest
}

// returns an empty "ok" answer
func isAlive(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}
