// handlers_health.go - Health check handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/salary-predictor/backend/internal/classifier"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version string
	model   classifier.Info
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, model classifier.Info) HealthHandler {
	return &HealthHandlerImpl{
		version: version,
		model:   model,
	}
}

// HandleHealth returns server health status and the loaded model
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": h.version,
		"model":   h.model,
	})
}
