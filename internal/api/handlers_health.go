// handlers_health.go - Health check handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version string
	backend string
	store   GardenStore
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version, backend string, store GardenStore) HealthHandler {
	return &HealthHandlerImpl{
		version: version,
		backend: backend,
		store:   store,
	}
}

// HandleHealth returns server health status along with the size of the
// catalog and the watering log
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": h.version,
		"backend": h.backend,
		"plants":  h.store.Catalog().Len(),
		"entries": h.store.Len(),
	})
}
