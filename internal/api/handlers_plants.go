// handlers_plants.go - Plant catalog handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/urban-jungle/backend/internal/catalog"
	"github.com/urban-jungle/backend/internal/models"
)

// PlantHandlerImpl implements the PlantHandler interface
type PlantHandlerImpl struct {
	catalog *catalog.Catalog
}

// NewPlantHandler creates a new plant handler
func NewPlantHandler(cat *catalog.Catalog) PlantHandler {
	return &PlantHandlerImpl{catalog: cat}
}

// HandleListPlants returns every plant in catalog order
func (h *PlantHandlerImpl) HandleListPlants(c echo.Context) error {
	return c.JSON(http.StatusOK, h.catalog.All())
}

// HandleGetPlant returns one plant
func (h *PlantHandlerImpl) HandleGetPlant(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	plant, ok := h.catalog.Get(id)
	if !ok {
		return NewNotFoundError("plant", id)
	}
	return c.JSON(http.StatusOK, plant)
}

// HandleMeterScale returns the moisture meter zones
func (h *PlantHandlerImpl) HandleMeterScale(c echo.Context) error {
	return c.JSON(http.StatusOK, models.MeterScale)
}
