// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/urban-jungle/backend/internal/catalog"
	"github.com/urban-jungle/backend/internal/garden"
	"github.com/urban-jungle/backend/internal/interchange"
	"github.com/urban-jungle/backend/internal/models"
)

// PlantHandler serves the plant catalog
type PlantHandler interface {
	HandleListPlants(c echo.Context) error
	HandleGetPlant(c echo.Context) error
	HandleMeterScale(c echo.Context) error
}

// LogHandler handles watering log and status operations
type LogHandler interface {
	HandleListLogs(c echo.Context) error
	HandleListLogsMsgpack(c echo.Context) error
	HandleRecordWatering(c echo.Context) error
	HandleListStatuses(c echo.Context) error
	HandleExportLogs(c echo.Context) error
	HandleImportLogs(c echo.Context) error
}

// AdviceHandler handles advice requests
type AdviceHandler interface {
	HandleAsk(c echo.Context) error
	HandleDiagnose(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// GardenStore is the watering log as the handlers use it
// This allows mocking in tests
type GardenStore interface {
	RecordWatering(ctx context.Context, plantID string, reading int, notes string) (*garden.Watering, error)
	ImportCSV(ctx context.Context, text string) (*interchange.Result, error)
	ExportCSV() ([]byte, error)
	Snapshot() []models.WateringLogEntry
	Statuses() []models.PlantStatus
	Len() int
	Catalog() *catalog.Catalog
}

var _ GardenStore = (*garden.Store)(nil)
