// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/urban-jungle/backend/internal/advice"
	"github.com/urban-jungle/backend/internal/catalog"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Catalog *catalog.Catalog
	Store   GardenStore
	Advisor advice.Advisor
	Logger  *zap.Logger
	Now     func() time.Time
	Version string
	Backend string
}

// Handlers holds all handler instances
type Handlers struct {
	Health HealthHandler
	Plants PlantHandler
	Logs   LogHandler
	Advice AdviceHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(deps.Version, deps.Backend, deps.Store),
		Plants: NewPlantHandler(deps.Catalog),
		Logs:   NewLogHandler(deps.Store, deps.Now),
		Advice: NewAdviceHandler(deps.Advisor, deps.Catalog, deps.Logger),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	apiGroup := e.Group("/api")

	// Health check
	apiGroup.GET("/health", handlers.Health.HandleHealth)

	// Catalog
	apiGroup.GET("/plants", handlers.Plants.HandleListPlants)
	apiGroup.GET("/plants/:id", handlers.Plants.HandleGetPlant)
	apiGroup.GET("/meter-scale", handlers.Plants.HandleMeterScale)

	// Watering log
	apiGroup.GET("/statuses", handlers.Logs.HandleListStatuses)
	apiGroup.GET("/logs", handlers.Logs.HandleListLogs)
	apiGroup.POST("/logs", handlers.Logs.HandleRecordWatering)
	apiGroup.GET("/logs/msgpack", handlers.Logs.HandleListLogsMsgpack)
	apiGroup.GET("/logs/export", handlers.Logs.HandleExportLogs)
	apiGroup.POST("/logs/import", handlers.Logs.HandleImportLogs)

	// Advice
	apiGroup.POST("/advice/ask", handlers.Advice.HandleAsk)
	apiGroup.POST("/advice/diagnose", handlers.Advice.HandleDiagnose)
}
