// handlers_advice.go - Plant advice and photo diagnosis handlers
package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/urban-jungle/backend/internal/advice"
	"github.com/urban-jungle/backend/internal/catalog"
)

const (
	askFailedMessage      = "Error communicating with the advice service. Please check your API key/billing."
	diagnoseFailedMessage = "Error analyzing photo with the vision model."
	noAnswerMessage       = "No response found."
	noDiagnosisMessage    = "No diagnosis generated."
)

// AdviceHandlerImpl implements the AdviceHandler interface
type AdviceHandlerImpl struct {
	advisor advice.Advisor
	catalog *catalog.Catalog
	logger  *zap.Logger
}

// NewAdviceHandler creates a new advice handler
func NewAdviceHandler(advisor advice.Advisor, cat *catalog.Catalog, logger *zap.Logger) AdviceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdviceHandlerImpl{advisor: advisor, catalog: cat, logger: logger}
}

// HandleAsk answers a free-text care question, using the selected plant
// as reference material when one is given
func (h *AdviceHandlerImpl) HandleAsk(c echo.Context) error {
	var req askRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	contextJSON := ""
	if req.PlantID != "" {
		plant, ok := h.catalog.Get(req.PlantID)
		if !ok {
			return NewNotFoundError("plant", req.PlantID)
		}
		contextJSON = advice.PlantContext(plant)
	}

	answer, err := h.advisor.AskPlantAdvice(c.Request().Context(), req.Question, contextJSON)
	if errors.Is(err, advice.ErrEmptyQuestion) {
		return NewValidationError("question")
	}
	if err != nil {
		h.logger.Warn("advice request failed", zap.String("plant_id", req.PlantID), zap.Error(err))
		return NewAdviceError(err, askFailedMessage)
	}
	if answer == "" {
		answer = noAnswerMessage
	}

	return c.JSON(http.StatusOK, adviceResponse{Answer: answer})
}

// HandleDiagnose diagnoses an uploaded plant photo
func (h *AdviceHandlerImpl) HandleDiagnose(c echo.Context) error {
	fh, err := c.FormFile("photo")
	if err != nil {
		return NewValidationError("photo")
	}
	f, err := fh.Open()
	if err != nil {
		return NewBadRequestError("failed to open photo", err)
	}
	defer f.Close()

	image, err := io.ReadAll(f)
	if err != nil {
		return NewBadRequestError("failed to read photo", err)
	}

	plantName := "plant"
	if id := c.FormValue("plantId"); id != "" {
		plant, ok := h.catalog.Get(id)
		if !ok {
			return NewNotFoundError("plant", id)
		}
		plantName = plant.Name
	}

	answer, err := h.advisor.DiagnosePlantPhoto(c.Request().Context(), image, plantName)
	if errors.Is(err, advice.ErrEmptyImage) {
		return NewValidationError("photo")
	}
	if err != nil {
		h.logger.Warn("diagnosis request failed", zap.String("plant", plantName), zap.Error(err))
		return NewAdviceError(err, diagnoseFailedMessage)
	}
	if answer == "" {
		answer = noDiagnosisMessage
	}

	return c.JSON(http.StatusOK, adviceResponse{Answer: answer})
}

// Request/response types

type askRequest struct {
	Question string `json:"question"`
	PlantID  string `json:"plantId"`
}

type adviceResponse struct {
	Answer string `json:"answer"`
}
