// handlers_logs.go - Watering log, status and CSV interchange handlers
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/urban-jungle/backend/internal/garden"
	"github.com/urban-jungle/backend/internal/interchange"
)

// defaultReading is the reading modal's starting slider position.
const defaultReading = 5

// LogHandlerImpl implements the LogHandler interface
type LogHandlerImpl struct {
	store GardenStore
	now   func() time.Time
}

// NewLogHandler creates a new log handler
func NewLogHandler(store GardenStore, now func() time.Time) LogHandler {
	if now == nil {
		now = time.Now
	}
	return &LogHandlerImpl{store: store, now: now}
}

// HandleListLogs returns the log newest first
func (h *LogHandlerImpl) HandleListLogs(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Snapshot())
}

// HandleListLogsMsgpack returns the log newest first, msgpack encoded
func (h *LogHandlerImpl) HandleListLogsMsgpack(c echo.Context) error {
	entries := h.store.Snapshot()

	data, err := msgpack.Marshal(map[string]interface{}{
		"entries": entries,
		"total":   len(entries),
	})
	if err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}

	return c.Blob(http.StatusOK, "application/msgpack", data)
}

// HandleListStatuses returns one status per catalog plant
func (h *LogHandlerImpl) HandleListStatuses(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Statuses())
}

// HandleRecordWatering records a manual meter reading
func (h *LogHandlerImpl) HandleRecordWatering(c echo.Context) error {
	var req recordWateringRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	reading := defaultReading
	if req.MeterReading != nil {
		reading = *req.MeterReading
	}

	w, err := h.store.RecordWatering(c.Request().Context(), req.PlantID, reading, req.Notes)
	if errors.Is(err, garden.ErrUnknownPlant) {
		return NewNotFoundError("plant", req.PlantID)
	}
	if err != nil {
		return NewInternalError("failed to record watering", err)
	}
	if w == nil {
		return c.NoContent(http.StatusNoContent)
	}

	return c.JSON(http.StatusCreated, w)
}

// HandleExportLogs downloads the log as CSV
func (h *LogHandlerImpl) HandleExportLogs(c echo.Context) error {
	data, err := h.store.ExportCSV()
	if errors.Is(err, interchange.ErrNothingToExport) {
		return NewNothingToExportError()
	}
	if err != nil {
		return NewInternalError("failed to export CSV", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", interchange.ExportFilename(h.now())))
	return c.Blob(http.StatusOK, interchange.ContentType, data)
}

// HandleImportLogs imports a CSV backup sent either as the multipart field
// "file" or as the raw request body
func (h *LogHandlerImpl) HandleImportLogs(c echo.Context) error {
	text, err := readImportText(c)
	if err != nil {
		return err
	}

	result, err := h.store.ImportCSV(c.Request().Context(), text)
	if err != nil {
		return importError(err)
	}

	return c.JSON(http.StatusOK, importResponse{
		Imported: result.Imported(),
		Skipped:  result.Skipped(),
		Issues:   result.Issues,
		Message:  importMessage(result),
	})
}

// importMessage is the confirmation shown after an import. Nothing matched
// means no message at all.
func importMessage(result *interchange.Result) string {
	if result.Imported() == 0 {
		return ""
	}
	msg := fmt.Sprintf("Successfully imported %d entries.", result.Imported())
	if result.Skipped() > 0 {
		msg += fmt.Sprintf(" Skipped %d rows.", result.Skipped())
	}
	return msg
}

func readImportText(c echo.Context) (string, error) {
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			return "", NewValidationError("file")
		}
		f, err := fh.Open()
		if err != nil {
			return "", NewBadRequestError("failed to open uploaded file", err)
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return "", NewBadRequestError("failed to read uploaded file", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return "", NewBadRequestError("failed to read request body", err)
	}
	return string(data), nil
}

// Request/response types

type recordWateringRequest struct {
	PlantID      string `json:"plantId"`
	MeterReading *int   `json:"meterReading"`
	Notes        string `json:"notes"`
}

type importResponse struct {
	Imported int                    `json:"imported"`
	Skipped  int                    `json:"skipped"`
	Issues   []interchange.RowIssue `json:"issues"`
	Message  string                 `json:"message,omitempty"`
}
