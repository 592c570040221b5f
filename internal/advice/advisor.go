// Package advice asks a hosted language model for plant-care advice and
// photo diagnoses.
package advice

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/urban-jungle/backend/internal/models"
)

var (
	// ErrCredential means no usable credential is configured. The caller
	// should ask the operator to supply one.
	ErrCredential = errors.New("advice credential missing or not recognised")
	// ErrUnavailable covers every other failure of the advice provider.
	ErrUnavailable = errors.New("advice provider unavailable")
	// ErrEmptyQuestion is returned before any call when the question is blank.
	ErrEmptyQuestion = errors.New("question is empty")
	// ErrEmptyImage is returned before any call when no photo bytes were given.
	ErrEmptyImage = errors.New("photo is empty")
)

// Advisor answers free-text questions and diagnoses plant photos. The
// returned text is passed through unmodified; it is usually Markdown.
type Advisor interface {
	AskPlantAdvice(ctx context.Context, question, contextJSON string) (string, error)
	DiagnosePlantPhoto(ctx context.Context, image []byte, plantName string) (string, error)
}

// PlantContext renders a catalog plant as reference material for a
// question.
func PlantContext(p models.Plant) string {
	data, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return string(data)
}
