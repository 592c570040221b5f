package advice

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "gemini-3-pro-preview"

// notFoundMessage is what the provider says when the key does not map to
// a usable project.
const notFoundMessage = "Requested entity was not found"

// contentGenerator is the part of the genai client the advisor uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiConfig configures a GeminiAdvisor.
type GeminiConfig struct {
	APIKey string
	Model  string
	// PlantNames are mentioned in the persona of every question.
	PlantNames []string
}

// GeminiAdvisor implements Advisor on the Gemini API. Each call is a
// single request with no retries and no caching.
type GeminiAdvisor struct {
	models     contentGenerator
	model      string
	plantNames []string
	logger     *zap.Logger
}

// NewGeminiAdvisor creates an advisor. Without an API key it is still
// returned, but every call fails with ErrCredential.
func NewGeminiAdvisor(ctx context.Context, cfg GeminiConfig, logger *zap.Logger) (*GeminiAdvisor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &GeminiAdvisor{
		model:      cfg.Model,
		plantNames: cfg.PlantNames,
		logger:     logger,
	}
	if a.model == "" {
		a.model = DefaultModel
	}

	if strings.TrimSpace(cfg.APIKey) == "" {
		logger.Warn("no advice API key configured; advice requests will be refused")
		return a, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	a.models = client.Models
	return a, nil
}

// Model returns the configured model name.
func (a *GeminiAdvisor) Model() string {
	return a.model
}

// AskPlantAdvice sends a care question with optional plant reference
// material and returns the model's answer.
func (a *GeminiAdvisor) AskPlantAdvice(ctx context.Context, question, contextJSON string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyQuestion
	}
	if a.models == nil {
		return "", ErrCredential
	}

	prompt := AskPrompt(question, contextJSON, a.plantNames)
	resp, err := a.models.GenerateContent(ctx, a.model, genai.Text(prompt), nil)
	if err != nil {
		return "", a.classify("ask", err)
	}
	return resp.Text(), nil
}

// DiagnosePlantPhoto sends a photo and the plant's name and returns the
// model's diagnosis.
func (a *GeminiAdvisor) DiagnosePlantPhoto(ctx context.Context, image []byte, plantName string) (string, error) {
	if len(image) == 0 {
		return "", ErrEmptyImage
	}
	if a.models == nil {
		return "", ErrCredential
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, ImageMIMEType(image)),
			genai.NewPartFromText(DiagnosePrompt(plantName)),
		}, genai.RoleUser),
	}

	resp, err := a.models.GenerateContent(ctx, a.model, contents, nil)
	if err != nil {
		return "", a.classify("diagnose", err)
	}
	return resp.Text(), nil
}

func (a *GeminiAdvisor) classify(op string, err error) error {
	if isNotFound(err) {
		a.logger.Warn("advice credential rejected", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrCredential, err)
	}
	a.logger.Error("advice request failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func isNotFound(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Status == "NOT_FOUND") {
		return true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil && (apiErrPtr.Code == http.StatusNotFound || apiErrPtr.Status == "NOT_FOUND") {
		return true
	}
	return strings.Contains(err.Error(), notFoundMessage)
}

// ImageMIMEType sniffs the photo type, assuming JPEG when it is not a
// recognised image.
func ImageMIMEType(image []byte) string {
	ct := http.DetectContentType(image)
	if strings.HasPrefix(ct, "image/") {
		return ct
	}
	return "image/jpeg"
}

var _ Advisor = (*GeminiAdvisor)(nil)
