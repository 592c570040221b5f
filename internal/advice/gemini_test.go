package advice

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
	"go.uber.org/zap"

	"github.com/urban-jungle/backend/internal/catalog"
)

type fakeGenerator struct {
	calls    int
	model    string
	contents []*genai.Content
	answer   string
	err      error
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model = model
	f.contents = contents
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: f.answer}},
			},
		}},
	}, nil
}

func newFakeAdvisor(gen *fakeGenerator) *GeminiAdvisor {
	return &GeminiAdvisor{
		models:     gen,
		model:      DefaultModel,
		plantNames: []string{"Fiddle Leaf Fig"},
		logger:     zap.NewNop(),
	}
}

func TestAskPlantAdvice(t *testing.T) {
	gen := &fakeGenerator{answer: "**Water less.**"}
	a := newFakeAdvisor(gen)

	fig, _ := catalog.Default().Get("fiddle-leaf")
	answer, err := a.AskPlantAdvice(context.Background(), "Why brown spots?", PlantContext(fig))
	require.NoError(t, err)

	assert.Equal(t, "**Water less.**", answer)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, "gemini-3-pro-preview", gen.model)

	require.Len(t, gen.contents, 1)
	require.Len(t, gen.contents[0].Parts, 1)
	prompt := gen.contents[0].Parts[0].Text
	assert.Contains(t, prompt, "User Query: Why brown spots?")
	assert.Contains(t, prompt, `"id":"fiddle-leaf"`)
}

func TestAskPlantAdvice_EmptyQuestion(t *testing.T) {
	gen := &fakeGenerator{}
	a := newFakeAdvisor(gen)

	_, err := a.AskPlantAdvice(context.Background(), "   ", "")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
	assert.Zero(t, gen.calls)
}

func TestAskPlantAdvice_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"api 404", genai.APIError{Code: 404, Message: "nope", Status: "NOT_FOUND"}, ErrCredential},
		{"api 404 pointer", &genai.APIError{Code: 404, Status: "NOT_FOUND"}, ErrCredential},
		{"wrapped message", fmt.Errorf("call: %w", errors.New("Requested entity was not found.")), ErrCredential},
		{"quota", genai.APIError{Code: 429, Message: "quota", Status: "RESOURCE_EXHAUSTED"}, ErrUnavailable},
		{"network", errors.New("dial tcp: i/o timeout"), ErrUnavailable},
		{"canceled", context.Canceled, ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newFakeAdvisor(&fakeGenerator{err: tt.err})
			_, err := a.AskPlantAdvice(context.Background(), "hello", "")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNoKeyRefusesCalls(t *testing.T) {
	a, err := NewGeminiAdvisor(context.Background(), GeminiConfig{}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, a.Model())

	_, err = a.AskPlantAdvice(context.Background(), "hello", "")
	assert.ErrorIs(t, err, ErrCredential)

	_, err = a.DiagnosePlantPhoto(context.Background(), []byte{0xff, 0xd8, 0xff}, "Fig")
	assert.ErrorIs(t, err, ErrCredential)
}

func TestDiagnosePlantPhoto(t *testing.T) {
	gen := &fakeGenerator{answer: "Looks like thrips."}
	a := newFakeAdvisor(gen)

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	answer, err := a.DiagnosePlantPhoto(context.Background(), png, "Fiddle Leaf Fig")
	require.NoError(t, err)
	assert.Equal(t, "Looks like thrips.", answer)

	require.Len(t, gen.contents, 1)
	parts := gen.contents[0].Parts
	require.Len(t, parts, 2)
	require.NotNil(t, parts[0].InlineData)
	assert.Equal(t, "image/png", parts[0].InlineData.MIMEType)
	assert.Equal(t, png, parts[0].InlineData.Data)
	assert.Contains(t, parts[1].Text, "photo of my Fiddle Leaf Fig")
}

func TestDiagnosePlantPhoto_Empty(t *testing.T) {
	gen := &fakeGenerator{}
	_, err := newFakeAdvisor(gen).DiagnosePlantPhoto(context.Background(), nil, "Fig")
	assert.ErrorIs(t, err, ErrEmptyImage)
	assert.Zero(t, gen.calls)
}

func TestImageMIMEType(t *testing.T) {
	assert.Equal(t, "image/jpeg", ImageMIMEType([]byte{0xff, 0xd8, 0xff, 0xe0}))
	assert.Equal(t, "image/png", ImageMIMEType([]byte("\x89PNG\r\n\x1a\n")))
	assert.Equal(t, "image/jpeg", ImageMIMEType([]byte("plain text")))
}
