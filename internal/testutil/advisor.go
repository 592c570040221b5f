package testutil

import (
	"context"
	"sync"

	"github.com/urban-jungle/backend/internal/advice"
)

// StubAdvisor implements advice.Advisor with canned answers
type StubAdvisor struct {
	mu sync.Mutex

	Answer string
	Err    error

	Questions []string
	Contexts  []string
	Images    [][]byte
	Plants    []string
}

func (s *StubAdvisor) AskPlantAdvice(_ context.Context, question, contextJSON string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Questions = append(s.Questions, question)
	s.Contexts = append(s.Contexts, contextJSON)
	if s.Err != nil {
		return "", s.Err
	}
	return s.Answer, nil
}

func (s *StubAdvisor) DiagnosePlantPhoto(_ context.Context, image []byte, plantName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Images = append(s.Images, image)
	s.Plants = append(s.Plants, plantName)
	if s.Err != nil {
		return "", s.Err
	}
	return s.Answer, nil
}

// Calls returns the total number of advice requests
func (s *StubAdvisor) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Questions) + len(s.Images)
}

var _ advice.Advisor = (*StubAdvisor)(nil)
