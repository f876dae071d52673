package generator

import (
	"context"

	"github.com/learnify/learnify/internal/models"
)

// Request describes one quiz-generation call.
type Request struct {
	Text         string // extracted source text, or a prior quiz's questions when regenerating
	NumQuestions int
	Difficulty   string
	Language     string
	Regenerate   bool
}

// QuizResponse is the generation collaborator's output: a topic label and
// an ordered question sequence.
type QuizResponse struct {
	Topic     string                `json:"topic"`
	Questions []models.QuizQuestion `json:"questions"`
}

// Generator defines the interface for the quiz-generation collaborator.
// This interface enables testability by allowing mock implementations.
type Generator interface {
	Generate(ctx context.Context, req Request) (*QuizResponse, error)
}

// Ensure Client implements the interface
var _ Generator = (*Client)(nil)
