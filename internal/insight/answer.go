package insight

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingCredential means the question-answering service is not configured.
	ErrMissingCredential = errors.New("question answering is not configured: missing API key")
	// ErrGeneration wraps transport or runtime failures while producing an answer.
	ErrGeneration = errors.New("answer generation failed")
	// ErrEmptyQuestion is returned for blank questions.
	ErrEmptyQuestion = errors.New("question is empty")
)

//go:generate mockgen -package=insight_test -destination=mock_answerer_test.go -source=answer.go Answerer

// Answerer answers a question given a block of context text.
type Answerer interface {
	Answer(ctx context.Context, contextText, question string) (string, error)
}

// AnswerFunc adapts a function to Answerer.
type AnswerFunc func(ctx context.Context, contextText, question string) (string, error)

func (f AnswerFunc) Answer(ctx context.Context, contextText, question string) (string, error) {
	return f(ctx, contextText, question)
}

// Unconfigured is the Answerer used when no credential was supplied.
type Unconfigured struct{}

func (Unconfigured) Answer(context.Context, string, string) (string, error) {
	return "", ErrMissingCredential
}

// Ask passes contextText and question to a, unmodified. Failures are wrapped so callers
// can tell a configuration problem (ErrMissingCredential) from a generation failure.
func Ask(ctx context.Context, a Answerer, contextText, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}
	if a == nil {
		return "", ErrMissingCredential
	}
	answer, err := a.Answer(ctx, contextText, question)
	if err != nil {
		if errors.Is(err, ErrMissingCredential) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return answer, nil
}

// FailureMessage renders an Ask error as text for the user.
func FailureMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingCredential):
		return "AI insights are unavailable: no API key is configured. Set GEMINI_API_KEY and restart."
	case errors.Is(err, ErrEmptyQuestion):
		return "Please ask a question about the selected stocks."
	default:
		return fmt.Sprintf("Error generating insight: %v", err)
	}
}
