package insight

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	DefaultModel   = "gemini-2.0-flash"
	DefaultTimeout = 60 * time.Second

	systemPrompt = "You are a financial data assistant. Answer the user's question using only " +
		"the stock data provided. Be concise, cite figures from the data, and say so when the " +
		"data does not contain the answer. Do not give investment advice."
)

// GeminiAnswerer answers questions with a Gemini model.
type GeminiAnswerer struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiAnswerer creates the client. An empty apiKey returns ErrMissingCredential.
func NewGeminiAnswerer(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiAnswerer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingCredential
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	log.Printf("[INFO] gemini answerer ready, model=%s timeout=%s", model, timeout)
	return &GeminiAnswerer{client: client, model: model, timeout: timeout}, nil
}

// Answer sends the context and question to the model and returns its text reply.
func (g *GeminiAnswerer) Answer(ctx context.Context, contextText, question string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(float32(0.2)),
	}
	prompt := fmt.Sprintf("Stock data:\n%s\nQuestion: %s", contextText, question)

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	answer := strings.TrimSpace(resp.Text())
	if answer == "" {
		return "", errors.New("gemini returned an empty answer")
	}
	log.Printf("[INFO] gemini answered in %s (%d chars)", time.Since(start).Round(time.Millisecond), len(answer))
	return answer, nil
}
