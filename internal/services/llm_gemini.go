package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/genai"

	"alfredoptarigan/interview-assessor/internal/logger"
)

type geminiService struct {
	client     *genai.Client
	modelName  string
	maxRetries int
	log        *logger.Logger
}

func NewGeminiService(ctx context.Context, apiKey, modelName string, maxRetries int, log *logger.Logger) (LLMService, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:     client,
		modelName:  modelName,
		maxRetries: maxRetries,
		log:        log.With("service", "llm.gemini"),
	}, nil
}

// Complete implements LLMService.
func (g *geminiService) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	temperature := req.Temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 2048,
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	contents := geminiContents(req)
	cfg.SystemInstruction = geminiSystemInstruction(req.Messages)

	var text string
	attempt := 0
	op := func() error {
		attempt++
		resp, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
		if err != nil {
			g.log.Debug("gemini attempt failed", "attempt", attempt, "error", err)
			return classifyGeminiError(ctx, err)
		}
		if resp == nil {
			return backoff.Permanent(fmt.Errorf("no response generated (nil response)"))
		}
		text = strings.TrimSpace(resp.Text())
		if text == "" {
			return backoff.Permanent(ErrEmptyCompletion)
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxInterval = 4 * time.Second
	retry := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(g.maxRetries)), ctx)

	if err := backoff.Retry(op, retry); err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}
	return text, nil
}

// classifyGeminiError marks everything except 5xx, 429 and transport
// errors as permanent.
func classifyGeminiError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return backoff.Permanent(err)
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code >= 500 || apiErr.Code == http.StatusTooManyRequests {
			return err
		}
		return backoff.Permanent(fmt.Errorf("%w: gemini returned %d: %w", ErrUnexpectedStatus, apiErr.Code, err))
	}
	return err
}

// geminiSystemInstruction joins every system message; nil when there is none.
func geminiSystemInstruction(messages []Message) *genai.Content {
	var parts []*genai.Part
	for _, m := range messages {
		if m.Role == "system" && strings.TrimSpace(m.Content) != "" {
			parts = append(parts, &genai.Part{Text: m.Content})
		}
	}
	if len(parts) == 0 {
		return nil
	}
	return &genai.Content{Parts: parts}
}

func geminiContents(req CompletionRequest) []*genai.Content {
	if len(req.Messages) == 0 {
		return genai.Text(req.Prompt)
	}
	var contents []*genai.Content
	for _, m := range req.Messages {
		role := "user"
		switch m.Role {
		case "system":
			continue
		case "assistant", "model":
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	return contents
}
