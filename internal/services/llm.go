package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"alfredoptarigan/interview-assessor/internal/config"
	"alfredoptarigan/interview-assessor/internal/logger"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest carries either a bare Prompt or a Messages list.
// JSON asks the backend to prefer JSON-formatted output.
type CompletionRequest struct {
	Prompt      string
	Messages    []Message
	JSON        bool
	Temperature float32
}

type LLMService interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

func NewLLMService(ctx context.Context, cfg config.LLMConfig, log *logger.Logger) (LLMService, error) {
	switch cfg.Provider {
	case "ollama":
		if cfg.BaseURL == "" {
			return disabledLLM{}, nil
		}
		return NewOllamaService(cfg.BaseURL, cfg.Model, cfg.MaxRetries, log), nil
	case "gemini":
		return NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.MaxRetries, log)
	default:
		return disabledLLM{}, nil
	}
}

type disabledLLM struct{}

func (disabledLLM) Complete(context.Context, CompletionRequest) (string, error) {
	return "", fmt.Errorf("llm service: %w", ErrCollaboratorDisabled)
}

// unwrapCompletion pulls the model text out of the chat or completion
// envelopes the known backends use. Text that is not an envelope is
// returned as-is.
func unwrapCompletion(body []byte) string {
	var env struct {
		Response *string `json:"response"`
		Message  *struct {
			Content string `json:"content"`
		} `json:"message"`
		Choices []struct {
			Text    string `json:"text"`
			Message *struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return strings.TrimSpace(string(body))
	}

	switch {
	case env.Response != nil:
		return strings.TrimSpace(*env.Response)
	case env.Message != nil:
		return strings.TrimSpace(env.Message.Content)
	case len(env.Choices) > 0:
		if env.Choices[0].Message != nil {
			return strings.TrimSpace(env.Choices[0].Message.Content)
		}
		return strings.TrimSpace(env.Choices[0].Text)
	}
	return strings.TrimSpace(string(body))
}
