package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"alfredoptarigan/interview-assessor/internal/logger"
)

type ollamaService struct {
	baseURL    string
	model      string
	maxRetries int
	client     *http.Client
	log        *logger.Logger
}

// NewOllamaService talks to an Ollama-compatible endpoint. Timeouts come
// from the caller's context, not from the HTTP client.
func NewOllamaService(baseURL, model string, maxRetries int, log *logger.Logger) LLMService {
	return &ollamaService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		maxRetries: maxRetries,
		client:     &http.Client{},
		log:        log.With("service", "llm.ollama"),
	}
}

type ollamaRequest struct {
	Model    string         `json:"model"`
	Prompt   string         `json:"prompt,omitempty"`
	Messages []Message      `json:"messages,omitempty"`
	Stream   bool           `json:"stream"`
	Format   string         `json:"format,omitempty"`
	Options  map[string]any `json:"options,omitempty"`
}

// Complete implements LLMService.
func (o *ollamaService) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	endpoint := o.baseURL + "/api/generate"
	body := ollamaRequest{
		Model:  o.model,
		Prompt: req.Prompt,
		Stream: false,
	}
	if len(req.Messages) > 0 {
		endpoint = o.baseURL + "/api/chat"
		body.Prompt = ""
		body.Messages = req.Messages
	}
	if req.JSON {
		body.Format = "json"
	}
	if req.Temperature > 0 {
		body.Options = map[string]any{"temperature": req.Temperature}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to encode llm request: %w", err)
	}

	var text string
	attempt := 0
	op := func() error {
		attempt++
		result, err := o.post(ctx, endpoint, payload)
		if err != nil {
			o.log.Debug("llm attempt failed", "attempt", attempt, "error", err)
			return err
		}
		text = result
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxInterval = 4 * time.Second
	retry := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(o.maxRetries)), ctx)

	if err := backoff.Retry(op, retry); err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}
	return text, nil
}

func (o *ollamaService) post(ctx context.Context, endpoint string, payload []byte) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("failed to build llm request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", backoff.Permanent(err)
		}
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read llm response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := fmt.Errorf("%w: llm returned %d", ErrUnexpectedStatus, resp.StatusCode)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return "", statusErr
		}
		return "", backoff.Permanent(statusErr)
	}

	text := unwrapCompletion(raw)
	if text == "" {
		return "", backoff.Permanent(ErrEmptyCompletion)
	}
	return text, nil
}
