package services

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var errLLMDown = errors.New("dial tcp 127.0.0.1:11434: connect: connection refused")

// fakeLLM answers with reply, or fails with err. respond, when set, wins.
type fakeLLM struct {
	mu       sync.Mutex
	reply    string
	err      error
	respond  func(ctx context.Context, req CompletionRequest) (string, error)
	requests []CompletionRequest
}

func (f *fakeLLM) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.respond != nil {
		return f.respond(ctx, req)
	}
	return f.reply, f.err
}

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// promptText returns the text the scorer or generator sent.
func promptText(req CompletionRequest) string {
	if req.Prompt != "" {
		return req.Prompt
	}
	var parts []string
	for _, m := range req.Messages {
		parts = append(parts, m.Content)
	}
	return strings.Join(parts, "\n")
}
