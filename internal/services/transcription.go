package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"alfredoptarigan/interview-assessor/internal/config"
	"alfredoptarigan/interview-assessor/internal/logger"
)

type TranscriptionAdapter interface {
	Transcribe(ctx context.Context, videoPath string) (string, error)
}

type transcriptionAdapter struct {
	url    string
	client *http.Client
	log    *logger.Logger
}

// NewTranscriptionAdapter talks to the transcription service at cfg.URL.
// An empty URL disables the adapter.
func NewTranscriptionAdapter(cfg config.TranscriptionConfig, log *logger.Logger) TranscriptionAdapter {
	return &transcriptionAdapter{
		url:    cfg.URL,
		client: &http.Client{},
		log:    log.With("component", "transcription_adapter"),
	}
}

type transcriptionReply struct {
	Success    *bool   `json:"success"`
	Transcript *string `json:"transcript"`
}

// Transcribe returns the transcript verbatim. A reply without success=true
// or with a blank transcript is ErrEmptyTranscript.
func (a *transcriptionAdapter) Transcribe(ctx context.Context, videoPath string) (string, error) {
	if a.url == "" {
		return "", fmt.Errorf("transcription service: %w", ErrCollaboratorDisabled)
	}

	body, err := postVideo(ctx, a.client, joinURL(a.url, "/transcribe"), videoPath)
	if err != nil {
		return "", fmt.Errorf("transcription service: %w", err)
	}

	var reply transcriptionReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return "", fmt.Errorf("transcription service: failed to decode reply: %w", err)
	}
	if reply.Success == nil || !*reply.Success || reply.Transcript == nil || strings.TrimSpace(*reply.Transcript) == "" {
		return "", fmt.Errorf("transcription service: %w", ErrEmptyTranscript)
	}

	a.log.Info("✅ Transcription completed", "length", len(*reply.Transcript))
	return *reply.Transcript, nil
}
