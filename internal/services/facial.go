package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"alfredoptarigan/interview-assessor/internal/config"
	"alfredoptarigan/interview-assessor/internal/logger"
	"alfredoptarigan/interview-assessor/internal/models"
)

type FacialAdapter interface {
	Analyze(ctx context.Context, videoPath string) (*models.FacialAnalysisResult, error)
}

type facialAdapter struct {
	url    string
	client *http.Client
	log    *logger.Logger
}

// NewFacialAdapter talks to the facial service at cfg.URL. Timeouts come
// from the caller's context. An empty URL disables the adapter.
func NewFacialAdapter(cfg config.FacialConfig, log *logger.Logger) FacialAdapter {
	return &facialAdapter{
		url:    cfg.URL,
		client: &http.Client{},
		log:    log.With("component", "facial_adapter"),
	}
}

// DefaultFacialResult is used whenever the facial service cannot answer.
func DefaultFacialResult() *models.FacialAnalysisResult {
	return &models.FacialAnalysisResult{
		ConfidenceScore: FallbackScore,
		ConfidenceLevel: "Unknown",
		Recommendation:  "unavailable",
	}
}

var (
	facialEnvelopeKeys = []string{"data", "analysis", "result"}
	facialScoreKeys    = []string{"confidence_score", "confidenceScore", "confidence", "score"}
	facialLevelKeys    = []string{"confidence_level", "confidenceLevel", "level"}
)

func (a *facialAdapter) Analyze(ctx context.Context, videoPath string) (*models.FacialAnalysisResult, error) {
	if a.url == "" {
		return nil, fmt.Errorf("facial service: %w", ErrCollaboratorDisabled)
	}

	body, err := postVideo(ctx, a.client, joinURL(a.url, "/analyze-interview"), videoPath)
	if err != nil {
		return nil, fmt.Errorf("facial service: %w", err)
	}

	result, err := parseFacialReply(body)
	if err != nil {
		return nil, fmt.Errorf("facial service: %w", err)
	}

	a.log.Info("✅ Facial analysis completed", "confidence_score", result.ConfidenceScore, "level", result.ConfidenceLevel)
	return result, nil
}

// parseFacialReply accepts the payload at the root or nested under any of
// the known envelope keys.
func parseFacialReply(body []byte) (*models.FacialAnalysisResult, error) {
	var root map[string]interface{}
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, fmt.Errorf("failed to decode reply: %w", err)
	}

	payload := root
	for _, key := range facialEnvelopeKeys {
		if nested, ok := root[key].(map[string]interface{}); ok {
			payload = nested
			break
		}
	}

	score, ok := firstNumber(payload, facialScoreKeys)
	if !ok {
		return nil, ErrNoConfidence
	}

	result := &models.FacialAnalysisResult{
		ConfidenceScore: clampScore(score),
		ConfidenceLevel: firstString(payload, facialLevelKeys),
	}
	if result.ConfidenceLevel == "" {
		result.ConfidenceLevel = "Unknown"
	}
	result.Recommendation, _ = payload["recommendation"].(string)
	result.Grade, _ = payload["grade"].(string)
	result.Metrics, _ = payload["metrics"].(map[string]interface{})
	return result, nil
}

func firstNumber(obj map[string]interface{}, keys []string) (float64, bool) {
	for _, key := range keys {
		if v, ok := numberValue(obj[key]); ok {
			return v, true
		}
	}
	return 0, false
}

func firstString(obj map[string]interface{}, keys []string) string {
	for _, key := range keys {
		if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
