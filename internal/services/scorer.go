package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"alfredoptarigan/interview-assessor/internal/logger"
	"alfredoptarigan/interview-assessor/internal/models"
)

const (
	// Answers shorter than this never get credit for an unparseable or zero reply.
	minAnswerLength = 10

	FallbackScore = 50

	reasonTooShort    = "Answer too short or empty - cannot evaluate"
	reasonUnavailable = "Analysis unavailable - using fallback score"
	reasonUnparseable = "Unable to parse response"
)

type CorrectnessScorer interface {
	// Score returns exactly one score per question, in order. The error
	// joins every absorbed LLM failure and never means the scores are missing.
	Score(ctx context.Context, questions, segments []string) ([]models.CorrectnessScore, error)
	ScoreOne(ctx context.Context, question, answer string) (models.CorrectnessScore, error)
}

type correctnessScorer struct {
	llm         LLMService
	prompts     *PromptBuilder
	normalizer  *ResponseNormalizer
	policy      Policy[string]
	concurrency int
	log         *logger.Logger
}

func NewCorrectnessScorer(llm LLMService, timeout time.Duration, concurrency int, log *logger.Logger) CorrectnessScorer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &correctnessScorer{
		llm:        llm,
		prompts:    NewPromptBuilder(),
		normalizer: NewResponseNormalizer(),
		policy: Policy[string]{
			Collaborator: "llm.scoring",
			Timeout:      timeout,
			OnFailure:    func(error) string { return "" },
		},
		concurrency: concurrency,
		log:         log.With("component", "correctness_scorer"),
	}
}

// Score implements CorrectnessScorer. A missing segment is scored as an
// empty answer.
func (s *correctnessScorer) Score(ctx context.Context, questions, segments []string) ([]models.CorrectnessScore, error) {
	scores := make([]models.CorrectnessScore, len(questions))
	failures := make([]error, len(questions))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, question := range questions {
		answer := ""
		if i < len(segments) {
			answer = segments[i]
		}
		g.Go(func() error {
			scores[i], failures[i] = s.ScoreOne(ctx, question, answer)
			return nil
		})
	}
	_ = g.Wait()

	return scores, errors.Join(failures...)
}

// ScoreOne implements CorrectnessScorer.
func (s *correctnessScorer) ScoreOne(ctx context.Context, question, answer string) (models.CorrectnessScore, error) {
	answer = strings.TrimSpace(answer)
	result := models.CorrectnessScore{Question: question}

	if answer == "" {
		result.Reasoning = reasonTooShort
		return result, nil
	}

	reply, err := s.policy.Run(ctx, s.log, func(ctx context.Context) (string, error) {
		return s.llm.Complete(ctx, CompletionRequest{
			Prompt:      s.prompts.BuildCorrectnessPrompt(question, answer),
			JSON:        true,
			Temperature: 0.3,
		})
	})
	if err != nil {
		result.Score = FallbackScore
		result.Reasoning = reasonUnavailable
		return result, err
	}

	outcome := s.normalizer.NormalizeScore(reply)
	short := utf8.RuneCountInString(answer) < minAnswerLength

	switch {
	case short && (!outcome.Ok() || outcome.Score == 0):
		result.Reasoning = reasonTooShort
	case !outcome.Ok():
		s.log.Warn("⚠️ unparseable scoring reply", "question", question, "raw", truncate(reply, 200))
		result.Reasoning = reasonUnparseable
	default:
		result.Score = outcome.Score
		result.Reasoning = outcome.Reasoning
		s.log.Debug("scored answer", "strategy", outcome.Strategy, "score", outcome.Score)
	}
	return result, nil
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
