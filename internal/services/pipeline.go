package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"alfredoptarigan/interview-assessor/internal/config"
	"alfredoptarigan/interview-assessor/internal/logger"
	"alfredoptarigan/interview-assessor/internal/metrics"
	"alfredoptarigan/interview-assessor/internal/models"
	"alfredoptarigan/interview-assessor/internal/repositories"
)

const (
	facialWeight      = 0.5
	correctnessWeight = 0.5
)

const (
	warnFacialUnavailable        = "Facial analysis unavailable - using default confidence score"
	warnTranscriptionUnavailable = "Transcription unavailable - answers were scored as empty"
	warnScoringUnavailable       = "LLM scoring unavailable for %d question(s) - using fallback score"
)

type PipelineService interface {
	// Assess runs one submission to completion. Only invalid input or an
	// internal fault produces an error; collaborator failures degrade.
	Assess(ctx context.Context, sub models.InterviewSubmission) (*models.InterviewAssessment, *models.UserProfile, error)
}

type pipelineService struct {
	facial      FacialAdapter
	transcriber TranscriptionAdapter
	segmenter   TranscriptSegmenter
	scorer      CorrectnessScorer
	profiles    repositories.ProfileRepository

	facialPolicy        Policy[*models.FacialAnalysisResult]
	transcriptionPolicy Policy[string]
	timeout             time.Duration

	log *logger.Logger
	now func() time.Time
}

func NewPipelineService(
	cfg *config.Config,
	facial FacialAdapter,
	transcriber TranscriptionAdapter,
	segmenter TranscriptSegmenter,
	scorer CorrectnessScorer,
	profiles repositories.ProfileRepository,
	log *logger.Logger,
) PipelineService {
	return &pipelineService{
		facial:      facial,
		transcriber: transcriber,
		segmenter:   segmenter,
		scorer:      scorer,
		profiles:    profiles,
		facialPolicy: Policy[*models.FacialAnalysisResult]{
			Collaborator: "facial",
			Timeout:      cfg.Facial.Timeout,
			OnFailure:    func(error) *models.FacialAnalysisResult { return DefaultFacialResult() },
		},
		transcriptionPolicy: Policy[string]{
			Collaborator: "transcription",
			Timeout:      cfg.Transcription.Timeout,
			OnFailure:    func(error) string { return "" },
		},
		timeout: cfg.Pipeline.Timeout,
		log:     log.With("component", "pipeline"),
		now:     time.Now,
	}
}

func (p *pipelineService) Assess(ctx context.Context, sub models.InterviewSubmission) (*models.InterviewAssessment, *models.UserProfile, error) {
	if err := validateSubmission(sub); err != nil {
		return nil, nil, err
	}

	// Once accepted, a submission runs to completion or to its own timeout.
	ctx = context.WithoutCancel(ctx)
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := p.now()
	p.log.Info("🔄 Starting interview assessment", "video", sub.VideoPath, "questions", len(sub.Questions))

	var (
		facial        *models.FacialAnalysisResult
		transcript    string
		facialErr     error
		transcribeErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(guard("facial analysis", func() error {
		facial, facialErr = p.facialPolicy.Run(gctx, p.log, func(ctx context.Context) (*models.FacialAnalysisResult, error) {
			return p.facial.Analyze(ctx, sub.VideoPath)
		})
		return nil
	}))
	g.Go(guard("transcription", func() error {
		transcript, transcribeErr = p.transcriptionPolicy.Run(gctx, p.log, func(ctx context.Context) (string, error) {
			return p.transcriber.Transcribe(ctx, sub.VideoPath)
		})
		return nil
	}))
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if facial == nil {
		facial = DefaultFacialResult()
	}

	questions := make([]string, len(sub.Questions))
	for i, q := range sub.Questions {
		questions[i] = q.Text
	}

	segments := p.segmenter.Segment(transcript, len(questions))
	scores, scoreErr := p.scorer.Score(ctx, questions, segments)
	if len(scores) != len(questions) {
		return nil, nil, fmt.Errorf("scorer returned %d scores for %d questions", len(scores), len(questions))
	}

	assessment := &models.InterviewAssessment{
		AggregateResult: Aggregate(facial.ConfidenceScore, scores, p.now().UTC()),
		FacialAnalysis:  *facial,
		CorrectnessAnalysis: models.CorrectnessAnalysis{
			Scores:     scores,
			Transcript: transcript,
		},
		Questions: sub.Questions,
	}
	assessment.CorrectnessAnalysis.AverageScore = assessment.CorrectnessScore

	if facialErr != nil {
		assessment.Warnings = append(assessment.Warnings, warnFacialUnavailable)
	}
	if transcribeErr != nil {
		assessment.Warnings = append(assessment.Warnings, warnTranscriptionUnavailable)
	}
	if n := countFailures(scoreErr); n > 0 {
		assessment.Warnings = append(assessment.Warnings, fmt.Sprintf(warnScoringUnavailable, n))
	}
	assessment.Degraded = len(assessment.Warnings) > 0

	elapsed := p.now().Sub(start)
	metrics.PipelineDuration.Observe(elapsed.Seconds())
	metrics.FinalScore.Observe(assessment.FinalScore)

	p.log.Info("✅ Interview assessment completed",
		"final_score", assessment.FinalScore,
		"facial_score", assessment.FacialScore,
		"correctness_score", assessment.CorrectnessScore,
		"degraded", assessment.Degraded,
		"duration", elapsed,
	)

	return assessment, p.persist(ctx, sub, assessment), nil
}

// persist stores the result on the owner's profile. Failures are logged
// and never change the outcome.
func (p *pipelineService) persist(ctx context.Context, sub models.InterviewSubmission, assessment *models.InterviewAssessment) *models.UserProfile {
	if sub.UserID == nil || p.profiles == nil {
		return nil
	}
	videoPath := sub.PublicVideoPath
	if videoPath == "" {
		videoPath = sub.VideoPath
	}
	result := models.NewTestResult(assessment.AggregateResult, sub.Questions, videoPath)

	profile, err := p.profiles.SaveTestResult(ctx, *sub.UserID, result)
	if err != nil {
		p.log.Error("❌ Failed to save test result", "user_id", sub.UserID.String(), "error", err)
		return nil
	}
	return profile
}

// Aggregate combines the facial score with the mean correctness score.
// Every input is clamped to [0,100] and the final score is rounded to one
// decimal place.
func Aggregate(facialScore float64, scores []models.CorrectnessScore, at time.Time) models.AggregateResult {
	var sum float64
	for _, s := range scores {
		sum += clampScore(s.Score)
	}
	var mean float64
	if len(scores) > 0 {
		mean = sum / float64(len(scores))
	}
	facialScore = clampScore(facialScore)

	return models.AggregateResult{
		FacialScore:      facialScore,
		CorrectnessScore: mean,
		FinalScore:       round1(facialScore*facialWeight + mean*correctnessWeight),
		TestDate:         at,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func validateSubmission(sub models.InterviewSubmission) error {
	if strings.TrimSpace(sub.VideoPath) == "" {
		return ErrMissingVideo
	}
	if len(sub.Questions) == 0 {
		return ErrNoQuestions
	}
	for i, q := range sub.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("%w: question %d is empty", ErrNoQuestions, i+1)
		}
	}
	return nil
}

// guard turns a panic inside fn into an error.
func guard(stage string, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s panicked: %v", stage, r)
			}
		}()
		return fn()
	}
}

func countFailures(err error) int {
	if err == nil {
		return 0
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return len(joined.Unwrap())
	}
	return 1
}
