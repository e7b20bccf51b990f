package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
	OutcomeTimeout  = "timeout"
)

var (
	CollaboratorCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collaborator_calls_total",
			Help: "Outbound collaborator calls by outcome",
		},
		[]string{"collaborator", "outcome"},
	)
	CollaboratorDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "collaborator_call_duration_seconds",
			Help:    "Outbound collaborator call duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
		[]string{"collaborator"},
	)
	PipelineDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "interview_pipeline_duration_seconds",
			Help:    "End-to-end interview assessment duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)
	FinalScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "interview_final_score",
			Help:    "Distribution of aggregate interview scores",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)
	QuestionGeneration = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "question_generation_total",
			Help: "Question generation requests by mode (llm, partial, fallback)",
		},
		[]string{"mode"},
	)

	registerOnce sync.Once
)

// Register adds every collector to reg. Safe to call more than once.
func Register(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(
			CollaboratorCalls,
			CollaboratorDuration,
			PipelineDuration,
			FinalScore,
			QuestionGeneration,
		)
	})
}
