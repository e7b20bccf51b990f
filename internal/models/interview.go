package models

import (
	"time"

	"github.com/google/uuid"
)

type QuestionSource string

const (
	SourceGenerated QuestionSource = "generated"
	SourceFallback  QuestionSource = "fallback"
)

// QuestionsPerTest is the number of questions every generated test carries.
const QuestionsPerTest = 3

type Question struct {
	Text   string         `json:"text"`
	Source QuestionSource `json:"source"`
}

// InterviewSubmission is one recorded answer video plus the ordered
// questions it answers. UserID is nil for anonymous submissions.
type InterviewSubmission struct {
	UserID          *uuid.UUID
	VideoPath       string
	PublicVideoPath string
	Questions       []Question
}

type CorrectnessScore struct {
	Question  string  `json:"question"`
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}

type FacialAnalysisResult struct {
	ConfidenceScore float64                `json:"confidence_score"`
	ConfidenceLevel string                 `json:"confidence_level"`
	Recommendation  string                 `json:"recommendation"`
	Grade           string                 `json:"grade,omitempty"`
	Metrics         map[string]interface{} `json:"metrics,omitempty"`
}

type AggregateResult struct {
	FacialScore      float64   `json:"facialScore"`
	CorrectnessScore float64   `json:"correctnessScore"`
	FinalScore       float64   `json:"finalScore"`
	TestDate         time.Time `json:"testDate"`
}

type CorrectnessAnalysis struct {
	AverageScore float64            `json:"averageScore"`
	Scores       []CorrectnessScore `json:"scores"`
	Transcript   string             `json:"transcript"`
}

// InterviewAssessment is the aggregate plus every artifact used to compute it.
type InterviewAssessment struct {
	AggregateResult
	FacialAnalysis      FacialAnalysisResult `json:"facialAnalysis"`
	CorrectnessAnalysis CorrectnessAnalysis  `json:"correctnessAnalysis"`
	Questions           []Question           `json:"questions"`
	Warnings            []string             `json:"warnings,omitempty"`
	Degraded            bool                 `json:"degraded"`
}
