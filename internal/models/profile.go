package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserProfile holds the parts of a candidate profile the assessment
// pipeline reads (skills) and writes (the latest test result).
type UserProfile struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Skills      []string   `gorm:"serializer:json" json:"skills"`
	TestResults TestResult `gorm:"embedded;embeddedPrefix:test_" json:"testResults"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TestResult is overwritten on every submission; no history is kept.
type TestResult struct {
	FinalScore            *float64   `json:"finalScore,omitempty"`
	FacialConfidenceScore *float64   `json:"facialConfidenceScore,omitempty"`
	CorrectnessScore      *float64   `json:"correctnessScore,omitempty"`
	TestDate              *time.Time `json:"testDate,omitempty"`
	Questions             []string   `gorm:"serializer:json" json:"questions,omitempty"`
	VideoPath             string     `gorm:"type:text" json:"videoPath,omitempty"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func NewTestResult(result AggregateResult, questions []Question, videoPath string) TestResult {
	texts := make([]string, len(questions))
	for i, q := range questions {
		texts[i] = q.Text
	}
	final := result.FinalScore
	facial := result.FacialScore
	correctness := result.CorrectnessScore
	date := result.TestDate
	return TestResult{
		FinalScore:            &final,
		FacialConfidenceScore: &facial,
		CorrectnessScore:      &correctness,
		TestDate:              &date,
		Questions:             texts,
		VideoPath:             videoPath,
	}
}
