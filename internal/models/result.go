package models

type GenerateQuestionsRequest struct {
	Skills []string `json:"skills"`
}

type GenerateQuestionsResponse struct {
	Success   bool       `json:"success"`
	Questions []string   `json:"questions"`
	Details   []Question `json:"details"`
	Warning   string     `json:"warning,omitempty"`
}

type ScoreAnswerRequest struct {
	Question   string `json:"question"`
	Transcript string `json:"transcript"`
}

type ScoreAnswerData struct {
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}

type ScoreAnswerResponse struct {
	Success bool            `json:"success"`
	Data    ScoreAnswerData `json:"data"`
	Warning string          `json:"warning,omitempty"`
}

type AnalyzeInterviewResponse struct {
	Success   bool                 `json:"success"`
	Message   string               `json:"message"`
	VideoPath string               `json:"videoPath"`
	Data      *InterviewAssessment `json:"data"`
	User      *UserProfile         `json:"user"`
}

type SkillExtractionResponse struct {
	Success bool     `json:"success"`
	Skills  []string `json:"skills"`
	Count   int      `json:"count"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type TestResultsResponse struct {
	Success bool       `json:"success"`
	Data    TestResult `json:"data"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}
