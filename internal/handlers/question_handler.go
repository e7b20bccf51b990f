package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-assessor/internal/logger"
	"alfredoptarigan/interview-assessor/internal/middleware"
	"alfredoptarigan/interview-assessor/internal/models"
	"alfredoptarigan/interview-assessor/internal/repositories"
	"alfredoptarigan/interview-assessor/internal/services"
)

const warnSingleScoreUnavailable = "LLM scoring unavailable - using fallback score"

type QuestionHandler struct {
	generator services.QuestionGenerator
	scorer    services.CorrectnessScorer
	profiles  repositories.ProfileRepository
	log       *logger.Logger
}

func NewQuestionHandler(
	generator services.QuestionGenerator,
	scorer services.CorrectnessScorer,
	profiles repositories.ProfileRepository,
	log *logger.Logger,
) *QuestionHandler {
	return &QuestionHandler{
		generator: generator,
		scorer:    scorer,
		profiles:  profiles,
		log:       log.With("handler", "question"),
	}
}

// HandleGenerate handles POST /questions/generate. The stored skill profile
// of an authenticated caller wins over skills in the body.
func (h *QuestionHandler) HandleGenerate(c *fiber.Ctx) error {
	var req models.GenerateQuestionsRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid request payload")
		}
	}

	skills := req.Skills
	if userID, ok := middleware.UserID(c); ok {
		stored, err := h.profiles.FindSkills(c.UserContext(), userID)
		switch {
		case err == nil && len(stored) > 0:
			skills = stored
		case err != nil && !errors.Is(err, repositories.ErrProfileNotFound):
			h.log.Warn("⚠️ Failed to load skill profile, using request skills", "user_id", userID.String(), "error", err)
		}
	}

	set, err := h.generator.Generate(c.UserContext(), skills)
	if err != nil {
		if services.IsValidationError(err) {
			return errorResponse(c, fiber.StatusBadRequest, "No skills found. Please upload your resume or provide skills.")
		}
		return errorResponse(c, fiber.StatusInternalServerError, services.RootMessage(err))
	}

	return c.Status(fiber.StatusOK).JSON(models.GenerateQuestionsResponse{
		Success:   true,
		Questions: set.Texts(),
		Details:   set.Questions,
		Warning:   set.Warning,
	})
}

// HandleScore handles POST /questions/score
func (h *QuestionHandler) HandleScore(c *fiber.Ctx) error {
	var req models.ScoreAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request payload")
	}
	if strings.TrimSpace(req.Question) == "" || strings.TrimSpace(req.Transcript) == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Question and transcript are required.")
	}

	score, err := h.scorer.ScoreOne(c.UserContext(), req.Question, req.Transcript)
	resp := models.ScoreAnswerResponse{
		Success: true,
		Data: models.ScoreAnswerData{
			Score:     score.Score,
			Reasoning: score.Reasoning,
		},
	}
	if err != nil {
		resp.Warning = warnSingleScoreUnavailable
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}
