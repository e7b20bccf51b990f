package handlers

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-assessor/internal/logger"
	"alfredoptarigan/interview-assessor/internal/middleware"
	"alfredoptarigan/interview-assessor/internal/models"
	"alfredoptarigan/interview-assessor/internal/services"
)

type InterviewHandler struct {
	pipeline services.PipelineService
	storage  services.StorageService
	log      *logger.Logger
}

func NewInterviewHandler(pipeline services.PipelineService, storage services.StorageService, log *logger.Logger) *InterviewHandler {
	return &InterviewHandler{
		pipeline: pipeline,
		storage:  storage,
		log:      log.With("handler", "interview"),
	}
}

// HandleAnalyze handles POST /interview/analyze
func (h *InterviewHandler) HandleAnalyze(c *fiber.Ctx) error {
	video, err := c.FormFile("video")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Interview video is required.")
	}

	questions, err := parseQuestions(c.FormValue("questions"))
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Questions array is required.")
	}

	stored, err := h.storage.SaveFile(video, services.KindInterview)
	if err != nil {
		if errors.Is(err, services.ErrInvalidFileType) {
			return errorResponse(c, fiber.StatusBadRequest, err.Error())
		}
		h.log.Error("❌ Failed to store interview video", "error", err)
		return errorResponse(c, fiber.StatusInternalServerError, services.RootMessage(err))
	}

	sub := models.InterviewSubmission{
		VideoPath:       stored.Path,
		PublicVideoPath: stored.PublicPath,
		Questions:       questions,
	}
	if userID, ok := middleware.UserID(c); ok {
		sub.UserID = &userID
	}

	assessment, user, err := h.pipeline.Assess(c.UserContext(), sub)
	if err != nil {
		if services.IsValidationError(err) {
			return errorResponse(c, fiber.StatusBadRequest, err.Error())
		}
		h.log.Error("❌ Interview analysis failed", "error", err)
		return errorResponse(c, fiber.StatusInternalServerError, services.RootMessage(err))
	}

	return c.Status(fiber.StatusOK).JSON(models.AnalyzeInterviewResponse{
		Success:   true,
		Message:   "Interview analyzed successfully",
		VideoPath: stored.PublicPath,
		Data:      assessment,
		User:      user,
	})
}

// parseQuestions accepts a JSON array of strings or of {text, source}
// objects, in order.
func parseQuestions(raw string) ([]models.Question, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, services.ErrNoQuestions
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, services.ErrNoQuestions
	}
	if len(items) == 0 {
		return nil, services.ErrNoQuestions
	}

	questions := make([]models.Question, 0, len(items))
	for _, item := range items {
		q := models.Question{Source: models.SourceGenerated}
		if err := json.Unmarshal(item, &q.Text); err != nil {
			var obj models.Question
			if err := json.Unmarshal(item, &obj); err != nil {
				return nil, services.ErrNoQuestions
			}
			q.Text = obj.Text
			if obj.Source == models.SourceFallback {
				q.Source = models.SourceFallback
			}
		}
		q.Text = strings.TrimSpace(q.Text)
		if q.Text == "" {
			return nil, services.ErrNoQuestions
		}
		questions = append(questions, q)
	}
	return questions, nil
}
