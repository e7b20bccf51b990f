package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-assessor/internal/logger"
	"alfredoptarigan/interview-assessor/internal/middleware"
	"alfredoptarigan/interview-assessor/internal/models"
	"alfredoptarigan/interview-assessor/internal/repositories"
	"alfredoptarigan/interview-assessor/internal/services"
)

type ProfileHandler struct {
	storage   services.StorageService
	parser    services.ResumeParserService
	extractor services.SkillExtractor
	profiles  repositories.ProfileRepository
	log       *logger.Logger
}

func NewProfileHandler(
	storage services.StorageService,
	parser services.ResumeParserService,
	extractor services.SkillExtractor,
	profiles repositories.ProfileRepository,
	log *logger.Logger,
) *ProfileHandler {
	return &ProfileHandler{
		storage:   storage,
		parser:    parser,
		extractor: extractor,
		profiles:  profiles,
		log:       log.With("handler", "profile"),
	}
}

// HandleExtractSkills handles POST /profile/skills/extract
func (h *ProfileHandler) HandleExtractSkills(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "No file uploaded")
	}

	stored, err := h.storage.SaveFile(file, services.KindResume)
	if err != nil {
		if errors.Is(err, services.ErrInvalidFileType) {
			return errorResponse(c, fiber.StatusBadRequest, "Unsupported file format")
		}
		return errorResponse(c, fiber.StatusInternalServerError, services.RootMessage(err))
	}
	defer func() {
		if err := h.storage.DeleteFile(services.KindResume, stored.Filename); err != nil {
			h.log.Warn("⚠️ Failed to remove resume upload", "file", stored.Filename, "error", err)
		}
	}()

	text, err := h.parser.ExtractText(stored.Path)
	if err != nil {
		if errors.Is(err, services.ErrNoText) {
			return errorResponse(c, fiber.StatusUnprocessableEntity, "No text content found in file")
		}
		h.log.Error("❌ Failed to extract resume text", "error", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to process file during extraction.")
	}

	skills := h.extractor.Extract(text)

	if userID, ok := middleware.UserID(c); ok {
		if _, err := h.profiles.UpdateSkills(c.UserContext(), userID, skills); err != nil {
			h.log.Error("❌ Failed to store extracted skills", "user_id", userID.String(), "error", err)
		}
	}

	return c.Status(fiber.StatusOK).JSON(models.SkillExtractionResponse{
		Success: true,
		Skills:  skills,
		Count:   len(skills),
	})
}

// HandleGetTestResults handles GET /profile/test-results
func (h *ProfileHandler) HandleGetTestResults(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required")
	}

	profile, err := h.profiles.FindByID(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return errorResponse(c, fiber.StatusNotFound, "No test results found")
		}
		return errorResponse(c, fiber.StatusInternalServerError, services.RootMessage(err))
	}
	if profile.TestResults.FinalScore == nil {
		return errorResponse(c, fiber.StatusNotFound, "No test results found")
	}

	return c.Status(fiber.StatusOK).JSON(models.TestResultsResponse{
		Success: true,
		Data:    profile.TestResults,
	})
}
