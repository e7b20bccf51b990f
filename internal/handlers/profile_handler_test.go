package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/interview-assessor/internal/logger"
	"alfredoptarigan/interview-assessor/internal/middleware"
	"alfredoptarigan/interview-assessor/internal/models"
	"alfredoptarigan/interview-assessor/internal/services"
)

func newProfileApp(t *testing.T, profiles *fakeProfiles) (*fiber.App, string) {
	t.Helper()
	root := t.TempDir()
	storage := services.NewStorageService(root)
	require.NoError(t, storage.EnsureUploadDir())

	h := NewProfileHandler(storage, services.NewResumeParserService(), services.NewSkillExtractor(), profiles, logger.NewNop())
	app := fiber.New()
	app.Use(middleware.NewAuthenticator(testSecret).Optional())
	app.Post("/profile/skills/extract", h.HandleExtractSkills)
	app.Get("/profile/test-results", middleware.RequireUser, h.HandleGetTestResults)
	return app, root
}

var resumeText = []byte("Senior engineer\n\nSkills: Go, PostgreSQL, Docker and Kubernetes.\n")

func TestProfileHandler_ExtractSkillsAnonymous(t *testing.T) {
	profiles := newFakeProfiles()
	app, root := newProfileApp(t, profiles)

	req := multipartRequest(t, "/profile/skills/extract", nil, formFile{field: "file", name: "cv.txt", content: resumeText})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[models.SkillExtractionResponse](t, resp)
	assert.Equal(t, []string{"Go", "PostgreSQL", "Docker", "Kubernetes"}, body.Skills)
	assert.Equal(t, 4, body.Count)
	assert.Empty(t, profiles.profiles)

	leftovers, err := os.ReadDir(filepath.Join(root, string(services.KindResume)))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestProfileHandler_ExtractSkillsStoresForUser(t *testing.T) {
	userID := uuid.New()
	profiles := newFakeProfiles()
	app, _ := newProfileApp(t, profiles)

	req := multipartRequest(t, "/profile/skills/extract", nil, formFile{field: "file", name: "cv.txt", content: resumeText})
	req.Header.Set("Authorization", bearer(t, userID))
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Contains(t, profiles.profiles, userID)
	assert.Equal(t, []string{"Go", "PostgreSQL", "Docker", "Kubernetes"}, profiles.profiles[userID].Skills)
}

func TestProfileHandler_ExtractSkillsRejects(t *testing.T) {
	app, _ := newProfileApp(t, newFakeProfiles())

	tests := []struct {
		name       string
		files      []formFile
		wantStatus int
	}{
		{name: "no file", wantStatus: http.StatusBadRequest},
		{name: "unsupported format", files: []formFile{{field: "file", name: "cv.docx", content: []byte("x")}}, wantStatus: http.StatusBadRequest},
		{name: "empty text", files: []formFile{{field: "file", name: "cv.txt", content: []byte(" \n\n ")}}, wantStatus: http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(multipartRequest(t, "/profile/skills/extract", map[string]string{"note": "x"}, tt.files...))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestProfileHandler_TestResults(t *testing.T) {
	userID := uuid.New()
	emptyUser := uuid.New()
	profiles := newFakeProfiles()
	app, _ := newProfileApp(t, profiles)

	result := models.NewTestResult(models.AggregateResult{
		FacialScore:      80,
		CorrectnessScore: 0,
		FinalScore:       40,
		TestDate:         time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}, []models.Question{{Text: "Q1"}}, "/uploads/interviews/interview-x.webm")
	profiles.profiles[userID] = &models.UserProfile{ID: userID, TestResults: result}
	profiles.profiles[emptyUser] = &models.UserProfile{ID: emptyUser, Skills: []string{"Go"}}

	t.Run("anonymous", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/profile/test-results", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("stored result", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/profile/test-results", nil)
		req.Header.Set("Authorization", bearer(t, userID))
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decode[models.TestResultsResponse](t, resp)
		require.NotNil(t, body.Data.FinalScore)
		assert.Equal(t, 40.0, *body.Data.FinalScore)
		assert.Equal(t, "/uploads/interviews/interview-x.webm", body.Data.VideoPath)
		assert.Equal(t, []string{"Q1"}, body.Data.Questions)
	})

	t.Run("no result yet", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/profile/test-results", nil)
		req.Header.Set("Authorization", bearer(t, emptyUser))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("unknown profile", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/profile/test-results", nil)
		req.Header.Set("Authorization", bearer(t, uuid.New()))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("repository failure", func(t *testing.T) {
		profiles.err = errors.New("connection reset")
		defer func() { profiles.err = nil }()

		req := httptest.NewRequest(http.MethodGet, "/profile/test-results", nil)
		req.Header.Set("Authorization", bearer(t, userID))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}
