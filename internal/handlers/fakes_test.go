package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/interview-assessor/internal/models"
	"alfredoptarigan/interview-assessor/internal/repositories"
	"alfredoptarigan/interview-assessor/internal/services"
)

type fakePipeline struct {
	got        models.InterviewSubmission
	assessment *models.InterviewAssessment
	user       *models.UserProfile
	err        error
}

func (f *fakePipeline) Assess(_ context.Context, sub models.InterviewSubmission) (*models.InterviewAssessment, *models.UserProfile, error) {
	f.got = sub
	return f.assessment, f.user, f.err
}

type fakeGenerator struct {
	got []string
	set *services.QuestionSet
	err error
}

func (f *fakeGenerator) Generate(_ context.Context, skills []string) (*services.QuestionSet, error) {
	f.got = skills
	return f.set, f.err
}

type fakeScorer struct {
	score models.CorrectnessScore
	err   error
}

func (f *fakeScorer) Score(context.Context, []string, []string) ([]models.CorrectnessScore, error) {
	return nil, nil
}

func (f *fakeScorer) ScoreOne(_ context.Context, question, _ string) (models.CorrectnessScore, error) {
	s := f.score
	s.Question = question
	return s, f.err
}

type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*models.UserProfile
	err      error
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{profiles: make(map[uuid.UUID]*models.UserProfile)}
}

func (f *fakeProfiles) FindByID(_ context.Context, id uuid.UUID) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeProfiles) FindSkills(ctx context.Context, id uuid.UUID) ([]string, error) {
	p, err := f.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.Skills, nil
}

func (f *fakeProfiles) UpdateSkills(_ context.Context, id uuid.UUID, skills []string) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[id]
	if !ok {
		p = &models.UserProfile{ID: id}
		f.profiles[id] = p
	}
	p.Skills = skills
	return p, nil
}

func (f *fakeProfiles) SaveTestResult(_ context.Context, id uuid.UUID, result models.TestResult) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[id]
	if !ok {
		p = &models.UserProfile{ID: id}
		f.profiles[id] = p
	}
	p.TestResults = result
	return p, nil
}

type formFile struct {
	field, name string
	content     []byte
}

// multipartRequest builds a POST with the given text fields and files.
func multipartRequest(t *testing.T, target string, fields map[string]string, files ...formFile) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = io.Copy(part, bytes.NewReader(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}
