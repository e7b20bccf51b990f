package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/interview-assessor/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.UserProfile{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestProfileRepository_FindSkills_NotFound(t *testing.T) {
	repo := NewProfileRepository(newTestDB(t))

	_, err := repo.FindSkills(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProfileRepository_UpdateSkills_CreatesProfile(t *testing.T) {
	repo := NewProfileRepository(newTestDB(t))
	ctx := context.Background()
	userID := uuid.New()

	profile, err := repo.UpdateSkills(ctx, userID, []string{"Go", "Docker"})
	require.NoError(t, err)
	assert.Equal(t, userID, profile.ID)

	skills, err := repo.FindSkills(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Docker"}, skills)
}

func TestProfileRepository_SaveTestResult_Overwrites(t *testing.T) {
	repo := NewProfileRepository(newTestDB(t))
	ctx := context.Background()
	userID := uuid.New()

	_, err := repo.UpdateSkills(ctx, userID, []string{"Python"})
	require.NoError(t, err)

	first := models.NewTestResult(models.AggregateResult{
		FacialScore: 60, CorrectnessScore: 40, FinalScore: 50, TestDate: time.Now(),
	}, []models.Question{{Text: "q1"}}, "/uploads/interviews/a.webm")
	_, err = repo.SaveTestResult(ctx, userID, first)
	require.NoError(t, err)

	second := models.NewTestResult(models.AggregateResult{
		FacialScore: 80, CorrectnessScore: 0, FinalScore: 40, TestDate: time.Now(),
	}, []models.Question{{Text: "q2"}, {Text: "q3"}}, "/uploads/interviews/b.webm")
	saved, err := repo.SaveTestResult(ctx, userID, second)
	require.NoError(t, err)

	reloaded, err := repo.FindByID(ctx, userID)
	require.NoError(t, err)

	require.NotNil(t, reloaded.TestResults.FinalScore)
	assert.Equal(t, 40.0, *reloaded.TestResults.FinalScore)
	assert.Equal(t, 80.0, *reloaded.TestResults.FacialConfidenceScore)
	assert.Equal(t, []string{"q2", "q3"}, reloaded.TestResults.Questions)
	assert.Equal(t, "/uploads/interviews/b.webm", reloaded.TestResults.VideoPath)
	assert.Equal(t, []string{"Python"}, reloaded.Skills)
	assert.Equal(t, saved.ID, reloaded.ID)
}
