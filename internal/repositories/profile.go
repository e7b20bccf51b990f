package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/interview-assessor/internal/models"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository interface {
	FindByID(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	FindSkills(ctx context.Context, userID uuid.UUID) ([]string, error)
	UpdateSkills(ctx context.Context, userID uuid.UUID, skills []string) (*models.UserProfile, error)
	SaveTestResult(ctx context.Context, userID uuid.UUID, result models.TestResult) (*models.UserProfile, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) FindByID(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	return &profile, nil
}

func (r *profileRepository) FindSkills(ctx context.Context, userID uuid.UUID) ([]string, error) {
	profile, err := r.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profile.Skills, nil
}

func (r *profileRepository) UpdateSkills(ctx context.Context, userID uuid.UUID, skills []string) (*models.UserProfile, error) {
	return r.upsert(ctx, userID, func(p *models.UserProfile) {
		p.Skills = skills
	})
}

// SaveTestResult replaces any earlier result. Concurrent submissions by the
// same user race and the last write wins.
func (r *profileRepository) SaveTestResult(ctx context.Context, userID uuid.UUID, result models.TestResult) (*models.UserProfile, error) {
	return r.upsert(ctx, userID, func(p *models.UserProfile) {
		p.TestResults = result
	})
}

func (r *profileRepository) upsert(ctx context.Context, userID uuid.UUID, apply func(*models.UserProfile)) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(models.UserProfile{ID: userID}).FirstOrCreate(&profile).Error; err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		apply(&profile)
		if err := tx.Save(&profile).Error; err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
