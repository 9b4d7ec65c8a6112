package assessments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campushub/portal-backend/pkg/db/models"
)

// ErrNotFound signals a missing assessment or attempt row.
var ErrNotFound = errors.New("assessment not found")

// Repository exposes persistence helpers for assessments and attempts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, assessment *models.Assessment) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Assessment, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Assessment, error)
	CreateAttempt(ctx context.Context, attempt *models.AssessmentAttempt) error
	FindAttempt(ctx context.Context, id uuid.UUID) (*models.AssessmentAttempt, error)
	HasAttempt(ctx context.Context, assessmentID, studentID uuid.UUID) (bool, error)
	Grade(ctx context.Context, attemptID uuid.UUID, grade int, feedback *string, at time.Time) (bool, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an assessments repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, assessment *models.Assessment) error {
	return r.db.WithContext(ctx).Create(assessment).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Assessment, error) {
	var assessment models.Assessment
	err := r.db.WithContext(ctx).First(&assessment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (r *repositoryImpl) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Assessment, error) {
	var assessments []models.Assessment
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("scheduled_at ASC").
		Find(&assessments).Error
	return assessments, err
}

func (r *repositoryImpl) CreateAttempt(ctx context.Context, attempt *models.AssessmentAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *repositoryImpl) FindAttempt(ctx context.Context, id uuid.UUID) (*models.AssessmentAttempt, error) {
	var attempt models.AssessmentAttempt
	err := r.db.WithContext(ctx).First(&attempt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *repositoryImpl) HasAttempt(ctx context.Context, assessmentID, studentID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AssessmentAttempt{}).
		Where("assessment_id = ? AND student_id = ?", assessmentID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *repositoryImpl) Grade(ctx context.Context, attemptID uuid.UUID, grade int, feedback *string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.AssessmentAttempt{}).
		Where("id = ?", attemptID).
		Updates(map[string]any{
			"grade":     grade,
			"feedback":  feedback,
			"graded_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
