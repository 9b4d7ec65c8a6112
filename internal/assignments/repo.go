package assignments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campushub/portal-backend/pkg/db/models"
)

// ErrNotFound signals a missing assignment or submission row.
var ErrNotFound = errors.New("assignment not found")

// Repository exposes persistence helpers for assignments and submissions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, assignment *models.Assignment) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Assignment, error)
	CreateSubmission(ctx context.Context, submission *models.AssignmentSubmission) error
	FindSubmission(ctx context.Context, id uuid.UUID) (*models.AssignmentSubmission, error)
	HasSubmission(ctx context.Context, assignmentID, studentID uuid.UUID) (bool, error)
	Grade(ctx context.Context, submissionID uuid.UUID, grade int, feedback *string, at time.Time) (bool, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an assignments repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	var assignment models.Assignment
	err := r.db.WithContext(ctx).First(&assignment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *repositoryImpl) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("due_date ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *repositoryImpl) CreateSubmission(ctx context.Context, submission *models.AssignmentSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *repositoryImpl) FindSubmission(ctx context.Context, id uuid.UUID) (*models.AssignmentSubmission, error) {
	var submission models.AssignmentSubmission
	err := r.db.WithContext(ctx).First(&submission, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *repositoryImpl) HasSubmission(ctx context.Context, assignmentID, studentID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AssignmentSubmission{}).
		Where("assignment_id = ? AND student_id = ?", assignmentID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *repositoryImpl) Grade(ctx context.Context, submissionID uuid.UUID, grade int, feedback *string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.AssignmentSubmission{}).
		Where("id = ?", submissionID).
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
