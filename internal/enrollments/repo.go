package enrollments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campushub/portal-backend/pkg/db/models"
)

// Repository exposes persistence helpers for course enrollments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Exists(ctx context.Context, courseID, studentID uuid.UUID) (bool, error)
	Delete(ctx context.Context, courseID, studentID uuid.UUID) (bool, error)
	ListStudentIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Enrollment, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an enrollments repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *repositoryImpl) Exists(ctx context.Context, courseID, studentID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *repositoryImpl) Delete(ctx context.Context, courseID, studentID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Delete(&models.Enrollment{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) ListStudentIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("course_id = ?", courseID).
		Pluck("student_id", &ids).Error
	return ids, err
}

func (r *repositoryImpl) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&enrollments).Error
	return enrollments, err
}
