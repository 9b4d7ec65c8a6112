package marks

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campushub/portal-backend/pkg/db/models"
)

// ErrNotFound signals a missing internal mark row.
var ErrNotFound = errors.New("internal mark not found")

// Repository exposes persistence helpers for internal marks.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, mark *models.InternalMark) error
	Find(ctx context.Context, courseID, studentID uuid.UUID, component string) (*models.InternalMark, error)
	Update(ctx context.Context, markID uuid.UUID, marksValue, maxMarks int) (bool, error)
	ListByStudent(ctx context.Context, courseID, studentID uuid.UUID) ([]models.InternalMark, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a marks repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, mark *models.InternalMark) error {
	return r.db.WithContext(ctx).Create(mark).Error
}

func (r *repositoryImpl) Find(ctx context.Context, courseID, studentID uuid.UUID, component string) (*models.InternalMark, error) {
	var mark models.InternalMark
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND student_id = ? AND component = ?", courseID, studentID, component).
		First(&mark).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &mark, nil
}

func (r *repositoryImpl) Update(ctx context.Context, markID uuid.UUID, marksValue, maxMarks int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.InternalMark{}).
		Where("id = ?", markID).
		Updates(map[string]any{
			"marks":     marksValue,
			"max_marks": maxMarks,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) ListByStudent(ctx context.Context, courseID, studentID uuid.UUID) ([]models.InternalMark, error) {
	var rows []models.InternalMark
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Order("component ASC").
		Find(&rows).Error
	return rows, err
}
