package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campushub/portal-backend/pkg/db/models"
	"github.com/campushub/portal-backend/pkg/enums"
)

// ErrNotFound signals a missing attendance row.
var ErrNotFound = errors.New("attendance record not found")

// Repository exposes persistence helpers for attendance records and internal
// marks.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateRecord(ctx context.Context, record *models.AttendanceRecord) error
	FindRecord(ctx context.Context, courseID, studentID uuid.UUID, date time.Time) (*models.AttendanceRecord, error)
	UpdateStatus(ctx context.Context, recordID uuid.UUID, status enums.AttendanceStatus) (bool, error)
	ListByStudent(ctx context.Context, courseID, studentID uuid.UUID) ([]models.AttendanceRecord, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an attendance repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) CreateRecord(ctx context.Context, record *models.AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repositoryImpl) FindRecord(ctx context.Context, courseID, studentID uuid.UUID, date time.Time) (*models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND student_id = ? AND date = ?", courseID, studentID, date).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repositoryImpl) UpdateStatus(ctx context.Context, recordID uuid.UUID, status enums.AttendanceStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.AttendanceRecord{}).
		Where("id = ?", recordID).
		Update("status", status)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) ListByStudent(ctx context.Context, courseID, studentID uuid.UUID) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Order("date DESC").
		Find(&records).Error
	return records, err
}
