package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/campushub/portal-backend/internal/notify"
	"github.com/campushub/portal-backend/pkg/db/models"
	"github.com/campushub/portal-backend/pkg/enums"
	pkgerrors "github.com/campushub/portal-backend/pkg/errors"
)

const dateLayout = "2006-01-02"

// Service defines attendance operations.
type Service interface {
	Mark(ctx context.Context, params MarkParams) (*models.AttendanceRecord, error)
	ListByStudent(ctx context.Context, courseID, studentID uuid.UUID) ([]models.AttendanceRecord, error)
}

type eventDispatcher interface {
	DispatchAsync(ctx context.Context, event notify.Event)
}

type service struct {
	repo       Repository
	dispatcher eventDispatcher
}

// MarkParams records one student's presence for a date.
type MarkParams struct {
	CourseID  uuid.UUID
	StudentID uuid.UUID
	Date      time.Time
	Status    enums.AttendanceStatus
}

// NewService wires attendance dependencies.
func NewService(repo Repository, dispatcher eventDispatcher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("attendance repository is required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("event dispatcher is required")
	}
	return &service{repo: repo, dispatcher: dispatcher}, nil
}

// Mark upserts the day's record. A fresh mark and a correction raise
// different events so the student sees what actually happened.
func (s *service) Mark(ctx context.Context, params MarkParams) (*models.AttendanceRecord, error) {
	if params.CourseID == uuid.Nil || params.StudentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "course id and student id required")
	}
	if params.Date.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date required")
	}
	if !params.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status must be present, absent or late")
	}

	day := params.Date.Truncate(24 * time.Hour)

	existing, err := s.repo.FindRecord(ctx, params.CourseID, params.StudentID, day)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load attendance record")
	}

	if existing != nil {
		if existing.Status == params.Status {
			return existing, nil
		}
		updated, err := s.repo.UpdateStatus(ctx, existing.ID, params.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update attendance record")
		}
		if !updated {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "attendance record not found")
		}
		existing.Status = params.Status

		s.dispatcher.DispatchAsync(ctx, notify.AttendanceUpdated{
			RecordID:  existing.ID,
			StudentID: existing.StudentID,
			Status:    existing.Status,
		})
		return existing, nil
	}

	record := &models.AttendanceRecord{
		CourseID:  params.CourseID,
		StudentID: params.StudentID,
		Date:      day,
		Status:    params.Status,
	}
	if err := s.repo.CreateRecord(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create attendance record")
	}

	s.dispatcher.DispatchAsync(ctx, notify.AttendanceMarked{
		RecordID:  record.ID,
		StudentID: record.StudentID,
		Date:      day.Format(dateLayout),
		Status:    record.Status,
	})
	return record, nil
}

func (s *service) ListByStudent(ctx context.Context, courseID, studentID uuid.UUID) ([]models.AttendanceRecord, error) {
	if courseID == uuid.Nil || studentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "course id and student id required")
	}
	records, err := s.repo.ListByStudent(ctx, courseID, studentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list attendance")
	}
	return records, nil
}
