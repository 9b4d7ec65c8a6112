package marks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/campushub/portal-backend/internal/courses"
	"github.com/campushub/portal-backend/internal/notify"
	"github.com/campushub/portal-backend/pkg/db/models"
	pkgerrors "github.com/campushub/portal-backend/pkg/errors"
)

// Service defines internal marks operations.
type Service interface {
	Upsert(ctx context.Context, params UpsertParams) (*models.InternalMark, error)
	ListByStudent(ctx context.Context, courseID, studentID uuid.UUID) ([]models.InternalMark, error)
}

type courseReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type eventDispatcher interface {
	DispatchAsync(ctx context.Context, event notify.Event)
}

type service struct {
	repo       Repository
	courses    courseReader
	dispatcher eventDispatcher
}

// UpsertParams posts a component score.
type UpsertParams struct {
	CourseID  uuid.UUID
	StudentID uuid.UUID
	Component string
	Marks     int
	MaxMarks  int
}

// ServiceParams bundles marks dependencies.
type ServiceParams struct {
	Repo       Repository
	Courses    courseReader
	Dispatcher eventDispatcher
}

// NewService wires marks dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("marks repository is required")
	}
	if params.Courses == nil {
		return nil, fmt.Errorf("courses reader is required")
	}
	if params.Dispatcher == nil {
		return nil, fmt.Errorf("event dispatcher is required")
	}
	return &service{
		repo:       params.Repo,
		courses:    params.Courses,
		dispatcher: params.Dispatcher,
	}, nil
}

// Upsert creates or corrects a component score and notifies the student
// either way.
func (s *service) Upsert(ctx context.Context, params UpsertParams) (*models.InternalMark, error) {
	if params.CourseID == uuid.Nil || params.StudentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "course id and student id required")
	}
	component := strings.TrimSpace(params.Component)
	if component == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "component required")
	}
	if params.MaxMarks <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "max marks must be positive")
	}
	if params.Marks < 0 || params.Marks > params.MaxMarks {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "marks out of range")
	}

	course, err := s.courses.FindByID(ctx, params.CourseID)
	if errors.Is(err, courses.ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "course not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load course")
	}

	mark, err := s.repo.Find(ctx, params.CourseID, params.StudentID, component)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load internal mark")
	}

	if mark != nil {
		updated, err := s.repo.Update(ctx, mark.ID, params.Marks, params.MaxMarks)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update internal mark")
		}
		if !updated {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "internal mark not found")
		}
		mark.Marks = params.Marks
		mark.MaxMarks = params.MaxMarks
	} else {
		mark = &models.InternalMark{
			CourseID:  params.CourseID,
			StudentID: params.StudentID,
			Component: component,
			Marks:     params.Marks,
			MaxMarks:  params.MaxMarks,
		}
		if err := s.repo.Create(ctx, mark); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create internal mark")
		}
	}

	s.dispatcher.DispatchAsync(ctx, notify.MarksUpdated{
		MarkID:     mark.ID,
		StudentID:  mark.StudentID,
		Component:  mark.Component,
		CourseName: course.Name,
		Marks:      mark.Marks,
		MaxMarks:   mark.MaxMarks,
	})
	return mark, nil
}

func (s *service) ListByStudent(ctx context.Context, courseID, studentID uuid.UUID) ([]models.InternalMark, error) {
	if courseID == uuid.Nil || studentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "course id and student id required")
	}
	rows, err := s.repo.ListByStudent(ctx, courseID, studentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list internal marks")
	}
	return rows, nil
}
