package courses

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/campushub/portal-backend/internal/notify"
	"github.com/campushub/portal-backend/pkg/db/models"
	pkgerrors "github.com/campushub/portal-backend/pkg/errors"
)

// Service defines course management operations.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*models.Course, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*models.Course, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AssignTeacher(ctx context.Context, courseID, teacherID uuid.UUID) (*models.Course, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Course, error)
	ListByDepartment(ctx context.Context, department string) ([]models.Course, error)
}

type eventDispatcher interface {
	DispatchAsync(ctx context.Context, event notify.Event)
}

type service struct {
	repo       Repository
	dispatcher eventDispatcher
}

// CreateParams describes a new course.
type CreateParams struct {
	Code       string
	Name       string
	Department string
	Credits    int
	TeacherID  *uuid.UUID
}

// UpdateParams carries the mutable course fields.
type UpdateParams struct {
	Name    string
	Credits int
}

// NewService wires course dependencies.
func NewService(repo Repository, dispatcher eventDispatcher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("courses repository is required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("event dispatcher is required")
	}
	return &service{repo: repo, dispatcher: dispatcher}, nil
}

func (s *service) Create(ctx context.Context, params CreateParams) (*models.Course, error) {
	if strings.TrimSpace(params.Code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "course code required")
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "course name required")
	}
	if strings.TrimSpace(params.Department) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "department required")
	}

	course := &models.Course{
		Code:       strings.ToUpper(strings.TrimSpace(params.Code)),
		Name:       strings.TrimSpace(params.Name),
		Department: strings.TrimSpace(params.Department),
		TeacherID:  params.TeacherID,
		Credits:    params.Credits,
	}
	if course.Credits <= 0 {
		course.Credits = 3
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create course")
	}

	s.dispatcher.DispatchAsync(ctx, notify.CourseLifecycle{
		Event:      notify.EventCourseCreated,
		CourseID:   course.ID,
		Department: course.Department,
		CourseName: course.Name,
		Code:       course.Code,
	})
	if course.TeacherID != nil {
		s.dispatcher.DispatchAsync(ctx, notify.CourseAssigned{
			CourseID:   course.ID,
			TeacherID:  *course.TeacherID,
			CourseName: course.Name,
		})
	}
	return course, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*models.Course, error) {
	course, err := s.findCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(params.Name) != "" {
		course.Name = strings.TrimSpace(params.Name)
	}
	if params.Credits > 0 {
		course.Credits = params.Credits
	}
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update course")
	}

	s.dispatcher.DispatchAsync(ctx, notify.CourseLifecycle{
		Event:      notify.EventCourseUpdated,
		CourseID:   course.ID,
		Department: course.Department,
		CourseName: course.Name,
		Code:       course.Code,
	})
	return course, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	course, err := s.findCourse(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete course")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "course not found")
	}

	s.dispatcher.DispatchAsync(ctx, notify.CourseLifecycle{
		Event:      notify.EventCourseDeleted,
		CourseID:   course.ID,
		Department: course.Department,
		CourseName: course.Name,
		Code:       course.Code,
	})
	return nil
}

func (s *service) AssignTeacher(ctx context.Context, courseID, teacherID uuid.UUID) (*models.Course, error) {
	if teacherID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "teacher id required")
	}
	course, err := s.findCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.SetTeacher(ctx, courseID, teacherID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign teacher")
	}
	if !updated {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "course not found")
	}
	course.TeacherID = &teacherID

	s.dispatcher.DispatchAsync(ctx, notify.CourseAssigned{
		CourseID:   course.ID,
		TeacherID:  teacherID,
		CourseName: course.Name,
	})
	return course, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	return s.findCourse(ctx, id)
}

func (s *service) ListByDepartment(ctx context.Context, department string) ([]models.Course, error) {
	if strings.TrimSpace(department) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "department required")
	}
	courses, err := s.repo.ListByDepartment(ctx, department)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list courses")
	}
	return courses, nil
}

func (s *service) findCourse(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "course id required")
	}
	course, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "course not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load course")
	}
	return course, nil
}
