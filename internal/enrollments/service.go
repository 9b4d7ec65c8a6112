package enrollments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/campushub/portal-backend/internal/courses"
	"github.com/campushub/portal-backend/internal/notify"
	"github.com/campushub/portal-backend/internal/users"
	"github.com/campushub/portal-backend/pkg/db/models"
	pkgerrors "github.com/campushub/portal-backend/pkg/errors"
)

// Service defines enrollment operations.
type Service interface {
	Enroll(ctx context.Context, courseID, studentID uuid.UUID) (*models.Enrollment, error)
	Unenroll(ctx context.Context, courseID, studentID uuid.UUID) error
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Enrollment, error)
	ListStudentIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error)
}

type courseReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type userReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type eventDispatcher interface {
	DispatchAsync(ctx context.Context, event notify.Event)
}

type service struct {
	repo       Repository
	courses    courseReader
	users      userReader
	dispatcher eventDispatcher
}

// ServiceParams bundles enrollment dependencies.
type ServiceParams struct {
	Repo       Repository
	Courses    courseReader
	Users      userReader
	Dispatcher eventDispatcher
}

// NewService wires enrollment dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("enrollments repository is required")
	}
	if params.Courses == nil {
		return nil, fmt.Errorf("courses reader is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users reader is required")
	}
	if params.Dispatcher == nil {
		return nil, fmt.Errorf("event dispatcher is required")
	}
	return &service{
		repo:       params.Repo,
		courses:    params.Courses,
		users:      params.Users,
		dispatcher: params.Dispatcher,
	}, nil
}

// Enroll links the student to the course and tells the assigned teacher. An
// unassigned course enrolls silently.
func (s *service) Enroll(ctx context.Context, courseID, studentID uuid.UUID) (*models.Enrollment, error) {
	if courseID == uuid.Nil || studentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "course id and student id required")
	}

	course, err := s.courses.FindByID(ctx, courseID)
	if errors.Is(err, courses.ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "course not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load course")
	}

	student, err := s.users.FindByID(ctx, studentID)
	if errors.Is(err, users.ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "student not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load student")
	}

	enrolled, err := s.repo.Exists(ctx, courseID, studentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check enrollment")
	}
	if enrolled {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "already enrolled")
	}

	enrollment := &models.Enrollment{
		CourseID:  courseID,
		StudentID: studentID,
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create enrollment")
	}

	if course.TeacherID != nil {
		s.dispatcher.DispatchAsync(ctx, notify.EnrollmentCreated{
			EnrollmentID: enrollment.ID,
			TeacherID:    *course.TeacherID,
			StudentEmail: student.Email,
			CourseName:   course.Name,
		})
	}
	return enrollment, nil
}

func (s *service) Unenroll(ctx context.Context, courseID, studentID uuid.UUID) error {
	if courseID == uuid.Nil || studentID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "course id and student id required")
	}
	deleted, err := s.repo.Delete(ctx, courseID, studentID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete enrollment")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "enrollment not found")
	}
	return nil
}

func (s *service) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Enrollment, error) {
	if studentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "student id required")
	}
	enrollments, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list enrollments")
	}
	return enrollments, nil
}

func (s *service) ListStudentIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	if courseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "course id required")
	}
	ids, err := s.repo.ListStudentIDs(ctx, courseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list enrolled students")
	}
	return ids, nil
}
