package assignments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campushub/portal-backend/internal/courses"
	"github.com/campushub/portal-backend/internal/notify"
	"github.com/campushub/portal-backend/internal/users"
	"github.com/campushub/portal-backend/pkg/db/models"
	pkgerrors "github.com/campushub/portal-backend/pkg/errors"
)

// Service defines assignment lifecycle operations.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*models.Assignment, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Assignment, error)
	Submit(ctx context.Context, params SubmitParams) (*models.AssignmentSubmission, error)
	Grade(ctx context.Context, params GradeParams) (*models.AssignmentSubmission, error)
}

type courseReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type userReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type enrollmentReader interface {
	ListStudentIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error)
}

type eventDispatcher interface {
	DispatchAsync(ctx context.Context, event notify.Event)
}

type service struct {
	repo        Repository
	courses     courseReader
	users       userReader
	enrollments enrollmentReader
	dispatcher  eventDispatcher
}

// ServiceParams bundles assignment dependencies.
type ServiceParams struct {
	Repo        Repository
	Courses     courseReader
	Users       userReader
	Enrollments enrollmentReader
	Dispatcher  eventDispatcher
}

// CreateParams describes a new assignment.
type CreateParams struct {
	CourseID    uuid.UUID
	Title       string
	Description string
	DueDate     time.Time
	MaxMarks    int
}

// SubmitParams is one student's answer.
type SubmitParams struct {
	AssignmentID uuid.UUID
	StudentID    uuid.UUID
	Content      string
}

// GradeParams scores a submission.
type GradeParams struct {
	SubmissionID uuid.UUID
	Grade        int
	Feedback     *string
}

// NewService wires assignment dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("assignments repository is required")
	}
	if params.Courses == nil {
		return nil, fmt.Errorf("courses reader is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users reader is required")
	}
	if params.Enrollments == nil {
		return nil, fmt.Errorf("enrollments reader is required")
	}
	if params.Dispatcher == nil {
		return nil, fmt.Errorf("event dispatcher is required")
	}
	return &service{
		repo:        params.Repo,
		courses:     params.Courses,
		users:       params.Users,
		enrollments: params.Enrollments,
		dispatcher:  params.Dispatcher,
	}, nil
}

// Create publishes the assignment and fans it out to every enrolled student.
func (s *service) Create(ctx context.Context, params CreateParams) (*models.Assignment, error) {
	if params.CourseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "course id required")
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title required")
	}
	if params.DueDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "due date required")
	}
	if params.MaxMarks <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "max marks must be positive")
	}

	if _, err := s.loadCourse(ctx, params.CourseID); err != nil {
		return nil, err
	}

	assignment := &models.Assignment{
		CourseID:    params.CourseID,
		Title:       strings.TrimSpace(params.Title),
		Description: params.Description,
		DueDate:     params.DueDate,
		MaxMarks:    params.MaxMarks,
	}
	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create assignment")
	}

	studentIDs, err := s.enrollments.ListStudentIDs(ctx, params.CourseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list enrolled students")
	}
	s.dispatcher.DispatchAsync(ctx, notify.AssignmentCreated{
		AssignmentID: assignment.ID,
		CourseID:     assignment.CourseID,
		Title:        assignment.Title,
		DueDate:      assignment.DueDate.Format("2006-01-02"),
		StudentIDs:   studentIDs,
	})
	return assignment, nil
}

func (s *service) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Assignment, error) {
	if courseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "course id required")
	}
	assignments, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list assignments")
	}
	return assignments, nil
}

// Submit records the answer and tells the course teacher.
func (s *service) Submit(ctx context.Context, params SubmitParams) (*models.AssignmentSubmission, error) {
	if params.AssignmentID == uuid.Nil || params.StudentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "assignment id and student id required")
	}
	if strings.TrimSpace(params.Content) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content required")
	}

	assignment, err := s.repo.FindByID(ctx, params.AssignmentID)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assignment")
	}

	already, err := s.repo.HasSubmission(ctx, params.AssignmentID, params.StudentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check submission")
	}
	if already {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "already submitted")
	}

	submission := &models.AssignmentSubmission{
		AssignmentID: params.AssignmentID,
		StudentID:    params.StudentID,
		Content:      params.Content,
	}
	if err := s.repo.CreateSubmission(ctx, submission); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create submission")
	}

	course, err := s.loadCourse(ctx, assignment.CourseID)
	if err != nil {
		return nil, err
	}
	if course.TeacherID != nil {
		student, err := s.users.FindByID(ctx, params.StudentID)
		if err != nil && !errors.Is(err, users.ErrNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load student")
		}
		if student != nil {
			s.dispatcher.DispatchAsync(ctx, notify.SubmissionCreated{
				SubmissionID:    submission.ID,
				TeacherID:       *course.TeacherID,
				StudentEmail:    student.Email,
				AssignmentTitle: assignment.Title,
			})
		}
	}
	return submission, nil
}

// Grade scores the submission and tells its owner.
func (s *service) Grade(ctx context.Context, params GradeParams) (*models.AssignmentSubmission, error) {
	if params.SubmissionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "submission id required")
	}
	if params.Grade < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "grade must not be negative")
	}

	submission, err := s.repo.FindSubmission(ctx, params.SubmissionID)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "submission not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load submission")
	}

	assignment, err := s.repo.FindByID(ctx, submission.AssignmentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assignment")
	}
	if params.Grade > assignment.MaxMarks {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "grade exceeds max marks")
	}

	now := time.Now().UTC()
	updated, err := s.repo.Grade(ctx, params.SubmissionID, params.Grade, params.Feedback, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "grade submission")
	}
	if !updated {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "submission not found")
	}
	submission.Grade = &params.Grade
	submission.Feedback = params.Feedback
	submission.GradedAt = &now

	s.dispatcher.DispatchAsync(ctx, notify.AssignmentGraded{
		SubmissionID: submission.ID,
		AssignmentID: assignment.ID,
		StudentID:    submission.StudentID,
		Grade:        params.Grade,
		MaxMarks:     assignment.MaxMarks,
		Feedback:     params.Feedback,
	})
	return submission, nil
}

func (s *service) loadCourse(ctx context.Context, courseID uuid.UUID) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if errors.Is(err, courses.ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "course not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load course")
	}
	return course, nil
}
