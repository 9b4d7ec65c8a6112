package assessments

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
	"github.com/campushub/portal-backend/pkg/enums"
	pkgerrors "github.com/campushub/portal-backend/pkg/errors"
)

// Service defines assessment lifecycle operations.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*models.Assessment, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Assessment, error)
	SubmitAttempt(ctx context.Context, assessmentID, studentID uuid.UUID) (*models.AssessmentAttempt, error)
	Grade(ctx context.Context, params GradeParams) (*models.AssessmentAttempt, error)
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

// ServiceParams bundles assessment dependencies.
type ServiceParams struct {
	Repo        Repository
	Courses     courseReader
	Users       userReader
	Enrollments enrollmentReader
	Dispatcher  eventDispatcher
}

// CreateParams describes a new scheduled assessment.
type CreateParams struct {
	CourseID        uuid.UUID
	Title           string
	Type            enums.AssessmentType
	ScheduledAt     time.Time
	DurationMinutes int
	MaxMarks        int
}

// GradeParams scores an attempt.
type GradeParams struct {
	AttemptID uuid.UUID
	Grade     int
	Feedback  *string
}

// NewService wires assessment dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("assessments repository is required")
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

// Create schedules the assessment and fans it out to every enrolled student.
func (s *service) Create(ctx context.Context, params CreateParams) (*models.Assessment, error) {
	if params.CourseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "course id required")
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title required")
	}
	if !params.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "type must be quiz, exam or lab")
	}
	if params.ScheduledAt.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "schedule required")
	}
	if params.MaxMarks <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "max marks must be positive")
	}

	if _, err := s.loadCourse(ctx, params.CourseID); err != nil {
		return nil, err
	}

	assessment := &models.Assessment{
		CourseID:        params.CourseID,
		Title:           strings.TrimSpace(params.Title),
		Type:            params.Type,
		ScheduledAt:     params.ScheduledAt,
		DurationMinutes: params.DurationMinutes,
		MaxMarks:        params.MaxMarks,
	}
	if err := s.repo.Create(ctx, assessment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create assessment")
	}

	studentIDs, err := s.enrollments.ListStudentIDs(ctx, params.CourseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list enrolled students")
	}
	s.dispatcher.DispatchAsync(ctx, notify.AssessmentCreated{
		AssessmentID: assessment.ID,
		CourseID:     assessment.CourseID,
		Title:        assessment.Title,
		Kind:         assessment.Type,
		StudentIDs:   studentIDs,
	})
	return assessment, nil
}

func (s *service) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Assessment, error) {
	if courseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "course id required")
	}
	assessments, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list assessments")
	}
	return assessments, nil
}

// SubmitAttempt records the completed attempt and tells the course teacher.
func (s *service) SubmitAttempt(ctx context.Context, assessmentID, studentID uuid.UUID) (*models.AssessmentAttempt, error) {
	if assessmentID == uuid.Nil || studentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "assessment id and student id required")
	}

	assessment, err := s.repo.FindByID(ctx, assessmentID)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "assessment not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assessment")
	}

	already, err := s.repo.HasAttempt(ctx, assessmentID, studentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check attempt")
	}
	if already {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "already attempted")
	}

	attempt := &models.AssessmentAttempt{
		AssessmentID: assessmentID,
		StudentID:    studentID,
	}
	if err := s.repo.CreateAttempt(ctx, attempt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create attempt")
	}

	course, err := s.loadCourse(ctx, assessment.CourseID)
	if err != nil {
		return nil, err
	}
	if course.TeacherID != nil {
		student, err := s.users.FindByID(ctx, studentID)
		if err != nil && !errors.Is(err, users.ErrNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load student")
		}
		if student != nil {
			s.dispatcher.DispatchAsync(ctx, notify.AttemptCompleted{
				AttemptID:       attempt.ID,
				TeacherID:       *course.TeacherID,
				StudentEmail:    student.Email,
				AssessmentTitle: assessment.Title,
			})
		}
	}
	return attempt, nil
}

// Grade scores the attempt and tells its owner.
func (s *service) Grade(ctx context.Context, params GradeParams) (*models.AssessmentAttempt, error) {
	if params.AttemptID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "attempt id required")
	}
	if params.Grade < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "grade must not be negative")
	}

	attempt, err := s.repo.FindAttempt(ctx, params.AttemptID)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "attempt not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load attempt")
	}

	assessment, err := s.repo.FindByID(ctx, attempt.AssessmentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assessment")
	}
	if params.Grade > assessment.MaxMarks {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "grade exceeds max marks")
	}

	now := time.Now().UTC()
	updated, err := s.repo.Grade(ctx, params.AttemptID, params.Grade, params.Feedback, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "grade attempt")
	}
	if !updated {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "attempt not found")
	}
	attempt.Grade = &params.Grade
	attempt.Feedback = params.Feedback
	attempt.GradedAt = &now

	s.dispatcher.DispatchAsync(ctx, notify.AssessmentGraded{
		AttemptID:    attempt.ID,
		AssessmentID: assessment.ID,
		StudentID:    attempt.StudentID,
		Grade:        params.Grade,
		MaxMarks:     assessment.MaxMarks,
		Feedback:     params.Feedback,
	})
	return attempt, nil
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
