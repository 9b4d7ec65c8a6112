package assignments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campushub/portal-backend/internal/courses"
	"github.com/campushub/portal-backend/internal/notify"
	"github.com/campushub/portal-backend/internal/users"
	"github.com/campushub/portal-backend/pkg/db/models"
	pkgerrors "github.com/campushub/portal-backend/pkg/errors"
)

type fakeRepo struct {
	assignments map[uuid.UUID]*models.Assignment
	submissions map[uuid.UUID]*models.AssignmentSubmission
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		assignments: map[uuid.UUID]*models.Assignment{},
		submissions: map[uuid.UUID]*models.AssignmentSubmission{},
	}
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == uuid.Nil {
		assignment.ID = uuid.New()
	}
	f.assignments[assignment.ID] = assignment
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	if a, ok := f.assignments[id]; ok {
		return a, nil
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Assignment, error) {
	var out []models.Assignment
	for _, a := range f.assignments {
		if a.CourseID == courseID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateSubmission(ctx context.Context, submission *models.AssignmentSubmission) error {
	if submission.ID == uuid.Nil {
		submission.ID = uuid.New()
	}
	f.submissions[submission.ID] = submission
	return nil
}

func (f *fakeRepo) FindSubmission(ctx context.Context, id uuid.UUID) (*models.AssignmentSubmission, error) {
	if s, ok := f.submissions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) HasSubmission(ctx context.Context, assignmentID, studentID uuid.UUID) (bool, error) {
	for _, s := range f.submissions {
		if s.AssignmentID == assignmentID && s.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) Grade(ctx context.Context, submissionID uuid.UUID, grade int, feedback *string, at time.Time) (bool, error) {
	s, ok := f.submissions[submissionID]
	if !ok {
		return false, nil
	}
	s.Grade = &grade
	s.Feedback = feedback
	s.GradedAt = &at
	return true, nil
}

type fakeCourses struct {
	byID map[uuid.UUID]*models.Course
}

func (f *fakeCourses) FindByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, courses.ErrNotFound
}

type fakeUsers struct {
	byID map[uuid.UUID]*models.User
}

func (f *fakeUsers) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, users.ErrNotFound
}

type fakeEnrollments struct {
	studentIDs []uuid.UUID
}

func (f *fakeEnrollments) ListStudentIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	return f.studentIDs, nil
}

type capturingDispatcher struct {
	events []notify.Event
}

func (c *capturingDispatcher) DispatchAsync(ctx context.Context, event notify.Event) {
	c.events = append(c.events, event)
}

type fixture struct {
	svc        Service
	repo       *fakeRepo
	dispatcher *capturingDispatcher
	course     *models.Course
	teacherID  uuid.UUID
	studentID  uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	teacherID := uuid.New()
	studentID := uuid.New()
	course := &models.Course{
		ID:         uuid.New(),
		Code:       "CS301",
		Name:       "Databases",
		Department: "CSE",
		TeacherID:  &teacherID,
	}

	repo := newFakeRepo()
	dispatcher := &capturingDispatcher{}
	svc, err := NewService(ServiceParams{
		Repo:    repo,
		Courses: &fakeCourses{byID: map[uuid.UUID]*models.Course{course.ID: course}},
		Users: &fakeUsers{byID: map[uuid.UUID]*models.User{
			studentID: {ID: studentID, Email: "asha@university.edu", Name: "Asha Iyer"},
		}},
		Enrollments: &fakeEnrollments{studentIDs: []uuid.UUID{studentID}},
		Dispatcher:  dispatcher,
	})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return &fixture{
		svc:        svc,
		repo:       repo,
		dispatcher: dispatcher,
		course:     course,
		teacherID:  teacherID,
		studentID:  studentID,
	}
}

func TestCreateFansOutToEnrolledStudents(t *testing.T) {
	fx := newFixture(t)

	assignment, err := fx.svc.Create(context.Background(), CreateParams{
		CourseID: fx.course.ID,
		Title:    "Graph Algorithms",
		DueDate:  time.Now().Add(7 * 24 * time.Hour),
		MaxMarks: 20,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if len(fx.dispatcher.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(fx.dispatcher.events))
	}
	event, ok := fx.dispatcher.events[0].(notify.AssignmentCreated)
	if !ok {
		t.Fatalf("unexpected event type %T", fx.dispatcher.events[0])
	}
	if event.AssignmentID != assignment.ID {
		t.Fatalf("event carries wrong assignment id")
	}
	if len(event.StudentIDs) != 1 || event.StudentIDs[0] != fx.studentID {
		t.Fatalf("event must target enrolled students, got %v", event.StudentIDs)
	}
}

func TestCreateUnknownCourse(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.svc.Create(context.Background(), CreateParams{
		CourseID: uuid.New(),
		Title:    "Orphan",
		DueDate:  time.Now(),
		MaxMarks: 10,
	})
	if err == nil {
		t.Fatal("expected not found error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(fx.dispatcher.events) != 0 {
		t.Fatal("no event may fire for a rejected create")
	}
}

func TestSubmitNotifiesTeacher(t *testing.T) {
	fx := newFixture(t)
	assignment, err := fx.svc.Create(context.Background(), CreateParams{
		CourseID: fx.course.ID,
		Title:    "Graph Algorithms",
		DueDate:  time.Now().Add(24 * time.Hour),
		MaxMarks: 20,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	fx.dispatcher.events = nil

	submission, err := fx.svc.Submit(context.Background(), SubmitParams{
		AssignmentID: assignment.ID,
		StudentID:    fx.studentID,
		Content:      "answer.pdf",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if len(fx.dispatcher.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(fx.dispatcher.events))
	}
	event, ok := fx.dispatcher.events[0].(notify.SubmissionCreated)
	if !ok {
		t.Fatalf("unexpected event type %T", fx.dispatcher.events[0])
	}
	if event.TeacherID != fx.teacherID {
		t.Fatalf("submission event must go to the course teacher")
	}
	if event.SubmissionID != submission.ID {
		t.Fatalf("event carries wrong submission id")
	}
	if event.StudentEmail != "asha@university.edu" {
		t.Fatalf("unexpected student email %q", event.StudentEmail)
	}
}

func TestSubmitTwiceConflicts(t *testing.T) {
	fx := newFixture(t)
	assignment, _ := fx.svc.Create(context.Background(), CreateParams{
		CourseID: fx.course.ID,
		Title:    "Graph Algorithms",
		DueDate:  time.Now().Add(24 * time.Hour),
		MaxMarks: 20,
	})

	if _, err := fx.svc.Submit(context.Background(), SubmitParams{
		AssignmentID: assignment.ID, StudentID: fx.studentID, Content: "v1",
	}); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	_, err := fx.svc.Submit(context.Background(), SubmitParams{
		AssignmentID: assignment.ID, StudentID: fx.studentID, Content: "v2",
	})
	if err == nil {
		t.Fatal("expected conflict")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestGradeNotifiesStudent(t *testing.T) {
	fx := newFixture(t)
	assignment, _ := fx.svc.Create(context.Background(), CreateParams{
		CourseID: fx.course.ID,
		Title:    "Graph Algorithms",
		DueDate:  time.Now().Add(24 * time.Hour),
		MaxMarks: 20,
	})
	submission, _ := fx.svc.Submit(context.Background(), SubmitParams{
		AssignmentID: assignment.ID, StudentID: fx.studentID, Content: "answer",
	})
	fx.dispatcher.events = nil

	graded, err := fx.svc.Grade(context.Background(), GradeParams{
		SubmissionID: submission.ID,
		Grade:        18,
	})
	if err != nil {
		t.Fatalf("grade failed: %v", err)
	}
	if graded.Grade == nil || *graded.Grade != 18 {
		t.Fatalf("grade not recorded")
	}

	if len(fx.dispatcher.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(fx.dispatcher.events))
	}
	event, ok := fx.dispatcher.events[0].(notify.AssignmentGraded)
	if !ok {
		t.Fatalf("unexpected event type %T", fx.dispatcher.events[0])
	}
	if event.StudentID != fx.studentID || event.Grade != 18 || event.MaxMarks != 20 {
		t.Fatalf("graded event fields wrong: %+v", event)
	}
}

func TestGradeAboveMaxMarksRejected(t *testing.T) {
	fx := newFixture(t)
	assignment, _ := fx.svc.Create(context.Background(), CreateParams{
		CourseID: fx.course.ID,
		Title:    "Graph Algorithms",
		DueDate:  time.Now().Add(24 * time.Hour),
		MaxMarks: 20,
	})
	submission, _ := fx.svc.Submit(context.Background(), SubmitParams{
		AssignmentID: assignment.ID, StudentID: fx.studentID, Content: "answer",
	})

	_, err := fx.svc.Grade(context.Background(), GradeParams{
		SubmissionID: submission.ID,
		Grade:        25,
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
