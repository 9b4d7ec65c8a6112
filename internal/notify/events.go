package notify

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/campushub/portal-backend/internal/notifications"
	"github.com/campushub/portal-backend/internal/realtime"
	"github.com/campushub/portal-backend/pkg/enums"
)

// Socket event names. Clients switch on these; renaming one is a breaking
// protocol change.
const (
	EventAssignmentCreated = "assignment:created"
	EventAssignmentGraded  = "assignment:graded"
	EventAssessmentCreated = "assessment:created"
	EventAssessmentGraded  = "assessment:graded"
	EventAttemptCreated    = "attempt:created"
	EventSubmissionCreated = "submission:created"
	EventAttendanceMarked  = "attendance:marked"
	EventAttendanceUpdated = "attendance:updated"
	EventMarksUpdated      = "marks:updated"
	EventEnrollmentCreated = "enrollment:created"
	EventCourseCreated     = "course:created"
	EventCourseUpdated     = "course:updated"
	EventCourseDeleted     = "course:deleted"
	EventCourseAssigned    = "course:assigned"
	EventMessageReceived   = "message:received"
	EventAnnouncement      = "announcement:created"
	EventUnreadCount       = "notifications:unread_count"
)

// Event is one domain occurrence to fan out: durable notification records for
// its recipients plus a live push to the rooms that care.
type Event interface {
	// Name is the socket event name pushed to Rooms.
	Name() string
	// Rooms lists the live push targets.
	Rooms() []string
	// Payload is the socket payload, shared by every room. Events that
	// persist records carry the stored title and message in the payload so a
	// client can render the push without refetching the feed.
	Payload() any
	// Notifications are the durable records to persist, one per recipient.
	Notifications() []notifications.CreateParams
}

// AssignmentCreated fans out to every student enrolled in the course.
type AssignmentCreated struct {
	AssignmentID uuid.UUID
	CourseID     uuid.UUID
	Title        string
	DueDate      string
	StudentIDs   []uuid.UUID
}

func (e AssignmentCreated) Name() string    { return EventAssignmentCreated }
func (e AssignmentCreated) title() string   { return "New Assignment" }
func (e AssignmentCreated) message() string { return fmt.Sprintf("New assignment: %s", e.Title) }

// Rooms covers the shared course room plus each student's personal room, so
// students not currently viewing the course page still get the push.
func (e AssignmentCreated) Rooms() []string {
	rooms := make([]string, 0, len(e.StudentIDs)+1)
	rooms = append(rooms, realtime.CourseRoom(e.CourseID))
	for _, studentID := range e.StudentIDs {
		rooms = append(rooms, realtime.UserRoom(studentID))
	}
	return rooms
}

func (e AssignmentCreated) Payload() any {
	return map[string]any{
		"assignmentId":    e.AssignmentID,
		"courseId":        e.CourseID,
		"assignmentTitle": e.Title,
		"dueDate":         e.DueDate,
		"title":           e.title(),
		"message":         e.message(),
	}
}

func (e AssignmentCreated) Notifications() []notifications.CreateParams {
	related := e.AssignmentID
	out := make([]notifications.CreateParams, 0, len(e.StudentIDs))
	for _, studentID := range e.StudentIDs {
		out = append(out, notifications.CreateParams{
			RecipientID: studentID,
			Type:        enums.NotificationTypeAssignment,
			Title:       e.title(),
			Message:     e.message(),
			RelatedID:   &related,
		})
	}
	return out
}

// AssignmentGraded notifies the single student who owns the submission.
type AssignmentGraded struct {
	SubmissionID uuid.UUID
	AssignmentID uuid.UUID
	StudentID    uuid.UUID
	Grade        int
	MaxMarks     int
	Feedback     *string
}

func (e AssignmentGraded) Name() string    { return EventAssignmentGraded }
func (e AssignmentGraded) Rooms() []string { return []string{realtime.UserRoom(e.StudentID)} }
func (e AssignmentGraded) title() string   { return "Assignment Graded" }
func (e AssignmentGraded) message() string {
	return fmt.Sprintf("Your assignment has been graded: %d/%d", e.Grade, e.MaxMarks)
}

func (e AssignmentGraded) Payload() any {
	return map[string]any{
		"submissionId": e.SubmissionID,
		"assignmentId": e.AssignmentID,
		"grade":        e.Grade,
		"maxMarks":     e.MaxMarks,
		"feedback":     e.Feedback,
		"title":        e.title(),
		"message":      e.message(),
	}
}

func (e AssignmentGraded) Notifications() []notifications.CreateParams {
	related := e.SubmissionID
	return []notifications.CreateParams{{
		RecipientID: e.StudentID,
		Type:        enums.NotificationTypeGrade,
		Title:       e.title(),
		Message:     e.message(),
		RelatedID:   &related,
	}}
}

// AssessmentCreated fans out to every student enrolled in the course.
type AssessmentCreated struct {
	AssessmentID uuid.UUID
	CourseID     uuid.UUID
	Title        string
	Kind         enums.AssessmentType
	StudentIDs   []uuid.UUID
}

func (e AssessmentCreated) Name() string    { return EventAssessmentCreated }
func (e AssessmentCreated) title() string   { return "New Assessment" }
func (e AssessmentCreated) message() string { return fmt.Sprintf("New %s: %s", e.Kind, e.Title) }

func (e AssessmentCreated) Rooms() []string {
	rooms := make([]string, 0, len(e.StudentIDs)+1)
	rooms = append(rooms, realtime.CourseRoom(e.CourseID))
	for _, studentID := range e.StudentIDs {
		rooms = append(rooms, realtime.UserRoom(studentID))
	}
	return rooms
}

func (e AssessmentCreated) Payload() any {
	return map[string]any{
		"assessmentId":    e.AssessmentID,
		"courseId":        e.CourseID,
		"assessmentTitle": e.Title,
		"type":            e.Kind,
		"title":           e.title(),
		"message":         e.message(),
	}
}

func (e AssessmentCreated) Notifications() []notifications.CreateParams {
	related := e.AssessmentID
	out := make([]notifications.CreateParams, 0, len(e.StudentIDs))
	for _, studentID := range e.StudentIDs {
		out = append(out, notifications.CreateParams{
			RecipientID: studentID,
			Type:        enums.NotificationTypeAssessment,
			Title:       e.title(),
			Message:     e.message(),
			RelatedID:   &related,
		})
	}
	return out
}

// AssessmentGraded notifies the student who owns the attempt.
type AssessmentGraded struct {
	AttemptID    uuid.UUID
	AssessmentID uuid.UUID
	StudentID    uuid.UUID
	Grade        int
	MaxMarks     int
	Feedback     *string
}

func (e AssessmentGraded) Name() string    { return EventAssessmentGraded }
func (e AssessmentGraded) Rooms() []string { return []string{realtime.UserRoom(e.StudentID)} }
func (e AssessmentGraded) title() string   { return "Assessment Graded" }
func (e AssessmentGraded) message() string {
	return fmt.Sprintf("Your assessment has been graded: %d/%d", e.Grade, e.MaxMarks)
}

func (e AssessmentGraded) Payload() any {
	return map[string]any{
		"attemptId":    e.AttemptID,
		"assessmentId": e.AssessmentID,
		"grade":        e.Grade,
		"maxMarks":     e.MaxMarks,
		"feedback":     e.Feedback,
		"title":        e.title(),
		"message":      e.message(),
	}
}

func (e AssessmentGraded) Notifications() []notifications.CreateParams {
	related := e.AttemptID
	return []notifications.CreateParams{{
		RecipientID: e.StudentID,
		Type:        enums.NotificationTypeGrade,
		Title:       e.title(),
		Message:     e.message(),
		RelatedID:   &related,
	}}
}

// AttemptCompleted tells the course teacher that a student finished an
// assessment.
type AttemptCompleted struct {
	AttemptID       uuid.UUID
	TeacherID       uuid.UUID
	StudentEmail    string
	AssessmentTitle string
}

func (e AttemptCompleted) Name() string    { return EventAttemptCreated }
func (e AttemptCompleted) Rooms() []string { return []string{realtime.UserRoom(e.TeacherID)} }
func (e AttemptCompleted) title() string   { return "New Assessment Attempt" }
func (e AttemptCompleted) message() string {
	return fmt.Sprintf("%s completed %s", e.StudentEmail, e.AssessmentTitle)
}

func (e AttemptCompleted) Payload() any {
	return map[string]any{
		"attemptId":       e.AttemptID,
		"studentEmail":    e.StudentEmail,
		"assessmentTitle": e.AssessmentTitle,
		"title":           e.title(),
		"message":         e.message(),
	}
}

func (e AttemptCompleted) Notifications() []notifications.CreateParams {
	related := e.AttemptID
	return []notifications.CreateParams{{
		RecipientID: e.TeacherID,
		Type:        enums.NotificationTypeAttempt,
		Title:       e.title(),
		Message:     e.message(),
		RelatedID:   &related,
	}}
}

// SubmissionCreated tells the course teacher that a student handed in an
// assignment.
type SubmissionCreated struct {
	SubmissionID    uuid.UUID
	TeacherID       uuid.UUID
	StudentEmail    string
	AssignmentTitle string
}

func (e SubmissionCreated) Name() string    { return EventSubmissionCreated }
func (e SubmissionCreated) Rooms() []string { return []string{realtime.UserRoom(e.TeacherID)} }
func (e SubmissionCreated) title() string   { return "New Submission" }
func (e SubmissionCreated) message() string {
	return fmt.Sprintf("%s submitted %s", e.StudentEmail, e.AssignmentTitle)
}

func (e SubmissionCreated) Payload() any {
	return map[string]any{
		"submissionId":    e.SubmissionID,
		"studentEmail":    e.StudentEmail,
		"assignmentTitle": e.AssignmentTitle,
		"title":           e.title(),
		"message":         e.message(),
	}
}

func (e SubmissionCreated) Notifications() []notifications.CreateParams {
	related := e.SubmissionID
	return []notifications.CreateParams{{
		RecipientID: e.TeacherID,
		Type:        enums.NotificationTypeSubmission,
		Title:       e.title(),
		Message:     e.message(),
		RelatedID:   &related,
	}}
}

// AttendanceMarked notifies the student of a fresh attendance record.
type AttendanceMarked struct {
	RecordID  uuid.UUID
	StudentID uuid.UUID
	Date      string
	Status    enums.AttendanceStatus
}

func (e AttendanceMarked) Name() string    { return EventAttendanceMarked }
func (e AttendanceMarked) Rooms() []string { return []string{realtime.UserRoom(e.StudentID)} }
func (e AttendanceMarked) title() string   { return "Attendance Marked" }
func (e AttendanceMarked) message() string {
	return fmt.Sprintf("Your attendance for %s has been marked as %s", e.Date, e.Status)
}

func (e AttendanceMarked) Payload() any {
	return map[string]any{
		"recordId": e.RecordID,
		"date":     e.Date,
		"status":   e.Status,
		"title":    e.title(),
		"message":  e.message(),
	}
}

func (e AttendanceMarked) Notifications() []notifications.CreateParams {
	related := e.RecordID
	return []notifications.CreateParams{{
		RecipientID: e.StudentID,
		Type:        enums.NotificationTypeAttendance,
		Title:       e.title(),
		Message:     e.message(),
		RelatedID:   &related,
	}}
}

// AttendanceUpdated notifies the student of a correction.
type AttendanceUpdated struct {
	RecordID  uuid.UUID
	StudentID uuid.UUID
	Status    enums.AttendanceStatus
}

func (e AttendanceUpdated) Name() string    { return EventAttendanceUpdated }
func (e AttendanceUpdated) Rooms() []string { return []string{realtime.UserRoom(e.StudentID)} }
func (e AttendanceUpdated) title() string   { return "Attendance Updated" }
func (e AttendanceUpdated) message() string {
	return fmt.Sprintf("Your attendance has been updated to %s", e.Status)
}

func (e AttendanceUpdated) Payload() any {
	return map[string]any{
		"recordId": e.RecordID,
		"status":   e.Status,
		"title":    e.title(),
		"message":  e.message(),
	}
}

func (e AttendanceUpdated) Notifications() []notifications.CreateParams {
	related := e.RecordID
	return []notifications.CreateParams{{
		RecipientID: e.StudentID,
		Type:        enums.NotificationTypeAttendance,
		Title:       e.title(),
		Message:     e.message(),
		RelatedID:   &related,
	}}
}

// MarksUpdated notifies the student of posted internal marks.
type MarksUpdated struct {
	MarkID     uuid.UUID
	StudentID  uuid.UUID
	Component  string
	CourseName string
	Marks      int
	MaxMarks   int
}

func (e MarksUpdated) Name() string    { return EventMarksUpdated }
func (e MarksUpdated) Rooms() []string { return []string{realtime.UserRoom(e.StudentID)} }
func (e MarksUpdated) title() string   { return "Internal Marks Updated" }
func (e MarksUpdated) message() string {
	return fmt.Sprintf("%s marks for %s: %d/%d", e.Component, e.CourseName, e.Marks, e.MaxMarks)
}

func (e MarksUpdated) Payload() any {
	return map[string]any{
		"markId":     e.MarkID,
		"component":  e.Component,
		"courseName": e.CourseName,
		"marks":      e.Marks,
		"maxMarks":   e.MaxMarks,
		"title":      e.title(),
		"message":    e.message(),
	}
}

func (e MarksUpdated) Notifications() []notifications.CreateParams {
	related := e.MarkID
	return []notifications.CreateParams{{
		RecipientID: e.StudentID,
		Type:        enums.NotificationTypeMarks,
		Title:       e.title(),
		Message:     e.message(),
		RelatedID:   &related,
	}}
}

// EnrollmentCreated tells the course teacher that a student joined.
type EnrollmentCreated struct {
	EnrollmentID uuid.UUID
	TeacherID    uuid.UUID
	StudentEmail string
	CourseName   string
}

func (e EnrollmentCreated) Name() string    { return EventEnrollmentCreated }
func (e EnrollmentCreated) Rooms() []string { return []string{realtime.UserRoom(e.TeacherID)} }
func (e EnrollmentCreated) title() string   { return "New Enrollment" }
func (e EnrollmentCreated) message() string {
	return fmt.Sprintf("%s enrolled in %s", e.StudentEmail, e.CourseName)
}

func (e EnrollmentCreated) Payload() any {
	return map[string]any{
		"enrollmentId": e.EnrollmentID,
		"studentEmail": e.StudentEmail,
		"courseName":   e.CourseName,
		"title":        e.title(),
		"message":      e.message(),
	}
}

func (e EnrollmentCreated) Notifications() []notifications.CreateParams {
	related := e.EnrollmentID
	return []notifications.CreateParams{{
		RecipientID: e.TeacherID,
		Type:        enums.NotificationTypeEnrollment,
		Title:       e.title(),
		Message:     e.message(),
		RelatedID:   &related,
	}}
}

// CourseLifecycle covers created/updated/deleted pushes to the department
// room. These are live hints only; no durable record is written.
type CourseLifecycle struct {
	Event      string
	CourseID   uuid.UUID
	Department string
	CourseName string
	Code       string
}

func (e CourseLifecycle) Name() string    { return e.Event }
func (e CourseLifecycle) Rooms() []string { return []string{realtime.DeptRoom(e.Department)} }

func (e CourseLifecycle) Payload() any {
	return map[string]any{
		"courseId": e.CourseID,
		"name":     e.CourseName,
		"code":     e.Code,
	}
}

func (e CourseLifecycle) Notifications() []notifications.CreateParams { return nil }

// CourseAssigned tells a teacher they now own a course.
type CourseAssigned struct {
	CourseID   uuid.UUID
	TeacherID  uuid.UUID
	CourseName string
}

func (e CourseAssigned) Name() string    { return EventCourseAssigned }
func (e CourseAssigned) Rooms() []string { return []string{realtime.UserRoom(e.TeacherID)} }
func (e CourseAssigned) title() string   { return "Course Assigned" }
func (e CourseAssigned) message() string {
	return fmt.Sprintf("You have been assigned to %s", e.CourseName)
}

func (e CourseAssigned) Payload() any {
	return map[string]any{
		"courseId":   e.CourseID,
		"courseName": e.CourseName,
		"title":      e.title(),
		"message":    e.message(),
	}
}

func (e CourseAssigned) Notifications() []notifications.CreateParams {
	related := e.CourseID
	return []notifications.CreateParams{{
		RecipientID: e.TeacherID,
		Type:        enums.NotificationTypeAnnouncement,
		Title:       e.title(),
		Message:     e.message(),
		RelatedID:   &related,
	}}
}

// MessageReceived notifies the recipient of a direct message.
type MessageReceived struct {
	MessageID   uuid.UUID
	RecipientID uuid.UUID
	SenderName  string
	Preview     string
}

func (e MessageReceived) Name() string    { return EventMessageReceived }
func (e MessageReceived) Rooms() []string { return []string{realtime.UserRoom(e.RecipientID)} }
func (e MessageReceived) title() string   { return "New Message" }
func (e MessageReceived) message() string { return fmt.Sprintf("%s: %s", e.SenderName, e.Preview) }

func (e MessageReceived) Payload() any {
	return map[string]any{
		"messageId":  e.MessageID,
		"senderName": e.SenderName,
		"preview":    e.Preview,
		"title":      e.title(),
		"message":    e.message(),
	}
}

func (e MessageReceived) Notifications() []notifications.CreateParams {
	related := e.MessageID
	return []notifications.CreateParams{{
		RecipientID: e.RecipientID,
		Type:        enums.NotificationTypeMessage,
		Title:       e.title(),
		Message:     e.message(),
		RelatedID:   &related,
	}}
}

// AnnouncementPosted fans a department-wide announcement out to every member.
type AnnouncementPosted struct {
	AnnouncementID uuid.UUID
	Department     string
	Title          string
	Body           string
	RecipientIDs   []uuid.UUID
}

func (e AnnouncementPosted) Name() string    { return EventAnnouncement }
func (e AnnouncementPosted) Rooms() []string { return []string{realtime.DeptRoom(e.Department)} }

func (e AnnouncementPosted) Payload() any {
	return map[string]any{
		"announcementId": e.AnnouncementID,
		"title":          e.Title,
		"body":           e.Body,
		"message":        e.Body,
	}
}

func (e AnnouncementPosted) Notifications() []notifications.CreateParams {
	related := e.AnnouncementID
	out := make([]notifications.CreateParams, 0, len(e.RecipientIDs))
	for _, recipientID := range e.RecipientIDs {
		out = append(out, notifications.CreateParams{
			RecipientID: recipientID,
			Type:        enums.NotificationTypeAnnouncement,
			Title:       e.Title,
			Message:     e.Body,
			RelatedID:   &related,
		})
	}
	return out
}
