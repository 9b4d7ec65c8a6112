package controllers

import (
	"net/http"
	"time"

	"github.com/campushub/portal-backend/api/responses"
	"github.com/campushub/portal-backend/api/validators"
	"github.com/campushub/portal-backend/internal/assignments"
	pkgerrors "github.com/campushub/portal-backend/pkg/errors"
	"github.com/campushub/portal-backend/pkg/logger"
)

type createAssignmentRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate" validate:"required"`
	MaxMarks    int    `json:"maxMarks" validate:"required,min=1"`
}

type submitAssignmentRequest struct {
	Content string `json:"content" validate:"required"`
}

type gradeRequest struct {
	Grade    int     `json:"grade" validate:"min=0"`
	Feedback *string `json:"feedback"`
}

// CreateAssignment publishes an assignment to a course.
func CreateAssignment(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignments service unavailable"))
			return
		}

		courseID, err := validators.ParseUUIDParam(r, "courseID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createAssignmentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dueDate, err := time.Parse(time.RFC3339, body.DueDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "dueDate must be RFC 3339"))
			return
		}

		assignment, err := svc.Create(r.Context(), assignments.CreateParams{
			CourseID:    courseID,
			Title:       body.Title,
			Description: body.Description,
			DueDate:     dueDate,
			MaxMarks:    body.MaxMarks,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, assignment)
	}
}

// ListCourseAssignments returns a course's assignments.
func ListCourseAssignments(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignments service unavailable"))
			return
		}

		courseID, err := validators.ParseUUIDParam(r, "courseID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListByCourse(r.Context(), courseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// SubmitAssignment records the calling student's answer.
func SubmitAssignment(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignments service unavailable"))
			return
		}

		studentID, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		assignmentID, err := validators.ParseUUIDParam(r, "assignmentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body submitAssignmentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		submission, err := svc.Submit(r.Context(), assignments.SubmitParams{
			AssignmentID: assignmentID,
			StudentID:    studentID,
			Content:      body.Content,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, submission)
	}
}

// GradeAssignmentSubmission scores a submission and notifies the student.
func GradeAssignmentSubmission(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignments service unavailable"))
			return
		}

		submissionID, err := validators.ParseUUIDParam(r, "submissionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body gradeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		submission, err := svc.Grade(r.Context(), assignments.GradeParams{
			SubmissionID: submissionID,
			Grade:        body.Grade,
			Feedback:     body.Feedback,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, submission)
	}
}
