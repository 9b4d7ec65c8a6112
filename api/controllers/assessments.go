package controllers

import (
	"net/http"
	"time"

	"github.com/campushub/portal-backend/api/responses"
	"github.com/campushub/portal-backend/api/validators"
	"github.com/campushub/portal-backend/internal/assessments"
	pkgerrors "github.com/campushub/portal-backend/pkg/errors"
	"github.com/campushub/portal-backend/pkg/enums"
	"github.com/campushub/portal-backend/pkg/logger"
)

type createAssessmentRequest struct {
	Title           string `json:"title" validate:"required"`
	Type            string `json:"type" validate:"required,oneof=quiz exam lab"`
	ScheduledAt     string `json:"scheduledAt" validate:"required"`
	DurationMinutes int    `json:"durationMinutes" validate:"required,min=1"`
	MaxMarks        int    `json:"maxMarks" validate:"required,min=1"`
}

// CreateAssessment schedules a quiz, exam or lab for a course.
func CreateAssessment(svc assessments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assessments service unavailable"))
			return
		}

		courseID, err := validators.ParseUUIDParam(r, "courseID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createAssessmentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		scheduledAt, err := time.Parse(time.RFC3339, body.ScheduledAt)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "scheduledAt must be RFC 3339"))
			return
		}

		assessment, err := svc.Create(r.Context(), assessments.CreateParams{
			CourseID:        courseID,
			Title:           body.Title,
			Type:            enums.AssessmentType(body.Type),
			ScheduledAt:     scheduledAt,
			DurationMinutes: body.DurationMinutes,
			MaxMarks:        body.MaxMarks,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, assessment)
	}
}

// ListCourseAssessments returns a course's assessments.
func ListCourseAssessments(svc assessments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assessments service unavailable"))
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

// SubmitAssessmentAttempt records the calling student's completed attempt.
func SubmitAssessmentAttempt(svc assessments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assessments service unavailable"))
			return
		}

		studentID, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		assessmentID, err := validators.ParseUUIDParam(r, "assessmentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		attempt, err := svc.SubmitAttempt(r.Context(), assessmentID, studentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, attempt)
	}
}

// GradeAssessmentAttempt scores an attempt and notifies the student.
func GradeAssessmentAttempt(svc assessments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assessments service unavailable"))
			return
		}

		attemptID, err := validators.ParseUUIDParam(r, "attemptID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body gradeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		attempt, err := svc.Grade(r.Context(), assessments.GradeParams{
			AttemptID: attemptID,
			Grade:     body.Grade,
			Feedback:  body.Feedback,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, attempt)
	}
}
