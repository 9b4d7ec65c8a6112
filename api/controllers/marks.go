package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/campushub/portal-backend/api/responses"
	"github.com/campushub/portal-backend/api/validators"
	"github.com/campushub/portal-backend/internal/marks"
	pkgerrors "github.com/campushub/portal-backend/pkg/errors"
	"github.com/campushub/portal-backend/pkg/logger"
)

type upsertMarkRequest struct {
	StudentID string `json:"studentId" validate:"required,uuid"`
	Component string `json:"component" validate:"required"`
	Marks     int    `json:"marks" validate:"min=0"`
	MaxMarks  int    `json:"maxMarks" validate:"required,min=1"`
}

// UpsertInternalMark posts or corrects a component score for a student.
func UpsertInternalMark(svc marks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "marks service unavailable"))
			return
		}

		courseID, err := validators.ParseUUIDParam(r, "courseID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body upsertMarkRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		studentID, err := uuid.Parse(body.StudentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid student id"))
			return
		}

		mark, err := svc.Upsert(r.Context(), marks.UpsertParams{
			CourseID:  courseID,
			StudentID: studentID,
			Component: body.Component,
			Marks:     body.Marks,
			MaxMarks:  body.MaxMarks,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, mark)
	}
}

// ListMyInternalMarks returns the calling student's component scores.
func ListMyInternalMarks(svc marks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "marks service unavailable"))
			return
		}

		studentID, err := actorID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		courseID, err := validators.ParseUUIDParam(r, "courseID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListByStudent(r.Context(), courseID, studentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
