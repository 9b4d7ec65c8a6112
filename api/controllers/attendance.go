package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/campushub/portal-backend/api/responses"
	"github.com/campushub/portal-backend/api/validators"
	"github.com/campushub/portal-backend/internal/attendance"
	pkgerrors "github.com/campushub/portal-backend/pkg/errors"
	"github.com/campushub/portal-backend/pkg/enums"
	"github.com/campushub/portal-backend/pkg/logger"
)

type markAttendanceRequest struct {
	StudentID string `json:"studentId" validate:"required,uuid"`
	Date      string `json:"date" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=present absent late"`
}

// MarkAttendance records or corrects a student's attendance for a day.
func MarkAttendance(svc attendance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "attendance service unavailable"))
			return
		}

		courseID, err := validators.ParseUUIDParam(r, "courseID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body markAttendanceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		studentID, err := uuid.Parse(body.StudentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid student id"))
			return
		}
		date, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "date must be YYYY-MM-DD"))
			return
		}

		record, err := svc.Mark(r.Context(), attendance.MarkParams{
			CourseID:  courseID,
			StudentID: studentID,
			Date:      date,
			Status:    enums.AttendanceStatus(body.Status),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// ListMyAttendance returns the calling student's attendance for a course.
func ListMyAttendance(svc attendance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "attendance service unavailable"))
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

		records, err := svc.ListByStudent(r.Context(), courseID, studentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, records)
	}
}
