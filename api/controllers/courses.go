package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/campushub/portal-backend/api/middleware"
	"github.com/campushub/portal-backend/api/responses"
	"github.com/campushub/portal-backend/api/validators"
	"github.com/campushub/portal-backend/internal/courses"
	pkgerrors "github.com/campushub/portal-backend/pkg/errors"
	"github.com/campushub/portal-backend/pkg/logger"
)

type createCourseRequest struct {
	Code      string  `json:"code" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	Credits   int     `json:"credits" validate:"omitempty,min=1,max=10"`
	TeacherID *string `json:"teacherId" validate:"omitempty,uuid"`
}

type updateCourseRequest struct {
	Name    string `json:"name" validate:"required"`
	Credits int    `json:"credits" validate:"omitempty,min=1,max=10"`
}

type assignTeacherRequest struct {
	TeacherID string `json:"teacherId" validate:"required,uuid"`
}

// CreateCourse registers a course inside the caller's department.
func CreateCourse(svc courses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "courses service unavailable"))
			return
		}

		var body createCourseRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		department := middleware.DepartmentFromContext(r.Context())
		if strings.TrimSpace(department) == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "department context missing"))
			return
		}

		params := courses.CreateParams{
			Code:       body.Code,
			Name:       body.Name,
			Department: department,
			Credits:    body.Credits,
		}
		if body.TeacherID != nil {
			teacherID, err := uuid.Parse(*body.TeacherID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid teacher id"))
				return
			}
			params.TeacherID = &teacherID
		}

		course, err := svc.Create(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, course)
	}
}

// GetCourse fetches one course by id.
func GetCourse(svc courses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "courses service unavailable"))
			return
		}

		courseID, err := validators.ParseUUIDParam(r, "courseID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		course, err := svc.Get(r.Context(), courseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, course)
	}
}

// ListCourses returns the courses in the caller's department.
func ListCourses(svc courses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "courses service unavailable"))
			return
		}

		department := middleware.DepartmentFromContext(r.Context())
		if strings.TrimSpace(department) == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "department context missing"))
			return
		}

		list, err := svc.ListByDepartment(r.Context(), department)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// UpdateCourse renames a course or adjusts its credits.
func UpdateCourse(svc courses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "courses service unavailable"))
			return
		}

		courseID, err := validators.ParseUUIDParam(r, "courseID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateCourseRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		course, err := svc.Update(r.Context(), courseID, courses.UpdateParams{Name: body.Name, Credits: body.Credits})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, course)
	}
}

// DeleteCourse removes a course and tells its room subscribers.
func DeleteCourse(svc courses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "courses service unavailable"))
			return
		}

		courseID, err := validators.ParseUUIDParam(r, "courseID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), courseID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AssignCourseTeacher hands a course to a teacher and notifies them.
func AssignCourseTeacher(svc courses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "courses service unavailable"))
			return
		}

		courseID, err := validators.ParseUUIDParam(r, "courseID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body assignTeacherRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		teacherID, err := uuid.Parse(body.TeacherID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid teacher id"))
			return
		}

		course, err := svc.AssignTeacher(r.Context(), courseID, teacherID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, course)
	}
}
