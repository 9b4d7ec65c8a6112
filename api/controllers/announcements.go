package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/campushub/portal-backend/api/middleware"
	"github.com/campushub/portal-backend/api/responses"
	"github.com/campushub/portal-backend/api/validators"
	"github.com/campushub/portal-backend/internal/announcements"
	pkgerrors "github.com/campushub/portal-backend/pkg/errors"
	"github.com/campushub/portal-backend/pkg/logger"
)

type postAnnouncementRequest struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
}

// PostAnnouncement fans an announcement out to the caller's department.
func PostAnnouncement(svc announcements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "announcements service unavailable"))
			return
		}

		department := middleware.DepartmentFromContext(r.Context())
		if strings.TrimSpace(department) == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "department context missing"))
			return
		}

		var body postAnnouncementRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		announcementID, err := svc.Post(r.Context(), announcements.PostParams{
			Department: department,
			Title:      body.Title,
			Body:       body.Body,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]uuid.UUID{"announcementId": announcementID})
	}
}
