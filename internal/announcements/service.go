package announcements

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/campushub/portal-backend/internal/notify"
	pkgerrors "github.com/campushub/portal-backend/pkg/errors"
)

// Service posts department-wide announcements. There is no announcement
// table; the per-recipient notification rows are the durable trace.
type Service interface {
	Post(ctx context.Context, params PostParams) (uuid.UUID, error)
}

type departmentReader interface {
	ListIDsByDepartment(ctx context.Context, department string) ([]uuid.UUID, error)
}

type eventDispatcher interface {
	DispatchAsync(ctx context.Context, event notify.Event)
}

type service struct {
	users      departmentReader
	dispatcher eventDispatcher
}

// PostParams describes one announcement.
type PostParams struct {
	Department string
	Title      string
	Body       string
}

// NewService wires announcement dependencies.
func NewService(users departmentReader, dispatcher eventDispatcher) (Service, error) {
	if users == nil {
		return nil, fmt.Errorf("users reader is required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("event dispatcher is required")
	}
	return &service{users: users, dispatcher: dispatcher}, nil
}

// Post fans the announcement out to every member of the department.
func (s *service) Post(ctx context.Context, params PostParams) (uuid.UUID, error) {
	department := strings.TrimSpace(params.Department)
	if department == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "department required")
	}
	if strings.TrimSpace(params.Title) == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "title required")
	}
	if strings.TrimSpace(params.Body) == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "body required")
	}

	recipientIDs, err := s.users.ListIDsByDepartment(ctx, department)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list department members")
	}

	announcementID := uuid.New()
	s.dispatcher.DispatchAsync(ctx, notify.AnnouncementPosted{
		AnnouncementID: announcementID,
		Department:     department,
		Title:          strings.TrimSpace(params.Title),
		Body:           strings.TrimSpace(params.Body),
		RecipientIDs:   recipientIDs,
	})
	return announcementID, nil
}
