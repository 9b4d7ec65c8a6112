package notifications

import (
	"context"

	"github.com/google/uuid"

	"github.com/campushub/portal-backend/pkg/db/models"
	pkgerrors "github.com/campushub/portal-backend/pkg/errors"
	"github.com/campushub/portal-backend/pkg/enums"
	"github.com/campushub/portal-backend/pkg/pagination"
)

// Service defines notification create/list/read operations.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*models.Notification, error)
	CreateBatch(ctx context.Context, batch []CreateParams) ([]models.Notification, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error)
}

type service struct {
	repo Repository
}

// CreateParams describes one durable notification record.
type CreateParams struct {
	RecipientID uuid.UUID
	Type        enums.NotificationType
	Title       string
	Message     string
	RelatedID   *uuid.UUID
}

// ListParams configures pagination for a recipient's notification feed.
type ListParams struct {
	RecipientID uuid.UUID
	Page        pagination.Page
	UnreadOnly  bool
}

// ListResult wraps the page of notifications plus the live unread count.
type ListResult struct {
	Items       []models.Notification `json:"items"`
	UnreadCount int64                 `json:"unreadCount"`
}

// NewService wires notifications dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &service{repo: repo}, nil
}

func (p CreateParams) validate() error {
	if p.RecipientID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient id required")
	}
	if !p.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown notification type")
	}
	if p.Title == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title required")
	}
	if p.Message == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "message required")
	}
	return nil
}

func (s *service) Create(ctx context.Context, params CreateParams) (*models.Notification, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	notification := &models.Notification{
		RecipientID: params.RecipientID,
		Type:        params.Type,
		Title:       params.Title,
		Message:     params.Message,
		RelatedID:   params.RelatedID,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notification")
	}
	return notification, nil
}

// CreateBatch persists one record per recipient. The whole batch is validated
// before anything is written so a malformed entry cannot produce a partial
// insert.
func (s *service) CreateBatch(ctx context.Context, batch []CreateParams) ([]models.Notification, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	records := make([]*models.Notification, 0, len(batch))
	for _, params := range batch {
		if err := params.validate(); err != nil {
			return nil, err
		}
		records = append(records, &models.Notification{
			RecipientID: params.RecipientID,
			Type:        params.Type,
			Title:       params.Title,
			Message:     params.Message,
			RelatedID:   params.RelatedID,
		})
	}

	if err := s.repo.CreateBatch(ctx, records); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notifications")
	}

	out := make([]models.Notification, 0, len(records))
	for _, record := range records {
		out = append(out, *record)
	}
	return out, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.RecipientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipient id required")
	}

	rows, err := s.repo.List(ctx, listNotificationsParams{
		RecipientID: params.RecipientID,
		Page:        params.Page,
		UnreadOnly:  params.UnreadOnly,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	unread, err := s.repo.UnreadCount(ctx, params.RecipientID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unread notifications")
	}

	if rows == nil {
		rows = []models.Notification{}
	}
	return &ListResult{
		Items:       rows,
		UnreadCount: unread,
	}, nil
}

func (s *service) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	if recipientID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "recipient id required")
	}
	count, err := s.repo.UnreadCount(ctx, recipientID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unread notifications")
	}
	return count, nil
}

// MarkRead is idempotent: marking an already-read notification succeeds
// without touching the row.
func (s *service) MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error {
	if recipientID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient id required")
	}
	if notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	result, err := s.repo.MarkRead(ctx, recipientID, notificationID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if !result.Found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	if recipientID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "recipient id required")
	}

	count, err := s.repo.MarkAllRead(ctx, recipientID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return count, nil
}
