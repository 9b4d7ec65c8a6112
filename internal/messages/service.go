package messages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/campushub/portal-backend/internal/notify"
	"github.com/campushub/portal-backend/internal/users"
	"github.com/campushub/portal-backend/pkg/db/models"
	pkgerrors "github.com/campushub/portal-backend/pkg/errors"
	"github.com/campushub/portal-backend/pkg/pagination"
)

const previewRunes = 80

// Service defines direct-message operations.
type Service interface {
	Send(ctx context.Context, senderID, receiverID uuid.UUID, content string) (*models.Message, error)
	ListConversation(ctx context.Context, userA, userB uuid.UUID, page pagination.Page) ([]models.Message, error)
}

type userReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type eventDispatcher interface {
	DispatchAsync(ctx context.Context, event notify.Event)
}

type service struct {
	repo       Repository
	users      userReader
	dispatcher eventDispatcher
}

// ServiceParams bundles message dependencies.
type ServiceParams struct {
	Repo       Repository
	Users      userReader
	Dispatcher eventDispatcher
}

// NewService wires message dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("messages repository is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users reader is required")
	}
	if params.Dispatcher == nil {
		return nil, fmt.Errorf("event dispatcher is required")
	}
	return &service{
		repo:       params.Repo,
		users:      params.Users,
		dispatcher: params.Dispatcher,
	}, nil
}

// Send persists the message and notifies the receiver with a preview.
func (s *service) Send(ctx context.Context, senderID, receiverID uuid.UUID, content string) (*models.Message, error) {
	if senderID == uuid.Nil || receiverID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sender id and receiver id required")
	}
	if senderID == receiverID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot message yourself")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content required")
	}

	sender, err := s.users.FindByID(ctx, senderID)
	if errors.Is(err, users.ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sender not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sender")
	}
	if _, err := s.users.FindByID(ctx, receiverID); errors.Is(err, users.ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "receiver not found")
	} else if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load receiver")
	}

	message := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create message")
	}

	s.dispatcher.DispatchAsync(ctx, notify.MessageReceived{
		MessageID:   message.ID,
		RecipientID: receiverID,
		SenderName:  sender.Name,
		Preview:     preview(content),
	})
	return message, nil
}

func (s *service) ListConversation(ctx context.Context, userA, userB uuid.UUID, page pagination.Page) ([]models.Message, error) {
	if userA == uuid.Nil || userB == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "both participant ids required")
	}
	messages, err := s.repo.ListConversation(ctx, userA, userB, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list conversation")
	}
	return messages, nil
}

func preview(content string) string {
	if utf8.RuneCountInString(content) <= previewRunes {
		return content
	}
	runes := []rune(content)
	return string(runes[:previewRunes]) + "…"
}
