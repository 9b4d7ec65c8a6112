package controllers

import (
	"context"

	"github.com/google/uuid"

	"github.com/campushub/portal-backend/api/middleware"
	pkgerrors "github.com/campushub/portal-backend/pkg/errors"
)

// actorID resolves the authenticated user from the request context.
func actorID(ctx context.Context) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(ctx)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user context")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user context")
	}
	return id, nil
}
