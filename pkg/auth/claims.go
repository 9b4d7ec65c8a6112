package auth

import (
	"github.com/campushub/portal-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID     uuid.UUID
	Role       enums.UserRole
	Department string
	Email      string
	JTI        string
}

// AccessTokenClaims represents the typed JWT issued to clients. The same
// token authenticates HTTP requests and the websocket handshake.
type AccessTokenClaims struct {
	UserID     uuid.UUID      `json:"user_id"`
	Role       enums.UserRole `json:"role"`
	Department string         `json:"department"`
	Email      string         `json:"email"`
	jwt.RegisteredClaims
}

// Identity is the verified connection-scoped identity derived from claims.
type Identity struct {
	UserID     uuid.UUID
	Role       enums.UserRole
	Department string
	Email      string
}

// Identity converts validated claims into the ephemeral identity attached to
// a connection.
func (c *AccessTokenClaims) Identity() Identity {
	return Identity{
		UserID:     c.UserID,
		Role:       c.Role,
		Department: c.Department,
		Email:      c.Email,
	}
}
