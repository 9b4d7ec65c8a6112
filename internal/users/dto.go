package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/campushub/portal-backend/pkg/db/models"
	"github.com/campushub/portal-backend/pkg/enums"
)

// UserDTO is the transport shape that omits credentials.
type UserDTO struct {
	ID         uuid.UUID      `json:"id"`
	Email      string         `json:"email"`
	Name       string         `json:"name"`
	Role       enums.UserRole `json:"role"`
	Department string         `json:"department"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// ToDTO maps the persistence model onto the transport shape.
func ToDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:         user.ID,
		Email:      user.Email,
		Name:       user.Name,
		Role:       user.Role,
		Department: user.Department,
		CreatedAt:  user.CreatedAt,
	}
}
