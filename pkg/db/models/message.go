package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a direct message between two portal users.
type Message struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SenderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"senderId"`
	ReceiverID uuid.UUID `gorm:"type:uuid;not null;index" json:"receiverId"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time `gorm:"type:timestamptz;default:now()" json:"createdAt"`
}
