package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/campushub/portal-backend/pkg/enums"
)

// Notification is the durable record that a user was notified. It is the
// source of truth independent of any live socket delivery.
type Notification struct {
	ID          uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RecipientID uuid.UUID              `gorm:"type:uuid;not null;index:idx_notifications_recipient" json:"recipientId"`
	Type        enums.NotificationType `gorm:"type:notification_type;not null" json:"type"`
	Title       string                 `gorm:"type:text;not null" json:"title"`
	Message     string                 `gorm:"type:text;not null" json:"message"`
	RelatedID   *uuid.UUID             `gorm:"type:uuid" json:"relatedId,omitempty"`
	IsRead      bool                   `gorm:"not null;default:false" json:"isRead"`
	CreatedAt   time.Time              `gorm:"type:timestamptz;default:now()" json:"createdAt"`
}
