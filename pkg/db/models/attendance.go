package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/campushub/portal-backend/pkg/enums"
)

// AttendanceRecord marks one student's presence in a course on a given date.
type AttendanceRecord struct {
	ID        uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CourseID  uuid.UUID              `gorm:"type:uuid;not null;index" json:"courseId"`
	StudentID uuid.UUID              `gorm:"type:uuid;not null;index" json:"studentId"`
	Date      time.Time              `gorm:"type:date;not null" json:"date"`
	Status    enums.AttendanceStatus `gorm:"type:attendance_status;not null" json:"status"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time              `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// InternalMark stores a component score (midterm, lab, viva) for a student.
type InternalMark struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;index" json:"courseId"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index" json:"studentId"`
	Component string    `gorm:"type:text;not null" json:"component"`
	Marks     int       `gorm:"not null" json:"marks"`
	MaxMarks  int       `gorm:"not null" json:"maxMarks"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
