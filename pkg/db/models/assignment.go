package models

import (
	"time"

	"github.com/google/uuid"
)

// Assignment is coursework published to every student enrolled in a course.
type Assignment struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null;index" json:"courseId"`
	Title       string    `gorm:"type:text;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	DueDate     time.Time `gorm:"type:timestamptz;not null" json:"dueDate"`
	MaxMarks    int       `gorm:"not null" json:"maxMarks"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// AssignmentSubmission is one student's answer to an assignment.
type AssignmentSubmission struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AssignmentID uuid.UUID  `gorm:"type:uuid;not null;index" json:"assignmentId"`
	StudentID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"studentId"`
	Content      string     `gorm:"type:text;not null" json:"content"`
	Grade        *int       `gorm:"" json:"grade,omitempty"`
	Feedback     *string    `gorm:"type:text" json:"feedback,omitempty"`
	GradedAt     *time.Time `gorm:"type:timestamptz" json:"gradedAt,omitempty"`
	SubmittedAt  time.Time  `gorm:"type:timestamptz;default:now()" json:"submittedAt"`
}
