package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/campushub/portal-backend/pkg/enums"
)

// Assessment is a scheduled quiz/exam/lab for a course.
type Assessment struct {
	ID              uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CourseID        uuid.UUID            `gorm:"type:uuid;not null;index" json:"courseId"`
	Title           string               `gorm:"type:text;not null" json:"title"`
	Type            enums.AssessmentType `gorm:"type:assessment_type;not null" json:"type"`
	ScheduledAt     time.Time            `gorm:"type:timestamptz;not null" json:"scheduledAt"`
	DurationMinutes int                  `gorm:"not null" json:"durationMinutes"`
	MaxMarks        int                  `gorm:"not null" json:"maxMarks"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// AssessmentAttempt is one student's completed attempt at an assessment.
type AssessmentAttempt struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AssessmentID uuid.UUID  `gorm:"type:uuid;not null;index" json:"assessmentId"`
	StudentID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"studentId"`
	Grade        *int       `gorm:"" json:"grade,omitempty"`
	Feedback     *string    `gorm:"type:text" json:"feedback,omitempty"`
	GradedAt     *time.Time `gorm:"type:timestamptz" json:"gradedAt,omitempty"`
	SubmittedAt  time.Time  `gorm:"type:timestamptz;default:now()" json:"submittedAt"`
}
