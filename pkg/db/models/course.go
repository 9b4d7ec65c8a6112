package models

import (
	"time"

	"github.com/google/uuid"
)

// Course is a teachable unit owned by a department and optionally assigned
// to a teacher.
type Course struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code       string     `gorm:"type:text;not null;uniqueIndex" json:"code"`
	Name       string     `gorm:"type:text;not null" json:"name"`
	Department string     `gorm:"type:text;not null;index" json:"department"`
	TeacherID  *uuid.UUID `gorm:"type:uuid" json:"teacherId,omitempty"`
	Credits    int        `gorm:"not null;default:3" json:"credits"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// Enrollment links a student to a course.
type Enrollment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;index:idx_enrollments_course" json:"courseId"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index:idx_enrollments_student" json:"studentId"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
