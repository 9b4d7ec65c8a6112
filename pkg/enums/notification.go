package enums

import "fmt"

// NotificationType maps to the notification_type enum in Postgres.
type NotificationType string

const (
	NotificationTypeAssignment   NotificationType = "assignment"
	NotificationTypeGrade        NotificationType = "grade"
	NotificationTypeAttendance   NotificationType = "attendance"
	NotificationTypeMarks        NotificationType = "marks"
	NotificationTypeAssessment   NotificationType = "assessment"
	NotificationTypeEnrollment   NotificationType = "enrollment"
	NotificationTypeSubmission   NotificationType = "submission"
	NotificationTypeAttempt      NotificationType = "attempt"
	NotificationTypeAnnouncement NotificationType = "announcement"
	NotificationTypeMessage      NotificationType = "message"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeAssignment,
	NotificationTypeGrade,
	NotificationTypeAttendance,
	NotificationTypeMarks,
	NotificationTypeAssessment,
	NotificationTypeEnrollment,
	NotificationTypeSubmission,
	NotificationTypeAttempt,
	NotificationTypeAnnouncement,
	NotificationTypeMessage,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
