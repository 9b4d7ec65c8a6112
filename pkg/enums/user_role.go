package enums

import "fmt"

// UserRole distinguishes portal actors.
type UserRole string

const (
	UserRoleTeacher UserRole = "teacher"
	UserRoleStudent UserRole = "student"
)

// IsValid checks whether the given role matches the canonical enum.
func (r UserRole) IsValid() bool {
	return r == UserRoleTeacher || r == UserRoleStudent
}

// ParseUserRole converts raw strings into UserRole.
func ParseUserRole(value string) (UserRole, error) {
	switch UserRole(value) {
	case UserRoleTeacher:
		return UserRoleTeacher, nil
	case UserRoleStudent:
		return UserRoleStudent, nil
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
