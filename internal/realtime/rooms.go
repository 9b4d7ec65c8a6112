package realtime

import "github.com/google/uuid"

// Room names follow the portal convention: every connection sits in its
// identity room and its department room for its whole lifetime, and opts in
// to course rooms explicitly.
func UserRoom(userID uuid.UUID) string {
	return "user_" + userID.String()
}

func CourseRoom(courseID uuid.UUID) string {
	return "course_" + courseID.String()
}

func DeptRoom(department string) string {
	return "dept_" + department
}
