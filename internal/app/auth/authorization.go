package auth

import (
	"github.com/oguzk/classhub/internal/app/models"
)

// Authorization decisions live here so every handler shares the same rules
// instead of re-deriving them inline. All functions are pure: the caller
// identity comes from the JWT middleware, the course is already loaded.

// CanCreateCourse reports whether the caller may create courses.
func CanCreateCourse(caller models.Caller) bool {
	return caller.Role == models.RoleInstructor || caller.Role == models.RoleAdmin
}

// CanMutateCourse reports whether the caller may update or delete the course,
// add modules and items to it, or remove enrollments. Owning instructors and
// admins qualify.
func CanMutateCourse(caller models.Caller, course *models.Course) bool {
	if caller.Role == models.RoleAdmin {
		return true
	}
	return course.InstructorID == caller.ID
}

// CanMutateAssignment reports whether the caller may create, update or delete
// assignments in the course. Only the course's own instructor qualifies; the
// admin role carries no override here, unlike CanMutateCourse.
func CanMutateAssignment(caller models.Caller, course *models.Course) bool {
	return course.InstructorID == caller.ID
}

// IsEnrolled reports whether the caller appears in the course's enrollment
// set. The instructor is not enrolled in their own course.
func IsEnrolled(caller models.Caller, course *models.Course) bool {
	return course.HasEnrollment(caller.ID)
}

// CanViewGrades reports whether the caller may read grade-bearing content of
// the course: enrolled users and the owning instructor.
func CanViewGrades(caller models.Caller, course *models.Course) bool {
	if course.InstructorID == caller.ID {
		return true
	}
	return course.HasEnrollment(caller.ID)
}
