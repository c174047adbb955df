package auth

import (
	"testing"

	"github.com/oguzk/classhub/internal/app/models"
)

func course(instructorID int64, enrolled ...int64) *models.Course {
	c := &models.Course{ID: 1, InstructorID: instructorID}
	for _, id := range enrolled {
		c.Enrollments = append(c.Enrollments, models.Enrollment{UserID: id, Role: models.EnrollmentRoleStudent})
	}
	return c
}

func TestCanCreateCourse(t *testing.T) {
	cases := []struct {
		role models.RoleType
		want bool
	}{
		{models.RoleStudent, false},
		{models.RoleInstructor, true},
		{models.RoleAdmin, true},
	}

	for _, tc := range cases {
		if got := CanCreateCourse(models.Caller{ID: 1, Role: tc.role}); got != tc.want {
			t.Errorf("CanCreateCourse(%s) = %v, want %v", tc.role, got, tc.want)
		}
	}
}

func TestCanMutateCourse(t *testing.T) {
	c := course(10)

	cases := []struct {
		name   string
		caller models.Caller
		want   bool
	}{
		{"owner", models.Caller{ID: 10, Role: models.RoleInstructor}, true},
		{"other instructor", models.Caller{ID: 11, Role: models.RoleInstructor}, false},
		{"admin", models.Caller{ID: 99, Role: models.RoleAdmin}, true},
		{"student", models.Caller{ID: 12, Role: models.RoleStudent}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanMutateCourse(tc.caller, c); got != tc.want {
				t.Errorf("CanMutateCourse = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCanMutateAssignmentRequiresOwnership(t *testing.T) {
	c := course(10)

	if !CanMutateAssignment(models.Caller{ID: 10, Role: models.RoleInstructor}, c) {
		t.Error("owner instructor should mutate assignments")
	}
	if CanMutateAssignment(models.Caller{ID: 99, Role: models.RoleAdmin}, c) {
		t.Error("admin role alone must not mutate assignments")
	}
	if CanMutateAssignment(models.Caller{ID: 11, Role: models.RoleInstructor}, c) {
		t.Error("non-owning instructor must not mutate assignments")
	}
	// An admin who owns the course is its instructor and qualifies like one
	if !CanMutateAssignment(models.Caller{ID: 10, Role: models.RoleAdmin}, c) {
		t.Error("owning admin should mutate assignments")
	}
}

func TestIsEnrolled(t *testing.T) {
	c := course(10, 20, 21)

	if !IsEnrolled(models.Caller{ID: 20, Role: models.RoleStudent}, c) {
		t.Error("enrolled student reported as not enrolled")
	}
	if IsEnrolled(models.Caller{ID: 30, Role: models.RoleStudent}, c) {
		t.Error("outsider reported as enrolled")
	}
	// The instructor teaches the course but is not in the enrollment set
	if IsEnrolled(models.Caller{ID: 10, Role: models.RoleInstructor}, c) {
		t.Error("instructor reported as enrolled")
	}
}

func TestCanViewGrades(t *testing.T) {
	c := course(10, 20)

	if !CanViewGrades(models.Caller{ID: 10, Role: models.RoleInstructor}, c) {
		t.Error("instructor should view grades")
	}
	if !CanViewGrades(models.Caller{ID: 20, Role: models.RoleStudent}, c) {
		t.Error("enrolled student should view grades")
	}
	if CanViewGrades(models.Caller{ID: 30, Role: models.RoleStudent}, c) {
		t.Error("outsider must not view grades")
	}
	// Admins are not granted grade access unless enrolled or teaching
	if CanViewGrades(models.Caller{ID: 99, Role: models.RoleAdmin}, c) {
		t.Error("admin must not view grades by role alone")
	}
}
