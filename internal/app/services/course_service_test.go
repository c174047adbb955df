package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oguzk/classhub/internal/app/models"
	"github.com/oguzk/classhub/internal/app/models/dto"
	"github.com/oguzk/classhub/internal/pkg/apperrors"
)

func newCourseServiceForTest() (*CourseService, *fakeCourseStore, *fakeUserStore) {
	courses := newFakeCourseStore()
	users := newFakeUserStore()
	return NewCourseService(courses, users), courses, users
}

func createCourseReq(code string) dto.CreateCourseRequest {
	return dto.CreateCourseRequest{
		Name:        "Algorithms",
		Code:        code,
		Description: "Design and analysis of algorithms",
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateCourseForcesActiveStatusAndOwner(t *testing.T) {
	svc, _, users := newCourseServiceForTest()
	instructor := users.mustAddUser("Ada", "ada@school.edu", "x", models.RoleInstructor)
	caller := models.Caller{ID: instructor.ID, Role: models.RoleInstructor}

	course, err := svc.CreateCourse(context.Background(), caller, createCourseReq("CS201"))
	if err != nil {
		t.Fatalf("CreateCourse failed: %v", err)
	}

	if course.Status != models.CourseStatusActive {
		t.Errorf("expected status active, got %q", course.Status)
	}
	if course.InstructorID != instructor.ID {
		t.Errorf("expected instructorId %d, got %d", instructor.ID, course.InstructorID)
	}
	if len(course.Modules) != 0 || len(course.Enrollments) != 0 {
		t.Errorf("expected empty modules and enrollments, got %d/%d", len(course.Modules), len(course.Enrollments))
	}
	if course.Instructor == nil || course.Instructor.Email != "ada@school.edu" {
		t.Errorf("expected instructor reference populated, got %+v", course.Instructor)
	}
}

func TestCreateCourseRejectsStudents(t *testing.T) {
	svc, _, users := newCourseServiceForTest()
	student := users.mustAddUser("Stu", "stu@school.edu", "x", models.RoleStudent)

	_, err := svc.CreateCourse(context.Background(), models.Caller{ID: student.ID, Role: models.RoleStudent}, createCourseReq("CS201"))
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
}

func TestCreateCourseDuplicateCode(t *testing.T) {
	svc, _, users := newCourseServiceForTest()
	instructor := users.mustAddUser("Ada", "ada@school.edu", "x", models.RoleInstructor)
	caller := models.Caller{ID: instructor.ID, Role: models.RoleInstructor}

	if _, err := svc.CreateCourse(context.Background(), caller, createCourseReq("CS201")); err != nil {
		t.Fatalf("first CreateCourse failed: %v", err)
	}

	_, err := svc.CreateCourse(context.Background(), caller, createCourseReq("CS201"))
	if !errors.Is(err, apperrors.ErrCourseCodeExists) {
		t.Fatalf("expected duplicate code error, got %v", err)
	}
}

func TestCreateCourseRejectsBadCode(t *testing.T) {
	svc, _, users := newCourseServiceForTest()
	instructor := users.mustAddUser("Ada", "ada@school.edu", "x", models.RoleInstructor)
	caller := models.Caller{ID: instructor.ID, Role: models.RoleInstructor}

	_, err := svc.CreateCourse(context.Background(), caller, createCourseReq("not a code"))
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateCourseMergesFields(t *testing.T) {
	svc, _, users := newCourseServiceForTest()
	instructor := users.mustAddUser("Ada", "ada@school.edu", "x", models.RoleInstructor)
	caller := models.Caller{ID: instructor.ID, Role: models.RoleInstructor}

	course, err := svc.CreateCourse(context.Background(), caller, createCourseReq("CS201"))
	if err != nil {
		t.Fatalf("CreateCourse failed: %v", err)
	}

	newName := "Advanced Algorithms"
	archived := models.CourseStatusArchived
	updated, err := svc.UpdateCourse(context.Background(), caller, course.ID, dto.UpdateCourseRequest{
		Name:   &newName,
		Status: &archived,
	})
	if err != nil {
		t.Fatalf("UpdateCourse failed: %v", err)
	}

	if updated.Name != newName {
		t.Errorf("expected name %q, got %q", newName, updated.Name)
	}
	if updated.Status != models.CourseStatusArchived {
		t.Errorf("expected status archived, got %q", updated.Status)
	}
	// Untouched fields keep their stored values
	if updated.Code != "CS201" || updated.Description != course.Description {
		t.Errorf("unexpected merge result: %+v", updated)
	}
}

func TestUpdateCourseForbiddenForOtherInstructor(t *testing.T) {
	svc, _, users := newCourseServiceForTest()
	owner := users.mustAddUser("Ada", "ada@school.edu", "x", models.RoleInstructor)
	other := users.mustAddUser("Bob", "bob@school.edu", "x", models.RoleInstructor)

	course, err := svc.CreateCourse(context.Background(), models.Caller{ID: owner.ID, Role: models.RoleInstructor}, createCourseReq("CS201"))
	if err != nil {
		t.Fatalf("CreateCourse failed: %v", err)
	}

	name := "Hijacked"
	_, err = svc.UpdateCourse(context.Background(), models.Caller{ID: other.ID, Role: models.RoleInstructor}, course.ID, dto.UpdateCourseRequest{Name: &name})
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}

	// Admins may update any course
	_, err = svc.UpdateCourse(context.Background(), models.Caller{ID: 99, Role: models.RoleAdmin}, course.ID, dto.UpdateCourseRequest{Name: &name})
	if err != nil {
		t.Fatalf("expected admin update to succeed, got %v", err)
	}
}

func TestDeleteCourseIsNotFoundWhenRepeated(t *testing.T) {
	svc, _, users := newCourseServiceForTest()
	instructor := users.mustAddUser("Ada", "ada@school.edu", "x", models.RoleInstructor)
	caller := models.Caller{ID: instructor.ID, Role: models.RoleInstructor}

	course, err := svc.CreateCourse(context.Background(), caller, createCourseReq("CS201"))
	if err != nil {
		t.Fatalf("CreateCourse failed: %v", err)
	}

	if err := svc.DeleteCourse(context.Background(), caller, course.ID); err != nil {
		t.Fatalf("DeleteCourse failed: %v", err)
	}

	err = svc.DeleteCourse(context.Background(), caller, course.ID)
	if !errors.Is(err, apperrors.ErrCourseNotFound) {
		t.Fatalf("expected not found on repeated delete, got %v", err)
	}
}

func TestEnrollOncePerUser(t *testing.T) {
	svc, _, users := newCourseServiceForTest()
	instructor := users.mustAddUser("Ada", "ada@school.edu", "x", models.RoleInstructor)
	student := users.mustAddUser("Stu", "stu@school.edu", "x", models.RoleStudent)

	course, err := svc.CreateCourse(context.Background(), models.Caller{ID: instructor.ID, Role: models.RoleInstructor}, createCourseReq("CS201"))
	if err != nil {
		t.Fatalf("CreateCourse failed: %v", err)
	}

	studentCaller := models.Caller{ID: student.ID, Role: models.RoleStudent}
	if err := svc.Enroll(context.Background(), studentCaller, course.ID); err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}

	err = svc.Enroll(context.Background(), studentCaller, course.ID)
	if !errors.Is(err, apperrors.ErrAlreadyEnrolled) {
		t.Fatalf("expected already enrolled, got %v", err)
	}

	got, err := svc.GetCourse(context.Background(), course.ID)
	if err != nil {
		t.Fatalf("GetCourse failed: %v", err)
	}
	if len(got.Enrollments) != 1 {
		t.Fatalf("expected 1 enrollment, got %d", len(got.Enrollments))
	}
	e := got.Enrollments[0]
	if e.UserID != student.ID || e.Role != models.EnrollmentRoleStudent {
		t.Errorf("unexpected enrollment: %+v", e)
	}
	if e.User == nil || e.User.Email != "stu@school.edu" {
		t.Errorf("expected enrollment user reference populated, got %+v", e.User)
	}
}

func TestEnrollMissingCourse(t *testing.T) {
	svc, _, users := newCourseServiceForTest()
	student := users.mustAddUser("Stu", "stu@school.edu", "x", models.RoleStudent)

	err := svc.Enroll(context.Background(), models.Caller{ID: student.ID, Role: models.RoleStudent}, 12345)
	if !errors.Is(err, apperrors.ErrCourseNotFound) {
		t.Fatalf("expected course not found, got %v", err)
	}
}

func TestAddModuleAppends(t *testing.T) {
	svc, _, users := newCourseServiceForTest()
	instructor := users.mustAddUser("Ada", "ada@school.edu", "x", models.RoleInstructor)
	caller := models.Caller{ID: instructor.ID, Role: models.RoleInstructor}

	course, err := svc.CreateCourse(context.Background(), caller, createCourseReq("CS201"))
	if err != nil {
		t.Fatalf("CreateCourse failed: %v", err)
	}

	first, err := svc.AddModule(context.Background(), caller, course.ID, dto.AddModuleRequest{Title: "Week 1"})
	if err != nil {
		t.Fatalf("AddModule failed: %v", err)
	}
	second, err := svc.AddModule(context.Background(), caller, course.ID, dto.AddModuleRequest{Title: "Week 2"})
	if err != nil {
		t.Fatalf("AddModule failed: %v", err)
	}
	if first.ID == "" || first.ID == second.ID {
		t.Errorf("expected distinct module ids, got %q and %q", first.ID, second.ID)
	}

	got, err := svc.GetCourse(context.Background(), course.ID)
	if err != nil {
		t.Fatalf("GetCourse failed: %v", err)
	}
	if len(got.Modules) != 2 || got.Modules[0].Title != "Week 1" || got.Modules[1].Title != "Week 2" {
		t.Fatalf("expected modules appended in order, got %+v", got.Modules)
	}
}

func TestAddItemToMissingModule(t *testing.T) {
	svc, _, users := newCourseServiceForTest()
	instructor := users.mustAddUser("Ada", "ada@school.edu", "x", models.RoleInstructor)
	caller := models.Caller{ID: instructor.ID, Role: models.RoleInstructor}

	course, err := svc.CreateCourse(context.Background(), caller, createCourseReq("CS201"))
	if err != nil {
		t.Fatalf("CreateCourse failed: %v", err)
	}

	_, err = svc.AddItem(context.Background(), caller, course.ID, "no-such-module", dto.AddItemRequest{
		Type:  models.ItemTypeQuiz,
		Title: "Quiz 1",
	})
	if !errors.Is(err, apperrors.ErrModuleNotFound) {
		t.Fatalf("expected module not found, got %v", err)
	}
}

func TestAddItemAdminNotAllowed(t *testing.T) {
	svc, _, users := newCourseServiceForTest()
	instructor := users.mustAddUser("Ada", "ada@school.edu", "x", models.RoleInstructor)
	caller := models.Caller{ID: instructor.ID, Role: models.RoleInstructor}

	course, err := svc.CreateCourse(context.Background(), caller, createCourseReq("CS201"))
	if err != nil {
		t.Fatalf("CreateCourse failed: %v", err)
	}
	module, err := svc.AddModule(context.Background(), caller, course.ID, dto.AddModuleRequest{Title: "Week 1"})
	if err != nil {
		t.Fatalf("AddModule failed: %v", err)
	}

	// Item mutation is owner-only; the admin role carries no override
	_, err = svc.AddItem(context.Background(), models.Caller{ID: 99, Role: models.RoleAdmin}, course.ID, module.ID, dto.AddItemRequest{
		Type:  models.ItemTypeFile,
		Title: "Syllabus",
	})
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("expected permission denied for admin, got %v", err)
	}
}

func TestListCoursesFilters(t *testing.T) {
	svc, _, users := newCourseServiceForTest()
	ada := users.mustAddUser("Ada", "ada@school.edu", "x", models.RoleInstructor)
	bob := users.mustAddUser("Bob", "bob@school.edu", "x", models.RoleInstructor)

	adaCaller := models.Caller{ID: ada.ID, Role: models.RoleInstructor}
	bobCaller := models.Caller{ID: bob.ID, Role: models.RoleInstructor}

	if _, err := svc.CreateCourse(context.Background(), adaCaller, createCourseReq("CS201")); err != nil {
		t.Fatalf("CreateCourse failed: %v", err)
	}
	req := createCourseReq("MATH101")
	req.Name = "Calculus"
	if _, err := svc.CreateCourse(context.Background(), bobCaller, req); err != nil {
		t.Fatalf("CreateCourse failed: %v", err)
	}

	byInstructor, err := svc.ListCourses(context.Background(), dto.CourseFilter{InstructorID: ada.ID})
	if err != nil {
		t.Fatalf("ListCourses failed: %v", err)
	}
	if len(byInstructor) != 1 || byInstructor[0].Code != "CS201" {
		t.Errorf("instructor filter: expected only CS201, got %+v", byInstructor)
	}

	bySearch, err := svc.ListCourses(context.Background(), dto.CourseFilter{Search: "calc"})
	if err != nil {
		t.Fatalf("ListCourses failed: %v", err)
	}
	if len(bySearch) != 1 || bySearch[0].Code != "MATH101" {
		t.Errorf("search filter: expected only MATH101, got %+v", bySearch)
	}
}

func TestListCoursesForUserCoversBothRoles(t *testing.T) {
	svc, _, users := newCourseServiceForTest()
	ada := users.mustAddUser("Ada", "ada@school.edu", "x", models.RoleInstructor)
	stu := users.mustAddUser("Stu", "stu@school.edu", "x", models.RoleStudent)

	adaCaller := models.Caller{ID: ada.ID, Role: models.RoleInstructor}
	taught, err := svc.CreateCourse(context.Background(), adaCaller, createCourseReq("CS201"))
	if err != nil {
		t.Fatalf("CreateCourse failed: %v", err)
	}

	stuCaller := models.Caller{ID: stu.ID, Role: models.RoleStudent}
	if err := svc.Enroll(context.Background(), stuCaller, taught.ID); err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}

	mineAda, err := svc.ListCoursesForUser(context.Background(), adaCaller)
	if err != nil {
		t.Fatalf("ListCoursesForUser failed: %v", err)
	}
	mineStu, err := svc.ListCoursesForUser(context.Background(), stuCaller)
	if err != nil {
		t.Fatalf("ListCoursesForUser failed: %v", err)
	}

	if len(mineAda) != 1 || len(mineStu) != 1 {
		t.Fatalf("expected both users to see the course, got %d/%d", len(mineAda), len(mineStu))
	}
}
