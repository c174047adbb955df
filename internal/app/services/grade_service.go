package services

import (
	"context"

	"github.com/oguzk/classhub/internal/app/auth"
	"github.com/oguzk/classhub/internal/app/models"
	"github.com/oguzk/classhub/internal/app/models/dto"
	"github.com/oguzk/classhub/internal/pkg/apperrors"
	"github.com/oguzk/classhub/internal/pkg/logger"
)

// GradeService handles submissions and grading. There is no submission or
// grade entity yet: operations run the full authorization and addressing
// checks, then acknowledge without persisting.
type GradeService struct {
	courses CourseStore
}

// NewGradeService creates a new GradeService
func NewGradeService(courses CourseStore) *GradeService {
	return &GradeService{courses: courses}
}

// CourseGrades lists the grades of a course for an enrolled user or the
// instructor.
func (s *GradeService) CourseGrades(ctx context.Context, caller models.Caller, courseID int64) ([]dto.GradeEntry, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if !auth.CanViewGrades(caller, course) {
		return nil, apperrors.NewForbiddenError("must be enrolled in this course to view grades")
	}

	return []dto.GradeEntry{}, nil
}

// StudentGrades lists the caller's own grades in a course.
func (s *GradeService) StudentGrades(ctx context.Context, caller models.Caller, courseID int64) ([]dto.GradeEntry, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if !auth.CanViewGrades(caller, course) {
		return nil, apperrors.NewForbiddenError("must be enrolled in this course to view grades")
	}

	return []dto.GradeEntry{}, nil
}

// SubmitAssignment accepts a submission for an assignment from an enrolled
// user.
func (s *GradeService) SubmitAssignment(ctx context.Context, caller models.Caller, courseID int64, moduleID, assignmentID string, req dto.SubmitAssignmentRequest) error {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return err
	}

	if err := findAssignment(course, moduleID, assignmentID); err != nil {
		return err
	}

	if !auth.IsEnrolled(caller, course) {
		return apperrors.NewForbiddenError("must be enrolled in this course to submit")
	}

	logger.Info().
		Int64("courseID", courseID).
		Str("assignmentID", assignmentID).
		Int64("userID", caller.ID).
		Msg("Submission received")
	return nil
}

// GradeAssignment records a grade from the course instructor for an enrolled
// student.
func (s *GradeService) GradeAssignment(ctx context.Context, caller models.Caller, courseID int64, moduleID, assignmentID string, studentID int64, req dto.GradeAssignmentRequest) error {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return err
	}

	if !auth.CanMutateAssignment(caller, course) {
		return apperrors.NewForbiddenError("only the course instructor can grade assignments")
	}

	if err := findAssignment(course, moduleID, assignmentID); err != nil {
		return err
	}

	if !course.HasEnrollment(studentID) {
		return apperrors.ErrNotEnrolled
	}

	logger.Info().
		Int64("courseID", courseID).
		Str("assignmentID", assignmentID).
		Int64("studentID", studentID).
		Msg("Grade recorded")
	return nil
}

// findAssignment checks that the addressed assignment exists; any other item
// type at that position counts as absent.
func findAssignment(course *models.Course, moduleID, assignmentID string) error {
	module := course.FindModule(moduleID)
	if module == nil {
		return apperrors.ErrModuleNotFound
	}

	item := module.FindItem(assignmentID)
	if item == nil || item.Type != models.ItemTypeAssignment {
		return apperrors.ErrAssignmentNotFound
	}

	return nil
}
