package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oguzk/classhub/internal/app/auth"
	"github.com/oguzk/classhub/internal/app/models"
	"github.com/oguzk/classhub/internal/app/models/dto"
	"github.com/oguzk/classhub/internal/pkg/apperrors"
	"github.com/oguzk/classhub/internal/pkg/logger"
	"github.com/oguzk/classhub/internal/pkg/validation"
)

// CourseService handles course catalog and enrollment operations
type CourseService struct {
	courses CourseStore
	users   UserStore
}

// NewCourseService creates a new CourseService
func NewCourseService(courses CourseStore, users UserStore) *CourseService {
	return &CourseService{
		courses: courses,
		users:   users,
	}
}

// ListCourses retrieves courses matching the optional filters, newest first.
func (s *CourseService) ListCourses(ctx context.Context, filter dto.CourseFilter) ([]*models.Course, error) {
	courses, err := s.courses.List(ctx, models.CourseFilter{
		Status:       models.CourseStatus(filter.Status),
		InstructorID: filter.InstructorID,
		Search:       filter.Search,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Error listing courses")
		return nil, err
	}

	if courses == nil {
		courses = []*models.Course{}
	}
	return courses, nil
}

// GetCourse retrieves a full course aggregate with instructor and enrollment
// user references populated.
func (s *CourseService) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.populateEnrollmentUsers(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

// ListCoursesForUser retrieves courses where the caller teaches or is enrolled.
func (s *CourseService) ListCoursesForUser(ctx context.Context, caller models.Caller) ([]*models.Course, error) {
	courses, err := s.courses.ListForUser(ctx, caller.ID)
	if err != nil {
		logger.Error().Err(err).Int64("userID", caller.ID).Msg("Error listing user courses")
		return nil, err
	}

	if courses == nil {
		courses = []*models.Course{}
	}
	return courses, nil
}

// CreateCourse creates a course owned by the caller. The course always starts
// out active regardless of what the client sends.
func (s *CourseService) CreateCourse(ctx context.Context, caller models.Caller, req dto.CreateCourseRequest) (*models.Course, error) {
	if !auth.CanCreateCourse(caller) {
		return nil, apperrors.NewForbiddenError("only instructors can create courses")
	}

	if !validation.IsValidCourseCode(req.Code) {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "course code must be letters followed by digits, e.g. CS201")
	}

	course := &models.Course{
		Name:         req.Name,
		Code:         req.Code,
		Description:  req.Description,
		InstructorID: caller.ID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Status:       models.CourseStatusActive,
		Modules:      []models.Module{},
		Enrollments:  []models.Enrollment{},
	}

	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}

	instructor, err := s.users.GetByID(ctx, caller.ID)
	if err != nil {
		logger.Warn().Err(err).Int64("userID", caller.ID).Msg("Created course but could not load instructor reference")
	} else {
		course.Instructor = instructor.Ref()
	}

	logger.Info().Int64("courseID", course.ID).Str("code", course.Code).Msg("Course created")
	return course, nil
}

// UpdateCourse applies a shallow field merge to the course.
func (s *CourseService) UpdateCourse(ctx context.Context, caller models.Caller, id int64, req dto.UpdateCourseRequest) (*models.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !auth.CanMutateCourse(caller, course) {
		return nil, apperrors.NewForbiddenError("not authorized to update this course")
	}

	if req.Code != nil && !validation.IsValidCourseCode(*req.Code) {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "course code must be letters followed by digits, e.g. CS201")
	}

	updated, err := s.courses.Update(ctx, id, models.CoursePatch{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      req.Status,
		Modules:     req.Modules,
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteCourse removes the course and everything embedded in it.
func (s *CourseService) DeleteCourse(ctx context.Context, caller models.Caller, id int64) error {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !auth.CanMutateCourse(caller, course) {
		return apperrors.NewForbiddenError("not authorized to delete this course")
	}

	if err := s.courses.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info().Int64("courseID", id).Msg("Course deleted")
	return nil
}

// Enroll adds the caller to the course as a student. Enrolling twice is a
// conflict.
func (s *CourseService) Enroll(ctx context.Context, caller models.Caller, courseID int64) error {
	enrollment := models.Enrollment{
		UserID:     caller.ID,
		Role:       models.EnrollmentRoleStudent,
		EnrolledAt: time.Now().UTC(),
	}

	if err := s.courses.AppendEnrollment(ctx, courseID, enrollment); err != nil {
		return err
	}

	logger.Info().Int64("courseID", courseID).Int64("userID", caller.ID).Msg("User enrolled")
	return nil
}

// AddModule appends a module to the course. The append happens server-side
// so clients never resubmit the full module tree.
func (s *CourseService) AddModule(ctx context.Context, caller models.Caller, courseID int64, req dto.AddModuleRequest) (*models.Module, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if !auth.CanMutateCourse(caller, course) {
		return nil, apperrors.NewForbiddenError("not authorized to modify this course")
	}

	module := models.Module{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Items:       []models.Item{},
	}

	if err := s.courses.AppendModule(ctx, courseID, module); err != nil {
		return nil, err
	}

	return &module, nil
}

// AddItem appends an item of any type to a module of the course.
func (s *CourseService) AddItem(ctx context.Context, caller models.Caller, courseID int64, moduleID string, req dto.AddItemRequest) (*models.Item, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if !auth.CanMutateAssignment(caller, course) {
		return nil, apperrors.NewForbiddenError("not authorized to add items to this course")
	}

	item := models.Item{
		ID:          uuid.New().String(),
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		DueDate:     req.DueDate,
		Points:      req.Points,
	}

	err = s.courses.MutateModules(ctx, courseID, func(modules []models.Module) ([]models.Module, error) {
		for i := range modules {
			if modules[i].ID == moduleID {
				modules[i].Items = append(modules[i].Items, item)
				return modules, nil
			}
		}
		return nil, apperrors.ErrModuleNotFound
	})
	if err != nil {
		return nil, err
	}

	return &item, nil
}

// populateEnrollmentUsers resolves each enrollment's user reference.
func (s *CourseService) populateEnrollmentUsers(ctx context.Context, course *models.Course) error {
	if len(course.Enrollments) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(course.Enrollments))
	for i := range course.Enrollments {
		ids = append(ids, course.Enrollments[i].UserID)
	}

	refs, err := s.users.GetRefsByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("error populating enrollment users: %w", err)
	}

	for i := range course.Enrollments {
		course.Enrollments[i].User = refs[course.Enrollments[i].UserID]
	}

	return nil
}
