package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/oguzk/classhub/internal/app/auth"
	"github.com/oguzk/classhub/internal/app/models"
	"github.com/oguzk/classhub/internal/app/models/dto"
	"github.com/oguzk/classhub/internal/pkg/apperrors"
	"github.com/oguzk/classhub/internal/pkg/logger"
)

// AssignmentService handles assignment items embedded in course modules.
// An item of a different type at the addressed position counts as absent.
type AssignmentService struct {
	courses CourseStore
}

// NewAssignmentService creates a new AssignmentService
func NewAssignmentService(courses CourseStore) *AssignmentService {
	return &AssignmentService{courses: courses}
}

// ListAssignments flattens the assignment items of the course across its
// modules, in module order, each tagged with its module title.
func (s *AssignmentService) ListAssignments(ctx context.Context, courseID int64) ([]dto.AssignmentView, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	views := []dto.AssignmentView{}
	for i := range course.Modules {
		module := &course.Modules[i]
		for j := range module.Items {
			item := &module.Items[j]
			if item.Type != models.ItemTypeAssignment {
				continue
			}
			views = append(views, dto.AssignmentView{
				ID:          item.ID,
				Title:       item.Title,
				Description: item.Description,
				DueDate:     item.DueDate,
				Points:      item.Points,
				ModuleTitle: module.Title,
			})
		}
	}

	return views, nil
}

// CreateAssignment appends an assignment item to the addressed module.
func (s *AssignmentService) CreateAssignment(ctx context.Context, caller models.Caller, req dto.CreateAssignmentRequest) (*models.Item, error) {
	course, err := s.courses.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}

	if !auth.CanMutateAssignment(caller, course) {
		return nil, apperrors.NewForbiddenError("only the course instructor can create assignments")
	}

	item := models.Item{
		ID:          uuid.New().String(),
		Type:        models.ItemTypeAssignment,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Points:      req.Points,
	}

	err = s.courses.MutateModules(ctx, req.CourseID, func(modules []models.Module) ([]models.Module, error) {
		for i := range modules {
			if modules[i].ID == req.ModuleID {
				modules[i].Items = append(modules[i].Items, item)
				return modules, nil
			}
		}
		return nil, apperrors.ErrModuleNotFound
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("courseID", req.CourseID).Str("assignmentID", item.ID).Msg("Assignment created")
	return &item, nil
}

// UpdateAssignment applies a partial update to an assignment. Empty or
// omitted fields keep their stored values.
func (s *AssignmentService) UpdateAssignment(ctx context.Context, caller models.Caller, courseID int64, moduleID, assignmentID string, req dto.UpdateAssignmentRequest) (*models.Item, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if !auth.CanMutateAssignment(caller, course) {
		return nil, apperrors.NewForbiddenError("only the course instructor can update assignments")
	}

	var updated models.Item
	err = s.courses.MutateModules(ctx, courseID, func(modules []models.Module) ([]models.Module, error) {
		module := findModule(modules, moduleID)
		if module == nil {
			return nil, apperrors.ErrModuleNotFound
		}

		item := module.FindItem(assignmentID)
		if item == nil || item.Type != models.ItemTypeAssignment {
			return nil, apperrors.ErrAssignmentNotFound
		}

		if req.Title != "" {
			item.Title = req.Title
		}
		if req.Description != "" {
			item.Description = req.Description
		}
		if req.DueDate != nil {
			item.DueDate = req.DueDate
		}
		if req.Points != nil {
			item.Points = req.Points
		}

		updated = *item
		return modules, nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// DeleteAssignment removes an assignment item from its module.
func (s *AssignmentService) DeleteAssignment(ctx context.Context, caller models.Caller, courseID int64, moduleID, assignmentID string) error {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return err
	}

	if !auth.CanMutateAssignment(caller, course) {
		return apperrors.NewForbiddenError("only the course instructor can delete assignments")
	}

	err = s.courses.MutateModules(ctx, courseID, func(modules []models.Module) ([]models.Module, error) {
		module := findModule(modules, moduleID)
		if module == nil {
			return nil, apperrors.ErrModuleNotFound
		}

		for i := range module.Items {
			if module.Items[i].ID == assignmentID && module.Items[i].Type == models.ItemTypeAssignment {
				module.Items = append(module.Items[:i], module.Items[i+1:]...)
				return modules, nil
			}
		}
		return nil, apperrors.ErrAssignmentNotFound
	})
	if err != nil {
		return err
	}

	logger.Info().Int64("courseID", courseID).Str("assignmentID", assignmentID).Msg("Assignment deleted")
	return nil
}

func findModule(modules []models.Module, moduleID string) *models.Module {
	for i := range modules {
		if modules[i].ID == moduleID {
			return &modules[i]
		}
	}
	return nil
}
