package dto

import (
	"encoding/json"
	"time"

	"github.com/oguzk/classhub/internal/app/models"
)

// CreateCourseRequest carries the fields needed to create a course.
// Status is not accepted: creation always yields an active course.
type CreateCourseRequest struct {
	Name        string    `json:"name" binding:"required" example:"Algorithms"`
	Code        string    `json:"code" binding:"required" example:"CS201"`
	Description string    `json:"description" binding:"required" example:"Design and analysis of algorithms"`
	StartDate   time.Time `json:"startDate" binding:"required" example:"2024-01-01T00:00:00Z"`
	EndDate     time.Time `json:"endDate" binding:"required" example:"2024-05-01T00:00:00Z"`
}

// UpdateCourseRequest is a shallow field-merge patch: only fields present in
// the request are written, the rest keep their stored values. Submitting
// modules replaces the whole sequence.
type UpdateCourseRequest struct {
	Name        *string              `json:"name,omitempty"`
	Code        *string              `json:"code,omitempty"`
	Description *string              `json:"description,omitempty"`
	StartDate   *time.Time           `json:"startDate,omitempty"`
	EndDate     *time.Time           `json:"endDate,omitempty"`
	Status      *models.CourseStatus `json:"status,omitempty" binding:"omitempty,oneof=active archived draft"`
	Modules     *[]models.Module     `json:"modules,omitempty"`
}

// CourseFilter holds the optional query filters for course listing
type CourseFilter struct {
	Status       string `form:"status" binding:"omitempty,oneof=active archived draft"`
	InstructorID int64  `form:"instructor"`
	Search       string `form:"search"` // Case-insensitive substring match on name/code
}

// AddModuleRequest appends a module to a course server-side, so clients no
// longer resubmit the full modules tree to add one module.
type AddModuleRequest struct {
	Title       string `json:"title" binding:"required" example:"Week 1"`
	Description string `json:"description" example:"Introduction and course logistics"`
}

// AddItemRequest appends an item of any type to a module.
type AddItemRequest struct {
	Type        models.ItemType `json:"type" binding:"required,oneof=assignment quiz file discussion"`
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Content     json.RawMessage `json:"content,omitempty" swaggertype:"object"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	Points      *float64        `json:"points,omitempty" binding:"omitempty,gte=0"`
}
