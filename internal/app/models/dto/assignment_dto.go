package dto

import (
	"encoding/json"
	"time"
)

// AssignmentView is the flattened listing entry for an assignment item,
// tagged with the title of the module it belongs to.
type AssignmentView struct {
	ID          string     `json:"id"`
	Title       string     `json:"title" example:"HW1"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Points      *float64   `json:"points,omitempty" example:"10"`
	ModuleTitle string     `json:"moduleTitle" example:"Week 1"`
}

// CreateAssignmentRequest addresses the target module in the body, the way
// the client submits it.
type CreateAssignmentRequest struct {
	CourseID    int64      `json:"courseId" binding:"required"`
	ModuleID    string     `json:"moduleId" binding:"required"`
	Title       string     `json:"title" binding:"required" example:"HW1"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Points      *float64   `json:"points,omitempty" binding:"omitempty,gte=0"`
}

// UpdateAssignmentRequest is a partial update: zero-valued fields keep the
// stored values.
type UpdateAssignmentRequest struct {
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Points      *float64   `json:"points,omitempty" binding:"omitempty,gte=0"`
}

// SubmitAssignmentRequest carries an opaque submission payload. Submissions
// are acknowledged but not persisted; there is no submission entity yet.
type SubmitAssignmentRequest struct {
	Submission json.RawMessage `json:"submission,omitempty" swaggertype:"object"`
}

// GradeAssignmentRequest carries the grade an instructor assigns. Grades are
// acknowledged but not persisted; there is no grade entity yet.
type GradeAssignmentRequest struct {
	Grade    *float64 `json:"grade,omitempty" binding:"omitempty,gte=0"`
	Feedback string   `json:"feedback,omitempty"`
}
