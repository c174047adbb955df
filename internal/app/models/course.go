package models

import (
	"encoding/json"
	"time"
)

// Course is the aggregate root: modules, items and enrollments are embedded
// in the course row and persisted together as one unit.
type Course struct {
	ID           int64        `json:"id" db:"id"`
	Name         string       `json:"name" db:"name"`
	Code         string       `json:"code" db:"code"` // Globally unique
	Description  string       `json:"description" db:"description"`
	InstructorID int64        `json:"instructorId" db:"instructor_id"` // Immutable after creation
	StartDate    time.Time    `json:"startDate" db:"start_date"`
	EndDate      time.Time    `json:"endDate" db:"end_date"`
	Status       CourseStatus `json:"status" db:"status"`
	Modules      []Module     `json:"modules" db:"modules"`
	Enrollments  []Enrollment `json:"enrollments" db:"enrollments"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	Instructor *UserRef `json:"instructor,omitempty"`
}

// Module is owned exclusively by its course and has no identity outside it.
type Module struct {
	ID          string `json:"id"` // uuid assigned on append
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Items       []Item `json:"items"`
}

// Item is owned exclusively by its module.
type Item struct {
	ID          string          `json:"id"` // uuid assigned on append
	Type        ItemType        `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Content     json.RawMessage `json:"content,omitempty"` // Opaque payload, shape depends on Type
	DueDate     *time.Time      `json:"dueDate,omitempty"` // Meaningful for assignment/quiz only
	Points      *float64        `json:"points,omitempty"`  // Meaningful for gradeable types only
}

// Enrollment records a user's membership in a course, one per user.
type Enrollment struct {
	UserID     int64          `json:"userId"`
	Role       EnrollmentRole `json:"role"`
	EnrolledAt time.Time      `json:"enrolledAt"`

	// Relation (populated when needed)
	User *UserRef `json:"user,omitempty"`
}

// CoursePatch carries the field-level merge applied by an update: nil fields
// keep their stored value, a non-nil Modules replaces the whole sequence.
type CoursePatch struct {
	Name        *string
	Code        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Status      *CourseStatus
	Modules     *[]Module
}

// CourseFilter narrows a course listing. Zero values mean "no constraint".
type CourseFilter struct {
	Status       CourseStatus
	InstructorID int64
	Search       string
}

// FindModule returns the module with the given id, or nil.
func (c *Course) FindModule(moduleID string) *Module {
	for i := range c.Modules {
		if c.Modules[i].ID == moduleID {
			return &c.Modules[i]
		}
	}
	return nil
}

// FindItem returns the item with the given id within the module, or nil.
func (m *Module) FindItem(itemID string) *Item {
	for i := range m.Items {
		if m.Items[i].ID == itemID {
			return &m.Items[i]
		}
	}
	return nil
}

// HasEnrollment reports whether the user appears in the enrollment set.
func (c *Course) HasEnrollment(userID int64) bool {
	for i := range c.Enrollments {
		if c.Enrollments[i].UserID == userID {
			return true
		}
	}
	return false
}
