package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent    RoleType = "student"
	RoleInstructor RoleType = "instructor"
	RoleAdmin      RoleType = "admin"
)

// CourseStatus represents the lifecycle state of a course
type CourseStatus string

const (
	CourseStatusActive   CourseStatus = "active"
	CourseStatusArchived CourseStatus = "archived"
	CourseStatusDraft    CourseStatus = "draft"
)

// ItemType represents the kind of content an item carries
type ItemType string

const (
	ItemTypeAssignment ItemType = "assignment"
	ItemTypeQuiz       ItemType = "quiz"
	ItemTypeFile       ItemType = "file"
	ItemTypeDiscussion ItemType = "discussion"
)

// EnrollmentRole represents a user's role within a course
type EnrollmentRole string

const (
	EnrollmentRoleStudent EnrollmentRole = "student"
	EnrollmentRoleTA      EnrollmentRole = "ta"
)

// Caller is the authenticated identity resolved per request by the JWT
// middleware. Services trust it; token validation happens at the boundary.
type Caller struct {
	ID   int64
	Role RoleType
}
