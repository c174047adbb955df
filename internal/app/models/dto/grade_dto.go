package dto

import "time"

// GradeEntry is a grade line in a course grade listing. Grades are not
// persisted yet, so listings currently come back empty; the shape is fixed
// so clients can already code against it.
type GradeEntry struct {
	AssignmentID string    `json:"assignmentId"`
	StudentID    int64     `json:"studentId"`
	Grade        float64   `json:"grade"`
	Feedback     string    `json:"feedback,omitempty"`
	GradedAt     time.Time `json:"gradedAt"`
}
