package validation

import (
	"regexp"
	"strings"
)

// Validation rule patterns
var (
	// Email validation pattern
	EmailPattern = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`

	// Course code pattern - letters followed by digits, e.g. CS201
	CourseCodePattern = `^[A-Za-z]{2,8}[0-9]{2,4}$`

	// Password min length
	PasswordMinLength = 8

	// Name validation min/max length
	NameMinLength = 2
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email      *regexp.Regexp
	CourseCode *regexp.Regexp
}{
	Email:      regexp.MustCompile(EmailPattern),
	CourseCode: regexp.MustCompile(CourseCodePattern),
}

// IsValidEmail reports whether the value looks like an email address.
func IsValidEmail(value string) bool {
	return CompiledPatterns.Email.MatchString(strings.TrimSpace(value))
}

// IsValidCourseCode reports whether the value is an acceptable course code.
func IsValidCourseCode(value string) bool {
	return CompiledPatterns.CourseCode.MatchString(strings.TrimSpace(value))
}

// IsValidName reports whether a display name is within bounds.
func IsValidName(value string) bool {
	n := len(strings.TrimSpace(value))
	return n >= NameMinLength && n <= NameMaxLength
}
