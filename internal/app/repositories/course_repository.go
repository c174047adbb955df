package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oguzk/classhub/internal/app/models"
	"github.com/oguzk/classhub/internal/db"
	"github.com/oguzk/classhub/internal/pkg/apperrors"
	"github.com/oguzk/classhub/internal/pkg/dberrors"
	"github.com/oguzk/classhub/internal/pkg/logger"
)

// courseColumns are the columns scanned into a course aggregate, with the
// instructor reference joined in.
const courseColumns = `
	c.id, c.name, c.code, c.description, c.instructor_id,
	c.start_date, c.end_date, c.status, c.modules, c.enrollments, c.created_at,
	u.id, u.name, u.email
`

// CourseRepository stores course aggregates: one row per course, modules and
// enrollments embedded as JSONB so the aggregate is read and written as a unit.
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var course models.Course
	var instructor models.UserRef

	err := row.Scan(
		&course.ID,
		&course.Name,
		&course.Code,
		&course.Description,
		&course.InstructorID,
		&course.StartDate,
		&course.EndDate,
		&course.Status,
		&course.Modules,
		&course.Enrollments,
		&course.CreatedAt,
		&instructor.ID,
		&instructor.Name,
		&instructor.Email,
	)
	if err != nil {
		return nil, err
	}

	course.Instructor = &instructor
	if course.Modules == nil {
		course.Modules = []models.Module{}
	}
	if course.Enrollments == nil {
		course.Enrollments = []models.Enrollment{}
	}
	return &course, nil
}

// Create inserts a new course aggregate and fills in its id and timestamp.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	modulesJSON, err := json.Marshal(course.Modules)
	if err != nil {
		return fmt.Errorf("failed to encode modules: %w", err)
	}
	enrollmentsJSON, err := json.Marshal(course.Enrollments)
	if err != nil {
		return fmt.Errorf("failed to encode enrollments: %w", err)
	}

	query := `
		INSERT INTO courses (name, code, description, instructor_id, start_date, end_date, status, modules, enrollments)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err = r.db.QueryRow(ctx, query,
		course.Name, course.Code, course.Description, course.InstructorID,
		course.StartDate, course.EndDate, course.Status, modulesJSON, enrollmentsJSON,
	).Scan(&course.ID, &course.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_code_key") {
			return apperrors.ErrCourseCodeExists
		}
		return fmt.Errorf("error creating course: %w", err)
	}

	return nil
}

// GetByID retrieves a course aggregate with its instructor reference resolved.
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM courses c
		JOIN users u ON u.id = c.instructor_id
		WHERE c.id = $1
	`

	course, err := scanCourse(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	return course, nil
}

// List retrieves courses matching the filter, newest first. Status and
// instructor are equality filters; search is a case-insensitive substring
// match over name and code.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]*models.Course, error) {
	builder := r.sb.Select(
		"c.id", "c.name", "c.code", "c.description", "c.instructor_id",
		"c.start_date", "c.end_date", "c.status", "c.modules", "c.enrollments", "c.created_at",
		"u.id", "u.name", "u.email",
	).
		From("courses c").
		Join("users u ON u.id = c.instructor_id").
		OrderBy("c.created_at DESC")

	if filter.Status != "" {
		builder = builder.Where(squirrel.Eq{"c.status": filter.Status})
	}
	if filter.InstructorID > 0 {
		builder = builder.Where(squirrel.Eq{"c.instructor_id": filter.InstructorID})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"c.name": pattern},
			squirrel.ILike{"c.code": pattern},
		})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build course list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}

// ListForUser retrieves courses where the user is the instructor or appears
// in the enrollment set.
func (r *CourseRepository) ListForUser(ctx context.Context, userID int64) ([]*models.Course, error) {
	member, err := json.Marshal([]map[string]int64{{"userId": userID}})
	if err != nil {
		return nil, fmt.Errorf("failed to encode enrollment probe: %w", err)
	}

	query := `
		SELECT ` + courseColumns + `
		FROM courses c
		JOIN users u ON u.id = c.instructor_id
		WHERE c.instructor_id = $1 OR c.enrollments @> $2
		ORDER BY c.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID, member)
	if err != nil {
		return nil, fmt.Errorf("error listing user courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}

// Update applies a field-level merge: only fields present in the patch are
// written. Submitting modules replaces the whole sequence.
func (r *CourseRepository) Update(ctx context.Context, id int64, patch models.CoursePatch) (*models.Course, error) {
	builder := r.sb.Update("courses").Where(squirrel.Eq{"id": id})

	changed := false
	if patch.Name != nil {
		builder = builder.Set("name", *patch.Name)
		changed = true
	}
	if patch.Code != nil {
		builder = builder.Set("code", *patch.Code)
		changed = true
	}
	if patch.Description != nil {
		builder = builder.Set("description", *patch.Description)
		changed = true
	}
	if patch.StartDate != nil {
		builder = builder.Set("start_date", *patch.StartDate)
		changed = true
	}
	if patch.EndDate != nil {
		builder = builder.Set("end_date", *patch.EndDate)
		changed = true
	}
	if patch.Status != nil {
		builder = builder.Set("status", *patch.Status)
		changed = true
	}
	if patch.Modules != nil {
		modulesJSON, err := json.Marshal(*patch.Modules)
		if err != nil {
			return nil, fmt.Errorf("failed to encode modules: %w", err)
		}
		builder = builder.Set("modules", modulesJSON)
		changed = true
	}

	if !changed {
		// Nothing to merge, return the stored aggregate
		return r.GetByID(ctx, id)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build course update query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_code_key") {
			return nil, apperrors.ErrCourseCodeExists
		}
		return nil, fmt.Errorf("error updating course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return nil, apperrors.ErrCourseNotFound
	}

	return r.GetByID(ctx, id)
}

// Delete removes a course row; the embedded modules, items and enrollments
// go with it.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// AppendEnrollment appends an enrollment to the aggregate in one statement,
// guarded so a user can never appear twice even under concurrent requests.
func (r *CourseRepository) AppendEnrollment(ctx context.Context, courseID int64, enrollment models.Enrollment) error {
	entry, err := json.Marshal(enrollment)
	if err != nil {
		return fmt.Errorf("failed to encode enrollment: %w", err)
	}
	probe, err := json.Marshal([]map[string]int64{{"userId": enrollment.UserID}})
	if err != nil {
		return fmt.Errorf("failed to encode enrollment probe: %w", err)
	}

	query := `
		UPDATE courses
		SET enrollments = enrollments || $2::jsonb
		WHERE id = $1 AND NOT enrollments @> $3::jsonb
	`

	cmdTag, err := r.db.Exec(ctx, query, courseID, entry, probe)
	if err != nil {
		return fmt.Errorf("error appending enrollment: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		// Either the course is gone or the user is already enrolled
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM courses WHERE id = $1)`, courseID).Scan(&exists); err != nil {
			return fmt.Errorf("error checking course existence: %w", err)
		}
		if !exists {
			return apperrors.ErrCourseNotFound
		}
		return apperrors.ErrAlreadyEnrolled
	}

	return nil
}

// AppendModule appends a module to the aggregate in one statement.
func (r *CourseRepository) AppendModule(ctx context.Context, courseID int64, module models.Module) error {
	entry, err := json.Marshal(module)
	if err != nil {
		return fmt.Errorf("failed to encode module: %w", err)
	}

	query := `
		UPDATE courses
		SET modules = modules || jsonb_build_array($2::jsonb)
		WHERE id = $1
	`

	cmdTag, err := r.db.Exec(ctx, query, courseID, entry)
	if err != nil {
		return fmt.Errorf("error appending module: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// MutateModules runs a read-modify-write cycle over the embedded module tree
// inside a transaction, holding a row lock so concurrent nested mutations
// interleave safely instead of overwriting each other.
func (r *CourseRepository) MutateModules(ctx context.Context, courseID int64, mutate func(modules []models.Module) ([]models.Module, error)) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var modules []models.Module
		err := tx.QueryRow(ctx, `SELECT modules FROM courses WHERE id = $1 FOR UPDATE`, courseID).Scan(&modules)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrCourseNotFound
			}
			return fmt.Errorf("error loading modules: %w", err)
		}

		mutated, err := mutate(modules)
		if err != nil {
			return err
		}

		modulesJSON, err := json.Marshal(mutated)
		if err != nil {
			return fmt.Errorf("failed to encode modules: %w", err)
		}

		if _, err := tx.Exec(ctx, `UPDATE courses SET modules = $2 WHERE id = $1`, courseID, modulesJSON); err != nil {
			logger.Error().Err(err).Int64("courseID", courseID).Msg("Error writing mutated modules")
			return fmt.Errorf("error writing modules: %w", err)
		}

		return nil
	})
}
