package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	internalErrors "github.com/gcbaptista/course-search/internal/errors"
	"github.com/gcbaptista/course-search/model"
)

// valueTable is a child table holding one ordered string list of a course.
type valueTable struct {
	name   string
	get    func(c *model.Course) []string
	append func(c *model.Course, v string)
}

var valueTables = []valueTable{
	{"course_codes", func(c *model.Course) []string { return c.Codes }, func(c *model.Course, v string) { c.Codes = append(c.Codes, v) }},
	{"course_divisions", func(c *model.Course) []string { return c.Divisions }, func(c *model.Course, v string) { c.Divisions = append(c.Divisions, v) }},
	{"course_keywords", func(c *model.Course) []string { return c.Keywords }, func(c *model.Course, v string) { c.Keywords = append(c.Keywords, v) }},
	{"course_professors", func(c *model.Course) []string { return c.Professors }, func(c *model.Course, v string) { c.Professors = append(c.Professors, v) }},
}

// UpsertCourses inserts new courses at the end of the catalog and overwrites
// existing ones in place. It returns how many courses were new.
func (db *DB) UpsertCourses(ctx context.Context, courses []model.Course) (int, error) {
	var added int
	err := db.Transaction(ctx, func(tx *sql.Tx) error {
		var err error
		added, err = upsertCourses(ctx, tx, courses)
		return err
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// ReplaceCourses deletes the whole catalog and stores courses in its place.
func (db *DB) ReplaceCourses(ctx context.Context, courses []model.Course) error {
	return db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM courses`); err != nil {
			return fmt.Errorf("failed to clear catalog: %w", err)
		}
		_, err := upsertCourses(ctx, tx, courses)
		return err
	})
}

func upsertCourses(ctx context.Context, tx *sql.Tx, courses []model.Course) (int, error) {
	var next int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), -1) + 1 FROM courses`).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to read catalog position: %w", err)
	}

	now := time.Now().UTC()
	added := 0
	for i := range courses {
		c := &courses[i]
		if c.ID == "" {
			return 0, internalErrors.NewValidationError("id", "course id cannot be empty")
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE courses SET name = ?, description = ?, half_credit = ?, updated_at = ?
			WHERE id = ?
		`, c.Name, c.Description, c.HalfCredit, now, c.ID)
		if err != nil {
			return 0, fmt.Errorf("failed to update course %s: %w", c.ID, err)
		}

		if rows, _ := result.RowsAffected(); rows == 0 {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO courses (id, name, description, half_credit, position, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, c.ID, c.Name, c.Description, c.HalfCredit, next, now, now)
			if err != nil {
				return 0, fmt.Errorf("failed to insert course %s: %w", c.ID, err)
			}
			next++
			added++
		}

		if err := replaceChildren(ctx, tx, c); err != nil {
			return 0, fmt.Errorf("failed to store attributes of course %s: %w", c.ID, err)
		}
	}
	return added, nil
}

func replaceChildren(ctx context.Context, tx *sql.Tx, c *model.Course) error {
	for _, t := range valueTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+t.name+" WHERE course_id = ?", c.ID); err != nil {
			return err
		}
		for pos, v := range t.get(c) {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO "+t.name+" (course_id, position, value) VALUES (?, ?, ?)",
				c.ID, pos, v,
			); err != nil {
				return err
			}
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM course_departments WHERE course_id = ?`, c.ID); err != nil {
		return err
	}
	for pos, d := range c.Departments {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO course_departments (course_id, position, name, code) VALUES (?, ?, ?, ?)`,
			c.ID, pos, d.Name, d.Code,
		); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM course_sections WHERE course_id = ?`, c.ID); err != nil {
		return err
	}
	for pos, s := range c.Sections {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO course_sections (course_id, position, number, location) VALUES (?, ?, ?, ?)`,
			c.ID, pos, s.Number, s.Location,
		); err != nil {
			return err
		}
	}
	return nil
}

// ListCourses returns the whole catalog in catalog order
func (db *DB) ListCourses(ctx context.Context) ([]model.Course, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, description, half_credit FROM courses ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	courses := make([]model.Course, 0)
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.HalfCredit); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	_ = rows.Close()

	byID := make(map[string]*model.Course, len(courses))
	for i := range courses {
		byID[courses[i].ID] = &courses[i]
	}
	if err := db.loadChildren(ctx, "", nil, byID); err != nil {
		return nil, err
	}
	return courses, nil
}

// GetCourse retrieves a course by ID
func (db *DB) GetCourse(ctx context.Context, id string) (*model.Course, error) {
	c := &model.Course{}
	err := db.QueryRowContext(ctx, `
		SELECT id, name, description, half_credit FROM courses WHERE id = ?
	`, id).Scan(&c.ID, &c.Name, &c.Description, &c.HalfCredit)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, internalErrors.NewCourseNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course %s: %w", id, err)
	}

	byID := map[string]*model.Course{c.ID: c}
	if err := db.loadChildren(ctx, " WHERE course_id = ?", []interface{}{id}, byID); err != nil {
		return nil, err
	}
	return c, nil
}

// loadChildren fills the list attributes of the courses in byID. where narrows
// every child query with the same clause and args.
func (db *DB) loadChildren(ctx context.Context, where string, args []interface{}, byID map[string]*model.Course) error {
	for _, t := range valueTables {
		query := "SELECT course_id, value FROM " + t.name + where + " ORDER BY course_id, position"
		err := db.scanChildren(ctx, query, args, func(rows *sql.Rows) error {
			var courseID, value string
			if err := rows.Scan(&courseID, &value); err != nil {
				return err
			}
			if c, ok := byID[courseID]; ok {
				t.append(c, value)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", strings.TrimPrefix(t.name, "course_"), err)
		}
	}

	err := db.scanChildren(ctx,
		"SELECT course_id, name, code FROM course_departments"+where+" ORDER BY course_id, position", args,
		func(rows *sql.Rows) error {
			var courseID string
			var d model.Department
			if err := rows.Scan(&courseID, &d.Name, &d.Code); err != nil {
				return err
			}
			if c, ok := byID[courseID]; ok {
				c.Departments = append(c.Departments, d)
			}
			return nil
		})
	if err != nil {
		return fmt.Errorf("failed to load departments: %w", err)
	}

	err = db.scanChildren(ctx,
		"SELECT course_id, number, location FROM course_sections"+where+" ORDER BY course_id, position", args,
		func(rows *sql.Rows) error {
			var courseID string
			var s model.Section
			if err := rows.Scan(&courseID, &s.Number, &s.Location); err != nil {
				return err
			}
			if c, ok := byID[courseID]; ok {
				c.Sections = append(c.Sections, s)
			}
			return nil
		})
	if err != nil {
		return fmt.Errorf("failed to load sections: %w", err)
	}
	return nil
}

func (db *DB) scanChildren(ctx context.Context, query string, args []interface{}, scan func(*sql.Rows) error) error {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// DeleteCourse removes a course and its attributes
func (db *DB) DeleteCourse(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete course %s: %w", id, err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return internalErrors.NewCourseNotFoundError(id)
	}
	return nil
}

// CountCourses returns the catalog size
func (db *DB) CountCourses(ctx context.Context) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}
	return count, nil
}
