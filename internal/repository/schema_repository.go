package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Table names of the normalized schema.
const (
	TableStudent    = "student"
	TableTeacher    = "teacher"
	TableCourse     = "course"
	TableEnrollment = "enrollment"
)

// dropOrder removes the referencing table before the tables it references;
// createOrder is the reverse, so every referenced table exists first.
var dropOrder = []string{TableEnrollment, TableCourse, TableTeacher, TableStudent}

// SchemaRepository owns the lifetime of the four normalized tables.
type SchemaRepository struct {
	db     *sqlx.DB
	driver string
}

// NewSchemaRepository constructs the repository. The DDL dialect follows the
// connection's driver.
func NewSchemaRepository(db *sqlx.DB) *SchemaRepository {
	return &SchemaRepository{db: db, driver: db.DriverName()}
}

// Reset drops and recreates the normalized schema in one transaction.
// This is a full rebuild: any prior data at the target is destroyed.
func (r *SchemaRepository) Reset(ctx context.Context) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema reset: %w", err)
	}

	for _, table := range dropOrder {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("drop table %s: %w", table, err)
		}
	}

	for _, stmt := range createStatements(r.driver) {
		if _, err := tx.ExecContext(ctx, stmt.ddl); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("create table %s: %w", stmt.table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema reset: %w", err)
	}
	return nil
}

type createStatement struct {
	table string
	ddl   string
}

func createStatements(driver string) []createStatement {
	surrogate := "INTEGER PRIMARY KEY"
	if driver == "postgres" {
		surrogate = "INTEGER GENERATED ALWAYS AS IDENTITY PRIMARY KEY"
	}

	// The composite enrollment identity includes the nullable teacher_id.
	// SQLite accepts a nullable column inside a composite PRIMARY KEY;
	// Postgres does not, so there it is declared as a unique index instead
	// to keep ON DELETE SET NULL possible.
	enrollmentIdentity := "PRIMARY KEY (student_id, course_id, teacher_id)"
	if driver == "postgres" {
		enrollmentIdentity = "UNIQUE (student_id, course_id, teacher_id)"
	}

	return []createStatement{
		{TableStudent, fmt.Sprintf(`CREATE TABLE %s (
    student_id %s,
    student_name TEXT NOT NULL,
    student_email TEXT NOT NULL UNIQUE
)`, TableStudent, surrogate)},
		{TableTeacher, fmt.Sprintf(`CREATE TABLE %s (
    teacher_id %s,
    teacher_name TEXT NOT NULL,
    teacher_email TEXT NOT NULL UNIQUE
)`, TableTeacher, surrogate)},
		{TableCourse, fmt.Sprintf(`CREATE TABLE %s (
    course_id %s,
    course_name TEXT NOT NULL,
    course_code INTEGER NOT NULL UNIQUE,
    course_schedule TEXT,
    course_location TEXT
)`, TableCourse, surrogate)},
		{TableEnrollment, fmt.Sprintf(`CREATE TABLE %s (
    student_id INTEGER NOT NULL REFERENCES %s (student_id) ON DELETE CASCADE ON UPDATE CASCADE,
    course_id INTEGER NOT NULL REFERENCES %s (course_id) ON DELETE CASCADE ON UPDATE CASCADE,
    teacher_id INTEGER REFERENCES %s (teacher_id) ON DELETE SET NULL ON UPDATE CASCADE,
    %s
)`, TableEnrollment, TableStudent, TableCourse, TableTeacher, enrollmentIdentity)},
	}
}
