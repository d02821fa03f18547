package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/enroll-etl/internal/models"
	appErrors "github.com/noah-isme/enroll-etl/pkg/errors"
)

// LoadRepository writes one full normalized load as a single unit of work:
// entity inserts, per-record foreign-key resolution and fact inserts either
// all commit together or the store is left untouched.
type LoadRepository struct {
	db *sqlx.DB
}

// NewLoadRepository constructs the repository.
func NewLoadRepository(db *sqlx.DB) *LoadRepository {
	return &LoadRepository{db: db}
}

// Load inserts the deduplicated entity sets, then resolves every flat record
// against the surrogate keys the store assigned and writes one enrollment
// row per record. Entity inserts are visible to the lookups because all
// steps share one transaction.
func (r *LoadRepository) Load(ctx context.Context, set models.EntitySet, records []models.FlatEnrollmentRecord) (*models.LoadSummary, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.PhaseLoad, "begin load transaction")
	}

	summary, err := r.loadTx(ctx, tx, set, records)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.PhaseFacts, "commit load transaction")
	}
	return summary, nil
}

func (r *LoadRepository) loadTx(ctx context.Context, tx *sqlx.Tx, set models.EntitySet, records []models.FlatEnrollmentRecord) (*models.LoadSummary, error) {
	if err := r.insertEntitiesTx(ctx, tx, set); err != nil {
		return nil, err
	}

	const insertFact = `INSERT INTO enrollment (student_id, course_id, teacher_id) VALUES (?, ?, ?)`
	for i, record := range records {
		enrollment, err := r.resolveTx(ctx, tx, i+1, record)
		if err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(insertFact), enrollment.StudentID, enrollment.CourseID, enrollment.TeacherID); err != nil {
			return nil, wrapInsertErr(err, appErrors.PhaseFacts, fmt.Sprintf("insert enrollment for record %d", i+1))
		}
	}

	return &models.LoadSummary{
		Students:    len(set.Students),
		Teachers:    len(set.Teachers),
		Courses:     len(set.Courses),
		Enrollments: len(records),
	}, nil
}

func (r *LoadRepository) insertEntitiesTx(ctx context.Context, tx *sqlx.Tx, set models.EntitySet) error {
	const insertStudent = `INSERT INTO student (student_name, student_email) VALUES (:student_name, :student_email)`
	for _, student := range set.Students {
		if _, err := tx.NamedExecContext(ctx, insertStudent, student); err != nil {
			return wrapInsertErr(err, appErrors.PhaseLoad, fmt.Sprintf("insert student %s", student.Email))
		}
	}

	const insertTeacher = `INSERT INTO teacher (teacher_name, teacher_email) VALUES (:teacher_name, :teacher_email)`
	for _, teacher := range set.Teachers {
		if _, err := tx.NamedExecContext(ctx, insertTeacher, teacher); err != nil {
			return wrapInsertErr(err, appErrors.PhaseLoad, fmt.Sprintf("insert teacher %s", teacher.Email))
		}
	}

	const insertCourse = `INSERT INTO course (course_name, course_code, course_schedule, course_location)
        VALUES (:course_name, :course_code, :course_schedule, :course_location)`
	for _, course := range set.Courses {
		if _, err := tx.NamedExecContext(ctx, insertCourse, course); err != nil {
			return wrapInsertErr(err, appErrors.PhaseLoad, fmt.Sprintf("insert course %d", course.Code))
		}
	}

	return nil
}

// resolveTx re-reads the surrogate keys assigned during the entity load for
// one flat record. Every lookup is parameterized; raw source values never
// reach the SQL text.
func (r *LoadRepository) resolveTx(ctx context.Context, tx *sqlx.Tx, row int, record models.FlatEnrollmentRecord) (*models.Enrollment, error) {
	var enrollment models.Enrollment

	const studentByEmail = `SELECT student_id FROM student WHERE student_email = ?`
	if err := tx.GetContext(ctx, &enrollment.StudentID, tx.Rebind(studentByEmail), record.StudentEmail); err != nil {
		return nil, wrapLookupErr(err, row, "student_email", record.StudentEmail)
	}

	var teacherID int64
	const teacherByEmail = `SELECT teacher_id FROM teacher WHERE teacher_email = ?`
	if err := tx.GetContext(ctx, &teacherID, tx.Rebind(teacherByEmail), record.TeacherEmail); err != nil {
		return nil, wrapLookupErr(err, row, "teacher_email", record.TeacherEmail)
	}
	enrollment.TeacherID = &teacherID

	const courseByCode = `SELECT course_id FROM course WHERE course_code = ?`
	if err := tx.GetContext(ctx, &enrollment.CourseID, tx.Rebind(courseByCode), record.CourseCode); err != nil {
		return nil, wrapLookupErr(err, row, "course_code", fmt.Sprintf("%d", record.CourseCode))
	}

	return &enrollment, nil
}

func wrapLookupErr(err error, row int, key, value string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Wrap(err, appErrors.ErrUnresolved.Code, appErrors.PhaseResolve,
			fmt.Sprintf("record %d: no entity row matches %s=%s", row, key, value))
	}
	return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.PhaseResolve,
		fmt.Sprintf("record %d: look up %s", row, key))
}

func wrapInsertErr(err error, phase appErrors.Phase, message string) error {
	if isConstraintViolation(err) {
		return appErrors.Wrap(err, appErrors.ErrConstraint.Code, phase, message)
	}
	return appErrors.Wrap(err, appErrors.ErrStore.Code, phase, message)
}
