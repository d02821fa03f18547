package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/enroll-etl/internal/models"
	appErrors "github.com/noah-isme/enroll-etl/pkg/errors"
)

func sampleSet() models.EntitySet {
	return models.EntitySet{
		Students: []models.Student{{Name: "Alice", Email: "alice@x.com"}},
		Teachers: []models.Teacher{{Name: "Mr.Lee", Email: "lee@x.com"}},
		Courses:  []models.Course{{Name: "Math", Code: 101, Schedule: "Mon", Location: "RoomA"}},
	}
}

func sampleRecords() []models.FlatEnrollmentRecord {
	return []models.FlatEnrollmentRecord{{
		StudentName:    "Alice",
		StudentEmail:   "alice@x.com",
		TeacherName:    "Mr.Lee",
		TeacherEmail:   "lee@x.com",
		CourseName:     "Math",
		CourseCode:     101,
		CourseSchedule: "Mon",
		CourseLocation: "RoomA",
	}}
}

func TestLoadRepositoryLoad(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLoadRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO student (student_name, student_email)")).
		WithArgs("Alice", "alice@x.com").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO teacher (teacher_name, teacher_email)")).
		WithArgs("Mr.Lee", "lee@x.com").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO course (course_name, course_code, course_schedule, course_location)")).
		WithArgs("Math", 101, "Mon", "RoomA").
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT student_id FROM student WHERE student_email = ?")).
		WithArgs("alice@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"student_id"}).AddRow(int64(1)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT teacher_id FROM teacher WHERE teacher_email = ?")).
		WithArgs("lee@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"teacher_id"}).AddRow(int64(1)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT course_id FROM course WHERE course_code = ?")).
		WithArgs(101).
		WillReturnRows(sqlmock.NewRows([]string{"course_id"}).AddRow(int64(1)))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO enrollment (student_id, course_id, teacher_id)")).
		WithArgs(int64(1), int64(1), int64(1)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	summary, err := repo.Load(context.Background(), sampleSet(), sampleRecords())
	require.NoError(t, err)
	require.Equal(t, &models.LoadSummary{Students: 1, Teachers: 1, Courses: 1, Enrollments: 1}, summary)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadRepositoryUnresolvedReferenceRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLoadRepository(db)

	set := sampleSet()
	set.Students = nil // malformed projection: the record's student is missing

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO teacher")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO course")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT student_id FROM student WHERE student_email = ?")).
		WithArgs("alice@x.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Load(context.Background(), set, sampleRecords())
	require.Error(t, err)
	e := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrUnresolved.Code, e.Code)
	require.Equal(t, appErrors.PhaseResolve, e.Phase)
	require.Contains(t, err.Error(), "student_email=alice@x.com")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadRepositoryEntityInsertFailureRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLoadRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO student")).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	_, err := repo.Load(context.Background(), sampleSet(), sampleRecords())
	require.Error(t, err)
	e := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrStore.Code, e.Code)
	require.Equal(t, appErrors.PhaseLoad, e.Phase)
	require.NoError(t, mock.ExpectationsWereMet())
}
