package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/enroll-etl/internal/models"
	appErrors "github.com/noah-isme/enroll-etl/pkg/errors"
)

func flatRecord(student, studentEmail, teacher, teacherEmail, course string, code int) models.FlatEnrollmentRecord {
	return models.FlatEnrollmentRecord{
		StudentName:    student,
		StudentEmail:   studentEmail,
		TeacherName:    teacher,
		TeacherEmail:   teacherEmail,
		CourseName:     course,
		CourseCode:     code,
		CourseSchedule: "Mon",
		CourseLocation: "RoomA",
	}
}

func TestProjectorDeduplicatesByFullRow(t *testing.T) {
	svc := NewProjectorService(nil, nil)

	records := []models.FlatEnrollmentRecord{
		flatRecord("Alice", "alice@x.com", "Mr.Lee", "lee@x.com", "Math", 101),
		flatRecord("Alice", "alice@x.com", "Ms.Kim", "kim@x.com", "Art", 202),
	}

	set, err := svc.Project(records)
	require.NoError(t, err)
	require.Len(t, set.Students, 1)
	require.Len(t, set.Teachers, 2)
	require.Len(t, set.Courses, 2)
	require.Equal(t, "alice@x.com", set.Students[0].Email)
}

func TestProjectorKeepsSameEmailDifferentName(t *testing.T) {
	svc := NewProjectorService(nil, nil)

	// Dedup is by full-row equality, not by natural key: inconsistent
	// spellings under one email stay as two rows and fail later at the
	// store's uniqueness constraint.
	records := []models.FlatEnrollmentRecord{
		flatRecord("Alice", "alice@x.com", "Mr.Lee", "lee@x.com", "Math", 101),
		flatRecord("Alyce", "alice@x.com", "Mr.Lee", "lee@x.com", "Math", 101),
	}

	set, err := svc.Project(records)
	require.NoError(t, err)
	require.Len(t, set.Students, 2)
	require.Len(t, set.Teachers, 1)
	require.Len(t, set.Courses, 1)
}

func TestProjectorPreservesFirstSeenOrder(t *testing.T) {
	svc := NewProjectorService(nil, nil)

	records := []models.FlatEnrollmentRecord{
		flatRecord("Bob", "bob@x.com", "Ms.Kim", "kim@x.com", "Art", 202),
		flatRecord("Alice", "alice@x.com", "Mr.Lee", "lee@x.com", "Math", 101),
		flatRecord("Bob", "bob@x.com", "Mr.Lee", "lee@x.com", "Math", 101),
	}

	set, err := svc.Project(records)
	require.NoError(t, err)
	require.Equal(t, []string{"bob@x.com", "alice@x.com"}, []string{set.Students[0].Email, set.Students[1].Email})
	require.Equal(t, []int{202, 101}, []int{set.Courses[0].Code, set.Courses[1].Code})
}

func TestProjectorRejectsInvalidRecord(t *testing.T) {
	svc := NewProjectorService(nil, nil)

	records := []models.FlatEnrollmentRecord{
		flatRecord("Alice", "alice@x.com", "Mr.Lee", "lee@x.com", "Math", 101),
		flatRecord("Bob", "", "Mr.Lee", "lee@x.com", "Math", 101),
	}

	_, err := svc.Project(records)
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	require.Contains(t, err.Error(), "record 2")
}
