package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/enroll-etl/pkg/errors"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "student_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVReaderReadAll(t *testing.T) {
	path := writeCSV(t, `student_name,student_email,teacher_name,teacher_email,course_name,course_code,course_schedule,course_location
Alice,alice@x.com,Mr.Lee,lee@x.com,Math,101,Mon,RoomA
Alice,alice@x.com,Ms.Kim,kim@x.com,Art,202,Tue,RoomB
`)

	records, err := NewCSVReader(path).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Equal(t, "Alice", records[0].StudentName)
	require.Equal(t, "alice@x.com", records[0].StudentEmail)
	require.Equal(t, "Mr.Lee", records[0].TeacherName)
	require.Equal(t, 101, records[0].CourseCode)
	require.Equal(t, "RoomB", records[1].CourseLocation)
}

func TestCSVReaderColumnOrderIndependent(t *testing.T) {
	path := writeCSV(t, `course_code,course_name,student_email,student_name,teacher_email,teacher_name,course_location,course_schedule
101,Math,alice@x.com,Alice,lee@x.com,Mr.Lee,RoomA,Mon
`)

	records, err := NewCSVReader(path).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "Alice", records[0].StudentName)
	require.Equal(t, 101, records[0].CourseCode)
	require.Equal(t, "Mon", records[0].CourseSchedule)
}

func TestCSVReaderMissingFile(t *testing.T) {
	_, err := NewCSVReader(filepath.Join(t.TempDir(), "nope.csv")).ReadAll()
	require.Error(t, err)
	require.Equal(t, appErrors.ErrSourceMissing.Code, appErrors.FromError(err).Code)
	require.Equal(t, appErrors.PhaseSource, appErrors.FromError(err).Phase)
}

func TestCSVReaderMissingColumn(t *testing.T) {
	path := writeCSV(t, `student_name,student_email,teacher_name,teacher_email,course_name,course_schedule,course_location
Alice,alice@x.com,Mr.Lee,lee@x.com,Math,Mon,RoomA
`)

	_, err := NewCSVReader(path).ReadAll()
	require.Error(t, err)
	require.Contains(t, err.Error(), "course_code")
}

func TestCSVReaderBadCourseCode(t *testing.T) {
	path := writeCSV(t, `student_name,student_email,teacher_name,teacher_email,course_name,course_code,course_schedule,course_location
Alice,alice@x.com,Mr.Lee,lee@x.com,Math,abc,Mon,RoomA
`)

	_, err := NewCSVReader(path).ReadAll()
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
