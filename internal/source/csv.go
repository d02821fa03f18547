package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/noah-isme/enroll-etl/internal/models"
	appErrors "github.com/noah-isme/enroll-etl/pkg/errors"
)

// CSVReader reads flat enrollment records from a CSV file with a header row.
// Columns are matched by name, so source files may order them freely and
// carry extra columns, which are ignored.
type CSVReader struct {
	path string
}

// NewCSVReader constructs a reader for the file at path.
func NewCSVReader(path string) *CSVReader {
	return &CSVReader{path: path}
}

// ReadAll parses the whole file into flat records, preserving source order.
func (r *CSVReader) ReadAll() ([]models.FlatEnrollmentRecord, error) {
	f, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, appErrors.Wrap(err, appErrors.ErrSourceMissing.Code, appErrors.PhaseSource,
				fmt.Sprintf("record source %s not found", r.path))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrSourceMissing.Code, appErrors.PhaseSource,
			fmt.Sprintf("open record source %s", r.path))
	}
	defer f.Close()

	return parse(f)
}

func parse(f io.Reader) ([]models.FlatEnrollmentRecord, error) {
	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, appErrors.Wrap(err, appErrors.ErrSourceMissing.Code, appErrors.PhaseSource, "record source is empty")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, col := range models.FlatRecordColumns {
		if _, ok := index[col]; !ok {
			return nil, appErrors.Wrap(nil, appErrors.ErrSourceMissing.Code, appErrors.PhaseSource,
				fmt.Sprintf("record source is missing column %q", col))
		}
	}

	var records []models.FlatEnrollmentRecord
	for row := 1; ; row++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", row, err)
		}

		cell := func(col string) string {
			return strings.TrimSpace(fields[index[col]])
		}

		code, err := strconv.Atoi(cell("course_code"))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.PhaseSource,
				fmt.Sprintf("row %d: course_code %q is not an integer", row, cell("course_code")))
		}

		records = append(records, models.FlatEnrollmentRecord{
			StudentName:    cell("student_name"),
			StudentEmail:   cell("student_email"),
			TeacherName:    cell("teacher_name"),
			TeacherEmail:   cell("teacher_email"),
			CourseName:     cell("course_name"),
			CourseCode:     code,
			CourseSchedule: cell("course_schedule"),
			CourseLocation: cell("course_location"),
		})
	}

	return records, nil
}
