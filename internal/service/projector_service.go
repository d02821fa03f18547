package service

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/enroll-etl/internal/models"
	appErrors "github.com/noah-isme/enroll-etl/pkg/errors"
)

// ProjectorService derives the deduplicated entity sets from the flat
// records. Deduplication is by full-row equality on the projected columns,
// not by natural key alone: two records sharing an email but differing in
// name are kept as two rows, and the store's uniqueness constraint surfaces
// the conflict at load time.
type ProjectorService struct {
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProjectorService constructs ProjectorService.
func NewProjectorService(validate *validator.Validate, logger *zap.Logger) *ProjectorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectorService{validator: validate, logger: logger}
}

// Project validates every record and returns the three entity projections
// in first-seen order.
func (s *ProjectorService) Project(records []models.FlatEnrollmentRecord) (*models.EntitySet, error) {
	for i, record := range records {
		if err := s.validator.Struct(record); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.PhaseProject,
				fmt.Sprintf("record %d is invalid", i+1))
		}
	}

	set := &models.EntitySet{}

	seenStudents := make(map[models.Student]bool)
	seenTeachers := make(map[models.Teacher]bool)
	seenCourses := make(map[models.Course]bool)

	for _, record := range records {
		student := models.Student{Name: record.StudentName, Email: record.StudentEmail}
		if !seenStudents[student] {
			seenStudents[student] = true
			set.Students = append(set.Students, student)
		}

		teacher := models.Teacher{Name: record.TeacherName, Email: record.TeacherEmail}
		if !seenTeachers[teacher] {
			seenTeachers[teacher] = true
			set.Teachers = append(set.Teachers, teacher)
		}

		course := models.Course{
			Name:     record.CourseName,
			Code:     record.CourseCode,
			Schedule: record.CourseSchedule,
			Location: record.CourseLocation,
		}
		if !seenCourses[course] {
			seenCourses[course] = true
			set.Courses = append(set.Courses, course)
		}
	}

	s.logger.Debug("projected entities",
		zap.Int("records", len(records)),
		zap.Int("students", len(set.Students)),
		zap.Int("teachers", len(set.Teachers)),
		zap.Int("courses", len(set.Courses)),
	)

	return set, nil
}
