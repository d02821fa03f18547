package models

// FlatEnrollmentRecord is one row of the denormalized source table: a single
// student-course-teacher association with every entity attribute repeated
// inline. student_email, teacher_email and course_code are the natural keys
// used for deduplication and foreign-key resolution.
type FlatEnrollmentRecord struct {
	StudentName    string `db:"student_name" validate:"required"`
	StudentEmail   string `db:"student_email" validate:"required"`
	TeacherName    string `db:"teacher_name" validate:"required"`
	TeacherEmail   string `db:"teacher_email" validate:"required"`
	CourseName     string `db:"course_name" validate:"required"`
	CourseCode     int    `db:"course_code" validate:"required"`
	CourseSchedule string `db:"course_schedule"`
	CourseLocation string `db:"course_location"`
}

// FlatRecordColumns lists the source columns in their canonical order,
// shared by the CSV reader and the raw dump table.
var FlatRecordColumns = []string{
	"student_name",
	"student_email",
	"teacher_name",
	"teacher_email",
	"course_name",
	"course_code",
	"course_schedule",
	"course_location",
}

// EntitySet holds the deduplicated entity projections derived from the flat
// records, in first-seen order. Surrogate ids are unassigned until load.
type EntitySet struct {
	Students []Student
	Teachers []Teacher
	Courses  []Course
}

// LoadSummary reports row counts written by a completed load.
type LoadSummary struct {
	Students    int `json:"students"`
	Teachers    int `json:"teachers"`
	Courses     int `json:"courses"`
	Enrollments int `json:"enrollments"`
}
