package models

// Enrollment is one fact row in the relationship table: a resolved
// student-course-teacher association. TeacherID is nullable because an
// enrollment survives loss of its instructor (the teacher foreign key is
// set to null on delete, while student and course cascade).
type Enrollment struct {
	StudentID int64  `db:"student_id" json:"student_id"`
	CourseID  int64  `db:"course_id" json:"course_id"`
	TeacherID *int64 `db:"teacher_id" json:"teacher_id,omitempty"`
}
