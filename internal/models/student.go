package models

// Student is a deduplicated learner entity. Email is the natural key: unique
// and non-empty across all students.
type Student struct {
	ID    int64  `db:"student_id" json:"student_id"`
	Name  string `db:"student_name" json:"student_name"`
	Email string `db:"student_email" json:"student_email"`
}
