package models

// Teacher is a deduplicated instructor entity. Email is the natural key,
// unique and non-empty, mirroring Student.
type Teacher struct {
	ID    int64  `db:"teacher_id" json:"teacher_id"`
	Name  string `db:"teacher_name" json:"teacher_name"`
	Email string `db:"teacher_email" json:"teacher_email"`
}
