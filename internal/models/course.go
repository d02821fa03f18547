package models

// Course is a deduplicated course entity. Code is the natural key used for
// resolution and is declared unique at the schema level. Schedule and
// location are optional attributes carried through from the source.
type Course struct {
	ID       int64  `db:"course_id" json:"course_id"`
	Name     string `db:"course_name" json:"course_name"`
	Code     int    `db:"course_code" json:"course_code"`
	Schedule string `db:"course_schedule" json:"course_schedule,omitempty"`
	Location string `db:"course_location" json:"course_location,omitempty"`
}
