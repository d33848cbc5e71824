package student

import "strings"

// Student is the local roster shape: what the cache stores and every view
// displays.
type Student struct {
	ID            string `db:"id" json:"id"`
	FirstName     string `db:"first_name" json:"first_name"`
	LastName      string `db:"last_name" json:"last_name"`
	Grade         string `db:"grade" json:"grade"`
	Homeroom      string `db:"homeroom" json:"homeroom"`
	GuardianName  string `db:"guardian_name" json:"guardian_name"`
	GuardianPhone string `db:"guardian_phone" json:"guardian_phone"`
}

func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// RosterEntry is the admin backend's record shape. Fallback reads map it
// into Student.
type RosterEntry struct {
	StudentNumber string `json:"student_number"`
	FullName      string `json:"full_name"` // "Last, First"
	GradeLevel    string `json:"grade_level"`
	HomeroomCode  string `json:"homeroom_code"`
	Guardian      string `json:"guardian"`
	GuardianPhone string `json:"guardian_phone"`
}

// ToStudent maps the remote record into the local shape. Names arrive as
// "Last, First"; a name without a comma is kept whole as the last name.
func (re RosterEntry) ToStudent() Student {
	s := Student{
		ID:            re.StudentNumber,
		LastName:      strings.TrimSpace(re.FullName),
		Grade:         re.GradeLevel,
		Homeroom:      re.HomeroomCode,
		GuardianName:  re.Guardian,
		GuardianPhone: re.GuardianPhone,
	}
	if i := strings.Index(re.FullName, ","); i >= 0 {
		s.LastName = strings.TrimSpace(re.FullName[:i])
		s.FirstName = strings.TrimSpace(re.FullName[i+1:])
	}
	return s
}
