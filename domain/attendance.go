package domain

import "time"

// DateLayout is the wire format of attendance dates.
const DateLayout = "2006-01-02"

// DefaultHistoryDays is the look-back window used when none is given.
const DefaultHistoryDays = 30

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLate    AttendanceStatus = "late"
)

// Short is the one-letter form used in exported sheets.
func (s AttendanceStatus) Short() string {
	switch s {
	case StatusPresent:
		return "P"
	case StatusAbsent:
		return "A"
	case StatusLate:
		return "L"
	default:
		return "-"
	}
}

func (s AttendanceStatus) Valid() bool {
	return s == StatusPresent || s == StatusAbsent || s == StatusLate
}

// AttendanceMark records one student's status for a day.
type AttendanceMark struct {
	StudentID int64            `json:"student_id"`
	Status    AttendanceStatus `json:"status"`
}

// MyClass is the teacher's assigned class with today's statuses.
type MyClass struct {
	Class    *Class    `json:"class"`
	Students []Student `json:"students"`
}

// AttendanceSheet lists every student of the class with the status on Date.
type AttendanceSheet struct {
	Date     string    `json:"date"`
	Students []Student `json:"students"`
}

// HistoryRecord is one student/day pair; Date and Status are empty for
// students without marks in the window.
type HistoryRecord struct {
	ID     int64            `json:"id"`
	NameEn string           `json:"name_en"`
	NameUr string           `json:"name_ur,omitempty"`
	RollNo string           `json:"roll_no"`
	Date   string           `json:"date,omitempty"`
	Status AttendanceStatus `json:"status,omitempty"`
}

type AttendanceHistory struct {
	DateRange string          `json:"date_range"`
	Records   []HistoryRecord `json:"records"`
}

// FormatDate renders t in the wire date layout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
