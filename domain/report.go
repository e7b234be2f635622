package domain

import "time"

type DashboardStats struct {
	TotalStudents int     `json:"total_students"`
	PresentCount  int     `json:"present_count"`
	AbsentCount   int     `json:"absent_count"`
	LateCount     int     `json:"late_count"`
	Percentage    float64 `json:"percentage"`
}

type ClassSummary struct {
	ClassID             int64  `json:"class_id"`
	ClassName           string `json:"class_name"`
	TeacherName         string `json:"teacher_name,omitempty"`
	TotalStudents       int    `json:"total_students"`
	PresentCount        int    `json:"present_count"`
	AbsentCount         int    `json:"absent_count"`
	LateCount           int    `json:"late_count"`
	AttendanceSubmitted bool   `json:"attendance_submitted"`
}

type Dashboard struct {
	Date    string         `json:"date"`
	Stats   DashboardStats `json:"stats"`
	Classes []ClassSummary `json:"classes"`
}

// MonthlyReportStudent carries the per-day statuses keyed by day of month
// ("1".."31"); days without a mark hold "-".
type MonthlyReportStudent struct {
	StudentID    int64             `json:"student_id"`
	NameEn       string            `json:"name_en"`
	NameUr       string            `json:"name_ur,omitempty"`
	RollNo       string            `json:"roll_no"`
	Days         map[string]string `json:"days"`
	TotalPresent int               `json:"total_present"`
	TotalAbsent  int               `json:"total_absent"`
	Percentage   float64           `json:"percentage"`
}

type MonthlyReport struct {
	Year     int                    `json:"year"`
	Month    int                    `json:"month"`
	ClassID  *int64                 `json:"class_id,omitempty"`
	Students []MonthlyReportStudent `json:"students"`
}

// DaysInMonth returns the number of days of the reported month.
func (r *MonthlyReport) DaysInMonth() int {
	if r == nil || r.Month < 1 || r.Month > 12 {
		return 0
	}
	return time.Date(r.Year, time.Month(r.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

type StudentRecord struct {
	Date   string           `json:"date"`
	Status AttendanceStatus `json:"status"`
}

type StudentSummary struct {
	Total      int     `json:"total"`
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Late       int     `json:"late"`
	Percentage float64 `json:"percentage"`
}

type StudentReport struct {
	Student Student         `json:"student"`
	Records []StudentRecord `json:"records"`
	Summary StudentSummary  `json:"summary"`
}
