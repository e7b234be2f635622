package transport

import "github.com/saadamjad-44/school-attendance-system/domain"

type LoginRequest = domain.Credentials

// AssignTeacherRequest unassigns the class when TeacherID is nil.
type AssignTeacherRequest struct {
	TeacherID *int64 `json:"teacher_id"`
}

type SaveAttendanceRequest struct {
	Date    string                  `json:"date"`
	Records []domain.AttendanceMark `json:"records"`
}
