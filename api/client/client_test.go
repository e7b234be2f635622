package client

import (
	"bytes"
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/saadamjad-44/school-attendance-system/domain"
	"github.com/saadamjad-44/school-attendance-system/internal/report"
)

func TestStudentsQuery(t *testing.T) {
	h := newHarness(t)
	h.login(t, "admin")
	ctx := context.Background()

	all, err := h.client.Students(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	require.Equal(t, "/api/admin/students", h.srv.LastRequest().URI)

	ofClass, err := h.client.Students(ctx, 2)
	require.NoError(t, err)
	require.Len(t, ofClass, 2)
	require.Equal(t, "/api/admin/students?class_id=2", h.srv.LastRequest().URI)
}

func TestAdminOperations(t *testing.T) {
	h := newHarness(t)
	h.login(t, "admin")
	ctx := context.Background()

	created, err := h.client.AddClass(ctx, domain.NewClass{Name: "8-A"})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	teacher, err := h.client.AddTeacher(ctx, domain.NewTeacher{Username: "teacher3", Password: "pw", NameEn: "Teacher 3"})
	require.NoError(t, err)

	_, err = h.client.AddTeacher(ctx, domain.NewTeacher{Username: "teacher3", Password: "pw", NameEn: "Again"})
	require.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	require.Equal(t, "Username already exists", err.Error())

	_, err = h.client.AssignTeacher(ctx, created.ID, teacher.ID)
	require.NoError(t, err)
	require.JSONEq(t, `{"teacher_id":`+itoa(teacher.ID)+`}`, string(h.srv.LastRequest().Body))
	require.Equal(t, "PUT", h.srv.LastRequest().Method)

	classes, err := h.client.Classes(ctx)
	require.NoError(t, err)
	var found bool
	for _, c := range classes {
		if c.ID == created.ID {
			found = true
			require.Equal(t, "Teacher 3", c.TeacherName)
		}
	}
	require.True(t, found)

	_, err = h.client.AssignTeacher(ctx, created.ID, 0)
	require.NoError(t, err)
	require.JSONEq(t, `{"teacher_id":null}`, string(h.srv.LastRequest().Body))

	student, err := h.client.AddStudent(ctx, domain.NewStudent{NameEn: "Hina", RollNo: "8A-01", ClassID: created.ID})
	require.NoError(t, err)
	_, err = h.client.DeleteStudent(ctx, student.ID)
	require.NoError(t, err)
	require.Equal(t, "DELETE", h.srv.LastRequest().Method)
	require.Equal(t, "/api/admin/students/"+itoa(student.ID), h.srv.LastRequest().URI)

	msg, err := h.client.DeleteTeacher(ctx, teacher.ID)
	require.NoError(t, err)
	require.Equal(t, "Teacher deleted", msg.Message)

	teachers, err := h.client.Teachers(ctx)
	require.NoError(t, err)
	require.Len(t, teachers, 2)
}

func TestRoleEnforcementSurfacesAsForbidden(t *testing.T) {
	h := newHarness(t)
	h.login(t, "teacher1")

	_, err := h.client.Teachers(context.Background())
	require.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))
}

func TestUnauthenticatedCall(t *testing.T) {
	h := newHarness(t)

	_, err := h.client.Dashboard(context.Background())
	require.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
	require.Equal(t, "Not authenticated", err.Error())
}

func TestTeacherAttendanceFlow(t *testing.T) {
	h := newHarness(t)
	h.login(t, "teacher1")
	ctx := context.Background()

	class, err := h.client.MyClass(ctx)
	require.NoError(t, err)
	require.Equal(t, "6-A", class.Class.Name)
	require.Len(t, class.Students, 3)

	msg, err := h.client.SaveAttendance(ctx, testToday, []domain.AttendanceMark{
		{StudentID: 1, Status: domain.StatusPresent},
		{StudentID: 2, Status: domain.StatusAbsent},
		{StudentID: 3, Status: domain.StatusLate},
	})
	require.NoError(t, err)
	require.Equal(t, "Attendance saved", msg.Message)
	require.JSONEq(t,
		`{"date":"2024-03-15","records":[{"student_id":1,"status":"present"},{"student_id":2,"status":"absent"},{"student_id":3,"status":"late"}]}`,
		string(h.srv.LastRequest().Body))

	sheet, err := h.client.Attendance(ctx, testToday)
	require.NoError(t, err)
	require.Equal(t, "/api/teacher/attendance/2024-03-15", h.srv.LastRequest().URI)
	require.Equal(t, domain.StatusAbsent, sheet.Students[1].Status)

	history, err := h.client.AttendanceHistory(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, "/api/teacher/history?days=30", h.srv.LastRequest().URI)
	require.Equal(t, "2024-02-14 to 2024-03-15", history.DateRange)
	require.Len(t, history.Records, 3)

	_, err = h.client.AttendanceHistory(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, "/api/teacher/history?days=7", h.srv.LastRequest().URI)

	pending, err := h.client.Notifications(ctx, domain.NotificationPending)
	require.NoError(t, err)
	require.Equal(t, "/api/notifications?status=pending", h.srv.LastRequest().URI)
	require.Len(t, pending, 1)
	require.Equal(t, "Sara Ahmed", pending[0].StudentName)
}

func TestSaveAttendanceWithoutClass(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, "admin")
	_, err := h.client.AssignTeacher(ctx, 2, 0)
	require.NoError(t, err)

	h.login(t, "teacher2")
	_, err = h.client.SaveAttendance(ctx, testToday, nil)
	require.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	require.Equal(t, "No class assigned", err.Error())
	require.JSONEq(t, `{"date":"2024-03-15","records":[]}`, string(h.srv.LastRequest().Body))
}

func TestPrincipalReports(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.login(t, "teacher1")
	_, err := h.client.SaveAttendance(ctx, testToday, []domain.AttendanceMark{
		{StudentID: 1, Status: domain.StatusPresent},
		{StudentID: 2, Status: domain.StatusAbsent},
	})
	require.NoError(t, err)

	h.login(t, "principal")

	dashboard, err := h.client.Dashboard(ctx)
	require.NoError(t, err)
	require.Equal(t, "2024-03-15", dashboard.Date)
	require.Equal(t, 5, dashboard.Stats.TotalStudents)
	require.Equal(t, 1, dashboard.Stats.PresentCount)
	require.Len(t, dashboard.Classes, 3)
	require.True(t, dashboard.Classes[0].AttendanceSubmitted)

	monthly, err := h.client.MonthlyReport(ctx, 2024, 3, 0)
	require.NoError(t, err)
	require.Equal(t, "/api/principal/report?year=2024&month=3", h.srv.LastRequest().URI)
	require.Len(t, monthly.Students, 5)
	require.Equal(t, "present", monthly.Students[0].Days["15"])
	require.Equal(t, "-", monthly.Students[0].Days["14"])

	_, err = h.client.MonthlyReport(ctx, 2024, 3, 2)
	require.NoError(t, err)
	require.Equal(t, "/api/principal/report?year=2024&month=3&class_id=2", h.srv.LastRequest().URI)

	require.Equal(t,
		"http://attendance.test/api/principal/report/export?year=2024&month=3&class_id=1",
		h.client.ReportExportURL(2024, 3, 1))

	var buf bytes.Buffer
	contentType, err := h.client.DownloadReport(ctx, 2024, 3, 1, &buf)
	require.NoError(t, err)
	require.Equal(t, report.ContentType, contentType)
	summary, err := report.ReadWorkbookSummary(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, report.SheetName, summary.Sheet)
	require.Equal(t, 3, summary.Rows)

	studentReport, err := h.client.StudentReport(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, 1, studentReport.Summary.Absent)

	_, err = h.client.StudentReport(ctx, 999)
	require.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
	require.Equal(t, "Student not found", err.Error())

	all, err := h.client.Notifications(ctx, "")
	require.NoError(t, err)
	require.Equal(t, "/api/notifications", h.srv.LastRequest().URI)
	require.Len(t, all, 1)

	_, err = h.client.MarkNotificationSent(ctx, all[0].ID)
	require.NoError(t, err)
	require.Equal(t, "POST", h.srv.LastRequest().Method)

	sent, err := h.client.Notifications(ctx, domain.NotificationSent)
	require.NoError(t, err)
	require.Len(t, sent, 1)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
