package fakeapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/saadamjad-44/school-attendance-system/api/transport"
	"github.com/saadamjad-44/school-attendance-system/domain"
	"github.com/saadamjad-44/school-attendance-system/internal/report"
)

type userHandler func(ctx *fasthttp.RequestCtx, user *domain.User)

type handlers struct {
	store *store
}

func (h handlers) currentUser(ctx *fasthttp.RequestCtx) *domain.User {
	sessionID := string(ctx.Request.Header.Cookie(domain.SessionCookieName))
	if sessionID == "" {
		return nil
	}
	return h.store.userForSession(sessionID)
}

func (h handlers) require(next userHandler, roles ...domain.Role) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user := h.currentUser(ctx)
		if user == nil {
			respondDetail(ctx, http.StatusUnauthorized, "Not authenticated")
			return
		}
		for _, role := range roles {
			if user.Role == role {
				next(ctx, user)
				return
			}
		}
		respondDetail(ctx, http.StatusForbidden, "Not authorized")
	}
}

func (h handlers) login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Username == "" {
		respondInvalid(ctx, "username")
		return
	}
	user, sessionID, ok := h.store.authenticate(req.Username, req.Password)
	if !ok {
		respondDetail(ctx, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)
	cookie.SetKey(domain.SessionCookieName)
	cookie.SetValue(sessionID)
	cookie.SetPath("/")
	cookie.SetHTTPOnly(true)
	cookie.SetSameSite(fasthttp.CookieSameSiteLaxMode)
	ctx.Response.Header.SetCookie(cookie)

	respondJSON(ctx, http.StatusOK, user)
}

func (h handlers) logout(ctx *fasthttp.RequestCtx) {
	if sessionID := string(ctx.Request.Header.Cookie(domain.SessionCookieName)); sessionID != "" {
		h.store.endSession(sessionID)
	}
	ctx.Response.Header.DelClientCookie(domain.SessionCookieName)
	respondJSON(ctx, http.StatusOK, domain.Message{Message: "Logged out"})
}

func (h handlers) me(ctx *fasthttp.RequestCtx) {
	user := h.currentUser(ctx)
	if user == nil {
		respondDetail(ctx, http.StatusUnauthorized, "Not authenticated")
		return
	}
	respondJSON(ctx, http.StatusOK, user)
}

// ---- admin ----

func (h handlers) listTeachers(ctx *fasthttp.RequestCtx, _ *domain.User) {
	s := h.store
	s.mu.Lock()
	defer s.mu.Unlock()

	teachers := []domain.Teacher{}
	for _, acc := range s.users {
		if acc.Role != roleTeacher {
			continue
		}
		t := domain.Teacher{ID: acc.ID, Username: acc.Username, NameEn: acc.NameEn, NameUr: acc.NameUr}
		if c := s.classOf(acc.ID); c != nil {
			classID := c.ID
			t.ClassID = &classID
			t.ClassName = c.Name
		}
		teachers = append(teachers, t)
	}
	sort.Slice(teachers, func(i, j int) bool { return teachers[i].NameEn < teachers[j].NameEn })
	respondJSON(ctx, http.StatusOK, teachers)
}

func (h handlers) createTeacher(ctx *fasthttp.RequestCtx, _ *domain.User) {
	var req domain.NewTeacher
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Username == "" {
		respondInvalid(ctx, "username")
		return
	}
	s := h.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acc := range s.users {
		if acc.Username == req.Username {
			respondDetail(ctx, http.StatusBadRequest, "Username already exists")
			return
		}
	}
	id := s.id()
	s.users[id] = &account{
		User:     domain.User{ID: id, Username: req.Username, NameEn: req.NameEn, NameUr: req.NameUr, Role: roleTeacher},
		password: req.Password,
	}
	if req.ClassID != nil {
		if c, ok := s.classes[*req.ClassID]; ok {
			c.TeacherID = &id
		}
	}
	respondJSON(ctx, http.StatusOK, domain.Created{ID: id, Message: "Teacher created"})
}

func (h handlers) deleteTeacher(ctx *fasthttp.RequestCtx, _ *domain.User) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	s := h.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc, ok := s.users[id]; ok && acc.Role == roleTeacher {
		delete(s.users, id)
		for _, c := range s.classes {
			if c.TeacherID != nil && *c.TeacherID == id {
				c.TeacherID = nil
			}
		}
	}
	respondJSON(ctx, http.StatusOK, domain.Message{Message: "Teacher deleted"})
}

func (h handlers) listStudents(ctx *fasthttp.RequestCtx, _ *domain.User) {
	classID := int64(ctx.QueryArgs().GetUintOrZero("class_id"))
	s := h.store
	s.mu.Lock()
	defer s.mu.Unlock()
	students := s.studentsOf(classID)
	if students == nil {
		students = []domain.Student{}
	}
	respondJSON(ctx, http.StatusOK, students)
}

func (h handlers) createStudent(ctx *fasthttp.RequestCtx, _ *domain.User) {
	var req domain.NewStudent
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.NameEn == "" {
		respondInvalid(ctx, "name_en")
		return
	}
	if req.RollNo == "" {
		respondInvalid(ctx, "roll_no")
		return
	}
	s := h.store
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id()
	s.students[id] = &domain.Student{
		ID: id, NameEn: req.NameEn, NameUr: req.NameUr, RollNo: req.RollNo,
		ClassID: req.ClassID, ParentPhone: req.ParentPhone,
	}
	respondJSON(ctx, http.StatusOK, domain.Created{ID: id, Message: "Student created"})
}

func (h handlers) deleteStudent(ctx *fasthttp.RequestCtx, _ *domain.User) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	s := h.store
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.students, id)
	respondJSON(ctx, http.StatusOK, domain.Message{Message: "Student deleted"})
}

func (h handlers) listClasses(ctx *fasthttp.RequestCtx, _ *domain.User) {
	s := h.store
	s.mu.Lock()
	defer s.mu.Unlock()
	classes := []domain.Class{}
	for _, id := range s.sortedClassIDs() {
		c := *s.classes[id]
		if c.TeacherID != nil {
			if acc, ok := s.users[*c.TeacherID]; ok {
				c.TeacherName = acc.NameEn
			}
		}
		classes = append(classes, c)
	}
	respondJSON(ctx, http.StatusOK, classes)
}

func (h handlers) createClass(ctx *fasthttp.RequestCtx, _ *domain.User) {
	var req domain.NewClass
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Name == "" {
		respondInvalid(ctx, "name")
		return
	}
	s := h.store
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id()
	s.classes[id] = &domain.Class{ID: id, Name: req.Name, NameUr: req.NameUr}
	respondJSON(ctx, http.StatusOK, domain.Created{ID: id, Message: "Class created"})
}

func (h handlers) assignTeacher(ctx *fasthttp.RequestCtx, _ *domain.User) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req transport.AssignTeacherRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		respondInvalid(ctx, "teacher_id")
		return
	}
	s := h.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.classes[id]; ok {
		c.TeacherID = req.TeacherID
	}
	respondJSON(ctx, http.StatusOK, domain.Message{Message: "Teacher assigned"})
}

// ---- teacher ----

func (h handlers) myClass(ctx *fasthttp.RequestCtx, user *domain.User) {
	s := h.store
	s.mu.Lock()
	defer s.mu.Unlock()
	class := s.classOf(user.ID)
	if class == nil {
		respondJSON(ctx, http.StatusOK, domain.MyClass{Students: []domain.Student{}})
		return
	}
	today := s.today()
	students := s.studentsOf(class.ID)
	for i := range students {
		students[i].Status = domain.StatusPresent
		if status, ok := s.statusOn(students[i].ID, today); ok {
			students[i].Status = status
		}
	}
	if students == nil {
		students = []domain.Student{}
	}
	c := *class
	respondJSON(ctx, http.StatusOK, domain.MyClass{Class: &c, Students: students})
}

func (h handlers) attendance(ctx *fasthttp.RequestCtx, user *domain.User) {
	date, _ := ctx.UserValue("date").(string)
	s := h.store
	s.mu.Lock()
	defer s.mu.Unlock()
	class := s.classOf(user.ID)
	if class == nil {
		respondJSON(ctx, http.StatusOK, domain.AttendanceSheet{Date: date, Students: []domain.Student{}})
		return
	}
	students := []domain.Student{}
	for _, st := range s.studentsOf(class.ID) {
		row := domain.Student{ID: st.ID, NameEn: st.NameEn, NameUr: st.NameUr, RollNo: st.RollNo, Status: domain.StatusPresent}
		if status, ok := s.statusOn(st.ID, date); ok {
			row.Status = status
		}
		students = append(students, row)
	}
	respondJSON(ctx, http.StatusOK, domain.AttendanceSheet{Date: date, Students: students})
}

func (h handlers) saveAttendance(ctx *fasthttp.RequestCtx, user *domain.User) {
	var req transport.SaveAttendanceRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Date == "" {
		respondInvalid(ctx, "date")
		return
	}
	s := h.store
	s.mu.Lock()
	defer s.mu.Unlock()
	class := s.classOf(user.ID)
	if class == nil {
		respondDetail(ctx, http.StatusBadRequest, "No class assigned")
		return
	}
	for _, mark := range req.Records {
		s.attendance[attendanceKey{studentID: mark.StudentID, date: req.Date}] = mark.Status
		if mark.Status != domain.StatusAbsent || s.hasNotification(mark.StudentID, req.Date) {
			continue
		}
		id := s.id()
		name := ""
		if st, ok := s.students[mark.StudentID]; ok {
			name = st.NameEn
		}
		s.notifications[id] = &domain.Notification{
			ID: id, StudentID: mark.StudentID, StudentName: name,
			ClassID: class.ID, ClassName: class.Name, Date: req.Date,
			Status: domain.NotificationPending,
		}
	}
	respondJSON(ctx, http.StatusOK, domain.Message{Message: "Attendance saved"})
}

func (s *store) hasNotification(studentID int64, date string) bool {
	for _, n := range s.notifications {
		if n.StudentID == studentID && n.Date == date {
			return true
		}
	}
	return false
}

func (h handlers) history(ctx *fasthttp.RequestCtx, user *domain.User) {
	days := ctx.QueryArgs().GetUintOrZero("days")
	s := h.store
	s.mu.Lock()
	defer s.mu.Unlock()
	class := s.classOf(user.ID)
	if class == nil {
		respondJSON(ctx, http.StatusOK, domain.AttendanceHistory{Records: []domain.HistoryRecord{}})
		return
	}
	end := s.now()
	start := end.AddDate(0, 0, -days)
	records := []domain.HistoryRecord{}
	for _, st := range s.studentsOf(class.ID) {
		base := domain.HistoryRecord{ID: st.ID, NameEn: st.NameEn, NameUr: st.NameUr, RollNo: st.RollNo}
		marked := false
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			date := domain.FormatDate(d)
			if status, ok := s.statusOn(st.ID, date); ok {
				rec := base
				rec.Date, rec.Status = date, status
				records = append(records, rec)
				marked = true
			}
		}
		if !marked {
			records = append(records, base)
		}
	}
	respondJSON(ctx, http.StatusOK, domain.AttendanceHistory{
		DateRange: fmt.Sprintf("%s to %s", domain.FormatDate(start), domain.FormatDate(end)),
		Records:   records,
	})
}

// ---- principal ----

func (h handlers) dashboard(ctx *fasthttp.RequestCtx, _ *domain.User) {
	s := h.store
	s.mu.Lock()
	defer s.mu.Unlock()
	today := s.today()

	var stats domain.DashboardStats
	stats.TotalStudents = len(s.students)
	classes := []domain.ClassSummary{}
	for _, id := range s.sortedClassIDs() {
		c := s.classes[id]
		summary := domain.ClassSummary{ClassID: c.ID, ClassName: c.Name}
		if c.TeacherID != nil {
			if acc, ok := s.users[*c.TeacherID]; ok {
				summary.TeacherName = acc.NameEn
			}
		}
		for _, st := range s.studentsOf(c.ID) {
			summary.TotalStudents++
			status, _ := s.statusOn(st.ID, today)
			switch status {
			case domain.StatusPresent:
				summary.PresentCount++
			case domain.StatusAbsent:
				summary.AbsentCount++
			case domain.StatusLate:
				summary.LateCount++
			}
		}
		summary.AttendanceSubmitted = summary.TotalStudents > 0 &&
			summary.PresentCount+summary.AbsentCount+summary.LateCount > 0
		stats.PresentCount += summary.PresentCount
		stats.AbsentCount += summary.AbsentCount
		stats.LateCount += summary.LateCount
		classes = append(classes, summary)
	}
	if stats.TotalStudents > 0 {
		stats.Percentage = round1(float64(stats.PresentCount) / float64(stats.TotalStudents) * 100)
	}
	respondJSON(ctx, http.StatusOK, domain.Dashboard{Date: today, Stats: stats, Classes: classes})
}

func (h handlers) buildMonthlyReport(ctx *fasthttp.RequestCtx) (*domain.MonthlyReport, bool) {
	args := ctx.QueryArgs()
	year, yErr := args.GetUint("year")
	month, mErr := args.GetUint("month")
	if yErr != nil || mErr != nil || month < 1 || month > 12 {
		respondJSON(ctx, http.StatusUnprocessableEntity, map[string]interface{}{
			"detail": []map[string]interface{}{{"loc": []string{"query", "month"}, "msg": "field required"}},
		})
		return nil, false
	}
	classID := int64(args.GetUintOrZero("class_id"))

	s := h.store
	s.mu.Lock()
	defer s.mu.Unlock()

	out := &domain.MonthlyReport{Year: year, Month: month, Students: []domain.MonthlyReportStudent{}}
	if classID != 0 {
		out.ClassID = &classID
	}
	days := out.DaysInMonth()
	for _, st := range s.studentsOf(classID) {
		row := domain.MonthlyReportStudent{
			StudentID: st.ID, NameEn: st.NameEn, NameUr: st.NameUr, RollNo: st.RollNo,
			Days: make(map[string]string, days),
		}
		for d := 1; d <= days; d++ {
			date := domain.FormatDate(time.Date(year, time.Month(month), d, 0, 0, 0, 0, time.UTC))
			row.Days[strconv.Itoa(d)] = "-"
			if status, ok := s.statusOn(st.ID, date); ok {
				row.Days[strconv.Itoa(d)] = string(status)
				switch status {
				case domain.StatusPresent:
					row.TotalPresent++
				case domain.StatusAbsent:
					row.TotalAbsent++
				}
			}
		}
		if counted := row.TotalPresent + row.TotalAbsent; counted > 0 {
			row.Percentage = round1(float64(row.TotalPresent) / float64(counted) * 100)
		}
		out.Students = append(out.Students, row)
	}
	return out, true
}

func (h handlers) monthlyReport(ctx *fasthttp.RequestCtx, _ *domain.User) {
	if r, ok := h.buildMonthlyReport(ctx); ok {
		respondJSON(ctx, http.StatusOK, r)
	}
}

func (h handlers) exportReport(ctx *fasthttp.RequestCtx, _ *domain.User) {
	r, ok := h.buildMonthlyReport(ctx)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := report.WriteMonthlyWorkbook(&buf, r); err != nil {
		respondDetail(ctx, http.StatusInternalServerError, err.Error())
		return
	}
	ctx.Response.Header.SetContentType(report.ContentType)
	ctx.Response.Header.Set("Content-Disposition", "attachment; filename="+report.FileName(r.Year, r.Month))
	ctx.SetStatusCode(http.StatusOK)
	ctx.SetBody(buf.Bytes())
}

func (h handlers) studentReport(ctx *fasthttp.RequestCtx, _ *domain.User) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	s := h.store
	s.mu.Lock()
	defer s.mu.Unlock()
	st, found := s.students[id]
	if !found {
		respondDetail(ctx, http.StatusNotFound, "Student not found")
		return
	}
	out := domain.StudentReport{Student: *st, Records: []domain.StudentRecord{}}
	for key, status := range s.attendance {
		if key.studentID != id {
			continue
		}
		out.Records = append(out.Records, domain.StudentRecord{Date: key.date, Status: status})
		switch status {
		case domain.StatusPresent:
			out.Summary.Present++
		case domain.StatusAbsent:
			out.Summary.Absent++
		case domain.StatusLate:
			out.Summary.Late++
		}
	}
	sort.Slice(out.Records, func(i, j int) bool { return out.Records[i].Date > out.Records[j].Date })
	out.Summary.Total = len(out.Records)
	if out.Summary.Total > 0 {
		out.Summary.Percentage = round1(float64(out.Summary.Present) / float64(out.Summary.Total) * 100)
	}
	respondJSON(ctx, http.StatusOK, out)
}

// ---- notifications ----

func (h handlers) notifications(ctx *fasthttp.RequestCtx, _ *domain.User) {
	status := domain.NotificationStatus(ctx.QueryArgs().Peek("status"))
	s := h.store
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Notification{}
	for _, n := range s.notifications {
		if status == "" || n.Status == status {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	respondJSON(ctx, http.StatusOK, out)
}

func (h handlers) markSent(ctx *fasthttp.RequestCtx, _ *domain.User) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	s := h.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.notifications[id]; ok {
		n.Status = domain.NotificationSent
	}
	respondJSON(ctx, http.StatusOK, domain.Message{Message: "Notification marked as sent"})
}

func pathID(ctx *fasthttp.RequestCtx, key string) (int64, bool) {
	raw, _ := ctx.UserValue(key).(string)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondJSON(ctx, http.StatusUnprocessableEntity, map[string]interface{}{
			"detail": []map[string]interface{}{{"loc": []string{"path", key}, "msg": "value is not a valid integer"}},
		})
		return 0, false
	}
	return id, true
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
