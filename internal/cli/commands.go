package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/saadamjad-44/school-attendance-system/domain"
	"github.com/saadamjad-44/school-attendance-system/internal/report"
	"github.com/saadamjad-44/school-attendance-system/internal/services"
	"github.com/saadamjad-44/school-attendance-system/usecase/bootstrap"
)

// Register installs every attendancectl command on d.
func Register(d *Dispatcher) {
	d.Register("login", "-u USER -p PASS", login)
	d.Register("logout", "", logout)
	d.Register("whoami", "", whoami)
	d.Register("open", "PATH  run the page guard for PATH", openPage)
	d.Register("home", "[PATH]  go to the role's home page", home)
	d.Register("profiles", "list saved session profiles", profiles)

	d.Register("teachers list", "", listTeachers)
	d.Register("teachers add", "-username U -password P -name N [-name-ur N] [-class ID]", addTeacher)
	d.Register("teachers delete", "ID", deleteTeacher)

	d.Register("students list", "[-class ID]", listStudents)
	d.Register("students add", "-name N -roll R -class ID [-name-ur N] [-phone P]", addStudent)
	d.Register("students delete", "ID", deleteStudent)

	d.Register("classes list", "", listClasses)
	d.Register("classes add", "-name N [-name-ur N]", addClass)
	d.Register("classes assign", "CLASS_ID TEACHER_ID  (0 unassigns)", assignTeacher)

	d.Register("attendance class", "", myClass)
	d.Register("attendance get", "[-date YYYY-MM-DD]", getAttendance)
	d.Register("attendance save", "[-date YYYY-MM-DD] STUDENT_ID=STATUS...", saveAttendance)
	d.Register("attendance history", "[-days N]", history)

	d.Register("report dashboard", "", dashboard)
	d.Register("report monthly", "-year Y -month M [-class ID]", monthlyReport)
	d.Register("report export-url", "-year Y -month M [-class ID]", exportURL)
	d.Register("report export", "-year Y -month M [-class ID] [-o FILE]", exportReport)
	d.Register("report student", "ID", studentReport)

	d.Register("notifications list", "[-status pending|sent]", listNotifications)
	d.Register("notifications send", "ID", markSent)
	d.Register("notifications watch", "[-interval 30s]", watchNotifications)
}

type navigation struct {
	Path     string       `json:"path"`
	Redirect string       `json:"redirect,omitempty"`
	User     *domain.User `json:"user,omitempty"`
}

type exportResult struct {
	File        string   `json:"file"`
	ContentType string   `json:"content_type"`
	Sheet       string   `json:"sheet,omitempty"`
	Rows        int      `json:"rows"`
	Header      []string `json:"header,omitempty"`
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return domain.WrapError(domain.ErrCodeInvalid, fs.Name(), err)
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf(format, args...))
}

func argID(args []string, what string) (int64, error) {
	if len(args) != 1 {
		return 0, invalid("expected one %s", what)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, invalid("%s must be a positive integer, got %q", what, args[0])
	}
	return id, nil
}

func parseDate(env *Env, raw string) (time.Time, error) {
	if raw == "" {
		return env.now(), nil
	}
	date, err := time.Parse(domain.DateLayout, raw)
	if err != nil {
		return time.Time{}, invalid("date must look like %s, got %q", domain.DateLayout, raw)
	}
	return date, nil
}

// ---- auth & pages ----

func login(ctx context.Context, env *Env, args []string) (interface{}, error) {
	fs := newFlags("login")
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	if *username == "" {
		return nil, invalid("username is required")
	}
	return env.Client.Login(ctx, *username, *password)
}

func logout(ctx context.Context, env *Env, _ []string) (interface{}, error) {
	if err := env.Client.Logout(ctx); err != nil {
		return nil, err
	}
	return domain.Message{Message: "Logged out"}, nil
}

func whoami(ctx context.Context, env *Env, _ []string) (interface{}, error) {
	user := env.Client.CurrentUser(ctx)
	if user == nil {
		return nil, domain.NewError(domain.ErrCodeUnauthorized, "not logged in")
	}
	return user, nil
}

func openPage(ctx context.Context, env *Env, args []string) (interface{}, error) {
	if len(args) != 1 {
		return nil, invalid("expected a page path")
	}
	out := navigation{Path: args[0]}
	nav := bootstrap.NavigatorFunc(func(_ context.Context, path string) error {
		out.Redirect = path
		return nil
	})
	user, err := bootstrap.NewGuard(env.Client, nav, env.logger()).Run(ctx, args[0])
	if err != nil {
		return nil, err
	}
	out.User = user
	return out, nil
}

func home(ctx context.Context, env *Env, args []string) (interface{}, error) {
	out := navigation{}
	if len(args) > 0 {
		out.Path = args[0]
	}
	out.User = env.Client.CurrentUser(ctx)
	nav := bootstrap.NavigatorFunc(func(_ context.Context, path string) error {
		out.Redirect = path
		return nil
	})
	if err := bootstrap.RedirectToRole(ctx, nav, out.User, out.Path); err != nil {
		return nil, err
	}
	return out, nil
}

func profiles(_ context.Context, env *Env, _ []string) (interface{}, error) {
	if env.Profiles == nil {
		return nil, invalid("the configured session store cannot list profiles")
	}
	return env.Profiles()
}

// ---- admin ----

func listTeachers(ctx context.Context, env *Env, _ []string) (interface{}, error) {
	return env.Client.Teachers(ctx)
}

func addTeacher(ctx context.Context, env *Env, args []string) (interface{}, error) {
	fs := newFlags("teachers add")
	var t domain.NewTeacher
	fs.StringVar(&t.Username, "username", "", "login name")
	fs.StringVar(&t.Password, "password", "", "password")
	fs.StringVar(&t.NameEn, "name", "", "name in English")
	fs.StringVar(&t.NameUr, "name-ur", "", "name in Urdu")
	classID := fs.Int64("class", 0, "class to assign")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	if t.Username == "" || t.Password == "" || t.NameEn == "" {
		return nil, invalid("username, password and name are required")
	}
	if *classID != 0 {
		t.ClassID = classID
	}
	return env.Client.AddTeacher(ctx, t)
}

func deleteTeacher(ctx context.Context, env *Env, args []string) (interface{}, error) {
	id, err := argID(args, "teacher id")
	if err != nil {
		return nil, err
	}
	return env.Client.DeleteTeacher(ctx, id)
}

func listStudents(ctx context.Context, env *Env, args []string) (interface{}, error) {
	fs := newFlags("students list")
	classID := fs.Int64("class", 0, "only this class")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	return env.Client.Students(ctx, *classID)
}

func addStudent(ctx context.Context, env *Env, args []string) (interface{}, error) {
	fs := newFlags("students add")
	var s domain.NewStudent
	fs.StringVar(&s.NameEn, "name", "", "name in English")
	fs.StringVar(&s.NameUr, "name-ur", "", "name in Urdu")
	fs.StringVar(&s.RollNo, "roll", "", "roll number")
	fs.Int64Var(&s.ClassID, "class", 0, "class id")
	fs.StringVar(&s.ParentPhone, "phone", "", "parent phone")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	if s.NameEn == "" || s.RollNo == "" || s.ClassID == 0 {
		return nil, invalid("name, roll and class are required")
	}
	return env.Client.AddStudent(ctx, s)
}

func deleteStudent(ctx context.Context, env *Env, args []string) (interface{}, error) {
	id, err := argID(args, "student id")
	if err != nil {
		return nil, err
	}
	return env.Client.DeleteStudent(ctx, id)
}

func listClasses(ctx context.Context, env *Env, _ []string) (interface{}, error) {
	return env.Client.Classes(ctx)
}

func addClass(ctx context.Context, env *Env, args []string) (interface{}, error) {
	fs := newFlags("classes add")
	var c domain.NewClass
	fs.StringVar(&c.Name, "name", "", "class name")
	fs.StringVar(&c.NameUr, "name-ur", "", "class name in Urdu")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	if c.Name == "" {
		return nil, invalid("name is required")
	}
	return env.Client.AddClass(ctx, c)
}

func assignTeacher(ctx context.Context, env *Env, args []string) (interface{}, error) {
	if len(args) != 2 {
		return nil, invalid("expected CLASS_ID TEACHER_ID")
	}
	classID, err := argID(args[:1], "class id")
	if err != nil {
		return nil, err
	}
	teacherID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || teacherID < 0 {
		return nil, invalid("teacher id must be a non-negative integer, got %q", args[1])
	}
	return env.Client.AssignTeacher(ctx, classID, teacherID)
}

// ---- teacher ----

func myClass(ctx context.Context, env *Env, _ []string) (interface{}, error) {
	return env.Client.MyClass(ctx)
}

func getAttendance(ctx context.Context, env *Env, args []string) (interface{}, error) {
	fs := newFlags("attendance get")
	raw := fs.String("date", "", "day to show, default today")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	date, err := parseDate(env, *raw)
	if err != nil {
		return nil, err
	}
	return env.Client.Attendance(ctx, date)
}

func saveAttendance(ctx context.Context, env *Env, args []string) (interface{}, error) {
	fs := newFlags("attendance save")
	raw := fs.String("date", "", "day to save, default today")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	date, err := parseDate(env, *raw)
	if err != nil {
		return nil, err
	}
	marks, err := parseMarks(fs.Args())
	if err != nil {
		return nil, err
	}
	return env.Client.SaveAttendance(ctx, date, marks)
}

// parseMarks reads STUDENT_ID=STATUS pairs.
func parseMarks(args []string) ([]domain.AttendanceMark, error) {
	marks := make([]domain.AttendanceMark, 0, len(args))
	for _, arg := range args {
		idPart, statusPart, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, invalid("mark %q must look like STUDENT_ID=STATUS", arg)
		}
		id, err := strconv.ParseInt(idPart, 10, 64)
		if err != nil || id <= 0 {
			return nil, invalid("bad student id in %q", arg)
		}
		status := domain.AttendanceStatus(strings.ToLower(statusPart))
		if !status.Valid() {
			return nil, invalid("status in %q must be present, absent or late", arg)
		}
		marks = append(marks, domain.AttendanceMark{StudentID: id, Status: status})
	}
	return marks, nil
}

func history(ctx context.Context, env *Env, args []string) (interface{}, error) {
	fs := newFlags("attendance history")
	days := fs.Int("days", domain.DefaultHistoryDays, "look-back window")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	return env.Client.AttendanceHistory(ctx, *days)
}

// ---- principal ----

func dashboard(ctx context.Context, env *Env, _ []string) (interface{}, error) {
	return env.Client.Dashboard(ctx)
}

type reportFlags struct {
	year, month int
	classID     int64
	output      string
}

func parseReportFlags(env *Env, name string, args []string, withOutput bool) (*reportFlags, error) {
	now := env.now()
	fs := newFlags(name)
	rf := &reportFlags{}
	fs.IntVar(&rf.year, "year", now.Year(), "year")
	fs.IntVar(&rf.month, "month", int(now.Month()), "month 1-12")
	fs.Int64Var(&rf.classID, "class", 0, "only this class")
	if withOutput {
		fs.StringVar(&rf.output, "o", "", "output file")
	}
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	if rf.month < 1 || rf.month > 12 {
		return nil, invalid("month must be between 1 and 12, got %d", rf.month)
	}
	return rf, nil
}

func monthlyReport(ctx context.Context, env *Env, args []string) (interface{}, error) {
	rf, err := parseReportFlags(env, "report monthly", args, false)
	if err != nil {
		return nil, err
	}
	return env.Client.MonthlyReport(ctx, rf.year, rf.month, rf.classID)
}

func exportURL(_ context.Context, env *Env, args []string) (interface{}, error) {
	rf, err := parseReportFlags(env, "report export-url", args, false)
	if err != nil {
		return nil, err
	}
	return map[string]string{"url": env.Client.ReportExportURL(rf.year, rf.month, rf.classID)}, nil
}

func exportReport(ctx context.Context, env *Env, args []string) (interface{}, error) {
	rf, err := parseReportFlags(env, "report export", args, true)
	if err != nil {
		return nil, err
	}
	if rf.output == "" {
		rf.output = report.FileName(rf.year, rf.month)
	}

	f, err := os.Create(rf.output)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", rf.output, err)
	}
	contentType, err := env.Client.DownloadReport(ctx, rf.year, rf.month, rf.classID, f)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(rf.output)
		return nil, err
	}

	out := exportResult{File: rf.output, ContentType: contentType}
	in, err := os.Open(rf.output)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	summary, err := report.ReadWorkbookSummary(in)
	if err != nil {
		env.logger().Warn("downloaded export is not a readable workbook")
		return out, nil
	}
	out.Sheet, out.Rows, out.Header = summary.Sheet, summary.Rows, summary.Header
	return out, nil
}

func studentReport(ctx context.Context, env *Env, args []string) (interface{}, error) {
	id, err := argID(args, "student id")
	if err != nil {
		return nil, err
	}
	return env.Client.StudentReport(ctx, id)
}

// ---- notifications ----

func listNotifications(ctx context.Context, env *Env, args []string) (interface{}, error) {
	fs := newFlags("notifications list")
	status := fs.String("status", "", "pending or sent")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	switch s := domain.NotificationStatus(*status); s {
	case "", domain.NotificationPending, domain.NotificationSent:
		return env.Client.Notifications(ctx, s)
	default:
		return nil, invalid("status must be pending or sent, got %q", *status)
	}
}

func markSent(ctx context.Context, env *Env, args []string) (interface{}, error) {
	id, err := argID(args, "notification id")
	if err != nil {
		return nil, err
	}
	return env.Client.MarkNotificationSent(ctx, id)
}

// watchNotifications prints each new pending notification until ctx ends.
func watchNotifications(ctx context.Context, env *Env, args []string) (interface{}, error) {
	fs := newFlags("notifications watch")
	interval := fs.Duration("interval", env.WatchInterval, "poll interval")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}

	seen := 0
	watcher, err := services.NewNotificationWatcher(env.Client, func(n domain.Notification) {
		seen++
		if err := WriteJSON(env.Out, n); err != nil {
			env.logger().Warn("failed to print notification")
		}
	}, env.logger(), services.WatcherConfig{Interval: *interval})
	if err != nil {
		return nil, err
	}

	if _, err := watcher.Poll(ctx); err != nil {
		return nil, err
	}
	watcher.Start()
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	watcher.Stop(stopCtx)
	return map[string]int{"notifications": seen}, nil
}
