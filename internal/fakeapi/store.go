package fakeapi

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/saadamjad-44/school-attendance-system/domain"
)

const (
	roleAdmin     = domain.RoleAdmin
	rolePrincipal = domain.RolePrincipal
	roleTeacher   = domain.RoleTeacher
)

// SamplePassword is the password of every seeded account.
const SamplePassword = "school123"

type account struct {
	domain.User
	password string
}

type attendanceKey struct {
	studentID int64
	date      string
}

type store struct {
	mu  sync.Mutex
	now func() time.Time

	users         map[int64]*account
	sessions      map[string]int64
	classes       map[int64]*domain.Class
	students      map[int64]*domain.Student
	attendance    map[attendanceKey]domain.AttendanceStatus
	notifications map[int64]*domain.Notification
	nextID        int64
}

// newStore seeds one admin, one principal, two teachers, three classes (the
// third without a teacher) and five students.
func newStore(now func() time.Time) *store {
	s := &store{
		now:           now,
		users:         make(map[int64]*account),
		sessions:      make(map[string]int64),
		classes:       make(map[int64]*domain.Class),
		students:      make(map[int64]*domain.Student),
		attendance:    make(map[attendanceKey]domain.AttendanceStatus),
		notifications: make(map[int64]*domain.Notification),
		nextID:        100,
	}

	s.addUser(1, "admin", "Admin User", "منتظم", roleAdmin)
	s.addUser(2, "principal", "Principal", "پرنسپل", rolePrincipal)
	s.addUser(3, "teacher1", "Teacher 1", "استاد 1", roleTeacher)
	s.addUser(4, "teacher2", "Teacher 2", "استاد 2", roleTeacher)

	t1, t2 := int64(3), int64(4)
	s.classes[1] = &domain.Class{ID: 1, Name: "6-A", NameUr: "چھٹی الف", TeacherID: &t1}
	s.classes[2] = &domain.Class{ID: 2, Name: "6-B", NameUr: "چھٹی ب", TeacherID: &t2}
	s.classes[3] = &domain.Class{ID: 3, Name: "7-A", NameUr: "ساتویں الف"}

	s.students[1] = &domain.Student{ID: 1, NameEn: "Ali Khan", RollNo: "6A-01", ClassID: 1, ParentPhone: "+923001234501"}
	s.students[2] = &domain.Student{ID: 2, NameEn: "Sara Ahmed", RollNo: "6A-02", ClassID: 1, ParentPhone: "+923001234502"}
	s.students[3] = &domain.Student{ID: 3, NameEn: "Usman Tariq", RollNo: "6A-03", ClassID: 1}
	s.students[4] = &domain.Student{ID: 4, NameEn: "Ayesha Noor", RollNo: "6B-01", ClassID: 2}
	s.students[5] = &domain.Student{ID: 5, NameEn: "Bilal Raza", RollNo: "6B-02", ClassID: 2}
	return s
}

func (s *store) addUser(id int64, username, nameEn, nameUr string, role domain.Role) {
	s.users[id] = &account{
		User:     domain.User{ID: id, Username: username, NameEn: nameEn, NameUr: nameUr, Role: role},
		password: SamplePassword,
	}
}

func (s *store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *store) today() string {
	return domain.FormatDate(s.now())
}

func (s *store) authenticate(username, password string) (*domain.User, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.users {
		if acc.Username == username && acc.password == password {
			sessionID := uuid.NewString()
			s.sessions[sessionID] = acc.ID
			user := acc.User
			return &user, sessionID, true
		}
	}
	return nil, "", false
}

func (s *store) userForSession(sessionID string) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	acc, ok := s.users[id]
	if !ok {
		return nil
	}
	user := acc.User
	return &user
}

func (s *store) endSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

func (s *store) classOf(teacherID int64) *domain.Class {
	for _, id := range s.sortedClassIDs() {
		c := s.classes[id]
		if c.TeacherID != nil && *c.TeacherID == teacherID {
			return c
		}
	}
	return nil
}

func (s *store) sortedClassIDs() []int64 {
	ids := make([]int64, 0, len(s.classes))
	for id := range s.classes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return s.classes[ids[i]].Name < s.classes[ids[j]].Name })
	return ids
}

// studentsOf returns the students of classID, or all students when classID is
// 0, ordered by class and roll number.
func (s *store) studentsOf(classID int64) []domain.Student {
	var out []domain.Student
	for _, st := range s.students {
		if classID == 0 || st.ClassID == classID {
			out = append(out, *st)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ClassID != out[j].ClassID {
			return out[i].ClassID < out[j].ClassID
		}
		return out[i].RollNo < out[j].RollNo
	})
	return out
}

func (s *store) statusOn(studentID int64, date string) (domain.AttendanceStatus, bool) {
	status, ok := s.attendance[attendanceKey{studentID: studentID, date: date}]
	return status, ok
}
