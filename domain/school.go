package domain

// Teacher is a row of the admin teacher listing.
type Teacher struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	NameEn    string `json:"name_en"`
	NameUr    string `json:"name_ur,omitempty"`
	ClassID   *int64 `json:"class_id,omitempty"`
	ClassName string `json:"class_name,omitempty"`
}

type NewTeacher struct {
	Username string `json:"username"`
	Password string `json:"password"`
	NameEn   string `json:"name_en"`
	NameUr   string `json:"name_ur,omitempty"`
	ClassID  *int64 `json:"class_id,omitempty"`
}

// Student is returned by admin listings and, with Status filled, by the
// teacher attendance endpoints.
type Student struct {
	ID          int64            `json:"id"`
	NameEn      string           `json:"name_en"`
	NameUr      string           `json:"name_ur,omitempty"`
	RollNo      string           `json:"roll_no"`
	ClassID     int64            `json:"class_id,omitempty"`
	ParentPhone string           `json:"parent_phone,omitempty"`
	Status      AttendanceStatus `json:"status,omitempty"`
}

type NewStudent struct {
	NameEn      string `json:"name_en"`
	NameUr      string `json:"name_ur,omitempty"`
	RollNo      string `json:"roll_no"`
	ClassID     int64  `json:"class_id"`
	ParentPhone string `json:"parent_phone,omitempty"`
}

type Class struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	NameUr      string `json:"name_ur,omitempty"`
	TeacherID   *int64 `json:"teacher_id,omitempty"`
	TeacherName string `json:"teacher_name,omitempty"`
}

type NewClass struct {
	Name   string `json:"name"`
	NameUr string `json:"name_ur,omitempty"`
}

// Created acknowledges an insert.
type Created struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// Message acknowledges an update or delete.
type Message struct {
	Message string `json:"message"`
}
