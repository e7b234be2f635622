package client

import (
	"context"

	"github.com/valyala/fasthttp"

	"github.com/saadamjad-44/school-attendance-system/api/transport"
	"github.com/saadamjad-44/school-attendance-system/domain"
)

func (c *Client) Teachers(ctx context.Context) ([]domain.Teacher, error) {
	var teachers []domain.Teacher
	if err := c.gw.Do(ctx, "/admin/teachers", Options{}, &teachers); err != nil {
		return nil, err
	}
	return teachers, nil
}

func (c *Client) AddTeacher(ctx context.Context, teacher domain.NewTeacher) (*domain.Created, error) {
	var created domain.Created
	if err := c.gw.Do(ctx, "/admin/teachers", Options{Method: "POST", Body: teacher}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) DeleteTeacher(ctx context.Context, id int64) (*domain.Message, error) {
	var msg domain.Message
	if err := c.gw.Do(ctx, idPath("/admin/teachers", id, ""), Options{Method: "DELETE"}, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Students lists every student, or only those of classID when it is not 0.
func (c *Client) Students(ctx context.Context, classID int64) ([]domain.Student, error) {
	endpoint := query("/admin/students", func(args *fasthttp.Args) {
		setID(args, "class_id", classID)
	})
	var students []domain.Student
	if err := c.gw.Do(ctx, endpoint, Options{}, &students); err != nil {
		return nil, err
	}
	return students, nil
}

func (c *Client) AddStudent(ctx context.Context, student domain.NewStudent) (*domain.Created, error) {
	var created domain.Created
	if err := c.gw.Do(ctx, "/admin/students", Options{Method: "POST", Body: student}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) DeleteStudent(ctx context.Context, id int64) (*domain.Message, error) {
	var msg domain.Message
	if err := c.gw.Do(ctx, idPath("/admin/students", id, ""), Options{Method: "DELETE"}, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) Classes(ctx context.Context) ([]domain.Class, error) {
	var classes []domain.Class
	if err := c.gw.Do(ctx, "/admin/classes", Options{}, &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

func (c *Client) AddClass(ctx context.Context, class domain.NewClass) (*domain.Created, error) {
	var created domain.Created
	if err := c.gw.Do(ctx, "/admin/classes", Options{Method: "POST", Body: class}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// AssignTeacher makes teacherID the class teacher; 0 leaves the class without one.
func (c *Client) AssignTeacher(ctx context.Context, classID, teacherID int64) (*domain.Message, error) {
	body := transport.AssignTeacherRequest{}
	if teacherID != 0 {
		body.TeacherID = &teacherID
	}
	var msg domain.Message
	if err := c.gw.Do(ctx, idPath("/admin/classes", classID, "/assign-teacher"), Options{Method: "PUT", Body: body}, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
