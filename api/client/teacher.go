package client

import (
	"context"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/saadamjad-44/school-attendance-system/api/transport"
	"github.com/saadamjad-44/school-attendance-system/domain"
)

func (c *Client) MyClass(ctx context.Context) (*domain.MyClass, error) {
	var class domain.MyClass
	if err := c.gw.Do(ctx, "/teacher/my-class", Options{}, &class); err != nil {
		return nil, err
	}
	return &class, nil
}

func (c *Client) Attendance(ctx context.Context, date time.Time) (*domain.AttendanceSheet, error) {
	var sheet domain.AttendanceSheet
	if err := c.gw.Do(ctx, "/teacher/attendance/"+domain.FormatDate(date), Options{}, &sheet); err != nil {
		return nil, err
	}
	return &sheet, nil
}

func (c *Client) SaveAttendance(ctx context.Context, date time.Time, marks []domain.AttendanceMark) (*domain.Message, error) {
	if marks == nil {
		marks = []domain.AttendanceMark{}
	}
	var msg domain.Message
	err := c.gw.Do(ctx, "/teacher/attendance", Options{
		Method: "POST",
		Body: transport.SaveAttendanceRequest{
			Date:    domain.FormatDate(date),
			Records: marks,
		},
	}, &msg)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// AttendanceHistory returns the class history of the last days; days <= 0
// means the default window.
func (c *Client) AttendanceHistory(ctx context.Context, days int) (*domain.AttendanceHistory, error) {
	if days <= 0 {
		days = domain.DefaultHistoryDays
	}
	endpoint := query("/teacher/history", func(args *fasthttp.Args) {
		args.Set("days", strconv.Itoa(days))
	})
	var history domain.AttendanceHistory
	if err := c.gw.Do(ctx, endpoint, Options{}, &history); err != nil {
		return nil, err
	}
	return &history, nil
}
