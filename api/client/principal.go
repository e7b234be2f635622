package client

import (
	"context"
	"io"
	"strconv"

	"github.com/valyala/fasthttp"

	"github.com/saadamjad-44/school-attendance-system/domain"
)

func (c *Client) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	var dashboard domain.Dashboard
	if err := c.gw.Do(ctx, "/principal/dashboard", Options{}, &dashboard); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

// MonthlyReport fetches the month's report for one class, or for the whole
// school when classID is 0.
func (c *Client) MonthlyReport(ctx context.Context, year, month int, classID int64) (*domain.MonthlyReport, error) {
	var report domain.MonthlyReport
	if err := c.gw.Do(ctx, reportEndpoint("/principal/report", year, month, classID), Options{}, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// ReportExportURL returns the URL of the spreadsheet export. Fetching and
// saving it is left to the caller, see DownloadReport.
func (c *Client) ReportExportURL(year, month int, classID int64) string {
	return c.gw.URL(reportEndpoint("/principal/report/export", year, month, classID))
}

// DownloadReport writes the spreadsheet export to w and returns its content type.
func (c *Client) DownloadReport(ctx context.Context, year, month int, classID int64, w io.Writer) (string, error) {
	return c.gw.Download(ctx, reportEndpoint("/principal/report/export", year, month, classID), w)
}

func (c *Client) StudentReport(ctx context.Context, studentID int64) (*domain.StudentReport, error) {
	var report domain.StudentReport
	if err := c.gw.Do(ctx, idPath("/principal/student", studentID, ""), Options{}, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func reportEndpoint(endpoint string, year, month int, classID int64) string {
	return query(endpoint, func(args *fasthttp.Args) {
		args.Set("year", strconv.Itoa(year))
		args.Set("month", strconv.Itoa(month))
		setID(args, "class_id", classID)
	})
}
