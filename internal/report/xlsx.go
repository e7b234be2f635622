// Package report renders monthly attendance reports as spreadsheets.
package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/saadamjad-44/school-attendance-system/domain"
)

const (
	SheetName   = "Attendance Report"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// FileName is the attachment name used for a month's export.
func FileName(year, month int) string {
	return fmt.Sprintf("attendance_%d_%02d.xlsx", year, month)
}

// Header returns the column titles for a month with the given number of days.
func Header(days int) []string {
	header := make([]string, 0, days+5)
	header = append(header, "Roll No", "Student Name")
	for d := 1; d <= days; d++ {
		header = append(header, strconv.Itoa(d))
	}
	return append(header, "Total P", "Total A", "%")
}

// WriteMonthlyWorkbook writes r as a single-sheet workbook to w.
func WriteMonthlyWorkbook(w io.Writer, r *domain.MonthlyReport) error {
	days := r.DaysInMonth()
	if days == 0 {
		return domain.NewError(domain.ErrCodeInvalid, "report month out of range")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := setRow(f, 1, toCells(Header(days))); err != nil {
		return err
	}
	for i, st := range r.Students {
		row := make([]interface{}, 0, days+5)
		row = append(row, st.RollNo, st.NameEn)
		for d := 1; d <= days; d++ {
			row = append(row, domain.AttendanceStatus(st.Days[strconv.Itoa(d)]).Short())
		}
		row = append(row, st.TotalPresent, st.TotalAbsent, fmt.Sprintf("%.1f%%", st.Percentage))
		if err := setRow(f, i+2, row); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Summary describes the first sheet of a workbook.
type Summary struct {
	Sheet  string
	Header []string
	Rows   int
}

// ReadWorkbookSummary opens a workbook and reports its first sheet's name,
// header row and number of data rows.
func ReadWorkbookSummary(r io.Reader) (*Summary, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows of %s: %w", sheet, err)
	}

	summary := &Summary{Sheet: sheet}
	if len(rows) > 0 {
		summary.Header = rows[0]
		summary.Rows = len(rows) - 1
	}
	return summary, nil
}

func setRow(f *excelize.File, n int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", n, err)
	}
	return nil
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
