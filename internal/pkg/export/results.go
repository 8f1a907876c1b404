// Package export renders a student's results as a spreadsheet.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/gpai/backend/internal/app/models"
	"github.com/gpai/backend/internal/pkg/gpa"
)

const (
	resultsSheet = "Results"
	summarySheet = "Summary"
)

var courseHeaders = []string{
	"Academic Session", "Semester", "Course Code", "Course Title",
	"Credit Unit", "Grade", "Grade Point", "Semester GPA",
}

// WriteResults writes one row per course, grouped by result, followed by a
// summary sheet with the cumulative standing.
func WriteResults(w io.Writer, results []*models.Result, summary gpa.AcademicSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range courseHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(resultsSheet, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	row := 2
	for _, r := range results {
		for _, c := range r.Courses {
			values := []interface{}{
				r.AcademicSession, r.Semester, c.CourseCode, c.CourseTitle,
				c.CreditUnit, c.Grade, c.GradePoint, r.GPA,
			}
			if err := f.SetSheetRow(resultsSheet, fmt.Sprintf("A%d", row), &values); err != nil {
				return fmt.Errorf("write row %d: %w", row, err)
			}
			row++
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	summaryRows := [][]interface{}{
		{"Cumulative GPA", summary.CumulativeGPA},
		{"Total Credit Units", summary.TotalCreditUnits},
		{"Total Results", summary.TotalResults},
	}
	for i, values := range summaryRows {
		values := values
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+1), &values); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
