package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/gpai/backend/internal/pkg/gpa"
)

// CourseResult is one graded course inside a semester result
type CourseResult struct {
	CourseCode  string  `json:"course_code"`
	CourseTitle string  `json:"course_title"`
	CreditUnit  float64 `json:"credit_unit"`
	Grade       string  `json:"grade"`
	GradePoint  float64 `json:"grade_point"`
}

// Result is a recorded semester result. Totals and GPA are derived from
// Courses when the result is created.
type Result struct {
	ID               uuid.UUID      `json:"id" db:"id"`
	UserID           uuid.UUID      `json:"user_id" db:"user_id"`
	Semester         string         `json:"semester" db:"semester"`
	AcademicSession  string         `json:"academic_session" db:"academic_session"`
	Courses          []CourseResult `json:"courses" db:"courses"`
	GPA              float64        `json:"gpa" db:"gpa"`
	TotalCreditUnits float64        `json:"total_credit_units" db:"total_credit_units"`
	TotalGradePoints float64        `json:"total_grade_points" db:"total_grade_points"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" db:"updated_at"`
}

// Historical returns the totals the cumulative summary is computed from
func (r *Result) Historical() gpa.HistoricalResult {
	return gpa.HistoricalResult{
		TotalGradePoints: r.TotalGradePoints,
		TotalCreditUnits: r.TotalCreditUnits,
	}
}

// HistoricalResults maps results to summary inputs
func HistoricalResults(results []*Result) []gpa.HistoricalResult {
	out := make([]gpa.HistoricalResult, 0, len(results))
	for _, r := range results {
		out = append(out, r.Historical())
	}
	return out
}
