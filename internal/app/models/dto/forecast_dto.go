package dto

import (
	"github.com/shopspring/decimal"

	"github.com/gpai/backend/internal/pkg/gpa"
)

// displayPlaces is the number of decimals GPA values are shown with
const displayPlaces = 2

// PlannedCourseRequest is a course the student expects to take
type PlannedCourseRequest struct {
	CreditUnit    float64 `json:"credit_unit" example:"3"`
	ExpectedGrade string  `json:"expected_grade" example:"A"`
}

// ForecastRequest is the body of a forecast call. Fields are checked by the
// GPA validator rather than binding tags so that every rule reports its own
// error code.
type ForecastRequest struct {
	CurrentGPA       float64                `json:"current_gpa" example:"3.5"`
	TotalCreditUnits float64                `json:"total_credit_units" example:"72"`
	PlannedCourses   []PlannedCourseRequest `json:"planned_courses"`
}

// ToDomain converts the request, keeping a missing course list nil
func (r *ForecastRequest) ToDomain() gpa.ForecastRequest {
	req := gpa.ForecastRequest{
		CurrentGPA:       r.CurrentGPA,
		TotalCreditUnits: r.TotalCreditUnits,
	}
	if r.PlannedCourses != nil {
		req.PlannedCourses = make([]gpa.PlannedCourse, len(r.PlannedCourses))
		for i, c := range r.PlannedCourses {
			req.PlannedCourses[i] = gpa.PlannedCourse{CreditUnit: c.CreditUnit, ExpectedGrade: c.ExpectedGrade}
		}
	}
	return req
}

// ForecastResponse carries the unrounded forecast plus a display value
type ForecastResponse struct {
	ProjectedGPA        float64 `json:"projected_gpa" example:"3.56"`
	TotalCreditUnits    float64 `json:"total_credit_units" example:"75"`
	TotalGradePoints    float64 `json:"total_grade_points" example:"267"`
	ExistingGradePoints float64 `json:"existing_grade_points" example:"252"`
	PlannedGradePoints  float64 `json:"planned_grade_points" example:"15"`
	ProjectedGPADisplay string  `json:"projected_gpa_display" example:"3.56"`
}

// NewForecastResponse maps a forecast result to its response
func NewForecastResponse(res gpa.ForecastResult) *ForecastResponse {
	return &ForecastResponse{
		ProjectedGPA:        res.ProjectedGPA,
		TotalCreditUnits:    res.TotalCreditUnits,
		TotalGradePoints:    res.TotalGradePoints,
		ExistingGradePoints: res.ExistingGradePoints,
		PlannedGradePoints:  res.PlannedGradePoints,
		ProjectedGPADisplay: FormatGPA(res.ProjectedGPA),
	}
}

// GradeScaleResponse lists the grade to point table
type GradeScaleResponse struct {
	Grades []gpa.ScaleEntry `json:"grades"`
	MaxGPA float64          `json:"max_gpa" example:"5"`
}

// FormatGPA renders a GPA rounded half away from zero to two decimals
func FormatGPA(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(displayPlaces)
}
