package dto

import (
	"time"

	"github.com/gpai/backend/internal/app/models"
	"github.com/gpai/backend/internal/pkg/gpa"
)

// CourseResultRequest is one graded course of a semester
type CourseResultRequest struct {
	CourseCode  string  `json:"course_code" binding:"required,max=20" example:"CSC301"`
	CourseTitle string  `json:"course_title" binding:"required,max=200" example:"Data Structures"`
	CreditUnit  float64 `json:"credit_unit" binding:"required" example:"3"`
	Grade       string  `json:"grade" binding:"required" example:"A"`
}

// CreateResultRequest records a semester result
type CreateResultRequest struct {
	Semester        string                `json:"semester" binding:"required,max=50" example:"First"`
	AcademicSession string                `json:"academic_session" binding:"required,max=20" example:"2023/2024"`
	Courses         []CourseResultRequest `json:"courses" binding:"required,min=1,dive"`
}

// ResultResponse is the public view of a recorded result
type ResultResponse struct {
	ID               string                `json:"id"`
	Semester         string                `json:"semester" example:"First"`
	AcademicSession  string                `json:"academic_session" example:"2023/2024"`
	Courses          []models.CourseResult `json:"courses"`
	GPA              float64               `json:"gpa" example:"4.25"`
	GPADisplay       string                `json:"gpa_display" example:"4.25"`
	TotalCreditUnits float64               `json:"total_credit_units" example:"18"`
	TotalGradePoints float64               `json:"total_grade_points" example:"76.5"`
	CreatedAt        time.Time             `json:"created_at"`
}

// ResultListResponse is a page of results
type ResultListResponse struct {
	Results    []*ResultResponse `json:"results"`
	Pagination PaginationInfo    `json:"pagination"`
}

// AcademicSummaryResponse is the cumulative standing of a user
type AcademicSummaryResponse struct {
	CumulativeGPA        float64 `json:"cumulative_gpa" example:"3.27"`
	CumulativeGPADisplay string  `json:"cumulative_gpa_display" example:"3.27"`
	TotalCreditUnits     float64 `json:"total_credit_units" example:"33"`
	TotalResults         int     `json:"total_results" example:"2"`
}

// NewResultResponse maps a result model to its public view
func NewResultResponse(r *models.Result) *ResultResponse {
	if r == nil {
		return nil
	}
	courses := r.Courses
	if courses == nil {
		courses = []models.CourseResult{}
	}
	return &ResultResponse{
		ID:               r.ID.String(),
		Semester:         r.Semester,
		AcademicSession:  r.AcademicSession,
		Courses:          courses,
		GPA:              r.GPA,
		GPADisplay:       FormatGPA(r.GPA),
		TotalCreditUnits: r.TotalCreditUnits,
		TotalGradePoints: r.TotalGradePoints,
		CreatedAt:        r.CreatedAt,
	}
}

// NewResultResponses maps a list of results
func NewResultResponses(results []*models.Result) []*ResultResponse {
	out := make([]*ResultResponse, 0, len(results))
	for _, r := range results {
		out = append(out, NewResultResponse(r))
	}
	return out
}

// NewAcademicSummaryResponse maps a summary to its response
func NewAcademicSummaryResponse(s gpa.AcademicSummary) *AcademicSummaryResponse {
	return &AcademicSummaryResponse{
		CumulativeGPA:        s.CumulativeGPA,
		CumulativeGPADisplay: FormatGPA(s.CumulativeGPA),
		TotalCreditUnits:     s.TotalCreditUnits,
		TotalResults:         s.TotalResults,
	}
}
