package dto

// AcademicContextResponse bundles what is known about a student's record
type AcademicContextResponse struct {
	User            *UserResponse            `json:"user"`
	AcademicSummary *AcademicSummaryResponse `json:"academic_summary"`
	RecentResults   []*ResultResponse        `json:"recent_results"`
}

// AdvisorRequest is a question for the academic advisor
type AdvisorRequest struct {
	Question string `json:"question" binding:"required,max=2000" example:"What grades do I need next semester to reach a 4.0?"`
}

// AdvisorResponse is the advisor's answer
type AdvisorResponse struct {
	Answer string `json:"answer"`
	Model  string `json:"model" example:"gemini-1.5-flash"`
}
