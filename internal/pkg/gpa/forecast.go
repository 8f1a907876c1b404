package gpa

import "math"

// PlannedCourse is a course the student expects to take.
type PlannedCourse struct {
	CreditUnit    float64
	ExpectedGrade string
}

// ForecastRequest is the current standing plus the planned courses.
// A nil PlannedCourses means the field was not supplied at all.
type ForecastRequest struct {
	CurrentGPA       float64
	TotalCreditUnits float64
	PlannedCourses   []PlannedCourse
}

// ForecastResult carries every intermediate quantity of the projection so
// callers can audit it. Nothing is rounded.
type ForecastResult struct {
	ProjectedGPA        float64
	TotalCreditUnits    float64
	TotalGradePoints    float64
	ExistingGradePoints float64
	PlannedGradePoints  float64
}

// absent mirrors a loose truthiness check: zero and NaN count as not supplied.
// This rejects a genuine 0.0 GPA or a zero-unit course as missing.
func absent(v float64) bool {
	return v == 0 || math.IsNaN(v)
}

// Validate checks req and returns the first violation as an *Error.
// It does not modify req. Besides the GPA range it also rejects a negative
// total_credit_units with ErrOutOfRange, which keeps the projection's
// denominator positive.
func Validate(req ForecastRequest) error {
	if absent(req.CurrentGPA) || absent(req.TotalCreditUnits) || req.PlannedCourses == nil {
		return newError(ErrMissingField, "", "All fields are required")
	}

	if req.CurrentGPA < 0 || req.CurrentGPA > MaxGPA {
		return newError(ErrOutOfRange, "current_gpa", "Invalid current GPA")
	}
	if req.TotalCreditUnits < 0 {
		return newError(ErrOutOfRange, "total_credit_units", "Total credit units cannot be negative")
	}

	if len(req.PlannedCourses) == 0 {
		return newError(ErrEmptyCourses, "planned_courses", "Planned courses array is required and cannot be empty")
	}

	for i, course := range req.PlannedCourses {
		if absent(course.CreditUnit) || course.ExpectedGrade == "" {
			return courseError(ErrMissingField, i, "credit_unit",
				"Credit unit and expected grade are required for each planned course")
		}
		if course.CreditUnit <= 0 {
			return courseError(ErrInvalidCreditUnit, i, "credit_unit", "Credit unit must be greater than 0")
		}
		if _, err := ParseGrade(course.ExpectedGrade); err != nil {
			return courseError(ErrInvalidGrade, i, "expected_grade", invalidGradeMessage)
		}
	}

	return nil
}

// Calculate projects the GPA for req. It assumes req already passed Validate;
// the only error it can surface is an unconvertible grade.
func Calculate(req ForecastRequest) (ForecastResult, error) {
	existing := req.CurrentGPA * req.TotalCreditUnits

	var plannedPoints, plannedUnits float64
	for i, course := range req.PlannedCourses {
		points, err := PointsFor(course.ExpectedGrade)
		if err != nil {
			return ForecastResult{}, courseError(ErrInvalidGrade, i, "expected_grade", invalidGradeMessage)
		}
		plannedPoints += points * course.CreditUnit
		plannedUnits += course.CreditUnit
	}

	totalUnits := req.TotalCreditUnits + plannedUnits
	totalPoints := existing + plannedPoints

	return ForecastResult{
		ProjectedGPA:        totalPoints / totalUnits,
		TotalCreditUnits:    totalUnits,
		TotalGradePoints:    totalPoints,
		ExistingGradePoints: existing,
		PlannedGradePoints:  plannedPoints,
	}, nil
}

// Forecast validates req and then calculates the projection.
func Forecast(req ForecastRequest) (ForecastResult, error) {
	if err := Validate(req); err != nil {
		return ForecastResult{}, err
	}
	return Calculate(req)
}
