package gpa

import "sort"

// HistoricalResult is the part of a stored semester result the summary needs.
type HistoricalResult struct {
	TotalGradePoints float64
	TotalCreditUnits float64
}

// AcademicSummary is the cumulative standing over all of a user's results.
type AcademicSummary struct {
	CumulativeGPA    float64
	TotalCreditUnits float64
	TotalResults     int
}

// Summarize reduces results into an AcademicSummary. An empty slice yields
// the zero summary.
//
// Both columns are summed in sorted order so that any permutation of results
// produces bit-identical totals; float addition is not associative.
func Summarize(results []HistoricalResult) AcademicSummary {
	points := make([]float64, len(results))
	units := make([]float64, len(results))
	for i, r := range results {
		points[i] = r.TotalGradePoints
		units[i] = r.TotalCreditUnits
	}

	totalUnits := sortedSum(units)
	summary := AcademicSummary{
		TotalCreditUnits: totalUnits,
		TotalResults:     len(results),
	}
	if totalUnits > 0 {
		summary.CumulativeGPA = sortedSum(points) / totalUnits
	}
	return summary
}

func sortedSum(values []float64) float64 {
	sort.Float64s(values)
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum
}
