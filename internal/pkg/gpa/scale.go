// Package gpa holds the grade-point arithmetic: the letter grade scale,
// forecast validation and projection, and the cumulative summary over stored
// results. Everything here is pure and safe for concurrent use.
package gpa

import (
	"sort"
	"strings"
)

// Grade is a normalized (uppercase) letter grade.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeE Grade = "E"
	GradeF Grade = "F"
)

// MaxGPA is the top of the scale.
const MaxGPA = 5.0

var gradePoints = map[Grade]float64{
	GradeA: 5.0,
	GradeB: 4.0,
	GradeC: 3.0,
	GradeD: 2.0,
	GradeE: 1.0,
	GradeF: 0.0,
}

const invalidGradeMessage = "Invalid grade. Must be A, B, C, D, E, or F"

// ParseGrade normalizes symbol to uppercase and checks it against the scale.
// Surrounding whitespace is not trimmed.
func ParseGrade(symbol string) (Grade, error) {
	g := Grade(strings.ToUpper(symbol))
	if _, ok := gradePoints[g]; !ok {
		return "", newError(ErrInvalidGrade, "expected_grade", invalidGradeMessage)
	}
	return g, nil
}

// Points returns the grade-point value of g. It reports false for a grade
// outside the scale.
func (g Grade) Points() (float64, bool) {
	p, ok := gradePoints[g]
	return p, ok
}

// PointsFor converts a letter grade symbol, in any casing, to grade points.
func PointsFor(symbol string) (float64, error) {
	g, err := ParseGrade(symbol)
	if err != nil {
		return 0, err
	}
	return gradePoints[g], nil
}

// ScaleEntry is one row of the grade scale.
type ScaleEntry struct {
	Grade  Grade   `json:"grade"`
	Points float64 `json:"points"`
}

// Scale returns the whole table ordered from the highest grade down.
func Scale() []ScaleEntry {
	entries := make([]ScaleEntry, 0, len(gradePoints))
	for g, p := range gradePoints {
		entries = append(entries, ScaleEntry{Grade: g, Points: p})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Points > entries[j].Points })
	return entries
}
