package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gpai/backend/internal/app/models/dto"
	"github.com/gpai/backend/internal/pkg/ai"
	"github.com/gpai/backend/internal/pkg/apperrors"
	"github.com/gpai/backend/internal/pkg/gpa"
)

// AdvisorService answers questions about a student's record with a language model
type AdvisorService interface {
	Ask(ctx context.Context, userID uuid.UUID, question string) (*dto.AdvisorResponse, error)
}

type advisorServiceImpl struct {
	contextService AcademicContextService
	generator      ai.TextGenerator
	logger         zerolog.Logger
}

// NewAdvisorService creates a new AdvisorService. A nil generator makes
// every call fail with apperrors.ErrUnavailable.
func NewAdvisorService(contextService AcademicContextService, generator ai.TextGenerator, logger zerolog.Logger) AdvisorService {
	return &advisorServiceImpl{contextService: contextService, generator: generator, logger: logger}
}

// Ask builds a prompt from the academic context and the question
func (s *advisorServiceImpl) Ask(ctx context.Context, userID uuid.UUID, question string) (*dto.AdvisorResponse, error) {
	if s.generator == nil {
		return nil, apperrors.NewCustomError(apperrors.ErrUnavailable, "Academic advisor is not configured")
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, apperrors.NewValidationError("question is required")
	}

	academic, err := s.contextService.GetContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	answer, err := s.generator.Generate(ctx, BuildAdvisorPrompt(academic, question))
	if err != nil {
		s.logger.Error().Err(err).Str("userID", userID.String()).Msg("Advisor generation failed")
		return nil, apperrors.NewCustomError(apperrors.ErrUnavailable, "Academic advisor is temporarily unavailable")
	}

	return &dto.AdvisorResponse{Answer: answer, Model: s.generator.Model()}, nil
}

// BuildAdvisorPrompt renders the context the model answers from
func BuildAdvisorPrompt(c *dto.AcademicContextResponse, question string) string {
	var b strings.Builder

	b.WriteString("You are an academic advisor for a university student. ")
	fmt.Fprintf(&b, "Grades are on a %.1f point scale:", gpa.MaxGPA)
	for _, e := range gpa.Scale() {
		fmt.Fprintf(&b, " %s=%.0f", e.Grade, e.Points)
	}
	b.WriteString(". Answer briefly and concretely using only the record below.\n\n")

	if u := c.User; u != nil {
		fmt.Fprintf(&b, "Student: %s\n", u.Name)
		if u.SchoolName != "" {
			fmt.Fprintf(&b, "School: %s\n", u.SchoolName)
		}
		if u.Department != "" {
			fmt.Fprintf(&b, "Department: %s\n", u.Department)
		}
		if u.Program != "" {
			fmt.Fprintf(&b, "Program: %s\n", u.Program)
		}
	}

	if s := c.AcademicSummary; s != nil {
		fmt.Fprintf(&b, "Cumulative GPA: %s over %g credit units (%d results)\n",
			s.CumulativeGPADisplay, s.TotalCreditUnits, s.TotalResults)
	}

	if len(c.RecentResults) > 0 {
		b.WriteString("Recent results:\n")
		for _, r := range c.RecentResults {
			fmt.Fprintf(&b, "- %s %s: GPA %s\n", r.AcademicSession, r.Semester, r.GPADisplay)
			for _, course := range r.Courses {
				fmt.Fprintf(&b, "  %s %s, %g units, grade %s\n", course.CourseCode, course.CourseTitle, course.CreditUnit, course.Grade)
			}
		}
	}

	fmt.Fprintf(&b, "\nQuestion: %s\n", question)
	return b.String()
}
