package services

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gpai/backend/internal/app/models"
	"github.com/gpai/backend/internal/app/models/dto"
	"github.com/gpai/backend/internal/app/repositories"
	"github.com/gpai/backend/internal/pkg/export"
	"github.com/gpai/backend/internal/pkg/gpa"
	"github.com/gpai/backend/internal/pkg/helpers"
)

// ResultService records semester results and aggregates them
type ResultService interface {
	CreateResult(ctx context.Context, userID uuid.UUID, req *dto.CreateResultRequest) (*models.Result, error)
	GetResult(ctx context.Context, userID, resultID uuid.UUID) (*models.Result, error)
	ListResults(ctx context.Context, userID uuid.UUID, page, size int) ([]*models.Result, int64, error)
	DeleteResult(ctx context.Context, userID, resultID uuid.UUID) error
	GetSummary(ctx context.Context, userID uuid.UUID) (gpa.AcademicSummary, error)
	ExportResults(ctx context.Context, userID uuid.UUID, w io.Writer) error
}

type resultServiceImpl struct {
	resultRepo repositories.IResultRepository
	logger     zerolog.Logger
}

// NewResultService creates a new ResultService
func NewResultService(resultRepo repositories.IResultRepository, logger zerolog.Logger) ResultService {
	return &resultServiceImpl{resultRepo: resultRepo, logger: logger}
}

// BuildResult grades every course and derives the semester totals. Grades
// are normalized to upper case.
func BuildResult(userID uuid.UUID, req *dto.CreateResultRequest) (*models.Result, error) {
	if len(req.Courses) == 0 {
		return nil, &gpa.Error{Kind: gpa.ErrEmptyCourses, Message: "At least one course is required", Field: "courses", Index: -1}
	}

	result := &models.Result{
		UserID:          userID,
		Semester:        strings.TrimSpace(req.Semester),
		AcademicSession: strings.TrimSpace(req.AcademicSession),
		Courses:         make([]models.CourseResult, 0, len(req.Courses)),
	}

	for i, c := range req.Courses {
		if math.IsNaN(c.CreditUnit) || math.IsInf(c.CreditUnit, 0) || c.CreditUnit <= 0 {
			return nil, &gpa.Error{
				Kind:    gpa.ErrInvalidCreditUnit,
				Message: "Credit unit must be greater than 0",
				Field:   fmt.Sprintf("courses[%d].credit_unit", i),
				Index:   i,
			}
		}

		grade, err := gpa.ParseGrade(c.Grade)
		if err != nil {
			return nil, &gpa.Error{
				Kind:    gpa.ErrInvalidGrade,
				Message: err.Error(),
				Field:   fmt.Sprintf("courses[%d].grade", i),
				Index:   i,
			}
		}
		points, _ := grade.Points()
		gradePoint := points * c.CreditUnit

		result.Courses = append(result.Courses, models.CourseResult{
			CourseCode:  strings.ToUpper(strings.TrimSpace(c.CourseCode)),
			CourseTitle: strings.TrimSpace(c.CourseTitle),
			CreditUnit:  c.CreditUnit,
			Grade:       string(grade),
			GradePoint:  gradePoint,
		})
		result.TotalCreditUnits += c.CreditUnit
		result.TotalGradePoints += gradePoint
	}

	result.GPA = result.TotalGradePoints / result.TotalCreditUnits
	return result, nil
}

// CreateResult validates and stores a semester result
func (s *resultServiceImpl) CreateResult(ctx context.Context, userID uuid.UUID, req *dto.CreateResultRequest) (*models.Result, error) {
	result, err := BuildResult(userID, req)
	if err != nil {
		s.logger.Debug().Err(err).Str("userID", userID.String()).Msg("Result rejected")
		return nil, err
	}

	if err := s.resultRepo.Create(ctx, result); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("userID", userID.String()).
		Str("resultID", result.ID.String()).
		Float64("gpa", result.GPA).
		Msg("Result recorded")
	return result, nil
}

// GetResult returns one of the user's results
func (s *resultServiceImpl) GetResult(ctx context.Context, userID, resultID uuid.UUID) (*models.Result, error) {
	return s.resultRepo.GetByID(ctx, userID, resultID)
}

// ListResults returns a page of results and the total count
func (s *resultServiceImpl) ListResults(ctx context.Context, userID uuid.UUID, page, size int) ([]*models.Result, int64, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	results, err := s.resultRepo.List(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.resultRepo.Count(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// DeleteResult removes one of the user's results
func (s *resultServiceImpl) DeleteResult(ctx context.Context, userID, resultID uuid.UUID) error {
	if err := s.resultRepo.Delete(ctx, userID, resultID); err != nil {
		return err
	}
	s.logger.Info().Str("userID", userID.String()).Str("resultID", resultID.String()).Msg("Result deleted")
	return nil
}

// GetSummary aggregates all of the user's results
func (s *resultServiceImpl) GetSummary(ctx context.Context, userID uuid.UUID) (gpa.AcademicSummary, error) {
	results, err := s.resultRepo.ListAll(ctx, userID)
	if err != nil {
		return gpa.AcademicSummary{}, err
	}
	return gpa.Summarize(models.HistoricalResults(results)), nil
}

// ExportResults writes the user's results as an xlsx workbook
func (s *resultServiceImpl) ExportResults(ctx context.Context, userID uuid.UUID, w io.Writer) error {
	results, err := s.resultRepo.ListAll(ctx, userID)
	if err != nil {
		return err
	}
	summary := gpa.Summarize(models.HistoricalResults(results))

	if err := export.WriteResults(w, results, summary); err != nil {
		s.logger.Error().Err(err).Str("userID", userID.String()).Msg("Failed to export results")
		return fmt.Errorf("failed to export results: %w", err)
	}
	return nil
}
