package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gpai/backend/internal/app/models/dto"
	"github.com/gpai/backend/internal/pkg/gpa"
)

// ForecastService projects a GPA from planned courses
type ForecastService interface {
	Forecast(ctx context.Context, req *dto.ForecastRequest) (*dto.ForecastResponse, error)
	GradeScale() *dto.GradeScaleResponse
}

type forecastServiceImpl struct {
	logger zerolog.Logger
}

// NewForecastService creates a new ForecastService
func NewForecastService(logger zerolog.Logger) ForecastService {
	return &forecastServiceImpl{logger: logger}
}

// Forecast validates the request and computes the projection. Validation
// failures are returned as *gpa.Error.
func (s *forecastServiceImpl) Forecast(ctx context.Context, req *dto.ForecastRequest) (*dto.ForecastResponse, error) {
	res, err := gpa.Forecast(req.ToDomain())
	if err != nil {
		s.logger.Debug().Err(err).Msg("Forecast request rejected")
		return nil, err
	}

	s.logger.Debug().
		Float64("currentGPA", req.CurrentGPA).
		Int("plannedCourses", len(req.PlannedCourses)).
		Float64("projectedGPA", res.ProjectedGPA).
		Msg("Forecast calculated")
	return dto.NewForecastResponse(res), nil
}

// GradeScale returns the grade to point table
func (s *forecastServiceImpl) GradeScale() *dto.GradeScaleResponse {
	return &dto.GradeScaleResponse{Grades: gpa.Scale(), MaxGPA: gpa.MaxGPA}
}
