package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gpai/backend/internal/app/models"
	"github.com/gpai/backend/internal/app/models/dto"
	"github.com/gpai/backend/internal/app/repositories"
	"github.com/gpai/backend/internal/pkg/gpa"
)

// RecentResultsLimit is how many results the academic context includes
const RecentResultsLimit = 5

// AcademicContextService gathers a student's profile and record
type AcademicContextService interface {
	GetContext(ctx context.Context, userID uuid.UUID) (*dto.AcademicContextResponse, error)
}

type academicContextServiceImpl struct {
	userRepo   repositories.IUserRepository
	resultRepo repositories.IResultRepository
	logger     zerolog.Logger
}

// NewAcademicContextService creates a new AcademicContextService
func NewAcademicContextService(userRepo repositories.IUserRepository, resultRepo repositories.IResultRepository, logger zerolog.Logger) AcademicContextService {
	return &academicContextServiceImpl{userRepo: userRepo, resultRepo: resultRepo, logger: logger}
}

// GetContext loads profile, summary and recent results concurrently. The
// first failure cancels the other lookups.
func (s *academicContextServiceImpl) GetContext(ctx context.Context, userID uuid.UUID) (*dto.AcademicContextResponse, error) {
	var (
		user    *models.User
		summary gpa.AcademicSummary
		recent  []*models.Result
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.userRepo.GetByID(gctx, userID)
		return err
	})
	g.Go(func() error {
		all, err := s.resultRepo.ListAll(gctx, userID)
		if err != nil {
			return err
		}
		summary = gpa.Summarize(models.HistoricalResults(all))
		return nil
	})
	g.Go(func() error {
		var err error
		recent, err = s.resultRepo.ListRecent(gctx, userID, RecentResultsLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Warn().Err(err).Str("userID", userID.String()).Msg("Failed to load academic context")
		return nil, err
	}

	return &dto.AcademicContextResponse{
		User:            dto.NewUserResponse(user),
		AcademicSummary: dto.NewAcademicSummaryResponse(summary),
		RecentResults:   dto.NewResultResponses(recent),
	}, nil
}
