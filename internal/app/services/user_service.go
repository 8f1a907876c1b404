package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gpai/backend/internal/app/models"
	"github.com/gpai/backend/internal/app/models/dto"
	"github.com/gpai/backend/internal/app/repositories"
	"github.com/gpai/backend/internal/pkg/apperrors"
	"github.com/gpai/backend/internal/pkg/helpers"
	"github.com/gpai/backend/internal/pkg/validation"
)

// UserService defines the interface for user operations
type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*models.User, error)
}

type userServiceImpl struct {
	userRepo repositories.IUserRepository
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo repositories.IUserRepository, logger zerolog.Logger) UserService {
	return &userServiceImpl{userRepo: userRepo, logger: logger}
}

// GetProfile retrieves a user's profile
func (s *userServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile applies the fields present in req
func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		valid := validation.NewStringValidation(name).
			WithMinLength(validation.NameMinLength).
			WithMaxLength(validation.NameMaxLength).
			Validate()
		if !valid {
			return nil, apperrors.NewValidationError("Name must be between 2 and 100 characters").
				WithDetails(map[string]interface{}{"field": "name"})
		}
		user.Name = name
	}

	optional := []struct {
		field string
		in    *string
		out   **string
	}{
		{"school_name", req.SchoolName, &user.SchoolName},
		{"department", req.Department, &user.Department},
		{"program", req.Program, &user.Program},
		{"matric_number", req.MatricNumber, &user.MatricNumber},
	}
	for _, f := range optional {
		if f.in == nil {
			continue
		}
		v := helpers.NullIfEmpty(f.in)
		if v != nil && !validation.NewStringValidation(*v).WithMaxLength(validation.ProfileFieldMaxLength).Validate() {
			return nil, apperrors.NewValidationError(f.field + " is too long").
				WithDetails(map[string]interface{}{"field": f.field})
		}
		*f.out = v
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("userID", userID.String()).Msg("Profile updated")
	return user, nil
}
