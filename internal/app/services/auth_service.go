package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gpai/backend/internal/app/models"
	"github.com/gpai/backend/internal/app/models/dto"
	"github.com/gpai/backend/internal/app/repositories"
	"github.com/gpai/backend/internal/pkg/apperrors"
	"github.com/gpai/backend/internal/pkg/auth"
	"github.com/gpai/backend/internal/pkg/validation"
)

// AuthService handles sign-in and session tokens
type AuthService interface {
	LoginWithGoogle(ctx context.Context, idToken string) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, userID uuid.UUID) error
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

type authServiceImpl struct {
	userRepo    repositories.IUserRepository
	tokenRepo   repositories.ITokenRepository
	verifier    auth.GoogleVerifier
	jwtService  *auth.JWTService
	adminEmails map[string]struct{}
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService. Users whose email is listed in
// adminEmails are given the ADMIN role when they sign in.
func NewAuthService(
	userRepo repositories.IUserRepository,
	tokenRepo repositories.ITokenRepository,
	verifier auth.GoogleVerifier,
	jwtService *auth.JWTService,
	adminEmails []string,
	logger zerolog.Logger,
) AuthService {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		admins[validation.SanitizeEmail(e)] = struct{}{}
	}
	return &authServiceImpl{
		userRepo:    userRepo,
		tokenRepo:   tokenRepo,
		verifier:    verifier,
		jwtService:  jwtService,
		adminEmails: admins,
		logger:      logger,
	}
}

// LoginWithGoogle verifies a Google ID token, creates the user on first
// sign-in and issues a token pair.
func (s *authServiceImpl) LoginWithGoogle(ctx context.Context, idToken string) (*dto.AuthResponse, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, apperrors.NewValidationError("Token required")
	}

	identity, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Google token verification failed")
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Invalid or expired Google token")
	}

	email := validation.SanitizeEmail(identity.Email)
	name := strings.TrimSpace(identity.Name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	user, err := s.userRepo.UpsertGoogleUser(ctx, &models.User{
		GoogleID: identity.Subject,
		Name:     name,
		Email:    email,
		RoleType: models.RoleStudent,
	})
	if err != nil {
		return nil, err
	}

	if _, ok := s.adminEmails[validation.SanitizeEmail(user.Email)]; ok && user.RoleType != models.RoleAdmin {
		if err := s.userRepo.UpdateRole(ctx, user.ID, models.RoleAdmin); err != nil {
			return nil, fmt.Errorf("failed to promote admin: %w", err)
		}
		user.RoleType = models.RoleAdmin
		s.logger.Info().Str("userID", user.ID.String()).Msg("User promoted to admin")
	}

	token, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("userID", user.ID.String()).Str("role", string(user.RoleType)).Msg("User authenticated")
	return &dto.AuthResponse{Token: *token, User: dto.NewUserResponse(user)}, nil
}

// RefreshToken rotates a refresh token. The old token is consumed before a
// new pair is issued so it cannot be replayed, even by concurrent requests.
func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	userID, err := s.tokenRepo.GetTokenByValue(ctx, refreshToken)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrTokenNotFound, apperrors.ErrTokenExpired, apperrors.ErrTokenRevoked) {
			return nil, err
		}
		return nil, fmt.Errorf("token validation error: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, err
	}

	if err := s.tokenRepo.ConsumeToken(ctx, refreshToken); err != nil {
		if errors.Is(err, apperrors.ErrTokenRevoked) {
			s.logger.Warn().Str("userID", userID.String()).Msg("Refresh token already rotated")
			return nil, err
		}
		return nil, fmt.Errorf("failed to revoke old token: %w", err)
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes a refresh token
func (s *authServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return apperrors.ErrTokenInvalid
	}
	return s.tokenRepo.RevokeToken(ctx, refreshToken)
}

// LogoutAll revokes every active refresh token of a user
func (s *authServiceImpl) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	if err := s.tokenRepo.RevokeAllUserTokens(ctx, userID); err != nil {
		return err
	}
	s.logger.Info().Str("userID", userID.String()).Msg("All sessions revoked")
	return nil
}

// CleanupExpiredTokens deletes refresh tokens that can no longer be used
func (s *authServiceImpl) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	return s.tokenRepo.CleanupExpiredTokens(ctx)
}

func (s *authServiceImpl) issueTokens(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}

	if err := s.tokenRepo.CreateToken(ctx, pair.RefreshToken, user.ID, pair.RefreshExpiresAt); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:           pair.AccessToken,
		TokenType:             "Bearer",
		ExpiresIn:             pair.ExpiresIn,
		RefreshToken:          pair.RefreshToken,
		RefreshTokenExpiresIn: pair.RefreshExpiresIn,
	}, nil
}
