package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gpai/backend/internal/app/models"
	"github.com/gpai/backend/internal/app/models/dto"
	"github.com/gpai/backend/internal/app/repositories"
	"github.com/gpai/backend/internal/pkg/apperrors"
	"github.com/gpai/backend/internal/pkg/cache"
	"github.com/gpai/backend/internal/pkg/email"
	"github.com/gpai/backend/internal/pkg/helpers"
	"github.com/gpai/backend/internal/pkg/validation"
)

const (
	statsCacheKey = "newsletter:stats"
	recentWindow  = 7 * 24 * time.Hour
)

// NewsletterService manages newsletter subscriptions
type NewsletterService interface {
	Subscribe(ctx context.Context, email, source string) (*models.NewsletterSubscriber, error)
	Unsubscribe(ctx context.Context, email string) error
	GetActiveSubscribers(ctx context.Context, page, limit int) (*dto.SubscriberListResponse, error)
	GetStats(ctx context.Context) (*models.SubscriptionStats, error)
	// Wait blocks until queued welcome emails have been handed off
	Wait()
}

type newsletterServiceImpl struct {
	repo     repositories.INewsletterRepository
	mailer   email.EmailService
	cache    *cache.Cache
	statsTTL time.Duration
	now      func() time.Time
	wg       sync.WaitGroup
	logger   zerolog.Logger
}

// NewNewsletterService creates a new NewsletterService. cache may be nil.
func NewNewsletterService(
	repo repositories.INewsletterRepository,
	mailer email.EmailService,
	cache *cache.Cache,
	statsTTL time.Duration,
	logger zerolog.Logger,
) NewsletterService {
	return &newsletterServiceImpl{
		repo:     repo,
		mailer:   mailer,
		cache:    cache,
		statsTTL: statsTTL,
		now:      time.Now,
		logger:   logger,
	}
}

func checkEmail(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", apperrors.NewCustomError(apperrors.ErrInvalidEmail, "Email is required")
	}
	if !validation.IsValidEmail(raw) {
		return "", apperrors.NewCustomError(apperrors.ErrInvalidEmail, "Please provide a valid email address")
	}
	return validation.SanitizeEmail(raw), nil
}

// Subscribe adds an email to the newsletter, reactivating a previous
// subscription when there is one.
func (s *newsletterServiceImpl) Subscribe(ctx context.Context, rawEmail, source string) (*models.NewsletterSubscriber, error) {
	addr, err := checkEmail(rawEmail)
	if err != nil {
		return nil, err
	}
	source = strings.TrimSpace(source)
	if !validation.NewStringValidation(source).WithRequired(false).WithMaxLength(validation.SourceMaxLength).Validate() {
		return nil, apperrors.NewValidationError("source is too long")
	}

	existing, err := s.repo.FindByEmail(ctx, addr)
	if err != nil && !errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, apperrors.NewCustomError(err, "Failed to subscribe to newsletter")
	}

	var sub *models.NewsletterSubscriber
	switch {
	case existing != nil && existing.IsActive:
		return nil, apperrors.NewCustomError(apperrors.ErrAlreadySubscribed, "Email is already subscribed to newsletter")

	case existing != nil:
		sub, err = s.repo.Reactivate(ctx, existing.ID, source, s.now())
		if err != nil {
			return nil, s.subscribeError(err)
		}
		s.logger.Info().Str("email", addr).Msg("Newsletter subscription reactivated")

	default:
		if source == "" {
			source = models.DefaultSubscriberSource
		}
		sub = &models.NewsletterSubscriber{Email: addr, Source: source, SubscribedAt: s.now()}
		if err := s.repo.Create(ctx, sub); err != nil {
			return nil, s.subscribeError(err)
		}
		s.logger.Info().Str("email", addr).Str("source", source).Msg("Newsletter subscription created")
	}

	s.invalidateStats(ctx)
	s.sendWelcome(sub.Email)
	return sub, nil
}

func (s *newsletterServiceImpl) subscribeError(err error) error {
	if errors.Is(err, apperrors.ErrAlreadySubscribed) {
		return apperrors.NewCustomError(apperrors.ErrAlreadySubscribed, "Email is already subscribed to newsletter")
	}
	return apperrors.NewCustomError(err, "Failed to subscribe to newsletter")
}

func (s *newsletterServiceImpl) sendWelcome(addr string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.mailer.SendNewsletterWelcome(addr); err != nil {
			s.logger.Error().Err(err).Str("email", addr).Msg("Failed to send newsletter welcome email")
		}
	}()
}

// Wait blocks until queued welcome emails have been handed off
func (s *newsletterServiceImpl) Wait() {
	s.wg.Wait()
}

// Unsubscribe deactivates an active subscription
func (s *newsletterServiceImpl) Unsubscribe(ctx context.Context, rawEmail string) error {
	addr, err := checkEmail(rawEmail)
	if err != nil {
		return err
	}

	ok, err := s.repo.Deactivate(ctx, addr, s.now())
	if err != nil {
		return apperrors.NewCustomError(err, "Failed to unsubscribe from newsletter")
	}
	if !ok {
		return apperrors.NewCustomError(apperrors.ErrSubscriptionNotFound, "Email not found or already unsubscribed")
	}

	s.invalidateStats(ctx)
	s.logger.Info().Str("email", addr).Msg("Newsletter subscription cancelled")
	return nil
}

// GetActiveSubscribers lists active subscribers, newest first
func (s *newsletterServiceImpl) GetActiveSubscribers(ctx context.Context, page, limit int) (*dto.SubscriberListResponse, error) {
	if page < 1 {
		page = helpers.DefaultPage
	}
	if limit < 1 {
		limit = helpers.DefaultSubscriberLimit
	}

	subs, err := s.repo.ListActive(ctx, helpers.Offset(page, limit), limit)
	if err != nil {
		return nil, apperrors.NewCustomError(err, "Failed to retrieve subscribers")
	}
	total, err := s.repo.CountActive(ctx)
	if err != nil {
		return nil, apperrors.NewCustomError(err, "Failed to retrieve subscribers")
	}

	return &dto.SubscriberListResponse{
		Subscribers: subs,
		Total:       total,
		Page:        page,
		TotalPages:  helpers.TotalPages(total, limit),
	}, nil
}

// GetStats counts subscribers by state, served from cache when possible
func (s *newsletterServiceImpl) GetStats(ctx context.Context) (*models.SubscriptionStats, error) {
	var cached models.SubscriptionStats
	if err := s.cache.Get(ctx, statsCacheKey, &cached); err == nil {
		return &cached, nil
	}

	stats, err := s.repo.Stats(ctx, s.now().Add(-recentWindow))
	if err != nil {
		return nil, apperrors.NewCustomError(err, "Failed to retrieve subscription statistics")
	}

	if err := s.cache.Set(ctx, statsCacheKey, stats, s.statsTTL); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to cache subscription statistics")
	}
	return stats, nil
}

func (s *newsletterServiceImpl) invalidateStats(ctx context.Context) {
	if err := s.cache.Delete(ctx, statsCacheKey); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to invalidate subscription statistics")
	}
}
