package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gpai/backend/internal/app/models"
	"github.com/gpai/backend/internal/pkg/apperrors"
	"github.com/gpai/backend/internal/pkg/dberrors"
	"github.com/gpai/backend/internal/pkg/logger"
)

// INewsletterRepository defines newsletter subscriber storage. Emails are
// expected to be normalized by the caller.
type INewsletterRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.NewsletterSubscriber, error)
	Create(ctx context.Context, sub *models.NewsletterSubscriber) error
	// Reactivate marks an inactive subscriber active again. An empty source
	// keeps the stored one.
	Reactivate(ctx context.Context, id uuid.UUID, source string, at time.Time) (*models.NewsletterSubscriber, error)
	// Deactivate unsubscribes an active email and reports whether a row changed
	Deactivate(ctx context.Context, email string, at time.Time) (bool, error)
	ListActive(ctx context.Context, offset uint64, limit int) ([]*models.NewsletterSubscriber, error)
	CountActive(ctx context.Context) (int64, error)
	Stats(ctx context.Context, since time.Time) (*models.SubscriptionStats, error)
}

var subscriberColumns = []string{
	"id", "email", "source", "is_active", "subscribed_at", "unsubscribed_at", "created_at", "updated_at",
}

// NewsletterRepository handles newsletter_subscribers operations
type NewsletterRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewNewsletterRepository creates a new NewsletterRepository
func NewNewsletterRepository(db *pgxpool.Pool) *NewsletterRepository {
	return &NewsletterRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanSubscriber(row pgx.Row) (*models.NewsletterSubscriber, error) {
	s := &models.NewsletterSubscriber{}
	err := row.Scan(&s.ID, &s.Email, &s.Source, &s.IsActive, &s.SubscribedAt, &s.UnsubscribedAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// FindByEmail returns the subscriber with the given email, active or not
func (r *NewsletterRepository) FindByEmail(ctx context.Context, email string) (*models.NewsletterSubscriber, error) {
	sql, args, err := r.sb.Select(subscriberColumns...).
		From("newsletter_subscribers").
		Where(squirrel.Eq{"email": email}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building find subscriber SQL")
		return nil, fmt.Errorf("failed to build find subscriber query: %w", err)
	}

	s, err := scanSubscriber(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		logger.Error().Err(err).Msg("Error scanning subscriber row")
		return nil, fmt.Errorf("error retrieving subscriber: %w", err)
	}
	return s, nil
}

// Create inserts a new active subscriber
func (r *NewsletterRepository) Create(ctx context.Context, sub *models.NewsletterSubscriber) error {
	now := time.Now()
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	if sub.SubscribedAt.IsZero() {
		sub.SubscribedAt = now
	}
	sub.IsActive = true
	sub.CreatedAt = now
	sub.UpdatedAt = now

	sql, args, err := r.sb.Insert("newsletter_subscribers").
		Columns(subscriberColumns...).
		Values(sub.ID, sub.Email, sub.Source, sub.IsActive, sub.SubscribedAt, sub.UnsubscribedAt, sub.CreatedAt, sub.UpdatedAt).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create subscriber SQL")
		return fmt.Errorf("failed to build create subscriber query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		// A concurrent subscribe for the same address won the race.
		if dberrors.IsUniqueViolation(err, "newsletter_subscribers_email_key") {
			return apperrors.ErrAlreadySubscribed
		}
		logger.Error().Err(err).Msg("Error executing create subscriber query")
		return fmt.Errorf("error creating subscriber: %w", err)
	}
	return nil
}

// Reactivate re-subscribes an inactive subscriber
func (r *NewsletterRepository) Reactivate(ctx context.Context, id uuid.UUID, source string, at time.Time) (*models.NewsletterSubscriber, error) {
	update := r.sb.Update("newsletter_subscribers").
		Set("is_active", true).
		Set("subscribed_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "is_active": false}).
		Suffix("RETURNING " + columnList(subscriberColumns))
	if source != "" {
		update = update.Set("source", source)
	}

	sql, args, err := update.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building reactivate subscriber SQL")
		return nil, fmt.Errorf("failed to build reactivate subscriber query: %w", err)
	}

	s, err := scanSubscriber(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Reactivated by someone else in between.
			return nil, apperrors.ErrAlreadySubscribed
		}
		logger.Error().Err(err).Str("subscriberID", id.String()).Msg("Error executing reactivate subscriber query")
		return nil, fmt.Errorf("error reactivating subscriber: %w", err)
	}
	return s, nil
}

// Deactivate unsubscribes an active email
func (r *NewsletterRepository) Deactivate(ctx context.Context, email string, at time.Time) (bool, error) {
	sql, args, err := r.sb.Update("newsletter_subscribers").
		Set("is_active", false).
		Set("unsubscribed_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{"email": email, "is_active": true}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building deactivate subscriber SQL")
		return false, fmt.Errorf("failed to build deactivate subscriber query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing deactivate subscriber query")
		return false, fmt.Errorf("error deactivating subscriber: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListActive returns a page of active subscribers, most recent first
func (r *NewsletterRepository) ListActive(ctx context.Context, offset uint64, limit int) ([]*models.NewsletterSubscriber, error) {
	sql, args, err := r.sb.Select(subscriberColumns...).
		From("newsletter_subscribers").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("subscribed_at DESC", "id").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list subscribers SQL")
		return nil, fmt.Errorf("failed to build list subscribers query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list subscribers query")
		return nil, fmt.Errorf("error listing subscribers: %w", err)
	}
	defer rows.Close()

	subs := make([]*models.NewsletterSubscriber, 0)
	for rows.Next() {
		s, err := scanSubscriber(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning subscriber row")
			return nil, fmt.Errorf("error scanning subscriber: %w", err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscribers: %w", err)
	}
	return subs, nil
}

// CountActive returns the number of active subscribers
func (r *NewsletterRepository) CountActive(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("newsletter_subscribers").
		Where(squirrel.Eq{"is_active": true}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count subscribers query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting active subscribers")
		return 0, fmt.Errorf("error counting subscribers: %w", err)
	}
	return total, nil
}

// Stats counts subscribers in a single pass. Recent subscriptions are
// those with subscribed_at at or after since, active or not.
func (r *NewsletterRepository) Stats(ctx context.Context, since time.Time) (*models.SubscriptionStats, error) {
	sql, args, err := r.sb.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE is_active)",
		"COUNT(*) FILTER (WHERE NOT is_active)",
	).
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE subscribed_at >= ?)", since)).
		From("newsletter_subscribers").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building subscriber stats SQL")
		return nil, fmt.Errorf("failed to build subscriber stats query: %w", err)
	}

	stats := &models.SubscriptionStats{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&stats.Total, &stats.Active, &stats.Inactive, &stats.RecentSubscriptions)
	if err != nil {
		logger.Error().Err(err).Msg("Error scanning subscriber stats")
		return nil, fmt.Errorf("error retrieving subscriber stats: %w", err)
	}
	return stats, nil
}
