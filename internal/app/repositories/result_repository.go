package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gpai/backend/internal/app/models"
	"github.com/gpai/backend/internal/pkg/apperrors"
	"github.com/gpai/backend/internal/pkg/logger"
)

// IResultRepository defines the interface for semester result storage.
// Every lookup is scoped to the owning user.
type IResultRepository interface {
	Create(ctx context.Context, result *models.Result) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Result, error)
	List(ctx context.Context, userID uuid.UUID, offset uint64, limit int) ([]*models.Result, error)
	Count(ctx context.Context, userID uuid.UUID) (int64, error)
	ListAll(ctx context.Context, userID uuid.UUID) ([]*models.Result, error)
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Result, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

var resultColumns = []string{
	"id", "user_id", "semester", "academic_session", "courses",
	"gpa", "total_credit_units", "total_grade_points", "created_at", "updated_at",
}

// ResultRepository handles result database operations
type ResultRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewResultRepository creates a new ResultRepository
func NewResultRepository(db *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func columnList(cols []string) string {
	return strings.Join(cols, ", ")
}

func scanResult(row pgx.Row) (*models.Result, error) {
	r := &models.Result{}
	err := row.Scan(
		&r.ID, &r.UserID, &r.Semester, &r.AcademicSession, &r.Courses,
		&r.GPA, &r.TotalCreditUnits, &r.TotalGradePoints, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Create inserts a result. ID and timestamps are filled in on the model.
func (r *ResultRepository) Create(ctx context.Context, result *models.Result) error {
	now := time.Now()
	if result.ID == uuid.Nil {
		result.ID = uuid.New()
	}
	result.CreatedAt = now
	result.UpdatedAt = now

	sql, args, err := r.sb.Insert("results").
		Columns(resultColumns...).
		Values(
			result.ID, result.UserID, result.Semester, result.AcademicSession, result.Courses,
			result.GPA, result.TotalCreditUnits, result.TotalGradePoints, result.CreatedAt, result.UpdatedAt,
		).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create result SQL")
		return fmt.Errorf("failed to build create result query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("userID", result.UserID.String()).Msg("Error executing create result query")
		return fmt.Errorf("error creating result: %w", err)
	}
	return nil
}

// GetByID retrieves one of the user's results
func (r *ResultRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Result, error) {
	sql, args, err := r.sb.Select(resultColumns...).
		From("results").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get result SQL")
		return nil, fmt.Errorf("failed to build get result query: %w", err)
	}

	res, err := scanResult(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResultNotFound
		}
		logger.Error().Err(err).Str("resultID", id.String()).Msg("Error scanning result row")
		return nil, fmt.Errorf("error retrieving result: %w", err)
	}
	return res, nil
}

// List returns a page of the user's results, newest first
func (r *ResultRepository) List(ctx context.Context, userID uuid.UUID, offset uint64, limit int) ([]*models.Result, error) {
	query := r.sb.Select(resultColumns...).
		From("results").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id").
		Offset(offset).
		Limit(uint64(limit))
	return r.query(ctx, query)
}

// ListAll returns every result of the user
func (r *ResultRepository) ListAll(ctx context.Context, userID uuid.UUID) ([]*models.Result, error) {
	query := r.sb.Select(resultColumns...).
		From("results").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at ASC", "id")
	return r.query(ctx, query)
}

// ListRecent returns the user's latest results
func (r *ResultRepository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Result, error) {
	query := r.sb.Select(resultColumns...).
		From("results").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id").
		Limit(uint64(limit))
	return r.query(ctx, query)
}

func (r *ResultRepository) query(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Result, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list results SQL")
		return nil, fmt.Errorf("failed to build list results query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list results query")
		return nil, fmt.Errorf("error listing results: %w", err)
	}
	defer rows.Close()

	results := make([]*models.Result, 0)
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning result row")
			return nil, fmt.Errorf("error scanning result: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating result rows")
		return nil, fmt.Errorf("error iterating results: %w", err)
	}
	return results, nil
}

// Count returns the number of results the user has
func (r *ResultRepository) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("results").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count results SQL")
		return 0, fmt.Errorf("failed to build count results query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		logger.Error().Err(err).Str("userID", userID.String()).Msg("Error counting results")
		return 0, fmt.Errorf("error counting results: %w", err)
	}
	return total, nil
}

// Delete removes one of the user's results
func (r *ResultRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	sql, args, err := r.sb.Delete("results").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete result SQL")
		return fmt.Errorf("failed to build delete result query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("resultID", id.String()).Msg("Error executing delete result query")
		return fmt.Errorf("error deleting result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResultNotFound
	}
	return nil
}
