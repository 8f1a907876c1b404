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

// IUserRepository defines the interface for user-related database operations
type IUserRepository interface {
	// UpsertGoogleUser returns the user with the given Google subject,
	// creating it on first sign-in.
	UpsertGoogleUser(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdateRole(ctx context.Context, id uuid.UUID, role models.RoleType) error
}

var userColumns = []string{
	"id", "google_id", "name", "email", "role_type",
	"school_name", "department", "program", "matric_number",
	"created_at", "updated_at",
}

// UserRepository handles user database operations
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID, &u.GoogleID, &u.Name, &u.Email, &u.RoleType,
		&u.SchoolName, &u.Department, &u.Program, &u.MatricNumber,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpsertGoogleUser inserts the user or, when the Google subject is already
// known, returns the stored row untouched.
func (r *UserRepository) UpsertGoogleUser(ctx context.Context, user *models.User) (*models.User, error) {
	now := time.Now()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.RoleType == "" {
		user.RoleType = models.RoleStudent
	}

	sql, args, err := r.sb.Insert("users").
		Columns("id", "google_id", "name", "email", "role_type", "created_at", "updated_at").
		Values(user.ID, user.GoogleID, user.Name, user.Email, user.RoleType, now, now).
		// The no-op update makes RETURNING yield the existing row.
		Suffix("ON CONFLICT (google_id) DO UPDATE SET google_id = EXCLUDED.google_id").
		Suffix("RETURNING " + columnList(userColumns)).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building upsert user SQL")
		return nil, fmt.Errorf("failed to build upsert user query: %w", err)
	}

	stored, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsUniqueViolation(err, "users_email_key") {
			logger.Warn().Str("email", user.Email).Msg("Email already linked to another Google account")
			return nil, apperrors.NewCustomError(apperrors.ErrConflict, "Email is already linked to another account")
		}
		logger.Error().Err(err).Str("googleID", user.GoogleID).Msg("Error executing upsert user query")
		return nil, fmt.Errorf("error upserting user: %w", err)
	}

	return stored, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get user SQL")
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	u, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Str("userID", id.String()).Msg("Error scanning user row")
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return u, nil
}

// UpdateProfile writes the editable profile fields
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	sql, args, err := r.sb.Update("users").
		Set("name", user.Name).
		Set("school_name", user.SchoolName).
		Set("department", user.Department).
		Set("program", user.Program).
		Set("matric_number", user.MatricNumber).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update profile SQL")
		return fmt.Errorf("failed to build update profile query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("userID", user.ID.String()).Msg("Error executing update profile query")
		return fmt.Errorf("error updating profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdateRole changes a user's role
func (r *UserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role models.RoleType) error {
	sql, args, err := r.sb.Update("users").
		Set("role_type", role).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update role SQL")
		return fmt.Errorf("failed to build update role query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("userID", id.String()).Msg("Error executing update role query")
		return fmt.Errorf("error updating role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
