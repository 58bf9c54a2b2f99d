package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prperemyshlev/videotube/internal/domain"
	"github.com/prperemyshlev/videotube/pkg/database"
)

const (
	userColumns       = `id, username, email, full_name, avatar, cover_image, password_hash, refresh_token, created_at, updated_at`
	publicUserColumns = `id, username, email, full_name, avatar, cover_image, created_at, updated_at`
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *database.Postgres
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.Postgres) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user in the database
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, email, full_name, avatar, cover_image, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.FullName,
		user.Avatar,
		user.CoverImage,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return mapUserWriteError(err, "failed to create user")
	}

	return nil
}

// GetByID retrieves a user by ID including credentials
func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// GetPublicByID retrieves a user by ID without password hash and refresh token
func (r *userRepository) GetPublicByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + publicUserColumns + ` FROM users WHERE id = $1`

	user, err := scanPublicUser(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (r *userRepository) GetPublicByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + publicUserColumns + ` FROM users WHERE username = $1`

	user, err := scanPublicUser(r.db.DB.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s not found: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

// GetByUsernameOrEmail retrieves the user matching either identifier. A
// username match wins when the two identifiers name different users.
func (r *userRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $2 ORDER BY (username = $1) DESC LIMIT 1`

	user, err := scanUser(r.db.DB.QueryRowContext(ctx, query, username, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by username or email: %w", err)
	}

	return user, nil
}

// SetRefreshToken stores token as the user's only live refresh token; nil clears it
func (r *userRepository) SetRefreshToken(ctx context.Context, userID string, token *string) error {
	query := `UPDATE users SET refresh_token = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, userID, nullString(token), time.Now())
	if err != nil {
		return fmt.Errorf("failed to set refresh token: %w", err)
	}

	return expectOneRow(result, "user", userID)
}

// SwapRefreshToken is a compare-and-swap on the stored refresh token
func (r *userRepository) SwapRefreshToken(ctx context.Context, userID, current, next string) error {
	query := `UPDATE users SET refresh_token = $3, updated_at = $4 WHERE id = $1 AND refresh_token = $2`

	result, err := r.db.DB.ExecContext(ctx, query, userID, current, next, time.Now())
	if err != nil {
		return fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrStaleRefreshToken
	}

	return nil
}

// UpdatePassword writes only the password hash column
func (r *userRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, userID, passwordHash, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return expectOneRow(result, "user", userID)
}

func (r *userRepository) UpdateDetails(ctx context.Context, userID, fullName, email string) (*domain.User, error) {
	query := `
		UPDATE users SET full_name = $2, email = $3, updated_at = $4
		WHERE id = $1
		RETURNING ` + publicUserColumns

	user, err := scanPublicUser(r.db.DB.QueryRowContext(ctx, query, userID, fullName, email, time.Now()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with id %s not found: %w", userID, ErrNotFound)
		}
		return nil, mapUserWriteError(err, "failed to update user")
	}

	return user, nil
}

func (r *userRepository) UpdateAvatar(ctx context.Context, userID, url string) (*domain.User, error) {
	return r.updateImage(ctx, "avatar", userID, url)
}

func (r *userRepository) UpdateCoverImage(ctx context.Context, userID, url string) (*domain.User, error) {
	return r.updateImage(ctx, "cover_image", userID, url)
}

// updateImage sets one of the fixed image columns; column never comes from input.
func (r *userRepository) updateImage(ctx context.Context, column, userID, url string) (*domain.User, error) {
	query := `UPDATE users SET ` + column + ` = $2, updated_at = $3 WHERE id = $1 RETURNING ` + publicUserColumns

	user, err := scanPublicUser(r.db.DB.QueryRowContext(ctx, query, userID, url, time.Now()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with id %s not found: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update %s: %w", column, err)
	}

	return user, nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	user := &domain.User{}
	var refreshToken sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.Avatar,
		&user.CoverImage,
		&user.PasswordHash,
		&refreshToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if refreshToken.Valid {
		user.RefreshToken = &refreshToken.String
	}

	return user, nil
}

func scanPublicUser(row rowScanner) (*domain.User, error) {
	user := &domain.User{}

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.Avatar,
		&user.CoverImage,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func mapUserWriteError(err error, msg string) error {
	switch uniqueConstraint(err) {
	case "users_username_key":
		return fmt.Errorf("%s: %w", msg, ErrDuplicateUsername)
	case "users_email_key":
		return fmt.Errorf("%s: %w", msg, ErrDuplicateEmail)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
