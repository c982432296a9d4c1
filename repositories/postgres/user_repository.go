package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/upb/forum-backend/models"
	"github.com/upb/forum-backend/repositories"
	"go.uber.org/zap"
)

const uniqueViolation = "23505"

const userColumns = `login, password_hash, first_name, last_name, roles, created_at, updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// UserRepository implements the repositories.UserRepository interface
type UserRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB, logger *zap.Logger) repositories.UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (login, password_hash, first_name, last_name, roles, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		user.Login,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		pq.Array(user.RoleNames()),
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s: %w", user.Login, repositories.ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Debug("user created", zap.String("login", user.Login))
	return nil
}

// GetByLogin retrieves a user by login
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE login = $1`

	executor := GetExecutor(ctx, r.db)
	user, err := scanUser(executor.QueryRowContext(ctx, query, login))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", login, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// Update updates first name, last name and roles of a user
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, roles = $4, updated_at = $5
		WHERE login = $1
	`

	user.UpdatedAt = time.Now().UTC()

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		user.Login,
		user.FirstName,
		user.LastName,
		pq.Array(user.RoleNames()),
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if err := requireAffected(result, "user "+user.Login); err != nil {
		return err
	}

	r.logger.Debug("user updated", zap.String("login", user.Login))
	return nil
}

// UpdatePassword replaces the stored password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, login, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = $3 WHERE login = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, login, passwordHash, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := requireAffected(result, "user "+login); err != nil {
		return err
	}

	r.logger.Debug("password updated", zap.String("login", login))
	return nil
}

// AddRole adds a role if not already held and returns the updated user
func (r *UserRepository) AddRole(ctx context.Context, login string, role models.Role) (*models.User, error) {
	query := `
		UPDATE users
		SET roles = CASE WHEN $2 = ANY(roles) THEN roles ELSE array_append(roles, $2) END,
		    updated_at = $3
		WHERE login = $1
		RETURNING ` + userColumns

	return r.updateReturning(ctx, "add role", query, login, string(role), time.Now().UTC())
}

// RemoveRole removes a role and returns the updated user
func (r *UserRepository) RemoveRole(ctx context.Context, login string, role models.Role) (*models.User, error) {
	query := `
		UPDATE users
		SET roles = array_remove(roles, $2), updated_at = $3
		WHERE login = $1
		RETURNING ` + userColumns

	return r.updateReturning(ctx, "remove role", query, login, string(role), time.Now().UTC())
}

// Delete deletes a user and returns the deleted record
func (r *UserRepository) Delete(ctx context.Context, login string) (*models.User, error) {
	query := `DELETE FROM users WHERE login = $1 RETURNING ` + userColumns

	user, err := r.updateReturning(ctx, "delete user", query, login)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("user deleted", zap.String("login", login))
	return user, nil
}

func (r *UserRepository) updateReturning(ctx context.Context, op, query, login string, args ...interface{}) (*models.User, error) {
	executor := GetExecutor(ctx, r.db)
	user, err := scanUser(executor.QueryRowContext(ctx, query, append([]interface{}{login}, args...)...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", login, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return user, nil
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	var roles pq.StringArray

	if err := row.Scan(
		&user.Login,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&roles,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}

	user.Roles = models.RolesFromStrings(roles)
	return user, nil
}

func requireAffected(result sql.Result, what string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", what, repositories.ErrNotFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
