package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/upb/forum-backend/models"
)

var (
	// ErrNotFound is wrapped by repositories when a record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is wrapped by repositories when a unique key is already taken
	ErrDuplicate = errors.New("duplicate record")
)

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// UserRepository handles account data operations. It is also the credential
// store consulted by authentication on every request.
type UserRepository interface {
	// Create creates a new user, wrapping ErrDuplicate if the login is taken
	Create(ctx context.Context, user *models.User) error

	// GetByLogin retrieves a user by login
	GetByLogin(ctx context.Context, login string) (*models.User, error)

	// Update updates first name, last name and roles of a user
	Update(ctx context.Context, user *models.User) error

	// UpdatePassword replaces the stored password hash
	UpdatePassword(ctx context.Context, login, passwordHash string) error

	// AddRole adds a role if not already held and returns the updated user
	AddRole(ctx context.Context, login string, role models.Role) (*models.User, error)

	// RemoveRole removes a role and returns the updated user
	RemoveRole(ctx context.Context, login string, role models.Role) (*models.User, error)

	// Delete deletes a user and returns the deleted record
	Delete(ctx context.Context, login string) (*models.User, error)
}

// PostRepository handles post and comment data operations
type PostRepository interface {
	// Create creates a new post
	Create(ctx context.Context, post *models.Post) error

	// GetByID retrieves a post with its comments
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)

	// Update updates title, content and tags of a post
	Update(ctx context.Context, post *models.Post) error

	// Delete deletes a post and its comments
	Delete(ctx context.Context, id uuid.UUID) error

	// IncrementLikes adds one like to a post
	IncrementLikes(ctx context.Context, id uuid.UUID) error

	// AddComment inserts a comment on a post
	AddComment(ctx context.Context, comment *models.Comment) error

	// GetByAuthor retrieves all posts written by author
	GetByAuthor(ctx context.Context, author string) ([]*models.Post, error)

	// GetByTags retrieves posts carrying any of the tags (case-insensitive)
	GetByTags(ctx context.Context, tags []string) ([]*models.Post, error)

	// GetByDateRange retrieves posts created in [start, end)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Post, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Users UserRepository
	Posts PostRepository
}
