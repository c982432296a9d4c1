package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/upb/forum-backend/models"
	"github.com/upb/forum-backend/repositories"
	"go.uber.org/zap"
)

const postColumns = `id, title, content, author, date_created, tags, likes`

// PostRepository implements the repositories.PostRepository interface
type PostRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *DB, logger *zap.Logger) repositories.PostRepository {
	return &PostRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (id, title, content, author, date_created, tags, likes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		post.ID,
		post.Title,
		post.Content,
		post.Author,
		post.DateCreated,
		pq.Array(post.Tags),
		post.Likes,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	r.logger.Debug("post created", zap.String("id", post.ID.String()), zap.String("author", post.Author))
	return nil
}

// GetByID retrieves a post with its comments
func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	post, err := scanPost(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post %s: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	if err := r.attachComments(ctx, []*models.Post{post}); err != nil {
		return nil, err
	}

	return post, nil
}

// Update updates title, content and tags of a post
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	query := `UPDATE posts SET title = $2, content = $3, tags = $4 WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		post.ID,
		post.Title,
		post.Content,
		pq.Array(post.Tags),
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	if err := requireAffected(result, "post "+post.ID.String()); err != nil {
		return err
	}

	r.logger.Debug("post updated", zap.String("id", post.ID.String()))
	return nil
}

// Delete deletes a post; comments go with it through ON DELETE CASCADE
func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	if err := requireAffected(result, "post "+id.String()); err != nil {
		return err
	}

	r.logger.Debug("post deleted", zap.String("id", id.String()))
	return nil
}

// IncrementLikes adds one like to a post
func (r *PostRepository) IncrementLikes(ctx context.Context, id uuid.UUID) error {
	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, `UPDATE posts SET likes = likes + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to like post: %w", err)
	}
	return requireAffected(result, "post "+id.String())
}

// AddComment inserts a comment on a post
func (r *PostRepository) AddComment(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, post_id, user_login, message, date_created, likes)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		comment.ID,
		comment.PostID,
		comment.User,
		comment.Message,
		comment.DateCreated,
		comment.Likes,
	)
	if err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}

	r.logger.Debug("comment added",
		zap.String("post_id", comment.PostID.String()),
		zap.String("user", comment.User))
	return nil
}

// GetByAuthor retrieves all posts written by author
func (r *PostRepository) GetByAuthor(ctx context.Context, author string) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE author = $1 ORDER BY date_created`
	return r.list(ctx, query, author)
}

// GetByTags retrieves posts carrying any of the tags, compared case-insensitively
func (r *PostRepository) GetByTags(ctx context.Context, tags []string) ([]*models.Post, error) {
	lowered := make([]string, len(tags))
	for i, t := range tags {
		lowered[i] = strings.ToLower(t)
	}

	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE EXISTS (SELECT 1 FROM unnest(tags) AS t WHERE lower(t) = ANY($1))
		ORDER BY date_created
	`
	return r.list(ctx, query, pq.Array(lowered))
}

// GetByDateRange retrieves posts created in [start, end)
func (r *PostRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE date_created >= $1 AND date_created < $2
		ORDER BY date_created
	`
	return r.list(ctx, query, start, end)
}

func (r *PostRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Post, error) {
	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	if err := r.attachComments(ctx, posts); err != nil {
		return nil, err
	}

	return posts, nil
}

// attachComments loads the comments of all posts in one query
func (r *PostRepository) attachComments(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]string, len(posts))
	byID := make(map[uuid.UUID]*models.Post, len(posts))
	for i, p := range posts {
		ids[i] = p.ID.String()
		byID[p.ID] = p
	}

	query := `
		SELECT id, post_id, user_login, message, date_created, likes
		FROM comments
		WHERE post_id = ANY($1::uuid[])
		ORDER BY date_created
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.User, &c.Message, &c.DateCreated, &c.Likes); err != nil {
			return fmt.Errorf("failed to scan comment: %w", err)
		}
		if p, ok := byID[c.PostID]; ok {
			p.Comments = append(p.Comments, c)
		}
	}

	return rows.Err()
}

func scanPost(row rowScanner) (*models.Post, error) {
	post := &models.Post{Comments: []models.Comment{}}
	var tags pq.StringArray

	if err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.Author,
		&post.DateCreated,
		&tags,
		&post.Likes,
	); err != nil {
		return nil, err
	}

	post.Tags = []string(tags)
	if post.Tags == nil {
		post.Tags = []string{}
	}
	return post, nil
}
