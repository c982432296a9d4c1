package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/upb/forum-backend/models"
	"github.com/upb/forum-backend/repositories"
	"go.uber.org/zap"
)

// DateLayout is the layout of period query bounds
const DateLayout = "2006-01-02"

// CreatePostInput carries the fields of a new post
type CreatePostInput struct {
	Title   string
	Content string
	Tags    []string
}

// UpdatePostInput carries optional post changes; nil fields are left as is
type UpdatePostInput struct {
	Title   *string
	Content *string
	Tags    []string
}

// PostService handles posts, likes and comments
type PostService struct {
	posts  repositories.PostRepository
	txMgr  repositories.TransactionManager
	logger *zap.Logger
}

// NewPostService creates a new PostService instance
func NewPostService(posts repositories.PostRepository, txMgr repositories.TransactionManager, logger *zap.Logger) *PostService {
	return &PostService{
		posts:  posts,
		txMgr:  txMgr,
		logger: logger,
	}
}

// CreatePost stores a new post written by author
func (s *PostService) CreatePost(ctx context.Context, author string, in CreatePostInput) (*models.Post, error) {
	post := models.NewPost(author, in.Title, in.Content, in.Tags)

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, WrapInternal("failed to create post", err)
	}

	s.logger.Info("post created",
		zap.String("id", post.ID.String()),
		zap.String("author", author))
	return post, nil
}

// GetPostByID returns a post with its comments. A malformed id is reported
// the same way as a missing post.
func (s *PostService) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	postID, err := uuid.Parse(id)
	if err != nil {
		return nil, PostNotFound(id)
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, postError(id, "failed to get post", err)
	}
	return post, nil
}

// UpdatePost changes title, content and/or tags
func (s *PostService) UpdatePost(ctx context.Context, id string, in UpdatePostInput) (*models.Post, error) {
	post, err := s.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		post.Title = *in.Title
	}
	if in.Content != nil {
		post.Content = *in.Content
	}
	if in.Tags != nil {
		post.Tags = in.Tags
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, postError(id, "failed to update post", err)
	}

	s.logger.Info("post updated", zap.String("id", id))
	return post, nil
}

// DeletePost removes a post and returns it as it was
func (s *PostService) DeletePost(ctx context.Context, id string) (*models.Post, error) {
	return WithTransactionResult(ctx, s.txMgr, func(ctx context.Context, _ repositories.Transaction) (*models.Post, error) {
		post, err := s.GetPostByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if err := s.posts.Delete(ctx, post.ID); err != nil {
			return nil, postError(id, "failed to delete post", err)
		}

		s.logger.Info("post deleted", zap.String("id", id))
		return post, nil
	})
}

// AddLike adds one like to a post
func (s *PostService) AddLike(ctx context.Context, id string) error {
	postID, err := uuid.Parse(id)
	if err != nil {
		return PostNotFound(id)
	}

	if err := s.posts.IncrementLikes(ctx, postID); err != nil {
		return postError(id, "failed to like post", err)
	}
	return nil
}

// AddComment appends a comment by login and returns the updated post
func (s *PostService) AddComment(ctx context.Context, id, login, message string) (*models.Post, error) {
	if strings.TrimSpace(message) == "" {
		return nil, NewValidationError("message is required")
	}

	return WithTransactionResult(ctx, s.txMgr, func(ctx context.Context, _ repositories.Transaction) (*models.Post, error) {
		post, err := s.GetPostByID(ctx, id)
		if err != nil {
			return nil, err
		}

		comment := models.NewComment(post.ID, login, message)
		if err := s.posts.AddComment(ctx, comment); err != nil {
			return nil, WrapInternal("failed to add comment", err)
		}

		post.Comments = append(post.Comments, *comment)

		s.logger.Info("comment added", zap.String("post_id", id), zap.String("user", login))
		return post, nil
	})
}

// PostsByAuthor lists the posts written by author
func (s *PostService) PostsByAuthor(ctx context.Context, author string) ([]*models.Post, error) {
	posts, err := s.posts.GetByAuthor(ctx, author)
	if err != nil {
		return nil, WrapInternal("failed to list posts by author", err)
	}
	return posts, nil
}

// PostsByTags lists posts carrying any of the comma separated tags.
// Matching ignores case; blank entries are dropped.
func (s *PostService) PostsByTags(ctx context.Context, values string) ([]*models.Post, error) {
	tags := SplitTags(values)
	if len(tags) == 0 {
		return []*models.Post{}, nil
	}

	posts, err := s.posts.GetByTags(ctx, tags)
	if err != nil {
		return nil, WrapInternal("failed to list posts by tags", err)
	}
	return posts, nil
}

// PostsByPeriod lists posts created between dateFrom and dateTo, both
// YYYY-MM-DD and both inclusive.
func (s *PostService) PostsByPeriod(ctx context.Context, dateFrom, dateTo string) ([]*models.Post, error) {
	from, err := time.Parse(DateLayout, dateFrom)
	if err != nil {
		return nil, InvalidPeriod("dateFrom must be a date in YYYY-MM-DD format")
	}
	to, err := time.Parse(DateLayout, dateTo)
	if err != nil {
		return nil, InvalidPeriod("dateTo must be a date in YYYY-MM-DD format")
	}
	if from.After(to) {
		return nil, InvalidPeriod("dateFrom must not be after dateTo")
	}

	posts, err := s.posts.GetByDateRange(ctx, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, WrapInternal("failed to list posts by period", err)
	}
	return posts, nil
}

// SplitTags splits a comma separated tag list, trimming and dropping blanks
func SplitTags(values string) []string {
	var tags []string
	for _, t := range strings.Split(values, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func postError(id, msg string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return PostNotFound(id)
	}
	return WrapInternal(msg, err)
}
