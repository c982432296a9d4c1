package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/upb/forum-backend/internal/observability"
	"github.com/upb/forum-backend/models"
	"github.com/upb/forum-backend/services"
	"github.com/upb/forum-backend/utils"
	"go.uber.org/zap"
)

// CreatePostRequest represents a request to create a post
type CreatePostRequest struct {
	Title   string   `json:"title" validate:"required,max=200"`
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags" validate:"omitempty,dive,required,max=50"`
}

// UpdatePostRequest represents a post update; absent fields are unchanged
type UpdatePostRequest struct {
	Title   *string  `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Content *string  `json:"content,omitempty" validate:"omitempty,min=1"`
	Tags    []string `json:"tags,omitempty" validate:"omitempty,dive,required,max=50"`
}

// AddCommentRequest carries the text of a new comment
type AddCommentRequest struct {
	Message string `json:"message" validate:"required"`
}

// PostService defines the post operations used by the handler
type PostService interface {
	CreatePost(ctx context.Context, author string, in services.CreatePostInput) (*models.Post, error)
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	UpdatePost(ctx context.Context, id string, in services.UpdatePostInput) (*models.Post, error)
	DeletePost(ctx context.Context, id string) (*models.Post, error)
	AddLike(ctx context.Context, id string) error
	AddComment(ctx context.Context, id, login, message string) (*models.Post, error)
	PostsByAuthor(ctx context.Context, author string) ([]*models.Post, error)
	PostsByTags(ctx context.Context, values string) ([]*models.Post, error)
	PostsByPeriod(ctx context.Context, dateFrom, dateTo string) ([]*models.Post, error)
}

// PostHandler handles post-related HTTP requests
type PostHandler struct {
	posts  PostService
	logger *zap.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts PostService, logger *zap.Logger) *PostHandler {
	return &PostHandler{
		posts:  posts,
		logger: logger,
	}
}

// HandleCreatePost handles POST /forum/post/{author}
func (h *PostHandler) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	logger := observability.ForRequest(h.logger, r)

	var req CreatePostRequest
	if !decodeAndValidate(w, r, &req, logger) {
		return
	}

	post, err := h.posts.CreatePost(r.Context(), chi.URLParam(r, "author"), services.CreatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		HandleServiceError(w, r, err, logger)
		return
	}

	logger.Info("post created",
		zap.String("post_id", post.ID.String()),
		zap.String("author", post.Author))
	_ = utils.WriteCreated(w, post)
}

// HandleGetPost handles GET /forum/post/{id}
func (h *PostHandler) HandleGetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.GetPostByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		HandleServiceError(w, r, err, observability.ForRequest(h.logger, r))
		return
	}

	_ = utils.WriteOK(w, post)
}

// HandleUpdatePost handles PATCH /forum/post/{id}
func (h *PostHandler) HandleUpdatePost(w http.ResponseWriter, r *http.Request) {
	logger := observability.ForRequest(h.logger, r)

	var req UpdatePostRequest
	if !decodeAndValidate(w, r, &req, logger) {
		return
	}

	post, err := h.posts.UpdatePost(r.Context(), chi.URLParam(r, "id"), services.UpdatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		HandleServiceError(w, r, err, logger)
		return
	}

	_ = utils.WriteOK(w, post)
}

// HandleDeletePost handles DELETE /forum/post/{id}
func (h *PostHandler) HandleDeletePost(w http.ResponseWriter, r *http.Request) {
	logger := observability.ForRequest(h.logger, r)

	post, err := h.posts.DeletePost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		HandleServiceError(w, r, err, logger)
		return
	}

	logger.Info("post deleted",
		zap.String("post_id", post.ID.String()),
		zap.String("by", principalLogin(r)))
	_ = utils.WriteOK(w, post)
}

// HandleAddLike handles PATCH /forum/post/{id}/like
func (h *PostHandler) HandleAddLike(w http.ResponseWriter, r *http.Request) {
	if err := h.posts.AddLike(r.Context(), chi.URLParam(r, "id")); err != nil {
		HandleServiceError(w, r, err, observability.ForRequest(h.logger, r))
		return
	}

	utils.WriteNoContent(w)
}

// HandleAddComment handles PATCH /forum/post/{id}/comment/{login}
func (h *PostHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	logger := observability.ForRequest(h.logger, r)

	var req AddCommentRequest
	if !decodeAndValidate(w, r, &req, logger) {
		return
	}

	post, err := h.posts.AddComment(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "login"), req.Message)
	if err != nil {
		HandleServiceError(w, r, err, logger)
		return
	}

	_ = utils.WriteOK(w, post)
}

// HandlePostsByAuthor handles GET /forum/posts/author/{author}
func (h *PostHandler) HandlePostsByAuthor(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.PostsByAuthor(r.Context(), chi.URLParam(r, "author"))
	h.writeList(w, r, posts, err)
}

// HandlePostsByTags handles GET /forum/posts/tags?values=a,b
func (h *PostHandler) HandlePostsByTags(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.PostsByTags(r.Context(), r.URL.Query().Get("values"))
	h.writeList(w, r, posts, err)
}

// HandlePostsByPeriod handles GET /forum/posts/period?dateFrom=YYYY-MM-DD&dateTo=YYYY-MM-DD
func (h *PostHandler) HandlePostsByPeriod(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	dateFrom, dateTo := query.Get("dateFrom"), query.Get("dateTo")

	bounds := []struct{ name, value string }{{"dateFrom", dateFrom}, {"dateTo", dateTo}}
	for _, b := range bounds {
		if err := utils.ValidateVar(b.value, b.name, "required,datetime="+services.DateLayout); err != nil {
			HandleValidationError(w, r, err, observability.ForRequest(h.logger, r))
			return
		}
	}

	posts, err := h.posts.PostsByPeriod(r.Context(), dateFrom, dateTo)
	h.writeList(w, r, posts, err)
}

func (h *PostHandler) writeList(w http.ResponseWriter, r *http.Request, posts []*models.Post, err error) {
	if err != nil {
		HandleServiceError(w, r, err, observability.ForRequest(h.logger, r))
		return
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	_ = utils.WriteOK(w, posts)
}
