package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/upb/forum-backend/internal/observability"
	"github.com/upb/forum-backend/middleware"
	"github.com/upb/forum-backend/models"
	"github.com/upb/forum-backend/services"
	"github.com/upb/forum-backend/utils"
	"go.uber.org/zap"
)

// RegisterRequest represents a request to create an account
type RegisterRequest struct {
	Login     string `json:"login" validate:"required,max=64,excludes=:"`
	Password  string `json:"password" validate:"required,max=128"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
}

// UpdateUserRequest represents a profile update; absent fields are unchanged
type UpdateUserRequest struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,max=100"`
}

// ChangePasswordRequest carries the new password of the caller
type ChangePasswordRequest struct {
	Password string `json:"password" validate:"required,max=128"`
}

// AccountService defines the account operations used by the handler
type AccountService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	GetUser(ctx context.Context, login string) (*models.User, error)
	UpdateUser(ctx context.Context, login string, in services.UpdateUserInput) (*models.User, error)
	DeleteUser(ctx context.Context, login string) (*models.User, error)
	AddRole(ctx context.Context, login, role string) (*models.User, error)
	DeleteRole(ctx context.Context, login, role string) (*models.User, error)
	ChangePassword(ctx context.Context, login, newPassword string) error
}

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	accounts AccountService
	logger   *zap.Logger
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accounts AccountService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		logger:   logger,
	}
}

// HandleRegister handles POST /account/register
func (h *AccountHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	logger := observability.ForRequest(h.logger, r)

	var req RegisterRequest
	if !decodeAndValidate(w, r, &req, logger) {
		return
	}

	user, err := h.accounts.Register(r.Context(), services.RegisterInput{
		Login:     req.Login,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		HandleServiceError(w, r, err, logger)
		return
	}

	logger.Info("account registered", zap.String("login", user.Login))
	_ = utils.WriteCreated(w, user)
}

// HandleLogin handles POST /account/login. Authentication already verified
// the credentials, so this returns the caller's own account.
func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	logger := observability.ForRequest(h.logger, r)

	principal := middleware.GetPrincipalFromContext(r.Context())
	if principal == nil {
		HandleServiceError(w, r, services.ErrInvalidCredentials, logger)
		return
	}

	user, err := h.accounts.GetUser(r.Context(), principal.Login)
	if err != nil {
		HandleServiceError(w, r, err, logger)
		return
	}

	_ = utils.WriteOK(w, user)
}

// HandleGetUser handles GET /account/user/{login}
func (h *AccountHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.accounts.GetUser(r.Context(), chi.URLParam(r, "login"))
	if err != nil {
		HandleServiceError(w, r, err, observability.ForRequest(h.logger, r))
		return
	}

	_ = utils.WriteOK(w, user)
}

// HandleUpdateUser handles PATCH /account/user/{login}
func (h *AccountHandler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	logger := observability.ForRequest(h.logger, r)

	var req UpdateUserRequest
	if !decodeAndValidate(w, r, &req, logger) {
		return
	}

	user, err := h.accounts.UpdateUser(r.Context(), chi.URLParam(r, "login"), services.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		HandleServiceError(w, r, err, logger)
		return
	}

	_ = utils.WriteOK(w, user)
}

// HandleDeleteUser handles DELETE /account/user/{login}
func (h *AccountHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	logger := observability.ForRequest(h.logger, r)

	user, err := h.accounts.DeleteUser(r.Context(), chi.URLParam(r, "login"))
	if err != nil {
		HandleServiceError(w, r, err, logger)
		return
	}

	logger.Info("account deleted",
		zap.String("login", user.Login),
		zap.String("by", principalLogin(r)))
	_ = utils.WriteOK(w, user)
}

// HandleAddRole handles PATCH /account/user/{login}/role/{role}
func (h *AccountHandler) HandleAddRole(w http.ResponseWriter, r *http.Request) {
	h.changeRole(w, r, h.accounts.AddRole, "role granted")
}

// HandleDeleteRole handles DELETE /account/user/{login}/role/{role}
func (h *AccountHandler) HandleDeleteRole(w http.ResponseWriter, r *http.Request) {
	h.changeRole(w, r, h.accounts.DeleteRole, "role revoked")
}

func (h *AccountHandler) changeRole(
	w http.ResponseWriter,
	r *http.Request,
	change func(ctx context.Context, login, role string) (*models.User, error),
	event string,
) {
	logger := observability.ForRequest(h.logger, r)
	login, role := chi.URLParam(r, "login"), chi.URLParam(r, "role")

	user, err := change(r.Context(), login, role)
	if err != nil {
		HandleServiceError(w, r, err, logger)
		return
	}

	logger.Info(event,
		zap.String("login", login),
		zap.String("role", role),
		zap.String("by", principalLogin(r)))
	_ = utils.WriteOK(w, user)
}

// HandleChangePassword handles PATCH /account/password for the caller's own account
func (h *AccountHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	logger := observability.ForRequest(h.logger, r)

	principal := middleware.GetPrincipalFromContext(r.Context())
	if principal == nil {
		HandleServiceError(w, r, services.ErrInvalidCredentials, logger)
		return
	}

	var req ChangePasswordRequest
	if !decodeAndValidate(w, r, &req, logger) {
		return
	}

	if err := h.accounts.ChangePassword(r.Context(), principal.Login, req.Password); err != nil {
		HandleServiceError(w, r, err, logger)
		return
	}

	logger.Info("password changed", zap.String("login", principal.Login))
	utils.WriteNoContent(w)
}

// decodeAndValidate reads a JSON body into dst and validates it, writing a
// 400 and returning false on failure
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}, logger *zap.Logger) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.Debug("invalid request body", zap.Error(err))
		_ = utils.WriteBadRequest(w, r, "Invalid request body")
		return false
	}

	if err := utils.ValidateStruct(dst); err != nil {
		HandleValidationError(w, r, err, logger)
		return false
	}

	return true
}

func principalLogin(r *http.Request) string {
	if p := middleware.GetPrincipalFromContext(r.Context()); p != nil {
		return p.Login
	}
	return ""
}
