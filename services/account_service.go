package services

import (
	"context"
	"errors"
	"strings"

	"github.com/upb/forum-backend/models"
	"github.com/upb/forum-backend/repositories"
	"go.uber.org/zap"
)

// RegisterInput carries the fields of a new account
type RegisterInput struct {
	Login     string
	Password  string
	FirstName string
	LastName  string
}

// UpdateUserInput carries optional profile changes; nil fields are left as is
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
}

// AccountService handles user accounts, roles and passwords
type AccountService struct {
	users  repositories.UserRepository
	hasher PasswordHasher
	logger *zap.Logger
}

// NewAccountService creates a new AccountService instance
func NewAccountService(users repositories.UserRepository, hasher PasswordHasher, logger *zap.Logger) *AccountService {
	return &AccountService{
		users:  users,
		hasher: hasher,
		logger: logger,
	}
}

// Register creates an account holding the USER role
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	login := strings.TrimSpace(in.Login)
	if login == "" {
		return nil, NewValidationError("login is required")
	}
	if in.Password == "" {
		return nil, NewValidationError("password is required")
	}

	if strings.Contains(login, ":") {
		return nil, NewValidationError("login must not contain ':'")
	}

	if _, err := s.users.GetByLogin(ctx, login); err == nil {
		return nil, LoginConflict(login)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, WrapInternal("failed to look up login", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, WrapInternal("failed to hash password", err)
	}

	user := models.NewUser(login, hash, in.FirstName, in.LastName)
	if err := s.users.Create(ctx, user); err != nil {
		// a concurrent registration can still win the insert
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, LoginConflict(login)
		}
		return nil, WrapInternal("failed to create user", err)
	}

	s.logger.Info("user registered", zap.String("login", login))
	return user, nil
}

// FindByLogin returns the stored account, password hash included.
// A missing account is a not found error.
func (s *AccountService) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		return nil, s.userError(login, "failed to get user", err)
	}
	return user, nil
}

// GetUser returns an account by login
func (s *AccountService) GetUser(ctx context.Context, login string) (*models.User, error) {
	return s.FindByLogin(ctx, login)
}

// UpdateUser changes first and/or last name
func (s *AccountService) UpdateUser(ctx context.Context, login string, in UpdateUserInput) (*models.User, error) {
	user, err := s.FindByLogin(ctx, login)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, s.userError(login, "failed to update user", err)
	}

	s.logger.Info("user updated", zap.String("login", login))
	return user, nil
}

// DeleteUser removes an account and returns it
func (s *AccountService) DeleteUser(ctx context.Context, login string) (*models.User, error) {
	user, err := s.users.Delete(ctx, login)
	if err != nil {
		return nil, s.userError(login, "failed to delete user", err)
	}

	s.logger.Info("user deleted", zap.String("login", login))
	return user, nil
}

// AddRole grants a role. Granting a held role is a no-op.
func (s *AccountService) AddRole(ctx context.Context, login, role string) (*models.User, error) {
	r, err := parseRole(role)
	if err != nil {
		return nil, err
	}

	user, err := s.users.AddRole(ctx, login, r)
	if err != nil {
		return nil, s.userError(login, "failed to add role", err)
	}

	s.logger.Info("role added", zap.String("login", login), zap.String("role", string(r)))
	return user, nil
}

// DeleteRole revokes a role. Revoking a role not held is a no-op.
func (s *AccountService) DeleteRole(ctx context.Context, login, role string) (*models.User, error) {
	r, err := parseRole(role)
	if err != nil {
		return nil, err
	}

	user, err := s.users.RemoveRole(ctx, login, r)
	if err != nil {
		return nil, s.userError(login, "failed to delete role", err)
	}

	s.logger.Info("role deleted", zap.String("login", login), zap.String("role", string(r)))
	return user, nil
}

// ChangePassword replaces the password of login
func (s *AccountService) ChangePassword(ctx context.Context, login, newPassword string) error {
	if newPassword == "" {
		return NewValidationError("password is required")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return WrapInternal("failed to hash password", err)
	}

	if err := s.users.UpdatePassword(ctx, login, hash); err != nil {
		return s.userError(login, "failed to change password", err)
	}

	s.logger.Info("password changed", zap.String("login", login))
	return nil
}

// EnsureAdmin creates an account holding every role unless login already exists.
// It reports whether an account was created.
func (s *AccountService) EnsureAdmin(ctx context.Context, login, password string) (bool, error) {
	_, err := s.users.GetByLogin(ctx, login)
	if err == nil {
		s.logger.Debug("admin account already present", zap.String("login", login))
		return false, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return false, WrapInternal("failed to look up admin", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return false, WrapInternal("failed to hash password", err)
	}

	admin := models.NewUser(login, hash, "", "")
	admin.Roles = append([]models.Role(nil), models.AllRoles...)

	if err := s.users.Create(ctx, admin); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return false, nil
		}
		return false, WrapInternal("failed to create admin", err)
	}

	s.logger.Info("admin account created", zap.String("login", login))
	return true, nil
}

func (s *AccountService) userError(login, msg string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return UserNotFound(login)
	}
	return WrapInternal(msg, err)
}

func parseRole(role string) (models.Role, error) {
	r, ok := models.ParseRole(role)
	if !ok {
		return "", InvalidRole(strings.TrimSpace(role))
	}
	return r, nil
}
