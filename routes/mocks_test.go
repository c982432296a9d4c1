package routes

import (
	"context"
	"sync/atomic"

	"github.com/stretchr/testify/mock"
	"github.com/upb/forum-backend/models"
	"github.com/upb/forum-backend/services"
)

// memoryStore is an in-memory credential store whose hashes are the plaintext passwords
type memoryStore struct {
	users   map[string]*models.User
	lookups atomic.Int32
}

func newMemoryStore(users ...*models.User) *memoryStore {
	s := &memoryStore{users: make(map[string]*models.User)}
	for _, u := range users {
		s.users[u.Login] = u
	}
	return s
}

func (s *memoryStore) FindByLogin(_ context.Context, login string) (*models.User, error) {
	s.lookups.Add(1)
	if u, ok := s.users[login]; ok {
		return u, nil
	}
	return nil, services.UserNotFound(login)
}

type plainVerifier struct{}

func (plainVerifier) Verify(password, hash string) (bool, error) {
	return password == hash, nil
}

func account(login, password string, roles ...models.Role) *models.User {
	u := models.NewUser(login, password, "", "")
	u.Roles = roles
	return u
}

// MockAccountService is a mock implementation of handlers.AccountService
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) user(args mock.Arguments) (*models.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAccountService) Register(ctx context.Context, in services.RegisterInput) (*models.User, error) {
	return m.user(m.Called(ctx, in))
}

func (m *MockAccountService) GetUser(ctx context.Context, login string) (*models.User, error) {
	return m.user(m.Called(ctx, login))
}

func (m *MockAccountService) UpdateUser(ctx context.Context, login string, in services.UpdateUserInput) (*models.User, error) {
	return m.user(m.Called(ctx, login, in))
}

func (m *MockAccountService) DeleteUser(ctx context.Context, login string) (*models.User, error) {
	return m.user(m.Called(ctx, login))
}

func (m *MockAccountService) AddRole(ctx context.Context, login, role string) (*models.User, error) {
	return m.user(m.Called(ctx, login, role))
}

func (m *MockAccountService) DeleteRole(ctx context.Context, login, role string) (*models.User, error) {
	return m.user(m.Called(ctx, login, role))
}

func (m *MockAccountService) ChangePassword(ctx context.Context, login, newPassword string) error {
	return m.Called(ctx, login, newPassword).Error(0)
}

// MockPostService is a mock implementation of handlers.PostService and middleware.PostLookup
type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) post(args mock.Arguments) (*models.Post, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) list(args mock.Arguments) ([]*models.Post, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostService) CreatePost(ctx context.Context, author string, in services.CreatePostInput) (*models.Post, error) {
	return m.post(m.Called(ctx, author, in))
}

func (m *MockPostService) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	return m.post(m.Called(ctx, id))
}

func (m *MockPostService) UpdatePost(ctx context.Context, id string, in services.UpdatePostInput) (*models.Post, error) {
	return m.post(m.Called(ctx, id, in))
}

func (m *MockPostService) DeletePost(ctx context.Context, id string) (*models.Post, error) {
	return m.post(m.Called(ctx, id))
}

func (m *MockPostService) AddLike(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPostService) AddComment(ctx context.Context, id, login, message string) (*models.Post, error) {
	return m.post(m.Called(ctx, id, login, message))
}

func (m *MockPostService) PostsByAuthor(ctx context.Context, author string) ([]*models.Post, error) {
	return m.list(m.Called(ctx, author))
}

func (m *MockPostService) PostsByTags(ctx context.Context, values string) ([]*models.Post, error) {
	return m.list(m.Called(ctx, values))
}

func (m *MockPostService) PostsByPeriod(ctx context.Context, dateFrom, dateTo string) ([]*models.Post, error) {
	return m.list(m.Called(ctx, dateFrom, dateTo))
}
