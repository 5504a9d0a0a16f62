package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"

	"taskmanager/internal/model"
	"taskmanager/internal/oauth"
	"taskmanager/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil && user.ID == 0 {
		user.ID = 1
	}
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	args := m.Called(ctx, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) LinkOAuth(ctx context.Context, id uint, provider, providerID string) error {
	args := m.Called(ctx, id, provider, providerID)
	return args.Error(0)
}

// MockTaskRepository is a mock implementation of TaskRepository.
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) ListByOwner(ctx context.Context, ownerID uint) ([]model.Task, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) FindByIDAndOwner(ctx context.Context, id, ownerID uint) (*model.Task, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) Create(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) Update(ctx context.Context, id, ownerID uint, update model.TaskUpdate) (*model.Task, error) {
	args := m.Called(ctx, id, ownerID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) SetCompleted(ctx context.Context, id, ownerID uint, completed bool) (*model.Task, error) {
	args := m.Called(ctx, id, ownerID, completed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id, ownerID uint) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

func (m *MockTaskRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.TaskRepository) error) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}

// MockProviderClient is a mock implementation of ProviderClient.
type MockProviderClient struct {
	mock.Mock
}

func (m *MockProviderClient) AuthCodeURL(name, state string) (string, error) {
	args := m.Called(name, state)
	return args.String(0), args.Error(1)
}

func (m *MockProviderClient) Exchange(ctx context.Context, name, code string) (*oauth2.Token, error) {
	args := m.Called(ctx, name, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth2.Token), args.Error(1)
}

func (m *MockProviderClient) FetchProfile(ctx context.Context, name string, token *oauth2.Token) (oauth.Profile, error) {
	args := m.Called(ctx, name, token)
	return args.Get(0).(oauth.Profile), args.Error(1)
}

// MockStateStore is a mock implementation of StateStoreInterface.
type MockStateStore struct {
	mock.Mock
}

func (m *MockStateStore) Create(ctx context.Context, provider string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, provider, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockStateStore) Consume(ctx context.Context, state, provider string) (bool, error) {
	args := m.Called(ctx, state, provider)
	return args.Bool(0), args.Error(1)
}
