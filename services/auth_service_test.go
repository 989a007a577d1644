package services

import (
	"context"
	"errors"
	"testing"

	"catalog-service/apperrors"
	"catalog-service/models"
	"catalog-service/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestRegisterSuccess(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := NewAuthService(userRepo, NewTokenService("test-secret"), NewMemoryTokenStore())
	ctx := context.Background()

	userRepo.On("FindByEmail", ctx, "new@example.com").Return(nil, repository.ErrNotFound)
	userRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil)

	user, err := svc.Register(ctx, "New User", "new@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, "user", user.Role)
	assert.NotEqual(t, uuid.Nil, user.ID)

	// The stored credential is a bcrypt hash, never the password itself.
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))

	userRepo.AssertExpectations(t)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := NewAuthService(userRepo, NewTokenService("test-secret"), NewMemoryTokenStore())
	ctx := context.Background()

	existing := &models.User{ID: uuid.New(), Email: "taken@example.com"}
	userRepo.On("FindByEmail", ctx, "taken@example.com").Return(existing, nil)

	_, err := svc.Register(ctx, "Someone", "taken@example.com", "password123")
	assertAppError(t, err, 409)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLoginSuccess(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := NewAuthService(userRepo, NewTokenService("test-secret"), NewMemoryTokenStore())
	ctx := context.Background()

	user := &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: hashPassword(t, "correct-horse"),
		Role:         "user",
	}
	userRepo.On("FindByEmail", ctx, "user@example.com").Return(user, nil)

	pair, got, err := svc.Login(ctx, "user@example.com", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, user.ID, got.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := NewAuthService(userRepo, NewTokenService("test-secret"), NewMemoryTokenStore())
	ctx := context.Background()

	user := &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: hashPassword(t, "correct-horse"),
	}
	userRepo.On("FindByEmail", ctx, "user@example.com").Return(user, nil)
	userRepo.On("FindByEmail", ctx, "unknown@example.com").Return(nil, repository.ErrNotFound)

	_, _, wrongPassword := svc.Login(ctx, "user@example.com", "wrong")
	assertAppError(t, wrongPassword, 401)

	_, _, unknownEmail := svc.Login(ctx, "unknown@example.com", "whatever")
	assertAppError(t, unknownEmail, 401)

	// Unknown email and wrong password are indistinguishable to the caller.
	var a, b *apperrors.Error
	require.True(t, errors.As(wrongPassword, &a))
	require.True(t, errors.As(unknownEmail, &b))
	assert.Equal(t, a.Message, b.Message)
}

func TestRefreshRotatesToken(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := NewAuthService(userRepo, NewTokenService("test-secret"), NewMemoryTokenStore())
	ctx := context.Background()

	user := &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: hashPassword(t, "correct-horse"),
		Role:         "user",
	}
	userRepo.On("FindByEmail", ctx, "user@example.com").Return(user, nil)
	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

	pair, _, err := svc.Login(ctx, "user@example.com", "correct-horse")
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)

	// The old refresh token was consumed by the rotation.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assertAppError(t, err, 401)

	// The new one still works.
	_, err = svc.Refresh(ctx, rotated.RefreshToken)
	require.NoError(t, err)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := NewAuthService(userRepo, NewTokenService("test-secret"), NewMemoryTokenStore())
	ctx := context.Background()

	user := &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: hashPassword(t, "correct-horse"),
	}
	userRepo.On("FindByEmail", ctx, "user@example.com").Return(user, nil)

	pair, _, err := svc.Login(ctx, "user@example.com", "correct-horse")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assertAppError(t, err, 401)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := NewAuthService(userRepo, NewTokenService("test-secret"), NewMemoryTokenStore())
	ctx := context.Background()

	user := &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: hashPassword(t, "correct-horse"),
	}
	userRepo.On("FindByEmail", ctx, "user@example.com").Return(user, nil)

	pair, _, err := svc.Login(ctx, "user@example.com", "correct-horse")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, pair.AccessToken)
	assertAppError(t, err, 401)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc := NewAuthService(new(MockUserRepo), NewTokenService("test-secret"), NewMemoryTokenStore())

	_, err := svc.Refresh(context.Background(), "not-a-token")
	assertAppError(t, err, 401)
}
