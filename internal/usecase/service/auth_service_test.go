package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"skillsync/internal/infrastructure/models/dto"
	"skillsync/internal/infrastructure/models/result"
	"skillsync/internal/infrastructure/repository"
	"skillsync/internal/transport/dto/request"
)

const testSecret = "test-secret"

// MockAuthRepository мок репозитория для тестов
type MockAuthRepository struct {
	mock.Mock
}

func (m *MockAuthRepository) Create(ctx context.Context, d *dto.CreateUserDTO) (*result.UserResult, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*result.UserResult), args.Error(1)
}

func (m *MockAuthRepository) GetByEmail(ctx context.Context, email string) (*result.CredentialsResult, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*result.CredentialsResult), args.Error(1)
}

func (m *MockAuthRepository) GetById(ctx context.Context, userId string) (*result.UserResult, error) {
	args := m.Called(ctx, userId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*result.UserResult), args.Error(1)
}

func (m *MockAuthRepository) SetResetToken(ctx context.Context, d *dto.SetResetTokenDTO) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockAuthRepository) ResetPassword(ctx context.Context, d *dto.ResetPasswordDTO) (string, error) {
	args := m.Called(ctx, d)
	return args.String(0), args.Error(1)
}

func newAuthService(repo *MockAuthRepository) *AuthService {
	return NewAuthService(repo, testSecret, time.Hour, zap.NewNop())
}

func TestAuthService_Register_Success(t *testing.T) {
	mockRepo := new(MockAuthRepository)
	service := newAuthService(mockRepo)

	req := &request.RegisterRequest{
		FullName:   "Alice",
		RollNumber: "21CS001",
		Email:      "alice@campus.edu",
		Password:   "secret123",
	}

	userId := uuid.NewString()
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(d *dto.CreateUserDTO) bool {
		// Пароль не должен попадать в бд открытым текстом
		return d.Email == "alice@campus.edu" && d.PasswordHash != "secret123" && d.UserId != ""
	})).Return(&result.UserResult{
		Id:         userId,
		FullName:   "Alice",
		RollNumber: "21CS001",
		Email:      "alice@campus.edu",
		Role:       "student",
		IsActive:   true,
	}, nil)

	resp, err := service.Register(context.Background(), req)

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, userId, resp.User.Id)

	// Выданный токен подписан нашим секретом и содержит subject
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(resp.Token, claims, func(t *jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	assert.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, userId, claims.Subject)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	mockRepo := new(MockAuthRepository)
	service := newAuthService(mockRepo)

	req := &request.RegisterRequest{
		FullName:   "Alice",
		RollNumber: "21CS001",
		Email:      "alice@campus.edu",
		Password:   "secret123",
	}

	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil, repository.ErrAlreadyExists)

	resp, err := service.Register(context.Background(), req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	var domainErr *DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DUPLICATE", domainErr.Code)
}

func TestAuthService_Login_Success(t *testing.T) {
	mockRepo := new(MockAuthRepository)
	service := newAuthService(mockRepo)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	assert.NoError(t, err)

	userId := uuid.NewString()
	mockRepo.On("GetByEmail", mock.Anything, "alice@campus.edu").Return(&result.CredentialsResult{
		Id:           userId,
		FullName:     "Alice",
		Email:        "alice@campus.edu",
		PasswordHash: string(hash),
		IsActive:     true,
	}, nil)

	resp, err := service.Login(context.Background(), &request.LoginRequest{
		Email:    "alice@campus.edu",
		Password: "secret123",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, userId, resp.User.Id)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	mockRepo := new(MockAuthRepository)
	service := newAuthService(mockRepo)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	assert.NoError(t, err)

	mockRepo.On("GetByEmail", mock.Anything, "alice@campus.edu").Return(&result.CredentialsResult{
		Id:           uuid.NewString(),
		Email:        "alice@campus.edu",
		PasswordHash: string(hash),
	}, nil)

	resp, err := service.Login(context.Background(), &request.LoginRequest{
		Email:    "alice@campus.edu",
		Password: "wrong",
	})

	assert.Error(t, err)
	assert.Nil(t, resp)
	var domainErr *DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	mockRepo := new(MockAuthRepository)
	service := newAuthService(mockRepo)

	mockRepo.On("GetByEmail", mock.Anything, "ghost@campus.edu").Return(nil, repository.ErrNotFound)

	resp, err := service.Login(context.Background(), &request.LoginRequest{
		Email:    "ghost@campus.edu",
		Password: "secret123",
	})

	assert.Error(t, err)
	assert.Nil(t, resp)
	// Несуществующий email дает тот же код, что и неверный пароль
	var domainErr *DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}

func TestAuthService_ForgotPassword_StoresHashNotToken(t *testing.T) {
	mockRepo := new(MockAuthRepository)
	service := newAuthService(mockRepo)

	var storedHash string
	mockRepo.On("SetResetToken", mock.Anything, mock.MatchedBy(func(d *dto.SetResetTokenDTO) bool {
		storedHash = d.TokenHash
		return d.Email == "alice@campus.edu" && d.ExpiresAt.After(time.Now())
	})).Return(nil)

	resp, err := service.ForgotPassword(context.Background(), &request.ForgotPasswordRequest{
		Email: "alice@campus.edu",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.ResetToken)
	// В бд хранится только хэш токена
	assert.NotEqual(t, resp.ResetToken, storedHash)
	assert.Equal(t, hashResetToken(resp.ResetToken), storedHash)
}

func TestAuthService_ForgotPassword_UnknownEmail(t *testing.T) {
	mockRepo := new(MockAuthRepository)
	service := newAuthService(mockRepo)

	mockRepo.On("SetResetToken", mock.Anything, mock.Anything).Return(repository.ErrNotFound)

	resp, err := service.ForgotPassword(context.Background(), &request.ForgotPasswordRequest{
		Email: "ghost@campus.edu",
	})

	assert.Error(t, err)
	assert.Nil(t, resp)
	var domainErr *DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestAuthService_ResetPassword_Success(t *testing.T) {
	mockRepo := new(MockAuthRepository)
	service := newAuthService(mockRepo)

	userId := uuid.NewString()
	resetToken := "raw-reset-token"

	mockRepo.On("ResetPassword", mock.Anything, mock.MatchedBy(func(d *dto.ResetPasswordDTO) bool {
		return d.TokenHash == hashResetToken(resetToken) && d.PasswordHash != "newpass123"
	})).Return(userId, nil)
	mockRepo.On("GetById", mock.Anything, userId).Return(&result.UserResult{
		Id:       userId,
		FullName: "Alice",
		Email:    "alice@campus.edu",
	}, nil)

	resp, err := service.ResetPassword(context.Background(), resetToken, &request.ResetPasswordRequest{
		Password: "newpass123",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, userId, resp.User.Id)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ResetPassword_BadToken(t *testing.T) {
	mockRepo := new(MockAuthRepository)
	service := newAuthService(mockRepo)

	mockRepo.On("ResetPassword", mock.Anything, mock.Anything).Return("", repository.ErrNotFound)

	resp, err := service.ResetPassword(context.Background(), "expired", &request.ResetPasswordRequest{
		Password: "newpass123",
	})

	assert.Error(t, err)
	assert.Nil(t, resp)
	var domainErr *DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}

func TestAuthService_Me_Success(t *testing.T) {
	mockRepo := new(MockAuthRepository)
	service := newAuthService(mockRepo)

	userId := uuid.NewString()
	mockRepo.On("GetById", mock.Anything, userId).Return(&result.UserResult{
		Id:       userId,
		FullName: "Alice",
		Email:    "alice@campus.edu",
	}, nil)

	resp, err := service.Me(context.Background(), userId)

	assert.NoError(t, err)
	assert.Equal(t, userId, resp.Id)
}
