package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"skillsync/internal/transport/dto/request"
	"skillsync/internal/transport/dto/response"
	"skillsync/internal/usecase/service"
)

// MockAuthService мок сервиса для тестов
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context, userId string) (*response.UserResponse, error) {
	args := m.Called(ctx, userId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.UserResponse), args.Error(1)
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) (*response.ForgotPasswordResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.ForgotPasswordResponse), args.Error(1)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, resetToken string, req *request.ResetPasswordRequest) (*response.AuthResponse, error) {
	args := m.Called(ctx, resetToken, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.AuthResponse), args.Error(1)
}

func TestAuthHandler_Register_Success(t *testing.T) {
	logger := zap.NewNop()
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService, logger)

	reqBody := request.RegisterRequest{
		FullName:   "Alice",
		RollNumber: "21CS001",
		Email:      "alice@campus.edu",
		Password:   "secret123",
	}

	mockService.On("Register", mock.Anything, mock.MatchedBy(func(r *request.RegisterRequest) bool {
		return r.Email == "alice@campus.edu"
	})).Return(&response.AuthResponse{
		Token: "jwt-token",
		User:  response.UserSummary{Id: uuid.NewString(), Email: "alice@campus.edu"},
	}, nil)

	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.Register(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var result map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &result)
	assert.NoError(t, err)
	assert.Equal(t, true, result["success"])
	data := result["data"].(map[string]interface{})
	assert.Equal(t, "jwt-token", data["token"])
	mockService.AssertExpectations(t)
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	logger := zap.NewNop()
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService, logger)

	body, _ := json.Marshal(request.RegisterRequest{Email: "alice@campus.edu"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Register(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Register")
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	logger := zap.NewNop()
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService, logger)

	mockService.On("Register", mock.Anything, mock.Anything).
		Return(nil, service.WrapError(service.ErrUserExists, nil))

	body, _ := json.Marshal(request.RegisterRequest{
		FullName:   "Alice",
		RollNumber: "21CS001",
		Email:      "alice@campus.edu",
		Password:   "secret123",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Register(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	logger := zap.NewNop()
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService, logger)

	mockService.On("Login", mock.Anything, mock.Anything).
		Return(nil, service.WrapError(service.ErrInvalidCredentials, nil))

	body, _ := json.Marshal(request.LoginRequest{Email: "alice@campus.edu", Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Login(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var result map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &result)
	assert.NoError(t, err)
	assert.Equal(t, "UNAUTHORIZED", result["code"])
}

func TestAuthHandler_Me_Success(t *testing.T) {
	logger := zap.NewNop()
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService, logger)

	userId := uuid.NewString()
	mockService.On("Me", mock.Anything, userId).Return(&response.UserResponse{
		Id:       userId,
		FullName: "Alice",
	}, nil)

	req := newAuthedRequest(http.MethodGet, "/api/auth/me", "", "", userId, nil)
	w := httptest.NewRecorder()

	handler.Me(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestAuthHandler_ForgotPassword_Success(t *testing.T) {
	logger := zap.NewNop()
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService, logger)

	mockService.On("ForgotPassword", mock.Anything, mock.Anything).Return(&response.ForgotPasswordResponse{
		ResetToken: "raw-token",
	}, nil)

	body, _ := json.Marshal(request.ForgotPasswordRequest{Email: "alice@campus.edu"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/forgot-password", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.ForgotPassword(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var result map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &result)
	assert.NoError(t, err)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, "raw-token", data["resetToken"])
}

func TestAuthHandler_ResetPassword_BadToken(t *testing.T) {
	logger := zap.NewNop()
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService, logger)

	mockService.On("ResetPassword", mock.Anything, "expired", mock.Anything).
		Return(nil, service.WrapError(service.ErrTokenInvalid, nil))

	body, _ := json.Marshal(request.ResetPasswordRequest{Password: "newpass123"})
	req := newAuthedRequest(http.MethodPut, "/api/auth/reset-password/expired", "token", "expired", "", body)
	w := httptest.NewRecorder()

	handler.ResetPassword(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
