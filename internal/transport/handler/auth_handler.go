package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"skillsync/internal/transport/dto/request"
	"skillsync/internal/transport/dto/response"
	"skillsync/internal/transport/middleware"
	"skillsync/internal/usecase/service"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	Me(ctx context.Context, userId string) (*response.UserResponse, error)
	ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) (*response.ForgotPasswordResponse, error)
	ResetPassword(ctx context.Context, resetToken string, req *request.ResetPasswordRequest) (*response.AuthResponse, error)
}

type AuthHandler struct {
	svc AuthService
	log *zap.Logger
}

func NewAuthHandler(svc AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		svc: svc,
		log: log,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	h.log.Info("register request received",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	// Парсим json в модель RegisterRequest
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode request body", zap.Error(err))
		statusCode, errResp := HandleError(service.WrapError(service.ErrInvalidInput, err))
		WriteError(w, statusCode, errResp)
		return
	}

	// Валидация
	if req.FullName == "" || req.RollNumber == "" || req.Email == "" || req.Password == "" {
		h.log.Warn("validation failed: required registration fields are empty")
		statusCode, errResp := HandleError(service.WrapError(service.ErrInvalidInput, nil))
		WriteError(w, statusCode, errResp)
		return
	}

	// Вызов сервиса
	resp, err := h.svc.Register(r.Context(), &req)
	if err != nil {
		h.log.Error("failed to register user",
			zap.String("email", req.Email),
			zap.Error(err),
		)
		statusCode, errResp := HandleError(err)
		WriteError(w, statusCode, errResp)
		return
	}

	h.log.Info("user registered successfully", zap.String("user_id", resp.User.Id))

	// Ответ
	sendResponse(w, http.StatusCreated, "user registered", map[string]any{
		"token": resp.Token,
		"user":  resp.User,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.log.Info("login request received",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	// Парсим json в модель LoginRequest
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode request body", zap.Error(err))
		statusCode, errResp := HandleError(service.WrapError(service.ErrInvalidInput, err))
		WriteError(w, statusCode, errResp)
		return
	}

	// Валидация
	if req.Email == "" || req.Password == "" {
		h.log.Warn("validation failed: email or password is empty")
		statusCode, errResp := HandleError(service.WrapError(service.ErrInvalidInput, nil))
		WriteError(w, statusCode, errResp)
		return
	}

	// Вызов сервиса
	resp, err := h.svc.Login(r.Context(), &req)
	if err != nil {
		h.log.Warn("failed to login", zap.String("email", req.Email), zap.Error(err))
		statusCode, errResp := HandleError(err)
		WriteError(w, statusCode, errResp)
		return
	}

	h.log.Info("user logged in successfully", zap.String("user_id", resp.User.Id))

	// Ответ
	sendResponse(w, http.StatusOK, "login successful", map[string]any{
		"token": resp.Token,
		"user":  resp.User,
	})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userId, ok := middleware.UserID(r.Context())
	if !ok {
		statusCode, errResp := HandleError(service.WrapError(service.ErrTokenInvalid, nil))
		WriteError(w, statusCode, errResp)
		return
	}

	// Вызов сервиса
	resp, err := h.svc.Me(r.Context(), userId)
	if err != nil {
		h.log.Error("failed to get profile", zap.String("user_id", userId), zap.Error(err))
		statusCode, errResp := HandleError(err)
		WriteError(w, statusCode, errResp)
		return
	}

	// Ответ
	sendResponse(w, http.StatusOK, "", map[string]any{"user": resp})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	h.log.Info("forgotPassword request received",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	// Парсим json в модель ForgotPasswordRequest
	var req request.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode request body", zap.Error(err))
		statusCode, errResp := HandleError(service.WrapError(service.ErrInvalidInput, err))
		WriteError(w, statusCode, errResp)
		return
	}

	// Валидация
	if req.Email == "" {
		h.log.Warn("validation failed: email is empty")
		statusCode, errResp := HandleError(service.WrapError(service.ErrInvalidInput, nil))
		WriteError(w, statusCode, errResp)
		return
	}

	// Вызов сервиса
	resp, err := h.svc.ForgotPassword(r.Context(), &req)
	if err != nil {
		h.log.Warn("failed to issue reset token", zap.String("email", req.Email), zap.Error(err))
		statusCode, errResp := HandleError(err)
		WriteError(w, statusCode, errResp)
		return
	}

	// Ответ
	sendResponse(w, http.StatusOK, "reset token issued", map[string]any{
		"resetToken": resp.ResetToken,
	})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	h.log.Info("resetPassword request received",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	resetToken := chi.URLParam(r, "token")
	if resetToken == "" {
		statusCode, errResp := HandleError(service.WrapError(service.ErrInvalidInput, nil))
		WriteError(w, statusCode, errResp)
		return
	}

	// Парсим json в модель ResetPasswordRequest
	var req request.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode request body", zap.Error(err))
		statusCode, errResp := HandleError(service.WrapError(service.ErrInvalidInput, err))
		WriteError(w, statusCode, errResp)
		return
	}

	// Валидация
	if req.Password == "" {
		h.log.Warn("validation failed: password is empty")
		statusCode, errResp := HandleError(service.WrapError(service.ErrInvalidInput, nil))
		WriteError(w, statusCode, errResp)
		return
	}

	// Вызов сервиса
	resp, err := h.svc.ResetPassword(r.Context(), resetToken, &req)
	if err != nil {
		h.log.Warn("failed to reset password", zap.Error(err))
		statusCode, errResp := HandleError(err)
		WriteError(w, statusCode, errResp)
		return
	}

	h.log.Info("password reset successfully", zap.String("user_id", resp.User.Id))

	// Ответ
	sendResponse(w, http.StatusOK, "password reset", map[string]any{
		"token": resp.Token,
		"user":  resp.User,
	})
}
