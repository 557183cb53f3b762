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

type UserService interface {
	GetById(ctx context.Context, rawUserId string) (*response.UserResponse, error)
	Update(ctx context.Context, req *request.UpdateUserRequest, rawUserId, actorId string) (*response.UserResponse, error)
}

type UserHandler struct {
	svc UserService
	log *zap.Logger
}

func NewUserHandler(svc UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		svc: svc,
		log: log,
	}
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	h.log.Info("getUser request received",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	userId := chi.URLParam(r, "id")

	// Вызов сервиса
	resp, err := h.svc.GetById(r.Context(), userId)
	if err != nil {
		h.log.Warn("failed to get user", zap.String("user_id", userId), zap.Error(err))
		statusCode, errResp := HandleError(err)
		WriteError(w, statusCode, errResp)
		return
	}

	// Ответ
	sendResponse(w, http.StatusOK, "", map[string]any{"user": resp})
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	h.log.Info("updateUser request received",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	actorId, ok := middleware.UserID(r.Context())
	if !ok {
		statusCode, errResp := HandleError(service.WrapError(service.ErrTokenInvalid, nil))
		WriteError(w, statusCode, errResp)
		return
	}

	userId := chi.URLParam(r, "id")

	// Парсим json в модель UpdateUserRequest
	var req request.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode request body", zap.Error(err))
		statusCode, errResp := HandleError(service.WrapError(service.ErrInvalidInput, err))
		WriteError(w, statusCode, errResp)
		return
	}

	// Валидация
	if req.FullName == "" {
		h.log.Warn("validation failed: fullName is empty")
		statusCode, errResp := HandleError(service.WrapError(service.ErrInvalidInput, nil))
		WriteError(w, statusCode, errResp)
		return
	}

	// Вызов сервиса
	resp, err := h.svc.Update(r.Context(), &req, userId, actorId)
	if err != nil {
		h.log.Warn("failed to update user", zap.String("user_id", userId), zap.Error(err))
		statusCode, errResp := HandleError(err)
		WriteError(w, statusCode, errResp)
		return
	}

	h.log.Info("user updated successfully", zap.String("user_id", resp.Id))

	// Ответ
	sendResponse(w, http.StatusOK, "profile updated", map[string]any{"user": resp})
}
