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

type ExchangeService interface {
	Create(ctx context.Context, req *request.CreateExchangeRequest, requesterId string) (*response.ExchangeResponse, error)
	Browse(ctx context.Context) ([]*response.ExchangeResponse, error)
	ListForUser(ctx context.Context, rawUserId string) ([]*response.ExchangeResponse, error)
	Respond(ctx context.Context, req *request.RespondExchangeRequest, rawExchangeId, actorId string) (*response.ExchangeResponse, error)
	Complete(ctx context.Context, rawExchangeId, actorId string) (*response.ExchangeResponse, error)
}

type ExchangeHandler struct {
	svc ExchangeService
	log *zap.Logger
}

func NewExchangeHandler(svc ExchangeService, log *zap.Logger) *ExchangeHandler {
	return &ExchangeHandler{
		svc: svc,
		log: log,
	}
}

func (h *ExchangeHandler) CreateExchange(w http.ResponseWriter, r *http.Request) {
	h.log.Info("createExchange request received",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	requesterId, ok := middleware.UserID(r.Context())
	if !ok {
		statusCode, errResp := HandleError(service.WrapError(service.ErrTokenInvalid, nil))
		WriteError(w, statusCode, errResp)
		return
	}

	// Парсим json в модель CreateExchangeRequest
	var req request.CreateExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode request body", zap.Error(err))
		statusCode, errResp := HandleError(service.WrapError(service.ErrInvalidInput, err))
		WriteError(w, statusCode, errResp)
		return
	}

	// Валидация
	if req.TargetUser == "" || len(req.SkillsOffered) == 0 || len(req.SkillsWanted) == 0 {
		h.log.Warn("validation failed: targetUser or skills are empty")
		statusCode, errResp := HandleError(service.WrapError(service.ErrInvalidInput, nil))
		WriteError(w, statusCode, errResp)
		return
	}

	// Вызов сервиса
	resp, err := h.svc.Create(r.Context(), &req, requesterId)
	if err != nil {
		h.log.Warn("failed to create exchange",
			zap.String("requester_id", requesterId),
			zap.Error(err),
		)
		statusCode, errResp := HandleError(err)
		WriteError(w, statusCode, errResp)
		return
	}

	h.log.Info("exchange created successfully", zap.String("exchange_id", resp.Id))

	// Ответ
	sendResponse(w, http.StatusCreated, "exchange request sent", map[string]any{"exchange": resp})
}

func (h *ExchangeHandler) BrowseExchanges(w http.ResponseWriter, r *http.Request) {
	h.log.Info("browseExchanges request received",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	// Вызов сервиса
	resp, err := h.svc.Browse(r.Context())
	if err != nil {
		h.log.Error("failed to browse exchanges", zap.Error(err))
		statusCode, errResp := HandleError(err)
		WriteError(w, statusCode, errResp)
		return
	}

	// Ответ
	sendResponse(w, http.StatusOK, "", map[string]any{"exchanges": resp})
}

func (h *ExchangeHandler) ListUserExchanges(w http.ResponseWriter, r *http.Request) {
	h.log.Info("listUserExchanges request received",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	userId := chi.URLParam(r, "id")

	// Вызов сервиса
	resp, err := h.svc.ListForUser(r.Context(), userId)
	if err != nil {
		h.log.Warn("failed to list exchanges", zap.String("user_id", userId), zap.Error(err))
		statusCode, errResp := HandleError(err)
		WriteError(w, statusCode, errResp)
		return
	}

	// Ответ
	sendResponse(w, http.StatusOK, "", map[string]any{"exchanges": resp})
}

func (h *ExchangeHandler) RespondToExchange(w http.ResponseWriter, r *http.Request) {
	h.log.Info("respondToExchange request received",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	actorId, ok := middleware.UserID(r.Context())
	if !ok {
		statusCode, errResp := HandleError(service.WrapError(service.ErrTokenInvalid, nil))
		WriteError(w, statusCode, errResp)
		return
	}

	exchangeId := chi.URLParam(r, "id")

	// Парсим json в модель RespondExchangeRequest
	var req request.RespondExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode request body", zap.Error(err))
		statusCode, errResp := HandleError(service.WrapError(service.ErrInvalidInput, err))
		WriteError(w, statusCode, errResp)
		return
	}

	// Валидация
	if req.Action == "" {
		h.log.Warn("validation failed: action is empty")
		statusCode, errResp := HandleError(service.WrapError(service.ErrInvalidInput, nil))
		WriteError(w, statusCode, errResp)
		return
	}

	// Вызов сервиса
	resp, err := h.svc.Respond(r.Context(), &req, exchangeId, actorId)
	if err != nil {
		h.log.Warn("failed to respond to exchange",
			zap.String("exchange_id", exchangeId),
			zap.Error(err),
		)
		statusCode, errResp := HandleError(err)
		WriteError(w, statusCode, errResp)
		return
	}

	h.log.Info("exchange processed",
		zap.String("exchange_id", resp.Id),
		zap.String("status", resp.Status),
	)

	// Ответ
	sendResponse(w, http.StatusOK, "exchange processed", map[string]any{"exchange": resp})
}

func (h *ExchangeHandler) CompleteExchange(w http.ResponseWriter, r *http.Request) {
	h.log.Info("completeExchange request received",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	actorId, ok := middleware.UserID(r.Context())
	if !ok {
		statusCode, errResp := HandleError(service.WrapError(service.ErrTokenInvalid, nil))
		WriteError(w, statusCode, errResp)
		return
	}

	exchangeId := chi.URLParam(r, "id")

	// Вызов сервиса
	resp, err := h.svc.Complete(r.Context(), exchangeId, actorId)
	if err != nil {
		h.log.Warn("failed to complete exchange",
			zap.String("exchange_id", exchangeId),
			zap.Error(err),
		)
		statusCode, errResp := HandleError(err)
		WriteError(w, statusCode, errResp)
		return
	}

	h.log.Info("exchange completed", zap.String("exchange_id", resp.Id))

	// Ответ
	sendResponse(w, http.StatusOK, "exchange completed", map[string]any{"exchange": resp})
}
