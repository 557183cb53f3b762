package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"skillsync/internal/usecase/service"
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// HandleError маппит доменные ошибки на HTTP коды и ErrorResponse
func HandleError(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusOK, ErrorResponse{}
	}

	var domainErr *service.DomainError
	if errors.As(err, &domainErr) {
		// Маппим код ошибки на HTTP статус
		statusCode := mapErrorCodeToHTTPStatus(domainErr.Code)
		return statusCode, ErrorResponse{
			Success: false,
			Message: domainErr.Message,
			Code:    domainErr.Code,
		}
	}

	// Неизвестная ошибка - возвращаем 500
	return http.StatusInternalServerError, ErrorResponse{
		Success: false,
		Message: "internal server error",
		Code:    "INTERNAL_ERROR",
	}
}

func mapErrorCodeToHTTPStatus(code string) int {
	switch code {
	case "NOT_FOUND":
		return http.StatusNotFound // 404
	case "FORBIDDEN":
		return http.StatusForbidden // 403
	case "INVALID_STATE":
		return http.StatusConflict // 409
	case "CAPACITY_CONFLICT":
		return http.StatusConflict // 409
	case "DUPLICATE":
		return http.StatusConflict // 409
	case "UNAUTHORIZED":
		return http.StatusUnauthorized // 401
	case "INVALID_INPUT":
		return http.StatusBadRequest // 400
	default:
		return http.StatusInternalServerError // 500
	}
}

// WriteError отправляет ErrorResponse клиенту
func WriteError(w http.ResponseWriter, statusCode int, errResp ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errResp)
}

// sendResponse заворачивает данные в единый формат ответа
func sendResponse(w http.ResponseWriter, statusCode int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}
