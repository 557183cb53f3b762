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

type ProjectService interface {
	Create(ctx context.Context, req *request.CreateProjectRequest, ownerId string) (*response.ProjectResponse, error)
	List(ctx context.Context) ([]*response.ProjectResponse, error)
	GetById(ctx context.Context, rawProjectId, viewerId string) (*response.ProjectResponse, error)
	Match(ctx context.Context, rawUserId string) ([]*response.ProjectResponse, error)
	Join(ctx context.Context, req *request.JoinProjectRequest, rawProjectId, userId string) (*response.JoinResponse, error)
	Respond(ctx context.Context, req *request.RespondJoinRequest, rawProjectId, actorId string) (*response.RespondResponse, error)
	Complete(ctx context.Context, rawProjectId, actorId string) (*response.ProjectStatusResponse, error)
	Archive(ctx context.Context, rawProjectId, actorId string) (*response.ProjectStatusResponse, error)
}

type ProjectHandler struct {
	svc ProjectService
	log *zap.Logger
}

func NewProjectHandler(svc ProjectService, log *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		svc: svc,
		log: log,
	}
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	h.log.Info("createProject request received",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	ownerId, ok := middleware.UserID(r.Context())
	if !ok {
		statusCode, errResp := HandleError(service.WrapError(service.ErrTokenInvalid, nil))
		WriteError(w, statusCode, errResp)
		return
	}

	// Парсим json в модель CreateProjectRequest
	var req request.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode request body", zap.Error(err))
		statusCode, errResp := HandleError(service.WrapError(service.ErrInvalidInput, err))
		WriteError(w, statusCode, errResp)
		return
	}

	// Валидация
	if req.Title == "" || req.Description == "" {
		h.log.Warn("validation failed: title or description is empty")
		statusCode, errResp := HandleError(service.WrapError(service.ErrInvalidInput, nil))
		WriteError(w, statusCode, errResp)
		return
	}

	// Вызов сервиса
	resp, err := h.svc.Create(r.Context(), &req, ownerId)
	if err != nil {
		h.log.Error("failed to create project",
			zap.String("owner_id", ownerId),
			zap.Error(err),
		)
		statusCode, errResp := HandleError(err)
		WriteError(w, statusCode, errResp)
		return
	}

	h.log.Info("project created successfully", zap.String("project_id", resp.Id))

	// Ответ
	sendResponse(w, http.StatusCreated, "project created", map[string]any{"project": resp})
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	h.log.Info("listProjects request received",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	// Вызов сервиса
	resp, err := h.svc.List(r.Context())
	if err != nil {
		h.log.Error("failed to list projects", zap.Error(err))
		statusCode, errResp := HandleError(err)
		WriteError(w, statusCode, errResp)
		return
	}

	// Ответ
	sendResponse(w, http.StatusOK, "", map[string]any{"projects": resp})
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	h.log.Info("getProject request received",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	projectId := chi.URLParam(r, "id")
	// Анонимный просмотр разрешен, контакты при этом скрыты
	viewerId, _ := middleware.UserID(r.Context())

	// Вызов сервиса
	resp, err := h.svc.GetById(r.Context(), projectId, viewerId)
	if err != nil {
		h.log.Warn("failed to get project", zap.String("project_id", projectId), zap.Error(err))
		statusCode, errResp := HandleError(err)
		WriteError(w, statusCode, errResp)
		return
	}

	// Ответ
	sendResponse(w, http.StatusOK, "", map[string]any{"project": resp})
}

func (h *ProjectHandler) MatchProjects(w http.ResponseWriter, r *http.Request) {
	h.log.Info("matchProjects request received",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	userId := chi.URLParam(r, "userId")

	// Вызов сервиса
	resp, err := h.svc.Match(r.Context(), userId)
	if err != nil {
		h.log.Warn("failed to match projects", zap.String("user_id", userId), zap.Error(err))
		statusCode, errResp := HandleError(err)
		WriteError(w, statusCode, errResp)
		return
	}

	h.log.Info("projects matched", zap.String("user_id", userId), zap.Int("count", len(resp)))

	// Ответ
	sendResponse(w, http.StatusOK, "", map[string]any{"projects": resp})
}

func (h *ProjectHandler) JoinProject(w http.ResponseWriter, r *http.Request) {
	h.log.Info("joinProject request received",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	userId, ok := middleware.UserID(r.Context())
	if !ok {
		statusCode, errResp := HandleError(service.WrapError(service.ErrTokenInvalid, nil))
		WriteError(w, statusCode, errResp)
		return
	}

	projectId := chi.URLParam(r, "id")

	// Парсим json в модель JoinProjectRequest
	var req request.JoinProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode request body", zap.Error(err))
		statusCode, errResp := HandleError(service.WrapError(service.ErrInvalidInput, err))
		WriteError(w, statusCode, errResp)
		return
	}

	// Валидация
	if req.RoleName == "" {
		h.log.Warn("validation failed: roleName is empty")
		statusCode, errResp := HandleError(service.WrapError(service.ErrInvalidInput, nil))
		WriteError(w, statusCode, errResp)
		return
	}

	// Вызов сервиса
	resp, err := h.svc.Join(r.Context(), &req, projectId, userId)
	if err != nil {
		h.log.Warn("failed to join project",
			zap.String("project_id", projectId),
			zap.String("user_id", userId),
			zap.String("role_name", req.RoleName),
			zap.Error(err),
		)
		statusCode, errResp := HandleError(err)
		WriteError(w, statusCode, errResp)
		return
	}

	h.log.Info("join request submitted",
		zap.String("project_id", resp.ProjectId),
		zap.String("request_id", resp.RequestId),
	)

	// Ответ
	sendResponse(w, http.StatusCreated, "join request submitted", map[string]any{"joinRequest": resp})
}

func (h *ProjectHandler) RespondToJoinRequest(w http.ResponseWriter, r *http.Request) {
	h.log.Info("respondToJoinRequest request received",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	actorId, ok := middleware.UserID(r.Context())
	if !ok {
		statusCode, errResp := HandleError(service.WrapError(service.ErrTokenInvalid, nil))
		WriteError(w, statusCode, errResp)
		return
	}

	projectId := chi.URLParam(r, "id")

	// Парсим json в модель RespondJoinRequest
	var req request.RespondJoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode request body", zap.Error(err))
		statusCode, errResp := HandleError(service.WrapError(service.ErrInvalidInput, err))
		WriteError(w, statusCode, errResp)
		return
	}

	// Валидация
	if req.RequestId == "" || req.Action == "" {
		h.log.Warn("validation failed: requestId or action is empty")
		statusCode, errResp := HandleError(service.WrapError(service.ErrInvalidInput, nil))
		WriteError(w, statusCode, errResp)
		return
	}

	// Вызов сервиса
	resp, err := h.svc.Respond(r.Context(), &req, projectId, actorId)
	if err != nil {
		h.log.Warn("failed to respond to join request",
			zap.String("project_id", projectId),
			zap.String("request_id", req.RequestId),
			zap.Error(err),
		)
		statusCode, errResp := HandleError(err)
		WriteError(w, statusCode, errResp)
		return
	}

	h.log.Info("join request processed",
		zap.String("request_id", resp.RequestId),
		zap.String("status", resp.Status),
	)

	// Ответ
	sendResponse(w, http.StatusOK, "join request processed", map[string]any{"joinRequest": resp})
}

func (h *ProjectHandler) CompleteProject(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, "complete", h.svc.Complete)
}

func (h *ProjectHandler) ArchiveProject(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, "archive", h.svc.Archive)
}

// вспомогательная функция для complete и archive
func (h *ProjectHandler) setStatus(
	w http.ResponseWriter,
	r *http.Request,
	action string,
	call func(ctx context.Context, rawProjectId, actorId string) (*response.ProjectStatusResponse, error),
) {
	h.log.Info(action+" project request received",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	actorId, ok := middleware.UserID(r.Context())
	if !ok {
		statusCode, errResp := HandleError(service.WrapError(service.ErrTokenInvalid, nil))
		WriteError(w, statusCode, errResp)
		return
	}

	projectId := chi.URLParam(r, "id")

	// Вызов сервиса
	resp, err := call(r.Context(), projectId, actorId)
	if err != nil {
		h.log.Warn("failed to "+action+" project",
			zap.String("project_id", projectId),
			zap.Error(err),
		)
		statusCode, errResp := HandleError(err)
		WriteError(w, statusCode, errResp)
		return
	}

	h.log.Info("project status updated",
		zap.String("project_id", resp.ProjectId),
		zap.String("status", resp.ProjectStatus),
	)

	// Ответ
	sendResponse(w, http.StatusOK, "project "+resp.ProjectStatus, map[string]any{"project": resp})
}
