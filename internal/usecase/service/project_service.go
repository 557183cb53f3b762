package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"skillsync/internal/domain"
	"skillsync/internal/infrastructure/models/dto"
	"skillsync/internal/infrastructure/models/result"
	"skillsync/internal/infrastructure/repository"
	"skillsync/internal/transport/dto/request"
	"skillsync/internal/transport/dto/response"
)

var (
	createProjectError = errors.New("create project error")
	listProjectsError  = errors.New("list projects error")
	getProjectError    = errors.New("get project error")
	matchProjectsError = errors.New("match projects error")
	joinProjectError   = errors.New("join project error")
	respondError       = errors.New("respond to join request error")
	setStatusError     = errors.New("set project status error")
)

// Интерфейс репозитория
type ProjectRepository interface {
	Create(ctx context.Context, d *dto.CreateProjectDTO) (*result.ProjectResult, error)
	GetById(ctx context.Context, projectId string) (*result.ProjectResult, error)
	ListOpen(ctx context.Context) ([]*result.ProjectResult, error)
	SubmitJoinRequest(ctx context.Context, d *dto.SubmitJoinRequestDTO) (*result.JoinRequestResult, error)
	RespondJoinRequest(ctx context.Context, d *dto.RespondJoinRequestDTO) (*result.RespondResult, error)
	SetStatus(ctx context.Context, d *dto.SetProjectStatusDTO) (*result.ProjectStatusResult, error)
}

// Источник навыков пользователя для матчинга
type SkillDirectory interface {
	GetKnownSkills(ctx context.Context, userId string) ([]string, error)
}

type ProjectService struct {
	repo   ProjectRepository
	skills SkillDirectory
	log    *zap.Logger
}

func NewProjectService(repo ProjectRepository, skills SkillDirectory, log *zap.Logger) *ProjectService {
	return &ProjectService{
		repo:   repo,
		skills: skills,
		log:    log,
	}
}

func (s *ProjectService) Create(ctx context.Context, req *request.CreateProjectRequest, ownerId string) (*response.ProjectResponse, error) {
	s.log.Info("createProject request accepted",
		zap.String("owner_id", ownerId),
		zap.Int("roles", len(req.RequiredRoles)),
	)

	// Проект без ролей не имеет смысла
	if len(req.RequiredRoles) == 0 {
		return nil, WrapError(ErrInvalidInput, errors.New("at least one role is required"))
	}
	seen := make(map[string]struct{}, len(req.RequiredRoles))
	roles := make([]dto.RoleSlotDTO, 0, len(req.RequiredRoles))
	for _, role := range req.RequiredRoles {
		if role.RoleName == "" {
			return nil, WrapError(ErrInvalidInput, errors.New("role name is required"))
		}
		if role.NumberOfOpenings < 1 {
			return nil, WrapError(ErrInvalidInput, errors.New("number of openings must be at least 1"))
		}
		if _, ok := seen[role.RoleName]; ok {
			return nil, WrapError(ErrInvalidInput, errors.New("duplicate role name"))
		}
		seen[role.RoleName] = struct{}{}
		roles = append(roles, dto.RoleSlotDTO{
			RoleName:         role.RoleName,
			RequiredSkills:   role.RequiredSkills,
			NumberOfOpenings: role.NumberOfOpenings,
		})
	}

	// Собираем dto
	d := &dto.CreateProjectDTO{
		ProjectId:   uuid.NewString(),
		OwnerId:     ownerId,
		Title:       req.Title,
		Description: req.Description,
		Roles:       roles,
	}

	// Запрос в бд
	res, err := s.repo.Create(ctx, d)
	if err != nil {
		s.log.Error("failed to create project",
			zap.String("owner_id", ownerId),
			zap.Error(err),
		)

		// Маппим ошибки
		if errors.Is(err, repository.ErrInvalidInput) {
			return nil, WrapError(ErrInvalidInput, err)
		}

		// Неизвестная ошибка
		return nil, fmt.Errorf("%w: %w", createProjectError, err)
	}

	s.log.Info("project created",
		zap.String("project_id", res.Id),
		zap.String("owner_id", ownerId),
	)

	// Ответ
	return toProjectResponse(res, false), nil
}

func (s *ProjectService) List(ctx context.Context) ([]*response.ProjectResponse, error) {
	// Запрос в бд
	results, err := s.repo.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", listProjectsError, err)
	}

	// Скрываем проекты без открытых ролей
	projects := make([]*response.ProjectResponse, 0, len(results))
	for _, res := range results {
		if !res.HasOpenRole() {
			continue
		}
		projects = append(projects, toProjectResponse(res, true))
	}

	s.log.Debug("open projects listed", zap.Int("count", len(projects)))
	// Ответ
	return projects, nil
}

func (s *ProjectService) GetById(ctx context.Context, rawProjectId, viewerId string) (*response.ProjectResponse, error) {
	projectId, err := normalizeID(rawProjectId, "project_id")
	if err != nil {
		return nil, WrapError(ErrInvalidInput, err)
	}

	// Запрос в бд
	res, err := s.repo.GetById(ctx, projectId)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, WrapError(ErrProjectNotFound, err)
		}
		return nil, fmt.Errorf("%w: %w", getProjectError, err)
	}

	// Контакты видят только владелец и участники; аноним всегда посторонний
	redact := !isParticipant(res, viewerId)

	// Ответ
	return toProjectResponse(res, redact), nil
}

func (s *ProjectService) Match(ctx context.Context, rawUserId string) ([]*response.ProjectResponse, error) {
	userId, err := normalizeID(rawUserId, "user_id")
	if err != nil {
		return nil, WrapError(ErrInvalidInput, err)
	}

	s.log.Info("matchProjects request accepted", zap.String("user_id", userId))

	// Запрос в бд для чтения навыков пользователя
	skillNames, err := s.skills.GetKnownSkills(ctx, userId)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, WrapError(ErrUserNotFound, err)
		}
		return nil, fmt.Errorf("%w: %w", matchProjectsError, err)
	}

	// Запрос в бд для чтения открытых проектов
	results, err := s.repo.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", matchProjectsError, err)
	}

	// Фильтруем по пересечению навыков
	matched := matchProjects(results, skillNames)

	s.log.Info("projects matched",
		zap.String("user_id", userId),
		zap.Int("candidates", len(results)),
		zap.Int("matched", len(matched)),
	)

	// Ответ
	projects := make([]*response.ProjectResponse, 0, len(matched))
	for _, res := range matched {
		projects = append(projects, toProjectResponse(res, true))
	}
	return projects, nil
}

func (s *ProjectService) Join(ctx context.Context, req *request.JoinProjectRequest, rawProjectId, userId string) (*response.JoinResponse, error) {
	projectId, err := normalizeID(rawProjectId, "project_id")
	if err != nil {
		return nil, WrapError(ErrInvalidInput, err)
	}

	s.log.Info("joinProject request accepted",
		zap.String("project_id", projectId),
		zap.String("user_id", userId),
		zap.String("role_name", req.RoleName),
	)

	// Собираем dto
	d := &dto.SubmitJoinRequestDTO{
		RequestId: uuid.NewString(),
		ProjectId: projectId,
		UserId:    userId,
		RoleName:  req.RoleName,
	}

	// Запрос в бд
	res, err := s.repo.SubmitJoinRequest(ctx, d)
	if err != nil {
		s.log.Warn("join request declined",
			zap.String("project_id", projectId),
			zap.String("user_id", userId),
			zap.Error(err),
		)

		// Маппим ошибки
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, WrapError(ErrProjectNotFound, err)
		case errors.Is(err, repository.ErrClosed):
			return nil, WrapError(ErrProjectClosed, err)
		case errors.Is(err, repository.ErrSelfApply):
			return nil, WrapError(ErrSelfApplication, err)
		case errors.Is(err, repository.ErrRoleUnknown):
			return nil, WrapError(ErrRoleUnknown, err)
		case errors.Is(err, repository.ErrRoleFull):
			return nil, WrapError(ErrRoleFull, err)
		case errors.Is(err, repository.ErrAlreadyExists):
			return nil, WrapError(ErrDuplicateRequest, err)
		case errors.Is(err, repository.ErrInvalidInput):
			return nil, WrapError(ErrInvalidInput, err)
		}

		// Неизвестная ошибка
		return nil, fmt.Errorf("%w: %w", joinProjectError, err)
	}

	s.log.Info("join request submitted",
		zap.String("project_id", projectId),
		zap.String("request_id", res.RequestId),
	)

	// Ответ
	return &response.JoinResponse{
		ProjectId: res.ProjectId,
		RequestId: res.RequestId,
		RoleName:  res.RoleName,
		Status:    res.Status,
	}, nil
}

func (s *ProjectService) Respond(ctx context.Context, req *request.RespondJoinRequest, rawProjectId, actorId string) (*response.RespondResponse, error) {
	projectId, err := normalizeID(rawProjectId, "project_id")
	if err != nil {
		return nil, WrapError(ErrInvalidInput, err)
	}
	requestId, err := normalizeID(req.RequestId, "request_id")
	if err != nil {
		return nil, WrapError(ErrInvalidInput, err)
	}

	// Допустимы только accept и reject
	var accept bool
	switch req.Action {
	case "accept":
		accept = true
	case "reject":
		accept = false
	default:
		return nil, WrapError(ErrInvalidInput, fmt.Errorf("unknown action %q", req.Action))
	}

	s.log.Info("respondToJoinRequest request accepted",
		zap.String("project_id", projectId),
		zap.String("request_id", requestId),
		zap.String("action", req.Action),
	)

	// Собираем dto
	d := &dto.RespondJoinRequestDTO{
		ProjectId: projectId,
		RequestId: requestId,
		ActorId:   actorId,
		Accept:    accept,
	}

	// Запрос в бд
	res, err := s.repo.RespondJoinRequest(ctx, d)
	if err != nil {
		s.log.Warn("respond declined",
			zap.String("project_id", projectId),
			zap.String("request_id", requestId),
			zap.Error(err),
		)

		// Маппим ошибки
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, WrapError(ErrRequestNotFound, err)
		case errors.Is(err, repository.ErrForbidden):
			return nil, WrapError(ErrNotOwner, err)
		case errors.Is(err, repository.ErrNotPending):
			return nil, WrapError(ErrRequestNotPending, err)
		case errors.Is(err, repository.ErrRoleFull):
			return nil, WrapError(ErrRoleFull, err)
		case errors.Is(err, repository.ErrAlreadyExists):
			return nil, WrapError(ErrDuplicateRequest, err)
		case errors.Is(err, repository.ErrInvalidInput):
			return nil, WrapError(ErrInvalidInput, err)
		}

		// Неизвестная ошибка
		return nil, fmt.Errorf("%w: %w", respondError, err)
	}

	s.log.Info("join request responded",
		zap.String("request_id", requestId),
		zap.String("status", res.Status),
		zap.String("project_status", res.ProjectStatus),
	)

	// Ответ
	return &response.RespondResponse{
		ProjectId:     res.ProjectId,
		RequestId:     res.RequestId,
		Status:        res.Status,
		ProjectStatus: res.ProjectStatus,
	}, nil
}

func (s *ProjectService) Complete(ctx context.Context, rawProjectId, actorId string) (*response.ProjectStatusResponse, error) {
	return s.setStatus(ctx, rawProjectId, actorId, domain.ProjectStatusCompleted)
}

func (s *ProjectService) Archive(ctx context.Context, rawProjectId, actorId string) (*response.ProjectStatusResponse, error) {
	return s.setStatus(ctx, rawProjectId, actorId, domain.ProjectStatusArchived)
}

// Завершение и архивация проверяют только владельца, не статус
func (s *ProjectService) setStatus(ctx context.Context, rawProjectId, actorId, status string) (*response.ProjectStatusResponse, error) {
	projectId, err := normalizeID(rawProjectId, "project_id")
	if err != nil {
		return nil, WrapError(ErrInvalidInput, err)
	}

	s.log.Info("setProjectStatus request accepted",
		zap.String("project_id", projectId),
		zap.String("status", status),
	)

	// Собираем dto
	d := &dto.SetProjectStatusDTO{
		ProjectId: projectId,
		ActorId:   actorId,
		Status:    status,
	}

	// Запрос в бд
	res, err := s.repo.SetStatus(ctx, d)
	if err != nil {
		// Маппим ошибки
		if errors.Is(err, repository.ErrNotFound) {
			return nil, WrapError(ErrProjectNotFound, err)
		}
		if errors.Is(err, repository.ErrForbidden) {
			return nil, WrapError(ErrNotOwner, err)
		}

		// Неизвестная ошибка
		return nil, fmt.Errorf("%w: %w", setStatusError, err)
	}

	// Ответ
	return &response.ProjectStatusResponse{
		ProjectId:     res.ProjectId,
		ProjectStatus: res.Status,
		IsVisible:     res.IsVisible,
	}, nil
}

// вспомогательная функция отбора проектов по пересечению навыков.
// Совпадение булево: достаточно одного общего навыка в любой роли.
// Сравнение строк точное, без канонизации; порядок результата — порядок выборки.
func matchProjects(projects []*result.ProjectResult, skillNames []string) []*result.ProjectResult {
	known := make(map[string]struct{}, len(skillNames))
	for _, name := range skillNames {
		if name == "" {
			continue
		}
		known[name] = struct{}{}
	}

	var matched []*result.ProjectResult
	for _, project := range projects {
		if !project.HasOpenRole() {
			continue
		}

		for _, role := range project.RequiredRoles {
			found := false
			for _, skill := range role.RequiredSkills {
				if _, ok := known[skill]; ok {
					matched = append(matched, project)
					found = true
					break
				}
			}
			if found {
				break
			}
		}
	}
	return matched
}

// владелец и участники видят контакты
func isParticipant(res *result.ProjectResult, viewerId string) bool {
	if viewerId == "" {
		return false
	}
	if res.OwnerId == viewerId {
		return true
	}
	for _, member := range res.Members {
		if member.UserId == viewerId {
			return true
		}
	}
	return false
}

// сборка ответа; redact обнуляет контакты владельца и участников.
// Работает с копией ответа, хранимые данные не трогает.
func toProjectResponse(res *result.ProjectResult, redact bool) *response.ProjectResponse {
	owner := response.OwnerResponse{
		Id:           res.OwnerId,
		FullName:     res.OwnerName,
		Email:        res.OwnerEmail,
		PhoneNumber:  res.OwnerPhone,
		ProfileImage: res.OwnerImage,
	}
	if redact {
		owner.Email = ""
		owner.PhoneNumber = ""
	}

	members := make([]response.ProjectMemberResponse, 0, len(res.Members))
	for _, member := range res.Members {
		m := response.ProjectMemberResponse{
			UserId:       member.UserId,
			FullName:     member.FullName,
			Email:        member.Email,
			PhoneNumber:  member.PhoneNumber,
			ProfileImage: member.ProfileImage,
			RoleName:     member.RoleName,
		}
		if redact {
			m.Email = ""
			m.PhoneNumber = ""
		}
		members = append(members, m)
	}

	requests := make([]response.JoinRequestResponse, 0, len(res.JoinRequests))
	for _, request := range res.JoinRequests {
		requests = append(requests, response.JoinRequestResponse{
			Id:        request.Id,
			UserId:    request.UserId,
			RoleName:  request.RoleName,
			Status:    request.Status,
			CreatedAt: request.CreatedAt,
		})
	}

	return &response.ProjectResponse{
		Id:            res.Id,
		Title:         res.Title,
		Description:   res.Description,
		Owner:         owner,
		RequiredRoles: res.RequiredRoles,
		Members:       members,
		JoinRequests:  requests,
		ProjectStatus: res.Status,
		IsVisible:     res.IsVisible,
		CreatedAt:     res.CreatedAt,
	}
}
