package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"skillsync/internal/infrastructure/models/dto"
	"skillsync/internal/infrastructure/models/result"
	"skillsync/internal/infrastructure/repository"
	"skillsync/internal/transport/dto/request"
	"skillsync/internal/transport/dto/response"
)

var (
	createExchangeError   = errors.New("create exchange error")
	browseExchangesError  = errors.New("browse exchanges error")
	listExchangesError    = errors.New("list exchanges error")
	respondExchangeError  = errors.New("respond to exchange error")
	completeExchangeError = errors.New("complete exchange error")
)

// Интерфейс репозитория
type ExchangeRepository interface {
	Create(ctx context.Context, d *dto.CreateExchangeDTO) (*result.ExchangeResult, error)
	Browse(ctx context.Context) ([]*result.ExchangeResult, error)
	ListForUser(ctx context.Context, userId string) ([]*result.ExchangeResult, error)
	Respond(ctx context.Context, d *dto.RespondExchangeDTO) (*result.ExchangeResult, error)
	Complete(ctx context.Context, d *dto.CompleteExchangeDTO) (*result.ExchangeResult, error)
}

type ExchangeService struct {
	repo ExchangeRepository
	log  *zap.Logger
}

func NewExchangeService(repo ExchangeRepository, log *zap.Logger) *ExchangeService {
	return &ExchangeService{
		repo: repo,
		log:  log,
	}
}

func (s *ExchangeService) Create(ctx context.Context, req *request.CreateExchangeRequest, requesterId string) (*response.ExchangeResponse, error) {
	targetUserId, err := normalizeID(req.TargetUser, "target_user")
	if err != nil {
		return nil, WrapError(ErrInvalidInput, err)
	}

	// Обмен с самим собой не имеет смысла
	if targetUserId == requesterId {
		return nil, WrapError(ErrSelfExchange, nil)
	}

	s.log.Info("createExchange request accepted",
		zap.String("requester_id", requesterId),
		zap.String("target_user_id", targetUserId),
	)

	// Собираем dto
	d := &dto.CreateExchangeDTO{
		ExchangeId:    uuid.NewString(),
		RequesterId:   requesterId,
		TargetUserId:  targetUserId,
		SkillsOffered: req.SkillsOffered,
		SkillsWanted:  req.SkillsWanted,
		Message:       req.Message,
	}

	// Запрос в бд
	res, err := s.repo.Create(ctx, d)
	if err != nil {
		s.log.Warn("failed to create exchange",
			zap.String("requester_id", requesterId),
			zap.Error(err),
		)

		// Маппим ошибки
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, WrapError(ErrDuplicateExchange, err)
		}
		// Нарушение FK значит, что адресата не существует
		if errors.Is(err, repository.ErrInvalidInput) {
			return nil, WrapError(ErrUserNotFound, err)
		}

		// Неизвестная ошибка
		return nil, fmt.Errorf("%w: %w", createExchangeError, err)
	}

	s.log.Info("exchange created", zap.String("exchange_id", res.Id))

	// Ответ
	return toExchangeResponse(res), nil
}

func (s *ExchangeService) Browse(ctx context.Context) ([]*response.ExchangeResponse, error) {
	// Запрос в бд
	results, err := s.repo.Browse(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", browseExchangesError, err)
	}

	// Ответ
	return toExchangeResponses(results), nil
}

func (s *ExchangeService) ListForUser(ctx context.Context, rawUserId string) ([]*response.ExchangeResponse, error) {
	userId, err := normalizeID(rawUserId, "user_id")
	if err != nil {
		return nil, WrapError(ErrInvalidInput, err)
	}

	// Запрос в бд
	results, err := s.repo.ListForUser(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", listExchangesError, err)
	}

	// Ответ
	return toExchangeResponses(results), nil
}

func (s *ExchangeService) Respond(ctx context.Context, req *request.RespondExchangeRequest, rawExchangeId, actorId string) (*response.ExchangeResponse, error) {
	exchangeId, err := normalizeID(rawExchangeId, "exchange_id")
	if err != nil {
		return nil, WrapError(ErrInvalidInput, err)
	}

	var accept bool
	switch strings.ToLower(req.Action) {
	case "accept":
		accept = true
	case "reject":
		accept = false
	default:
		return nil, WrapError(ErrInvalidInput, fmt.Errorf("unknown action %q", req.Action))
	}

	s.log.Info("respondExchange request accepted",
		zap.String("exchange_id", exchangeId),
		zap.String("action", req.Action),
	)

	// Собираем dto
	d := &dto.RespondExchangeDTO{
		ExchangeId: exchangeId,
		ActorId:    actorId,
		Accept:     accept,
	}

	// Запрос в бд
	res, err := s.repo.Respond(ctx, d)
	if err != nil {
		s.log.Warn("failed to respond to exchange",
			zap.String("exchange_id", exchangeId),
			zap.Error(err),
		)

		// Маппим ошибки
		if errors.Is(err, repository.ErrNotFound) {
			return nil, WrapError(ErrExchangeNotFound, err)
		}
		if errors.Is(err, repository.ErrForbidden) {
			return nil, WrapError(ErrNotTarget, err)
		}
		if errors.Is(err, repository.ErrNotPending) {
			return nil, WrapError(ErrExchangeProcessed, err)
		}

		// Неизвестная ошибка
		return nil, fmt.Errorf("%w: %w", respondExchangeError, err)
	}

	// Ответ
	return toExchangeResponse(res), nil
}

func (s *ExchangeService) Complete(ctx context.Context, rawExchangeId, actorId string) (*response.ExchangeResponse, error) {
	exchangeId, err := normalizeID(rawExchangeId, "exchange_id")
	if err != nil {
		return nil, WrapError(ErrInvalidInput, err)
	}

	s.log.Info("completeExchange request accepted", zap.String("exchange_id", exchangeId))

	// Собираем dto
	d := &dto.CompleteExchangeDTO{
		ExchangeId: exchangeId,
		ActorId:    actorId,
	}

	// Запрос в бд
	res, err := s.repo.Complete(ctx, d)
	if err != nil {
		s.log.Warn("failed to complete exchange",
			zap.String("exchange_id", exchangeId),
			zap.Error(err),
		)

		// Маппим ошибки
		if errors.Is(err, repository.ErrNotFound) {
			return nil, WrapError(ErrExchangeNotFound, err)
		}
		if errors.Is(err, repository.ErrForbidden) {
			return nil, WrapError(ErrNotParticipant, err)
		}
		if errors.Is(err, repository.ErrNotAccepted) {
			return nil, WrapError(ErrExchangeNotAccepted, err)
		}

		// Неизвестная ошибка
		return nil, fmt.Errorf("%w: %w", completeExchangeError, err)
	}

	// Ответ
	return toExchangeResponse(res), nil
}

func toExchangeResponse(res *result.ExchangeResult) *response.ExchangeResponse {
	return &response.ExchangeResponse{
		Id:            res.Id,
		Requester:     res.RequesterId,
		RequesterName: res.RequesterName,
		TargetUser:    res.TargetUserId,
		TargetName:    res.TargetName,
		SkillsOffered: res.SkillsOffered,
		SkillsWanted:  res.SkillsWanted,
		Message:       res.Message,
		Status:        res.Status,
		IsVisible:     res.IsVisible,
		CreatedAt:     res.CreatedAt,
	}
}

func toExchangeResponses(results []*result.ExchangeResult) []*response.ExchangeResponse {
	exchanges := make([]*response.ExchangeResponse, 0, len(results))
	for _, res := range results {
		exchanges = append(exchanges, toExchangeResponse(res))
	}
	return exchanges
}
