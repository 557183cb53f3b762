package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"skillsync/internal/infrastructure/models/dto"
	"skillsync/internal/infrastructure/models/result"
	"skillsync/internal/infrastructure/repository"
	"skillsync/internal/transport/dto/request"
	"skillsync/internal/transport/dto/response"
)

var (
	getUserError    = errors.New("get user error")
	updateUserError = errors.New("update user error")
)

// Интерфейс репозитория
type ProfileRepository interface {
	GetById(ctx context.Context, userId string) (*result.UserResult, error)
	Update(ctx context.Context, d *dto.UpdateUserDTO) (*result.UserResult, error)
}

type UserService struct {
	repo ProfileRepository
	log  *zap.Logger
}

func NewUserService(repo ProfileRepository, log *zap.Logger) *UserService {
	return &UserService{
		repo: repo,
		log:  log,
	}
}

func (s *UserService) GetById(ctx context.Context, rawUserId string) (*response.UserResponse, error) {
	userId, err := normalizeID(rawUserId, "user_id")
	if err != nil {
		return nil, WrapError(ErrInvalidInput, err)
	}

	// Запрос в бд
	res, err := s.repo.GetById(ctx, userId)
	if err != nil {
		// Маппим ошибки
		if errors.Is(err, repository.ErrNotFound) {
			return nil, WrapError(ErrUserNotFound, err)
		}

		// Неизвестная ошибка
		return nil, fmt.Errorf("%w: %w", getUserError, err)
	}

	// Ответ
	return toUserResponse(res), nil
}

func (s *UserService) Update(ctx context.Context, req *request.UpdateUserRequest, rawUserId, actorId string) (*response.UserResponse, error) {
	userId, err := normalizeID(rawUserId, "user_id")
	if err != nil {
		return nil, WrapError(ErrInvalidInput, err)
	}

	// Редактировать можно только собственный профиль
	if userId != actorId {
		return nil, WrapError(ErrNotOwnProfile, nil)
	}

	s.log.Info("updateUser request accepted", zap.String("user_id", userId))

	// Собираем dto
	d := &dto.UpdateUserDTO{
		UserId:       userId,
		FullName:     req.FullName,
		PhoneNumber:  req.PhoneNumber,
		Department:   req.Department,
		Year:         req.Year,
		Section:      req.Section,
		Bio:          req.Bio,
		Github:       req.Github,
		Linkedin:     req.Linkedin,
		SkillsKnown:  req.SkillsKnown,
		SkillsWanted: req.SkillsWanted,
		Interests:    req.Interests,
	}

	// Запрос в бд
	res, err := s.repo.Update(ctx, d)
	if err != nil {
		s.log.Error("failed to update user",
			zap.String("user_id", userId),
			zap.Error(err),
		)

		// Маппим ошибки
		if errors.Is(err, repository.ErrNotFound) {
			return nil, WrapError(ErrUserNotFound, err)
		}
		if errors.Is(err, repository.ErrInvalidInput) {
			return nil, WrapError(ErrInvalidInput, err)
		}

		// Неизвестная ошибка
		return nil, fmt.Errorf("%w: %w", updateUserError, err)
	}

	s.log.Info("user updated", zap.String("user_id", userId))

	// Ответ
	return toUserResponse(res), nil
}

// сборка полного профиля; reset-токен наружу не отдается
func toUserResponse(res *result.UserResult) *response.UserResponse {
	return &response.UserResponse{
		Id:           res.Id,
		FullName:     res.FullName,
		RollNumber:   res.RollNumber,
		Email:        res.Email,
		PhoneNumber:  res.PhoneNumber,
		Role:         res.Role,
		Department:   res.Department,
		Year:         res.Year,
		Section:      res.Section,
		Bio:          res.Bio,
		ProfileImage: res.ProfileImage,
		Github:       res.Github,
		Linkedin:     res.Linkedin,
		SkillsKnown:  res.SkillsKnown,
		SkillsWanted: res.SkillsWanted,
		Interests:    res.Interests,
		Rating:       res.Rating,
		TotalRatings: res.TotalRatings,
		IsActive:     res.IsActive,
		CreatedAt:    res.CreatedAt,
	}
}
