package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"skillsync/internal/infrastructure/models/dto"
	"skillsync/internal/infrastructure/models/result"
	"skillsync/internal/infrastructure/repository"
	"skillsync/internal/transport/dto/request"
	"skillsync/internal/transport/dto/response"
)

var (
	registerError       = errors.New("register user error")
	loginError          = errors.New("login error")
	getProfileError     = errors.New("get profile error")
	forgotPasswordError = errors.New("forgot password error")
	resetPasswordError  = errors.New("reset password error")
	signTokenError      = errors.New("sign token error")
)

const resetTokenTTL = 30 * time.Minute

// Интерфейс репозитория
type AuthRepository interface {
	Create(ctx context.Context, d *dto.CreateUserDTO) (*result.UserResult, error)
	GetByEmail(ctx context.Context, email string) (*result.CredentialsResult, error)
	GetById(ctx context.Context, userId string) (*result.UserResult, error)
	SetResetToken(ctx context.Context, d *dto.SetResetTokenDTO) error
	ResetPassword(ctx context.Context, d *dto.ResetPasswordDTO) (string, error)
}

type AuthService struct {
	repo     AuthRepository
	secret   []byte
	tokenTTL time.Duration
	log      *zap.Logger
}

func NewAuthService(repo AuthRepository, secret string, tokenTTL time.Duration, log *zap.Logger) *AuthService {
	return &AuthService{
		repo:     repo,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		log:      log,
	}
}

func (s *AuthService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	s.log.Info("register request accepted",
		zap.String("email", req.Email),
		zap.String("roll_number", req.RollNumber),
	)

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", registerError, err)
	}

	// Собираем dto
	d := &dto.CreateUserDTO{
		UserId:       uuid.NewString(),
		FullName:     req.FullName,
		RollNumber:   req.RollNumber,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: string(hash),
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
	res, err := s.repo.Create(ctx, d)
	if err != nil {
		s.log.Warn("failed to register user",
			zap.String("email", req.Email),
			zap.Error(err),
		)

		// Маппим ошибки
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, WrapError(ErrUserExists, err)
		}
		if errors.Is(err, repository.ErrInvalidInput) {
			return nil, WrapError(ErrInvalidInput, err)
		}

		// Неизвестная ошибка
		return nil, fmt.Errorf("%w: %w", registerError, err)
	}

	token, err := s.generateToken(res.Id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", registerError, err)
	}

	s.log.Info("user registered", zap.String("user_id", res.Id))

	// Ответ
	return &response.AuthResponse{
		Token: token,
		User: response.UserSummary{
			Id:         res.Id,
			FullName:   res.FullName,
			Email:      res.Email,
			RollNumber: res.RollNumber,
			Role:       res.Role,
		},
	}, nil
}

func (s *AuthService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	s.log.Info("login request accepted", zap.String("email", req.Email))

	// Запрос в бд
	creds, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		// Несуществующий email неотличим от неверного пароля
		if errors.Is(err, repository.ErrNotFound) {
			return nil, WrapError(ErrInvalidCredentials, err)
		}
		return nil, fmt.Errorf("%w: %w", loginError, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(req.Password)); err != nil {
		s.log.Warn("password mismatch", zap.String("email", req.Email))
		return nil, WrapError(ErrInvalidCredentials, err)
	}

	token, err := s.generateToken(creds.Id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", loginError, err)
	}

	s.log.Info("user logged in", zap.String("user_id", creds.Id))

	// Ответ
	return &response.AuthResponse{
		Token: token,
		User: response.UserSummary{
			Id:         creds.Id,
			FullName:   creds.FullName,
			Email:      creds.Email,
			RollNumber: creds.RollNumber,
			Role:       creds.Role,
		},
	}, nil
}

func (s *AuthService) Me(ctx context.Context, userId string) (*response.UserResponse, error) {
	// Запрос в бд
	res, err := s.repo.GetById(ctx, userId)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, WrapError(ErrUserNotFound, err)
		}
		return nil, fmt.Errorf("%w: %w", getProfileError, err)
	}

	// Ответ
	return toUserResponse(res), nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) (*response.ForgotPasswordResponse, error) {
	s.log.Info("forgotPassword request accepted", zap.String("email", req.Email))

	// Сырой токен уходит пользователю, в бд хранится только sha256
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("%w: %w", forgotPasswordError, err)
	}
	resetToken := hex.EncodeToString(raw)
	tokenHash := hashResetToken(resetToken)

	// Собираем dto
	d := &dto.SetResetTokenDTO{
		Email:     req.Email,
		TokenHash: tokenHash,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}

	// Запрос в бд
	if err := s.repo.SetResetToken(ctx, d); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, WrapError(ErrUserNotFound, err)
		}
		return nil, fmt.Errorf("%w: %w", forgotPasswordError, err)
	}

	s.log.Info("reset token issued", zap.String("email", req.Email))

	// Ответ
	return &response.ForgotPasswordResponse{ResetToken: resetToken}, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, resetToken string, req *request.ResetPasswordRequest) (*response.AuthResponse, error) {
	s.log.Info("resetPassword request accepted")

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", resetPasswordError, err)
	}

	// Собираем dto
	d := &dto.ResetPasswordDTO{
		TokenHash:    hashResetToken(resetToken),
		PasswordHash: string(hash),
	}

	// Запрос в бд
	userId, err := s.repo.ResetPassword(ctx, d)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, WrapError(ErrTokenInvalid, err)
		}
		return nil, fmt.Errorf("%w: %w", resetPasswordError, err)
	}

	res, err := s.repo.GetById(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", resetPasswordError, err)
	}

	token, err := s.generateToken(userId)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", resetPasswordError, err)
	}

	s.log.Info("password reset", zap.String("user_id", userId))

	// Ответ
	return &response.AuthResponse{
		Token: token,
		User: response.UserSummary{
			Id:         res.Id,
			FullName:   res.FullName,
			Email:      res.Email,
			RollNumber: res.RollNumber,
			Role:       res.Role,
		},
	}, nil
}

func (s *AuthService) generateToken(userId string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userId,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", signTokenError, err)
	}
	return token, nil
}

func hashResetToken(resetToken string) string {
	sum := sha256.Sum256([]byte(resetToken))
	return hex.EncodeToString(sum[:])
}
