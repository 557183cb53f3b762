package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var incorrectIdError = errors.New("incorrect id error")

type DomainError struct {
	Code    string
	Message string
	Err     error
}

func WrapError(domainError *DomainError, err error) error {
	return &DomainError{
		Code:    domainError.Code,
		Message: domainError.Message,
		Err:     err,
	}
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

var (
	// NOT_FOUND
	ErrProjectNotFound = &DomainError{
		Code:    "NOT_FOUND",
		Message: "project not found",
	}
	ErrRequestNotFound = &DomainError{
		Code:    "NOT_FOUND",
		Message: "join request not found",
	}
	ErrUserNotFound = &DomainError{
		Code:    "NOT_FOUND",
		Message: "user not found",
	}
	ErrExchangeNotFound = &DomainError{
		Code:    "NOT_FOUND",
		Message: "exchange not found",
	}
	ErrRoleUnknown = &DomainError{
		Code:    "NOT_FOUND",
		Message: "role not found in project",
	}

	// FORBIDDEN
	ErrNotOwner = &DomainError{
		Code:    "FORBIDDEN",
		Message: "only project owner can perform this action",
	}
	ErrNotTarget = &DomainError{
		Code:    "FORBIDDEN",
		Message: "only target user can respond",
	}
	ErrNotParticipant = &DomainError{
		Code:    "FORBIDDEN",
		Message: "only participants can complete",
	}
	ErrNotOwnProfile = &DomainError{
		Code:    "FORBIDDEN",
		Message: "cannot edit another user's profile",
	}

	// INVALID_STATE
	ErrProjectClosed = &DomainError{
		Code:    "INVALID_STATE",
		Message: "project is not open for joining",
	}
	ErrRequestNotPending = &DomainError{
		Code:    "INVALID_STATE",
		Message: "join request is not pending",
	}
	ErrExchangeProcessed = &DomainError{
		Code:    "INVALID_STATE",
		Message: "exchange already processed",
	}
	ErrExchangeNotAccepted = &DomainError{
		Code:    "INVALID_STATE",
		Message: "exchange is not accepted",
	}

	// CAPACITY_CONFLICT
	ErrRoleFull = &DomainError{
		Code:    "CAPACITY_CONFLICT",
		Message: "role already filled",
	}

	// DUPLICATE
	ErrDuplicateRequest = &DomainError{
		Code:    "DUPLICATE",
		Message: "duplicate join request",
	}
	ErrSelfApplication = &DomainError{
		Code:    "DUPLICATE",
		Message: "owner cannot apply to own project",
	}
	ErrUserExists = &DomainError{
		Code:    "DUPLICATE",
		Message: "user already exists",
	}
	ErrDuplicateExchange = &DomainError{
		Code:    "DUPLICATE",
		Message: "duplicate exchange request",
	}
	ErrSelfExchange = &DomainError{
		Code:    "DUPLICATE",
		Message: "cannot send exchange request to self",
	}

	// UNAUTHORIZED
	ErrInvalidCredentials = &DomainError{
		Code:    "UNAUTHORIZED",
		Message: "invalid credentials",
	}
	ErrTokenInvalid = &DomainError{
		Code:    "UNAUTHORIZED",
		Message: "invalid or expired token",
	}

	// INVALID_INPUT
	ErrInvalidInput = &DomainError{
		Code:    "INVALID_INPUT",
		Message: "invalid input",
	}
)

// нормализация идентификатора из пути или тела запроса
func normalizeID(raw, field string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%s: %w", field, incorrectIdError)
	}
	return id.String(), nil
}
