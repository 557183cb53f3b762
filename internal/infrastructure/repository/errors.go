package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")

	// Правила предметной области, проверяемые внутри транзакции
	ErrForbidden   = errors.New("actor has no right to perform action")
	ErrClosed      = errors.New("project is not open for joining")
	ErrSelfApply   = errors.New("owner cannot apply to own project")
	ErrRoleUnknown = errors.New("role not found in project")
	ErrRoleFull    = errors.New("role already filled")
	ErrNotPending  = errors.New("request is not pending")
	ErrNotAccepted = errors.New("exchange is not accepted")
)

func handleDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrAlreadyExists
		case "23503", "23502", "23514":
			return ErrInvalidInput
		}
	}
	return err
}
