package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"skillsync/internal/domain"
	"skillsync/internal/infrastructure/models/dto"
	"skillsync/internal/infrastructure/models/result"
)

const (
	activeExchangeExistsQuery = `
SELECT EXISTS (
    SELECT 1 FROM skill_exchanges
    WHERE requester_id = $1 AND target_user_id = $2 AND status IN ('Pending', 'Accepted')
);`

	insertExchangeQuery = `
INSERT INTO skill_exchanges (id, requester_id, target_user_id, skills_offered, skills_wanted, message)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, status, is_visible, created_at;`

	browseExchangesQuery = `
SELECT e.id, e.requester_id, ru.full_name, e.target_user_id, tu.full_name,
       e.skills_offered, e.skills_wanted, e.message, e.status, e.is_visible, e.created_at
FROM skill_exchanges e
JOIN users ru ON ru.id = e.requester_id
JOIN users tu ON tu.id = e.target_user_id
WHERE e.status = 'Pending' AND e.is_visible
ORDER BY e.created_at DESC;`

	listUserExchangesQuery = `
SELECT e.id, e.requester_id, ru.full_name, e.target_user_id, tu.full_name,
       e.skills_offered, e.skills_wanted, e.message, e.status, e.is_visible, e.created_at
FROM skill_exchanges e
JOIN users ru ON ru.id = e.requester_id
JOIN users tu ON tu.id = e.target_user_id
WHERE e.requester_id = $1 OR e.target_user_id = $1
ORDER BY e.created_at DESC;`

	selectExchangeForUpdateQuery = `
SELECT requester_id, target_user_id, status FROM skill_exchanges
WHERE id = $1
FOR UPDATE;`

	updateExchangeStatusQuery = `
UPDATE skill_exchanges
SET status = $2, is_visible = $3
WHERE id = $1;`
)

type ExchangeRepository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewExchangeRepository(db *pgxpool.Pool, log *zap.Logger) *ExchangeRepository {
	return &ExchangeRepository{
		db:  db,
		log: log,
	}
}

func (r *ExchangeRepository) Create(ctx context.Context, d *dto.CreateExchangeDTO) (*result.ExchangeResult, error) {
	r.log.Info("create exchange started",
		zap.String("requester_id", d.RequesterId),
		zap.String("target_user_id", d.TargetUserId),
	)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, handleDBError(err)
	}
	defer tx.Rollback(ctx)

	// Повторный запрос к тому же пользователю запрещен, пока жив предыдущий
	var exists bool
	if err := tx.QueryRow(ctx, activeExchangeExistsQuery, d.RequesterId, d.TargetUserId).Scan(&exists); err != nil {
		return nil, handleDBError(err)
	}
	if exists {
		return nil, ErrAlreadyExists
	}

	exchRes := &result.ExchangeResult{
		RequesterId:   d.RequesterId,
		TargetUserId:  d.TargetUserId,
		SkillsOffered: d.SkillsOffered,
		SkillsWanted:  d.SkillsWanted,
		Message:       d.Message,
	}
	err = tx.QueryRow(ctx, insertExchangeQuery,
		d.ExchangeId, d.RequesterId, d.TargetUserId, d.SkillsOffered, d.SkillsWanted, d.Message,
	).Scan(&exchRes.Id, &exchRes.Status, &exchRes.IsVisible, &exchRes.CreatedAt)
	if err != nil {
		r.log.Error("failed to insert exchange",
			zap.String("requester_id", d.RequesterId),
			zap.Error(err),
		)
		return nil, handleDBError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, handleDBError(err)
	}

	r.log.Info("exchange created", zap.String("exchange_id", exchRes.Id))
	// Ответ
	return exchRes, nil
}

func (r *ExchangeRepository) Browse(ctx context.Context) ([]*result.ExchangeResult, error) {
	return r.queryExchanges(ctx, browseExchangesQuery)
}

func (r *ExchangeRepository) ListForUser(ctx context.Context, userId string) ([]*result.ExchangeResult, error) {
	return r.queryExchanges(ctx, listUserExchangesQuery, userId)
}

func (r *ExchangeRepository) Respond(ctx context.Context, d *dto.RespondExchangeDTO) (*result.ExchangeResult, error) {
	r.log.Info("respond to exchange started",
		zap.String("exchange_id", d.ExchangeId),
		zap.Bool("accept", d.Accept),
	)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, handleDBError(err)
	}
	defer tx.Rollback(ctx)

	var requesterId, targetUserId, status string
	err = tx.QueryRow(ctx, selectExchangeForUpdateQuery, d.ExchangeId).Scan(&requesterId, &targetUserId, &status)
	if err != nil {
		return nil, handleDBError(err)
	}

	// Отвечать может только адресат запроса
	if targetUserId != d.ActorId {
		return nil, ErrForbidden
	}
	if status != domain.ExchangeStatusPending {
		return nil, ErrNotPending
	}

	newStatus := domain.ExchangeStatusAccepted
	visible := true
	if !d.Accept {
		newStatus = domain.ExchangeStatusRejected
		visible = false
	}
	if _, err := tx.Exec(ctx, updateExchangeStatusQuery, d.ExchangeId, newStatus, visible); err != nil {
		return nil, handleDBError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, handleDBError(err)
	}

	r.log.Info("exchange updated",
		zap.String("exchange_id", d.ExchangeId),
		zap.String("status", newStatus),
	)
	// Ответ
	return &result.ExchangeResult{
		Id:           d.ExchangeId,
		RequesterId:  requesterId,
		TargetUserId: targetUserId,
		Status:       newStatus,
		IsVisible:    visible,
	}, nil
}

func (r *ExchangeRepository) Complete(ctx context.Context, d *dto.CompleteExchangeDTO) (*result.ExchangeResult, error) {
	r.log.Info("complete exchange started", zap.String("exchange_id", d.ExchangeId))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, handleDBError(err)
	}
	defer tx.Rollback(ctx)

	var requesterId, targetUserId, status string
	err = tx.QueryRow(ctx, selectExchangeForUpdateQuery, d.ExchangeId).Scan(&requesterId, &targetUserId, &status)
	if err != nil {
		return nil, handleDBError(err)
	}

	// Завершить обмен может любой из двух участников
	if requesterId != d.ActorId && targetUserId != d.ActorId {
		return nil, ErrForbidden
	}
	if status != domain.ExchangeStatusAccepted {
		return nil, ErrNotAccepted
	}

	if _, err := tx.Exec(ctx, updateExchangeStatusQuery, d.ExchangeId, domain.ExchangeStatusCompleted, false); err != nil {
		return nil, handleDBError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, handleDBError(err)
	}

	r.log.Info("exchange completed", zap.String("exchange_id", d.ExchangeId))
	// Ответ
	return &result.ExchangeResult{
		Id:           d.ExchangeId,
		RequesterId:  requesterId,
		TargetUserId: targetUserId,
		Status:       domain.ExchangeStatusCompleted,
		IsVisible:    false,
	}, nil
}

func (r *ExchangeRepository) queryExchanges(ctx context.Context, query string, args ...any) ([]*result.ExchangeResult, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, handleDBError(err)
	}
	defer rows.Close()

	var exchanges []*result.ExchangeResult
	for rows.Next() {
		exchRes := &result.ExchangeResult{}
		err := rows.Scan(
			&exchRes.Id,
			&exchRes.RequesterId,
			&exchRes.RequesterName,
			&exchRes.TargetUserId,
			&exchRes.TargetName,
			&exchRes.SkillsOffered,
			&exchRes.SkillsWanted,
			&exchRes.Message,
			&exchRes.Status,
			&exchRes.IsVisible,
			&exchRes.CreatedAt,
		)
		if err != nil {
			return nil, handleDBError(err)
		}
		exchanges = append(exchanges, exchRes)
	}
	if err := rows.Err(); err != nil {
		return nil, handleDBError(err)
	}
	return exchanges, nil
}
