package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"skillsync/internal/domain"
	"skillsync/internal/infrastructure/models/dto"
	"skillsync/internal/infrastructure/models/result"
)

const (
	insertProjectQuery = `
INSERT INTO projects (id, owner_id, title, description)
VALUES ($1, $2, $3, $4)
RETURNING id, status, is_visible, created_at;`

	insertRoleQuery = `
INSERT INTO project_roles (project_id, role_name, required_skills, number_of_openings, position)
VALUES ($1, $2, $3, $4, $5);`

	selectProjectQuery = `
SELECT p.id, p.title, p.description, p.status, p.is_visible, p.created_at,
       u.id, u.full_name, u.email, u.phone_number, u.profile_image
FROM projects p
JOIN users u ON u.id = p.owner_id
WHERE p.id = $1;`

	selectProjectForUpdateQuery = `
SELECT owner_id, status, is_visible FROM projects
WHERE id = $1
FOR UPDATE;`

	selectRolesQuery = `
SELECT role_name, required_skills, number_of_openings, filled_positions
FROM project_roles
WHERE project_id = $1
ORDER BY position ASC;`

	selectMembersQuery = `
SELECT pm.user_id, pm.role_name, pm.joined_at,
       u.full_name, u.email, u.phone_number, u.profile_image
FROM project_members pm
JOIN users u ON u.id = pm.user_id
WHERE pm.project_id = $1
ORDER BY pm.joined_at ASC;`

	selectRequestsQuery = `
SELECT id, user_id, role_name, status, created_at
FROM join_requests
WHERE project_id = $1
ORDER BY created_at ASC;`

	listOpenProjectsQuery = `
SELECT p.id, p.title, p.description, p.status, p.is_visible, p.created_at,
       u.id, u.full_name, u.profile_image
FROM projects p
JOIN users u ON u.id = p.owner_id
WHERE p.status = 'Open' AND p.is_visible
ORDER BY p.created_at DESC;`

	selectRoleCapacityQuery = `
SELECT number_of_openings, filled_positions
FROM project_roles
WHERE project_id = $1 AND role_name = $2;`

	memberExistsQuery = `
SELECT EXISTS (
    SELECT 1 FROM project_members
    WHERE project_id = $1 AND user_id = $2
);`

	insertJoinRequestQuery = `
INSERT INTO join_requests (id, project_id, user_id, role_name)
VALUES ($1, $2, $3, $4)
RETURNING id, role_name, status, created_at;`

	selectRequestQuery = `
SELECT user_id, role_name, status FROM join_requests
WHERE id = $1 AND project_id = $2;`

	updateRequestStatusQuery = `
UPDATE join_requests
SET status = $3
WHERE id = $1 AND project_id = $2;`

	incrementFilledQuery = `
UPDATE project_roles
SET filled_positions = filled_positions + 1
WHERE project_id = $1 AND role_name = $2 AND filled_positions < number_of_openings;`

	insertMemberQuery = `
INSERT INTO project_members (project_id, user_id, role_name)
VALUES ($1, $2, $3);`

	ratchetStatusQuery = `
UPDATE projects
SET status = 'In Progress'
WHERE id = $1 AND NOT EXISTS (
    SELECT 1 FROM project_roles
    WHERE project_id = $1 AND filled_positions < number_of_openings
);`

	selectStatusQuery = `
SELECT status FROM projects
WHERE id = $1;`

	setStatusQuery = `
UPDATE projects
SET status = $2, is_visible = FALSE
WHERE id = $1;`
)

type ProjectRepository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewProjectRepository(db *pgxpool.Pool, log *zap.Logger) *ProjectRepository {
	return &ProjectRepository{
		db:  db,
		log: log,
	}
}

func (r *ProjectRepository) Create(ctx context.Context, d *dto.CreateProjectDTO) (*result.ProjectResult, error) {
	r.log.Info("create project started",
		zap.String("project_id", d.ProjectId),
		zap.String("owner_id", d.OwnerId),
		zap.Int("roles", len(d.Roles)),
	)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, handleDBError(err)
	}
	defer tx.Rollback(ctx)

	projRes := &result.ProjectResult{
		Title:       d.Title,
		Description: d.Description,
		OwnerId:     d.OwnerId,
	}

	// Создаем проект и читаем его состояние
	err = tx.QueryRow(ctx, insertProjectQuery, d.ProjectId, d.OwnerId, d.Title, d.Description).Scan(
		&projRes.Id,
		&projRes.Status,
		&projRes.IsVisible,
		&projRes.CreatedAt,
	)
	if err != nil {
		r.log.Error("failed to insert project",
			zap.String("project_id", d.ProjectId),
			zap.Error(err),
		)
		return nil, handleDBError(err)
	}

	// Записываем роли в порядке объявления
	for i, role := range d.Roles {
		_, err := tx.Exec(ctx, insertRoleQuery, projRes.Id, role.RoleName, role.RequiredSkills, role.NumberOfOpenings, i)
		if err != nil {
			r.log.Error("failed to insert project role",
				zap.String("project_id", d.ProjectId),
				zap.String("role_name", role.RoleName),
				zap.Error(err),
			)
			return nil, handleDBError(err)
		}
		projRes.RequiredRoles = append(projRes.RequiredRoles, domain.RoleSlot{
			RoleName:         role.RoleName,
			RequiredSkills:   role.RequiredSkills,
			NumberOfOpenings: role.NumberOfOpenings,
		})
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("failed to commit project creation", zap.String("project_id", d.ProjectId), zap.Error(err))
		return nil, handleDBError(err)
	}

	r.log.Info("project created", zap.String("project_id", projRes.Id))
	// Ответ
	return projRes, nil
}

func (r *ProjectRepository) GetById(ctx context.Context, projectId string) (*result.ProjectResult, error) {
	r.log.Debug("get project", zap.String("project_id", projectId))

	projRes := &result.ProjectResult{}
	err := r.db.QueryRow(ctx, selectProjectQuery, projectId).Scan(
		&projRes.Id,
		&projRes.Title,
		&projRes.Description,
		&projRes.Status,
		&projRes.IsVisible,
		&projRes.CreatedAt,
		&projRes.OwnerId,
		&projRes.OwnerName,
		&projRes.OwnerEmail,
		&projRes.OwnerPhone,
		&projRes.OwnerImage,
	)
	if err != nil {
		return nil, handleDBError(err)
	}

	// Роли
	projRes.RequiredRoles, err = readRoles(ctx, r.db, projectId)
	if err != nil {
		return nil, handleDBError(err)
	}

	// Участники вместе с контактами (сокрытие делает сервисный слой)
	projRes.Members, err = readMembers(ctx, r.db, projectId)
	if err != nil {
		return nil, handleDBError(err)
	}

	// Заявки
	projRes.JoinRequests, err = readRequests(ctx, r.db, projectId)
	if err != nil {
		return nil, handleDBError(err)
	}

	// Ответ
	return projRes, nil
}

func (r *ProjectRepository) ListOpen(ctx context.Context) ([]*result.ProjectResult, error) {
	rows, err := r.db.Query(ctx, listOpenProjectsQuery)
	if err != nil {
		return nil, handleDBError(err)
	}
	defer rows.Close()

	var projects []*result.ProjectResult
	for rows.Next() {
		projRes := &result.ProjectResult{}
		err := rows.Scan(
			&projRes.Id,
			&projRes.Title,
			&projRes.Description,
			&projRes.Status,
			&projRes.IsVisible,
			&projRes.CreatedAt,
			&projRes.OwnerId,
			&projRes.OwnerName,
			&projRes.OwnerImage,
		)
		if err != nil {
			return nil, handleDBError(err)
		}
		projects = append(projects, projRes)
	}
	if err := rows.Err(); err != nil {
		return nil, handleDBError(err)
	}

	// Дочитываем роли каждого проекта
	for _, projRes := range projects {
		projRes.RequiredRoles, err = readRoles(ctx, r.db, projRes.Id)
		if err != nil {
			return nil, handleDBError(err)
		}
	}

	r.log.Debug("open projects loaded", zap.Int("count", len(projects)))
	// Ответ
	return projects, nil
}

func (r *ProjectRepository) SubmitJoinRequest(ctx context.Context, d *dto.SubmitJoinRequestDTO) (*result.JoinRequestResult, error) {
	r.log.Info("submit join request started",
		zap.String("project_id", d.ProjectId),
		zap.String("user_id", d.UserId),
		zap.String("role_name", d.RoleName),
	)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, handleDBError(err)
	}
	defer tx.Rollback(ctx)

	// Блокируем строку проекта: все проверки и запись идут одной транзакцией
	var (
		ownerId   string
		status    string
		isVisible bool
	)
	err = tx.QueryRow(ctx, selectProjectForUpdateQuery, d.ProjectId).Scan(&ownerId, &status, &isVisible)
	if err != nil {
		return nil, handleDBError(err)
	}

	if !isVisible || status != domain.ProjectStatusOpen {
		return nil, ErrClosed
	}
	if ownerId == d.UserId {
		return nil, ErrSelfApply
	}

	// Роль должна существовать и иметь свободные места
	var openings, filled int
	err = tx.QueryRow(ctx, selectRoleCapacityQuery, d.ProjectId, d.RoleName).Scan(&openings, &filled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoleUnknown
		}
		return nil, handleDBError(err)
	}
	if filled >= openings {
		return nil, ErrRoleFull
	}

	// Участник проекта не может подать новую заявку
	var alreadyMember bool
	if err := tx.QueryRow(ctx, memberExistsQuery, d.ProjectId, d.UserId).Scan(&alreadyMember); err != nil {
		return nil, handleDBError(err)
	}
	if alreadyMember {
		return nil, ErrAlreadyExists
	}

	// Повторная не-отклоненная заявка отлавливается частичным уникальным индексом
	reqRes := &result.JoinRequestResult{ProjectId: d.ProjectId}
	err = tx.QueryRow(ctx, insertJoinRequestQuery, d.RequestId, d.ProjectId, d.UserId, d.RoleName).Scan(
		&reqRes.RequestId,
		&reqRes.RoleName,
		&reqRes.Status,
		&reqRes.CreatedAt,
	)
	if err != nil {
		r.log.Warn("failed to insert join request",
			zap.String("project_id", d.ProjectId),
			zap.String("user_id", d.UserId),
			zap.Error(err),
		)
		return nil, handleDBError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("failed to commit join request", zap.String("project_id", d.ProjectId), zap.Error(err))
		return nil, handleDBError(err)
	}

	r.log.Info("join request submitted",
		zap.String("project_id", d.ProjectId),
		zap.String("request_id", reqRes.RequestId),
	)
	// Ответ
	return reqRes, nil
}

func (r *ProjectRepository) RespondJoinRequest(ctx context.Context, d *dto.RespondJoinRequestDTO) (*result.RespondResult, error) {
	r.log.Info("respond to join request started",
		zap.String("project_id", d.ProjectId),
		zap.String("request_id", d.RequestId),
		zap.Bool("accept", d.Accept),
	)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, handleDBError(err)
	}
	defer tx.Rollback(ctx)

	// Блокируем строку проекта: принятие заявки должно быть атомарно
	// относительно любых других изменений этого проекта
	var (
		ownerId   string
		status    string
		isVisible bool
	)
	err = tx.QueryRow(ctx, selectProjectForUpdateQuery, d.ProjectId).Scan(&ownerId, &status, &isVisible)
	if err != nil {
		return nil, handleDBError(err)
	}

	// Отвечать на заявки может только владелец
	if ownerId != d.ActorId {
		return nil, ErrForbidden
	}

	var (
		requestUserId string
		roleName      string
		reqStatus     string
	)
	err = tx.QueryRow(ctx, selectRequestQuery, d.RequestId, d.ProjectId).Scan(&requestUserId, &roleName, &reqStatus)
	if err != nil {
		return nil, handleDBError(err)
	}
	if reqStatus != domain.RequestStatusPending {
		return nil, ErrNotPending
	}

	res := &result.RespondResult{
		ProjectId:     d.ProjectId,
		RequestId:     d.RequestId,
		ProjectStatus: status,
	}

	if !d.Accept {
		// Отклонение терминально и больше ничего не меняет
		if _, err := tx.Exec(ctx, updateRequestStatusQuery, d.RequestId, d.ProjectId, domain.RequestStatusRejected); err != nil {
			return nil, handleDBError(err)
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, handleDBError(err)
		}
		res.Status = domain.RequestStatusRejected

		r.log.Info("join request rejected", zap.String("request_id", d.RequestId))
		return res, nil
	}

	// Вместимость проверяется на момент коммита: между подачей и ответом
	// конкурентные принятия могли исчерпать роль
	cmdTag, err := tx.Exec(ctx, incrementFilledQuery, d.ProjectId, roleName)
	if err != nil {
		return nil, handleDBError(err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.log.Warn("role filled before accept committed",
			zap.String("project_id", d.ProjectId),
			zap.String("role_name", roleName),
		)
		return nil, ErrRoleFull
	}

	if _, err := tx.Exec(ctx, updateRequestStatusQuery, d.RequestId, d.ProjectId, domain.RequestStatusAccepted); err != nil {
		return nil, handleDBError(err)
	}

	if _, err := tx.Exec(ctx, insertMemberQuery, d.ProjectId, requestUserId, roleName); err != nil {
		r.log.Error("failed to insert member",
			zap.String("project_id", d.ProjectId),
			zap.String("user_id", requestUserId),
			zap.Error(err),
		)
		return nil, handleDBError(err)
	}

	// Пересчет статуса проекта в той же транзакции
	if _, err := tx.Exec(ctx, ratchetStatusQuery, d.ProjectId); err != nil {
		return nil, handleDBError(err)
	}
	if err := tx.QueryRow(ctx, selectStatusQuery, d.ProjectId).Scan(&res.ProjectStatus); err != nil {
		return nil, handleDBError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("failed to commit accept transaction",
			zap.String("request_id", d.RequestId),
			zap.Error(err),
		)
		return nil, handleDBError(err)
	}
	res.Status = domain.RequestStatusAccepted

	r.log.Info("join request accepted",
		zap.String("request_id", d.RequestId),
		zap.String("user_id", requestUserId),
		zap.String("role_name", roleName),
		zap.String("project_status", res.ProjectStatus),
	)
	// Ответ
	return res, nil
}

func (r *ProjectRepository) SetStatus(ctx context.Context, d *dto.SetProjectStatusDTO) (*result.ProjectStatusResult, error) {
	r.log.Info("set project status started",
		zap.String("project_id", d.ProjectId),
		zap.String("status", d.Status),
	)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, handleDBError(err)
	}
	defer tx.Rollback(ctx)

	var (
		ownerId   string
		status    string
		isVisible bool
	)
	err = tx.QueryRow(ctx, selectProjectForUpdateQuery, d.ProjectId).Scan(&ownerId, &status, &isVisible)
	if err != nil {
		return nil, handleDBError(err)
	}
	if ownerId != d.ActorId {
		return nil, ErrForbidden
	}

	// Переход терминальный: проект скрывается из листинга и матчинга
	if _, err := tx.Exec(ctx, setStatusQuery, d.ProjectId, d.Status); err != nil {
		return nil, handleDBError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, handleDBError(err)
	}

	r.log.Info("project status set",
		zap.String("project_id", d.ProjectId),
		zap.String("status", d.Status),
	)
	// Ответ
	return &result.ProjectStatusResult{
		ProjectId: d.ProjectId,
		Status:    d.Status,
		IsVisible: false,
	}, nil
}

type queryExecutor interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// вспомогательная функция для чтения ролей проекта
func readRoles(ctx context.Context, exec queryExecutor, projectId string) ([]domain.RoleSlot, error) {
	rows, err := exec.Query(ctx, selectRolesQuery, projectId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []domain.RoleSlot
	for rows.Next() {
		var role domain.RoleSlot
		if err := rows.Scan(&role.RoleName, &role.RequiredSkills, &role.NumberOfOpenings, &role.FilledPositions); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// вспомогательная функция для чтения участников проекта
func readMembers(ctx context.Context, exec queryExecutor, projectId string) ([]result.MemberResult, error) {
	rows, err := exec.Query(ctx, selectMembersQuery, projectId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []result.MemberResult
	for rows.Next() {
		var member result.MemberResult
		err := rows.Scan(
			&member.UserId,
			&member.RoleName,
			&member.JoinedAt,
			&member.FullName,
			&member.Email,
			&member.PhoneNumber,
			&member.ProfileImage,
		)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

// вспомогательная функция для чтения заявок проекта
func readRequests(ctx context.Context, exec queryExecutor, projectId string) ([]domain.JoinRequest, error) {
	rows, err := exec.Query(ctx, selectRequestsQuery, projectId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []domain.JoinRequest
	for rows.Next() {
		var request domain.JoinRequest
		if err := rows.Scan(&request.Id, &request.UserId, &request.RoleName, &request.Status, &request.CreatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}
