package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"skillsync/internal/domain"
	"skillsync/internal/infrastructure/models/dto"
	"skillsync/internal/infrastructure/models/result"
)

const (
	insertUserQuery = `
INSERT INTO users (id, full_name, roll_number, email, phone_number, password_hash,
                   department, year, section, bio, github, linkedin, interests)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING id, role, created_at;`

	upsertSkillQuery = `
INSERT INTO user_skills (user_id, name, level, kind)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, name, kind) DO UPDATE
	SET level = EXCLUDED.level;`

	deleteSkillsQuery = `
DELETE FROM user_skills
WHERE user_id = $1;`

	selectUserQuery = `
SELECT id, full_name, roll_number, email, phone_number, role, department, year,
       section, bio, profile_image, github, linkedin, interests, rating,
       total_ratings, is_active, created_at
FROM users
WHERE id = $1;`

	selectCredentialsQuery = `
SELECT id, full_name, roll_number, email, role, password_hash, is_active
FROM users
WHERE email = $1;`

	updateUserQuery = `
UPDATE users
SET full_name = $2, phone_number = $3, department = $4, year = $5, section = $6,
    bio = $7, github = $8, linkedin = $9, interests = $10
WHERE id = $1;`

	selectSkillsQuery = `
SELECT name, level, kind FROM user_skills
WHERE user_id = $1
ORDER BY name ASC;`

	selectKnownSkillNamesQuery = `
SELECT name FROM user_skills
WHERE user_id = $1 AND kind = 'known';`

	userExistsQuery = `
SELECT EXISTS (
    SELECT 1 FROM users
    WHERE id = $1
);`

	setResetTokenQuery = `
UPDATE users
SET reset_password_token = $2, reset_password_expire = $3
WHERE email = $1;`

	resetPasswordQuery = `
UPDATE users
SET password_hash = $2, reset_password_token = NULL, reset_password_expire = NULL
WHERE reset_password_token = $1 AND reset_password_expire > CURRENT_TIMESTAMP
RETURNING id;`

	selectIsActiveQuery = `
SELECT is_active FROM users
WHERE id = $1;`
)

const (
	skillKindKnown  = "known"
	skillKindWanted = "wanted"
)

type UserRepository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewUserRepository(db *pgxpool.Pool, log *zap.Logger) *UserRepository {
	return &UserRepository{
		db:  db,
		log: log,
	}
}

func (r *UserRepository) Create(ctx context.Context, d *dto.CreateUserDTO) (*result.UserResult, error) {
	r.log.Info("create user started",
		zap.String("user_id", d.UserId),
		zap.String("roll_number", d.RollNumber),
	)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, handleDBError(err)
	}
	defer tx.Rollback(ctx)

	userRes := &result.UserResult{
		FullName:     d.FullName,
		RollNumber:   d.RollNumber,
		Email:        d.Email,
		PhoneNumber:  d.PhoneNumber,
		Department:   d.Department,
		Year:         d.Year,
		Section:      d.Section,
		Bio:          d.Bio,
		Github:       d.Github,
		Linkedin:     d.Linkedin,
		SkillsKnown:  d.SkillsKnown,
		SkillsWanted: d.SkillsWanted,
		Interests:    d.Interests,
		IsActive:     true,
	}

	// Создаем пользователя
	err = tx.QueryRow(ctx, insertUserQuery,
		d.UserId, d.FullName, d.RollNumber, d.Email, d.PhoneNumber, d.PasswordHash,
		d.Department, d.Year, d.Section, d.Bio, d.Github, d.Linkedin, d.Interests,
	).Scan(&userRes.Id, &userRes.Role, &userRes.CreatedAt)
	if err != nil {
		r.log.Warn("failed to insert user",
			zap.String("email", d.Email),
			zap.Error(err),
		)
		return nil, handleDBError(err)
	}

	// Записываем навыки
	if err := writeSkills(ctx, tx, userRes.Id, d.SkillsKnown, d.SkillsWanted); err != nil {
		return nil, handleDBError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("failed to commit user creation", zap.String("user_id", d.UserId), zap.Error(err))
		return nil, handleDBError(err)
	}

	r.log.Info("user created", zap.String("user_id", userRes.Id))
	// Ответ
	return userRes, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*result.CredentialsResult, error) {
	credRes := &result.CredentialsResult{}
	err := r.db.QueryRow(ctx, selectCredentialsQuery, email).Scan(
		&credRes.Id,
		&credRes.FullName,
		&credRes.RollNumber,
		&credRes.Email,
		&credRes.Role,
		&credRes.PasswordHash,
		&credRes.IsActive,
	)
	if err != nil {
		return nil, handleDBError(err)
	}
	return credRes, nil
}

func (r *UserRepository) GetById(ctx context.Context, userId string) (*result.UserResult, error) {
	userRes := &result.UserResult{}
	err := r.db.QueryRow(ctx, selectUserQuery, userId).Scan(
		&userRes.Id,
		&userRes.FullName,
		&userRes.RollNumber,
		&userRes.Email,
		&userRes.PhoneNumber,
		&userRes.Role,
		&userRes.Department,
		&userRes.Year,
		&userRes.Section,
		&userRes.Bio,
		&userRes.ProfileImage,
		&userRes.Github,
		&userRes.Linkedin,
		&userRes.Interests,
		&userRes.Rating,
		&userRes.TotalRatings,
		&userRes.IsActive,
		&userRes.CreatedAt,
	)
	if err != nil {
		return nil, handleDBError(err)
	}

	// Дочитываем навыки
	if err := r.readSkills(ctx, userRes); err != nil {
		return nil, handleDBError(err)
	}

	// Ответ
	return userRes, nil
}

func (r *UserRepository) Update(ctx context.Context, d *dto.UpdateUserDTO) (*result.UserResult, error) {
	r.log.Info("update user started", zap.String("user_id", d.UserId))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, handleDBError(err)
	}
	defer tx.Rollback(ctx)

	cmdTag, err := tx.Exec(ctx, updateUserQuery,
		d.UserId, d.FullName, d.PhoneNumber, d.Department, d.Year, d.Section,
		d.Bio, d.Github, d.Linkedin, d.Interests,
	)
	if err != nil {
		return nil, handleDBError(err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	// Навыки перезаписываются целиком
	if _, err := tx.Exec(ctx, deleteSkillsQuery, d.UserId); err != nil {
		return nil, handleDBError(err)
	}
	if err := writeSkills(ctx, tx, d.UserId, d.SkillsKnown, d.SkillsWanted); err != nil {
		return nil, handleDBError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("failed to commit user update", zap.String("user_id", d.UserId), zap.Error(err))
		return nil, handleDBError(err)
	}

	r.log.Info("user updated", zap.String("user_id", d.UserId))
	// Перечитываем профиль
	return r.GetById(ctx, d.UserId)
}

// GetKnownSkills отдает имена известных навыков для матчинга проектов
func (r *UserRepository) GetKnownSkills(ctx context.Context, userId string) ([]string, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, userExistsQuery, userId).Scan(&exists); err != nil {
		return nil, handleDBError(err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	rows, err := r.db.Query(ctx, selectKnownSkillNamesQuery, userId)
	if err != nil {
		return nil, handleDBError(err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, handleDBError(err)
		}
		names = append(names, name)
	}
	return names, handleDBError(rows.Err())
}

func (r *UserRepository) SetResetToken(ctx context.Context, d *dto.SetResetTokenDTO) error {
	cmdTag, err := r.db.Exec(ctx, setResetTokenQuery, d.Email, d.TokenHash, d.ExpiresAt)
	if err != nil {
		return handleDBError(err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	r.log.Info("reset token stored", zap.String("email", d.Email))
	return nil
}

func (r *UserRepository) ResetPassword(ctx context.Context, d *dto.ResetPasswordDTO) (string, error) {
	var userId string
	err := r.db.QueryRow(ctx, resetPasswordQuery, d.TokenHash, d.PasswordHash).Scan(&userId)
	if err != nil {
		return "", handleDBError(err)
	}

	r.log.Info("password reset", zap.String("user_id", userId))
	return userId, nil
}

// IsActive используется auth middleware при проверке токена
func (r *UserRepository) IsActive(ctx context.Context, userId string) (bool, error) {
	var isActive bool
	if err := r.db.QueryRow(ctx, selectIsActiveQuery, userId).Scan(&isActive); err != nil {
		return false, handleDBError(err)
	}
	return isActive, nil
}

func (r *UserRepository) readSkills(ctx context.Context, userRes *result.UserResult) error {
	rows, err := r.db.Query(ctx, selectSkillsQuery, userRes.Id)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			skill domain.Skill
			kind  string
		)
		if err := rows.Scan(&skill.Name, &skill.Level, &kind); err != nil {
			return err
		}
		if kind == skillKindKnown {
			userRes.SkillsKnown = append(userRes.SkillsKnown, skill)
		} else {
			userRes.SkillsWanted = append(userRes.SkillsWanted, skill)
		}
	}
	return rows.Err()
}

type rowExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// вспомогательная функция для записи навыков пользователя
func writeSkills(ctx context.Context, exec rowExecutor, userId string, known, wanted []domain.Skill) error {
	for _, skill := range known {
		if skill.Name == "" {
			continue
		}
		if _, err := exec.Exec(ctx, upsertSkillQuery, userId, skill.Name, skill.Level, skillKindKnown); err != nil {
			return err
		}
	}
	for _, skill := range wanted {
		if skill.Name == "" {
			continue
		}
		if _, err := exec.Exec(ctx, upsertSkillQuery, userId, skill.Name, skill.Level, skillKindWanted); err != nil {
			return err
		}
	}
	return nil
}
