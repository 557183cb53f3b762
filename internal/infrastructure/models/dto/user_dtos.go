package dto

import (
	"time"

	"skillsync/internal/domain"
)

type CreateUserDTO struct {
	UserId       string
	FullName     string
	RollNumber   string
	Email        string
	PhoneNumber  string
	PasswordHash string
	Department   string
	Year         string
	Section      string
	Bio          string
	Github       string
	Linkedin     string
	SkillsKnown  []domain.Skill
	SkillsWanted []domain.Skill
	Interests    []string
}

type UpdateUserDTO struct {
	UserId       string
	FullName     string
	PhoneNumber  string
	Department   string
	Year         string
	Section      string
	Bio          string
	Github       string
	Linkedin     string
	SkillsKnown  []domain.Skill
	SkillsWanted []domain.Skill
	Interests    []string
}

type SetResetTokenDTO struct {
	Email     string
	TokenHash string
	ExpiresAt time.Time
}

type ResetPasswordDTO struct {
	TokenHash    string
	PasswordHash string
}
