package result

import (
	"time"

	"skillsync/internal/domain"
)

type UserResult struct {
	Id           string
	FullName     string
	RollNumber   string
	Email        string
	PhoneNumber  string
	Role         string
	Department   string
	Year         string
	Section      string
	Bio          string
	ProfileImage string
	Github       string
	Linkedin     string
	SkillsKnown  []domain.Skill
	SkillsWanted []domain.Skill
	Interests    []string
	Rating       float64
	TotalRatings int
	IsActive     bool
	CreatedAt    time.Time
}

// CredentialsResult читается только на пути логина
type CredentialsResult struct {
	Id           string
	FullName     string
	RollNumber   string
	Email        string
	Role         string
	PasswordHash string
	IsActive     bool
}
