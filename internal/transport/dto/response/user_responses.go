package response

import (
	"time"

	"skillsync/internal/domain"
)

type UserResponse struct {
	Id           string         `json:"id"`
	FullName     string         `json:"fullName"`
	RollNumber   string         `json:"rollNumber"`
	Email        string         `json:"email"`
	PhoneNumber  string         `json:"phoneNumber"`
	Role         string         `json:"role"`
	Department   string         `json:"department"`
	Year         string         `json:"year"`
	Section      string         `json:"section"`
	Bio          string         `json:"bio"`
	ProfileImage string         `json:"profileImage"`
	Github       string         `json:"github"`
	Linkedin     string         `json:"linkedin"`
	SkillsKnown  []domain.Skill `json:"skillsKnown"`
	SkillsWanted []domain.Skill `json:"skillsWanted"`
	Interests    []string       `json:"interests"`
	Rating       float64        `json:"rating"`
	TotalRatings int            `json:"totalRatings"`
	IsActive     bool           `json:"isActive"`
	CreatedAt    time.Time      `json:"createdAt"`
}
