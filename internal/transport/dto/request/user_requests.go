package request

import "skillsync/internal/domain"

type UpdateUserRequest struct {
	FullName     string         `json:"fullName"`
	PhoneNumber  string         `json:"phoneNumber"`
	Department   string         `json:"department"`
	Year         string         `json:"year"`
	Section      string         `json:"section"`
	Bio          string         `json:"bio"`
	Github       string         `json:"github"`
	Linkedin     string         `json:"linkedin"`
	SkillsKnown  []domain.Skill `json:"skillsKnown"`
	SkillsWanted []domain.Skill `json:"skillsWanted"`
	Interests    []string       `json:"interests"`
}
