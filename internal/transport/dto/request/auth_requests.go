package request

import "skillsync/internal/domain"

type RegisterRequest struct {
	FullName     string         `json:"fullName"`
	RollNumber   string         `json:"rollNumber"`
	Email        string         `json:"email"`
	PhoneNumber  string         `json:"phoneNumber"`
	Password     string         `json:"password"`
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

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password"`
}
