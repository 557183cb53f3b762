package result

import (
	"time"

	"skillsync/internal/domain"
)

type MemberResult struct {
	UserId       string
	RoleName     string
	FullName     string
	Email        string
	PhoneNumber  string
	ProfileImage string
	JoinedAt     time.Time
}

type ProjectResult struct {
	Id            string
	Title         string
	Description   string
	OwnerId       string
	OwnerName     string
	OwnerEmail    string
	OwnerPhone    string
	OwnerImage    string
	RequiredRoles []domain.RoleSlot
	Members       []MemberResult
	JoinRequests  []domain.JoinRequest
	Status        string
	IsVisible     bool
	CreatedAt     time.Time
}

// HasOpenRole сообщает, осталась ли роль с открытыми местами
func (p *ProjectResult) HasOpenRole() bool {
	return domain.HasOpenRole(p.RequiredRoles)
}

type JoinRequestResult struct {
	RequestId string
	ProjectId string
	RoleName  string
	Status    string
	CreatedAt time.Time
}

type RespondResult struct {
	ProjectId     string
	RequestId     string
	Status        string
	ProjectStatus string
}

type ProjectStatusResult struct {
	ProjectId string
	Status    string
	IsVisible bool
}
