package response

import (
	"time"

	"skillsync/internal/domain"
)

type OwnerResponse struct {
	Id           string `json:"id"`
	FullName     string `json:"fullName"`
	Email        string `json:"email,omitempty"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
	ProfileImage string `json:"profileImage"`
}

type ProjectMemberResponse struct {
	UserId       string `json:"user"`
	FullName     string `json:"fullName"`
	Email        string `json:"email,omitempty"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
	ProfileImage string `json:"profileImage"`
	RoleName     string `json:"roleName"`
}

type JoinRequestResponse struct {
	Id        string    `json:"id"`
	UserId    string    `json:"user"`
	RoleName  string    `json:"roleName"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type ProjectResponse struct {
	Id            string                  `json:"id"`
	Title         string                  `json:"title"`
	Description   string                  `json:"description"`
	Owner         OwnerResponse           `json:"owner"`
	RequiredRoles []domain.RoleSlot       `json:"requiredRoles"`
	Members       []ProjectMemberResponse `json:"members"`
	JoinRequests  []JoinRequestResponse   `json:"joinRequests"`
	ProjectStatus string                  `json:"projectStatus"`
	IsVisible     bool                    `json:"isVisible"`
	CreatedAt     time.Time               `json:"createdAt"`
}

type JoinResponse struct {
	ProjectId string `json:"projectId"`
	RequestId string `json:"requestId"`
	RoleName  string `json:"roleName"`
	Status    string `json:"status"`
}

type RespondResponse struct {
	ProjectId     string `json:"projectId"`
	RequestId     string `json:"requestId"`
	Status        string `json:"status"`
	ProjectStatus string `json:"projectStatus"`
}

type ProjectStatusResponse struct {
	ProjectId     string `json:"projectId"`
	ProjectStatus string `json:"projectStatus"`
	IsVisible     bool   `json:"isVisible"`
}
