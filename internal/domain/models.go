package domain

import "time"

// Статусы проекта
const (
	ProjectStatusOpen       = "Open"
	ProjectStatusInProgress = "In Progress"
	ProjectStatusCompleted  = "Completed"
	ProjectStatusArchived   = "Archived"
)

// Статусы заявки на роль
const (
	RequestStatusPending  = "Pending"
	RequestStatusAccepted = "Accepted"
	RequestStatusRejected = "Rejected"
)

// Статусы обмена навыками
const (
	ExchangeStatusPending   = "Pending"
	ExchangeStatusAccepted  = "Accepted"
	ExchangeStatusRejected  = "Rejected"
	ExchangeStatusCompleted = "Completed"
)

type Skill struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

type RoleSlot struct {
	RoleName         string   `json:"roleName"`
	RequiredSkills   []string `json:"requiredSkills"`
	NumberOfOpenings int      `json:"numberOfOpenings"`
	FilledPositions  int      `json:"filledPositions"`
}

type JoinRequest struct {
	Id        string    `json:"id"`
	UserId    string    `json:"user"`
	RoleName  string    `json:"roleName"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// HasOpenRole сообщает, осталась ли хотя бы одна роль с открытыми местами
func HasOpenRole(roles []RoleSlot) bool {
	for _, role := range roles {
		if role.FilledPositions < role.NumberOfOpenings {
			return true
		}
	}
	return false
}
