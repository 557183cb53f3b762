package response

import "time"

type ExchangeResponse struct {
	Id            string    `json:"id"`
	Requester     string    `json:"requester"`
	RequesterName string    `json:"requesterName,omitempty"`
	TargetUser    string    `json:"targetUser"`
	TargetName    string    `json:"targetName,omitempty"`
	SkillsOffered []string  `json:"skillsOffered"`
	SkillsWanted  []string  `json:"skillsWanted"`
	Message       string    `json:"message"`
	Status        string    `json:"status"`
	IsVisible     bool      `json:"isVisible"`
	CreatedAt     time.Time `json:"createdAt"`
}
