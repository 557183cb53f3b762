package request

type CreateExchangeRequest struct {
	TargetUser    string   `json:"targetUser"`
	SkillsOffered []string `json:"skillsOffered"`
	SkillsWanted  []string `json:"skillsWanted"`
	Message       string   `json:"message"`
}

type RespondExchangeRequest struct {
	Action string `json:"action"`
}
