package request

type RoleSlotRequest struct {
	RoleName         string   `json:"roleName"`
	RequiredSkills   []string `json:"requiredSkills"`
	NumberOfOpenings int      `json:"numberOfOpenings"`
}

type CreateProjectRequest struct {
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	RequiredRoles []RoleSlotRequest `json:"requiredRoles"`
}

type JoinProjectRequest struct {
	RoleName string `json:"roleName"`
}

type RespondJoinRequest struct {
	RequestId string `json:"requestId"`
	Action    string `json:"action"`
}
